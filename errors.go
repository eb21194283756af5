// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import "errors"

// Static errors for better error handling and testing.
// These should be wrapped with fmt.Errorf and %w when context is needed.
var (
	// Reverse-helper errors (§4.4, §7).
	ErrRouteNotFound     = errors.New("router: route not found")
	ErrMissingParam      = errors.New("router: missing required parameter")
	ErrLocaleUnavailable = errors.New("router: locale not available for route")
	ErrNoDomain          = errors.New("router: no domain available (no explicit, ambient, or default domain)")

	// Adapter / context errors.
	ErrResponseWriterNotHijacker = errors.New("router: responseWriter does not implement http.Hijacker")
	ErrResponseAlreadySent       = errors.New("router: response already sent")

	// Configuration errors.
	ErrStaticRootRequired = errors.New("router: static_root must be set when serve_static is enabled")
)
