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

package compiler

import "errors"

// Static sentinels for the five hard compile-time failures. Wrap with
// fmt.Errorf("...: %w", ErrX) to attach path/domain/name context.
var (
	ErrDuplicateRouteName = errors.New("compiler: duplicate route name")
	ErrUnknownMiddleware  = errors.New("compiler: unknown middleware name")
	ErrLocaleNotDeclared  = errors.New("compiler: locale not declared for domain")
	ErrMalformedSpec      = errors.New("compiler: malformed route spec")
	ErrInvalidConstraint  = errors.New("compiler: invalid constraint pattern")
)

// CompileError wraps one of the sentinels above with the location in the
// spec tree where it was raised.
type CompileError struct {
	Err    error
	Domain string
	Path   string
	Name   string
}

func (e *CompileError) Error() string {
	switch {
	case e.Name != "":
		return e.Err.Error() + ": name=" + e.Name + " domain=" + e.Domain + " path=" + e.Path
	default:
		return e.Err.Error() + ": domain=" + e.Domain + " path=" + e.Path
	}
}

func (e *CompileError) Unwrap() error { return e.Err }
