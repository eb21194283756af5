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

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// noopLogger is a singleton no-op logger used when no observability is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger. ObservabilityRecorder
// implementations use it as a safe default when logging is disabled.
func NoopLogger() *slog.Logger { return noopLogger }

// ObservabilityRecorder provides the unified metrics/tracing/logging
// lifecycle hooks around one request's dispatch (§8's "metrics, tracing,
// structured logs" ambient stack). Because Response is fully buffered
// (response.go) rather than a streamed http.ResponseWriter, OnRequestEnd
// receives the finished Response directly instead of needing a
// ResponseInfo-wrapped writer to recover status/size after the fact.
//
// Lifecycle:
//  1. Router calls OnRequestStart(ctx, req) before matching begins, and
//     gets back an enriched context plus an opaque state token.
//  2. The enriched context is always attached to the request, even when
//     state is nil (exclusion only skips OnRequestEnd, not enrichment).
//  3. Router calls OnRequestEnd(ctx, state, resp, routeName, routePattern)
//     once the pipeline has finished (or panicked and been recovered),
//     but only if state != nil.
type ObservabilityRecorder interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	OnRequestEnd(ctx context.Context, state any, resp *Response, routeName, routePattern string)
}

// noopRecorder is the default ObservabilityRecorder: it enriches nothing
// and records nothing, with OnRequestStart returning a nil state so
// OnRequestEnd is skipped entirely.
type noopRecorder struct{}

func (noopRecorder) OnRequestStart(ctx context.Context, _ *http.Request) (context.Context, any) {
	return ctx, nil
}

func (noopRecorder) OnRequestEnd(context.Context, any, *Response, string, string) {}
