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

package otelobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"hostmux.dev/router"
	"hostmux.dev/router/compiler"
)

func TestRecorder_RecordsRequestMetrics(t *testing.T) {
	t.Parallel()
	rec, err := New(WithServiceName("test-service"))
	require.NoError(t, err)

	r := router.New(router.WithObservability(rec))
	r.RegisterHandler("ok", func(*router.Context) any {
		return map[string]string{"message": "ok"}
	})

	b := compiler.NewBuilder()
	d := b.Domain("*")
	d.Path("widgets").Get("ok").As("widgets.index")
	_, err = r.LoadSpec(b.Build())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	scrape := httptest.NewRecorder()
	rec.MetricsHandler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := scrape.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route_name="widgets.index"`)
}

func TestRecorder_RecordsErrorStatus(t *testing.T) {
	t.Parallel()
	rec, err := New()
	require.NoError(t, err)

	r := router.New(router.WithObservability(rec))
	r.RegisterHandler("boom", func(c *router.Context) any {
		c.Response.SetStatus(http.StatusInternalServerError)
		return nil
	})

	b := compiler.NewBuilder()
	d := b.Domain("*")
	d.Path("boom").Get("boom").As("boom")
	_, err = r.LoadSpec(b.Build())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	scrape := httptest.NewRecorder()
	rec.MetricsHandler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.True(t, strings.Contains(scrape.Body.String(), "http_errors_total"))
}

func TestNew_StdoutProvider(t *testing.T) {
	t.Parallel()
	rec, err := New(WithProvider(StdoutProvider))
	require.NoError(t, err)
	assert.Nil(t, rec.MetricsHandler(), "stdout provider exposes no scrape handler")
}

func TestRecorder_OnRequestStartOpensASpan(t *testing.T) {
	t.Parallel()
	rec, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	req := httptest.NewRequest(http.MethodGet, "/widgets/7", nil)
	ctx, state := rec.OnRequestStart(req.Context(), req)

	span := trace.SpanFromContext(ctx)
	assert.True(t, span.SpanContext().IsValid(), "OnRequestStart must put a live span on the returned context")

	st, ok := state.(*requestState)
	require.True(t, ok)
	require.NotNil(t, st.span)
}

func TestRecorder_OnRequestEndClosesTheSpanStartedByOnRequestStart(t *testing.T) {
	t.Parallel()
	rec, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	req := httptest.NewRequest(http.MethodGet, "/widgets/7", nil)
	ctx, state := rec.OnRequestStart(req.Context(), req)

	resp := &router.Response{Status: http.StatusNotFound, Headers: make(http.Header)}
	assert.NotPanics(t, func() {
		rec.OnRequestEnd(ctx, state, resp, "widgets.show", "/widgets/:id")
	}, "ending a request whose handler returned a 4xx must not panic while recording span status")
}

func TestRecorder_ShutdownIsSafeWithoutTracing(t *testing.T) {
	t.Parallel()
	var rec Recorder
	assert.NoError(t, rec.Shutdown(context.Background()), "Shutdown on a zero-value Recorder (no tracerProvider) must be a no-op")
}
