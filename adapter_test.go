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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostmux.dev/router/compiler"
)

func TestRouterAdapter_DispatchReturnsBufferedResponse(t *testing.T) {
	t.Parallel()
	r := New()
	r.RegisterHandler("show", func(c *Context) any {
		return map[string]string{"id": c.Param("id")}
	})
	b := compiler.NewBuilder()
	b.Domain("shop.example.com").Path("widgets").Path(":id").Get("show").As("widgets.show")
	_, err := r.LoadSpec(b.Build())
	require.NoError(t, err)

	adapter := RouterAdapter{Router: r}
	req := httptest.NewRequest(http.MethodGet, "http://shop.example.com/widgets/7", nil)
	req.Host = "shop.example.com"

	resp := adapter.Dispatch(req)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), `"7"`)
}

func TestRouterAdapter_DispatchHandlesEmptyBodyResponse(t *testing.T) {
	t.Parallel()
	r := New()
	r.RegisterHandler("gone", func(c *Context) any {
		c.Response.Redirect(http.StatusFound, "/elsewhere")
		return nil
	})
	b := compiler.NewBuilder()
	b.Domain("shop.example.com").Path("moved").Get("gone").As("moved")
	_, err := r.LoadSpec(b.Build())
	require.NoError(t, err)

	adapter := RouterAdapter{Router: r}
	req := httptest.NewRequest(http.MethodGet, "http://shop.example.com/moved", nil)
	req.Host = "shop.example.com"

	resp := adapter.Dispatch(req)
	require.NotNil(t, resp, "an empty-body response must still produce a non-nil Response")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/elsewhere", resp.Headers.Get("Location"))
	assert.Empty(t, resp.Body)
}

func TestBufferingResponseWriter_HeaderWrittenOnceFirstWins(t *testing.T) {
	t.Parallel()
	b := &bufferingResponseWriter{}
	b.WriteHeader(http.StatusCreated)
	b.WriteHeader(http.StatusBadRequest) // must be ignored, matching http.ResponseWriter semantics
	_, _ = b.Write([]byte("hi"))

	require.NotNil(t, b.resp)
	assert.Equal(t, http.StatusCreated, b.resp.Status)
	assert.Equal(t, "hi", string(b.resp.Body))
}

func TestWriteResponse_CopiesHeadersStatusAndBody(t *testing.T) {
	t.Parallel()
	resp := newResponse()
	resp.SetStatus(http.StatusAccepted)
	resp.SetHeader("X-Test", "1")
	resp.Body = []byte("payload")

	w := httptest.NewRecorder()
	writeResponse(w, resp)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Test"))
	assert.Equal(t, "payload", w.Body.String())
}
