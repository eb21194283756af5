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

package cors

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostmux.dev/router"
	"hostmux.dev/router/compiler"
)

// buildRouter wires a GET, POST, and OPTIONS route for "/test" behind the
// given cors middleware, through the declarative compiler.
func buildRouter(t *testing.T, mw router.MiddlewareFunc) *router.Router {
	t.Helper()
	r := router.New()
	r.RegisterHandler("ok", func(*router.Context) any {
		return map[string]string{"message": "ok"}
	})
	r.RegisterHandler("noop", func(*router.Context) any { return nil })
	r.RegisterMiddleware("cors", mw)

	b := compiler.NewBuilder()
	d := b.Domain("*")
	d.Use("cors")
	p := d.Path("test")
	p.Get("ok").As("test-get")
	p.Post("ok").As("test-post")
	p.Options("noop").As("test-options")

	_, err := r.LoadSpec(b.Build())
	require.NoError(t, err)
	return r
}

func doRequest(r *router.Router, method, path, origin string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_NoCORSRequest(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithAllowAllOrigins(true)))

	w := doRequest(r, http.MethodGet, "/test", "", nil)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), "No CORS headers for non-CORS request")
}

func TestCORS_AllowAllOrigins(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithAllowAllOrigins(true)))

	w := doRequest(r, http.MethodGet, "/test", "https://example.com", nil)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowedOrigins(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithAllowedOrigins("https://example.com", "https://app.example.com")))

	tests := []struct {
		name           string
		origin         string
		expectedOrigin string
	}{
		{"allowed origin 1", "https://example.com", "https://example.com"},
		{"allowed origin 2", "https://app.example.com", "https://app.example.com"},
		{"disallowed origin", "https://evil.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := doRequest(r, http.MethodGet, "/test", tt.origin, nil)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_AllowOriginFunc(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithAllowOriginFunc(func(origin string) bool {
		return strings.HasSuffix(origin, ".example.com")
	})))

	tests := []struct {
		name           string
		origin         string
		expectedOrigin string
	}{
		{"subdomain allowed", "https://app.example.com", "https://app.example.com"},
		{"another subdomain allowed", "https://api.example.com", "https://api.example.com"},
		{"different domain disallowed", "https://evil.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := doRequest(r, http.MethodGet, "/test", tt.origin, nil)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(
		WithAllowedOrigins("https://example.com"),
		WithAllowedMethods("GET", "POST", "PUT"),
		WithAllowedHeaders("Content-Type", "Authorization"),
		WithMaxAge(7200),
	))

	w := doRequest(r, http.MethodOptions, "/test", "https://example.com", func(req *http.Request) {
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "7200", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithAllowedOrigins("https://example.com")))

	w := doRequest(r, http.MethodOptions, "/test", "https://evil.com", nil)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Credentials(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(
		WithAllowedOrigins("https://example.com"),
		WithAllowCredentials(true),
	))

	w := doRequest(r, http.MethodGet, "/test", "https://example.com", nil)

	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_CredentialsWithAllOrigins(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(
		WithAllowAllOrigins(true),
		WithAllowCredentials(true),
	))

	w := doRequest(r, http.MethodGet, "/test", "https://example.com", nil)

	// When credentials are enabled, should return the specific origin instead of "*".
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_ExposedHeaders(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(
		WithAllowedOrigins("https://example.com"),
		WithExposedHeaders("X-Request-ID", "X-Rate-Limit"),
	))

	w := doRequest(r, http.MethodGet, "/test", "https://example.com", nil)

	assert.Equal(t, "X-Request-ID, X-Rate-Limit", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_DefaultConfig(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New())

	w := doRequest(r, http.MethodGet, "/test", "https://example.com", nil)

	// Default config has no allowed origins, so no CORS headers.
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ActualRequest(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithAllowedOrigins("https://example.com")))

	w := doRequest(r, http.MethodPost, "/test", "https://example.com", func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))

	// Should not have preflight headers on an actual request.
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
}
