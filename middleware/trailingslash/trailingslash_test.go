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

package trailingslash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostmux.dev/router"
	"hostmux.dev/router/compiler"
)

func buildRouter(t *testing.T, mw router.MiddlewareFunc) *router.Router {
	t.Helper()
	r := router.New(router.WithTrailingSlash(router.TrailingSlashIgnore, 0))
	r.RegisterHandler("ok", func(*router.Context) any {
		return map[string]string{"message": "ok"}
	})
	r.RegisterMiddleware("trailingslash", mw)

	b := compiler.NewBuilder()
	d := b.Domain("*")
	d.Use("trailingslash")
	d.Path("users").Get("ok").As("users.index")
	d.Path("users").Path(":id").Get("ok").As("users.show")

	_, err := r.LoadSpec(b.Build())
	require.NoError(t, err)
	return r
}

func TestTrailingSlash_RemovePolicyRedirectsSlashToSlashless(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithPolicy(PolicyRemove)))

	// The declared route is "/users/:id" and buildRouter's Router ignores
	// trailing slashes, so both variants match before this middleware
	// runs; it only normalizes the already-matched request.
	req := httptest.NewRequest(http.MethodGet, "/users/7/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/users/7", w.Header().Get("Location"))
}

func TestTrailingSlash_RemovePolicyPassesThroughSlashlessPath(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithPolicy(PolicyRemove)))

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTrailingSlash_AddPolicyRedirectsSlashlessToSlash(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithPolicy(PolicyAdd)))

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/users/7/", w.Header().Get("Location"))
}

func TestTrailingSlash_RootPathNeverRedirected(t *testing.T) {
	t.Parallel()
	r := router.New()
	r.RegisterHandler("ok", func(*router.Context) any { return map[string]string{"message": "ok"} })
	r.RegisterMiddleware("trailingslash", New(WithPolicy(PolicyAdd)))

	b := compiler.NewBuilder()
	d := b.Domain("*")
	d.Use("trailingslash")
	d.Path("").Get("ok").As("root")

	_, err := r.LoadSpec(b.Build())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTrailingSlash_StrictPolicyLeavesPathUntouched(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithPolicy(PolicyStrict)))

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTrailingSlash_QueryStringPreservedOnRedirect(t *testing.T) {
	t.Parallel()
	r := buildRouter(t, New(WithPolicy(PolicyRemove)))

	req := httptest.NewRequest(http.MethodGet, "/users/7/?page=2&sort=name", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/users/7?page=2&sort=name", w.Header().Get("Location"))
}
