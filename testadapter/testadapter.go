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

// Package testadapter provides an in-memory router.Adapter for driving a
// Router's compiled route table in tests without a live net/http
// listener, the way the teacher's own pool_test.go builds bare Contexts
// to exercise pipeline behavior directly.
package testadapter

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"hostmux.dev/router"
)

// MemoryAdapter wraps a router.RouterAdapter with request-building
// helpers, so tests can call Get/Post/Do instead of constructing
// *http.Request by hand.
type MemoryAdapter struct {
	inner router.RouterAdapter
}

// New builds a MemoryAdapter over r.
func New(r *router.Router) *MemoryAdapter {
	return &MemoryAdapter{inner: router.RouterAdapter{Router: r}}
}

// Do dispatches an arbitrary *http.Request and returns the buffered Response.
func (m *MemoryAdapter) Do(req *http.Request) *router.Response {
	return m.inner.Dispatch(req)
}

// Get builds and dispatches a GET request against path on host.
func (m *MemoryAdapter) Get(host, path string) *router.Response {
	return m.Request(http.MethodGet, host, path, nil)
}

// Post builds and dispatches a POST request against path on host, with body
// as the request body ("" for an empty body).
func (m *MemoryAdapter) Post(host, path string, body string) *router.Response {
	req := httptest.NewRequest(http.MethodPost, targetURL(host, path), strings.NewReader(body))
	return m.Do(req)
}

// Request builds and dispatches a request of the given method.
func (m *MemoryAdapter) Request(method, host, path string, body *strings.Reader) *router.Response {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, targetURL(host, path), body)
	} else {
		req = httptest.NewRequest(method, targetURL(host, path), nil)
	}
	req.Host = host
	return m.Do(req)
}

func targetURL(host, path string) string {
	u := url.URL{Scheme: "https", Host: host, Path: path}
	return u.String()
}
