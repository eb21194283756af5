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
	"mime"
	"os"
	"path/filepath"
	"strings"

	"hostmux.dev/router/compiler"
)

// redirectEntry is one literal-path short circuit: requests for `from`
// on a domain 301/302 straight to target without ever reaching the
// matcher (§4.5).
type redirectEntry struct {
	target string
	status int
}

// redirectTable is the compiled, per-domain lookup for `redirects_from`
// entries declared on routes.
type redirectTable struct {
	byDomain map[string]map[string]redirectEntry
}

func buildRedirectTable(table *compiler.Table) *redirectTable {
	rt := &redirectTable{byDomain: make(map[string]map[string]redirectEntry)}
	for _, route := range table.Routes {
		if len(route.RedirectsFrom) == 0 {
			continue
		}
		domainMap, ok := rt.byDomain[route.Domain]
		if !ok {
			domainMap = make(map[string]redirectEntry)
			rt.byDomain[route.Domain] = domainMap
		}
		status := route.RedirectStatus
		if status == 0 {
			status = 301
		}
		for _, from := range route.RedirectsFrom {
			domainMap[from] = redirectEntry{target: route.PathTemplate, status: status}
		}
	}
	return rt
}

func (rt *redirectTable) lookup(domain, path string) (redirectEntry, bool) {
	domainMap, ok := rt.byDomain[domain]
	if !ok {
		return redirectEntry{}, false
	}
	e, ok := domainMap[path]
	return e, ok
}

// tryServeStatic is the non-streaming static asset boundary step (§4.5):
// when the request path falls under the configured prefix, the file is
// read whole with os.ReadFile (no http.FileServer, no range requests,
// no streaming) and written into resp in one shot. Reports whether it
// served anything. Callers only reach this after the matcher has
// already missed — a defined route always wins over a static file at
// the same path — and only for GET requests.
func (r *Router) tryServeStatic(resp *Response, path string) bool {
	if !r.serveStatic {
		return false
	}
	prefix := r.staticPrefix
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rel := strings.TrimPrefix(path, prefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return false
	}
	full := filepath.Join(r.staticRoot, filepath.Clean("/"+rel))
	root := filepath.Clean(r.staticRoot)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return false // path traversal guard
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return false
	}

	ext := filepath.Ext(full)
	contentType := r.mimeTypes[ext]
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp.Status = 200
	resp.Headers.Set("Content-Type", contentType)
	resp.Body = data
	return true
}
