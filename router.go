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
	"net/http"
	"strings"
	"sync/atomic"

	"hostmux.dev/router/compiler"
)

// compiledTable is the immutable result of one Compile/Reload cycle: the
// domain-resolved trie, the name index for reverse URL generation, and
// the redirect shortcut table, all built together from one
// compiler.Table so a swap is atomic across all three. The Router holds
// a single atomic.Pointer to one of these — readers (ServeHTTP, Path/URL)
// never see a half-updated combination of tree/names/redirects (§2's
// "boot-time/controlled-maintenance recompilation" invariant).
type compiledTable struct {
	domains   *domainTable
	names     *compiler.NameIndex
	redirects *redirectTable
	spec      *compiler.Spec
}

// Router dispatches HTTP requests against a compiled route table. It
// implements http.Handler directly, the way the teacher's Router does,
// so it can be handed straight to http.ListenAndServe or wrapped by an
// Adapter (adapter.go) for transports other than net/http.
type Router struct {
	table    atomic.Pointer[compiledTable]
	registry *compiler.Registry

	trailingSlashMode   TrailingSlashMode
	trailingSlashStatus int
	defaultDomain       string
	notFoundHandler     HandlerFunc
	errorHandler        func(*Context, any) *Response
	serveStatic         bool
	staticPrefix        string
	staticRoot          string
	mimeTypes           map[string]string
	methodOverride      bool
	observability       ObservabilityRecorder
}

// New constructs a Router with an empty registry and route table. Call
// RegisterHandler/RegisterMiddleware to populate the registry, then
// Compile to load a parsed route spec before serving traffic.
func New(opts ...Option) *Router {
	r := &Router{registry: compiler.NewRegistry()}
	for _, opt := range opts {
		opt(r)
	}
	r.applyDefaults()
	r.table.Store(&compiledTable{domains: newDomainTable(), names: compiler.NewNameIndex(), redirects: &redirectTable{byDomain: map[string]map[string]redirectEntry{}}})
	return r
}

// RegisterHandler associates a symbolic handler name (a YAML spec's `to:`
// value) with a concrete HandlerFunc, for Compile to resolve later.
func (r *Router) RegisterHandler(name string, h HandlerFunc) {
	r.registry.RegisterHandler(name, h)
}

// RegisterMiddleware associates a symbolic middleware name (a `use:`
// entry) with one or more concrete MiddlewareFunc values, expanded in
// order wherever the name is referenced.
func (r *Router) RegisterMiddleware(name string, fns ...MiddlewareFunc) {
	boxed := make([]any, len(fns))
	for i, fn := range fns {
		boxed[i] = fn
	}
	r.registry.RegisterMiddleware(name, boxed...)
}

// Compile parses a declarative route spec, compiles it against the
// current registry, and atomically swaps it in as the table future
// requests are matched against (§1, §2). Routes registered under names
// the registry doesn't yet know return a CompileError and leave the
// previous table (if any) in place.
func (r *Router) Compile(yamlSpec []byte) ([]compiler.Warning, error) {
	spec, err := compiler.ParseYAML(yamlSpec)
	if err != nil {
		return nil, err
	}
	return r.load(spec)
}

// Reload re-runs Compile against a freshly parsed spec and swaps the
// result in, for the controlled-maintenance recompilation path named in
// §2 — existing in-flight requests keep dispatching against the table
// they already loaded since Go's GC keeps the old *compiledTable alive
// until the last reader drops it.
func (r *Router) Reload(yamlSpec []byte) ([]compiler.Warning, error) {
	return r.Compile(yamlSpec)
}

// LoadSpec compiles an already-parsed or programmatically-built
// (compiler.Builder) Spec and atomically swaps it in, the same way
// Compile does for a YAML document.
func (r *Router) LoadSpec(spec *compiler.Spec) ([]compiler.Warning, error) {
	return r.load(spec)
}

func (r *Router) load(spec *compiler.Spec) ([]compiler.Warning, error) {
	table, names, warnings, err := compiler.Compile(spec, r.registry)
	if err != nil {
		return warnings, err
	}
	domains := buildDomainTable(table, spec)
	redirects := buildRedirectTable(table)
	r.table.Store(&compiledTable{domains: domains, names: names, redirects: redirects, spec: spec})
	return warnings, nil
}

func (r *Router) domainLocales(domain string) []string {
	t := r.table.Load()
	if t == nil {
		return nil
	}
	if e, _, ok := t.domains.resolve(domain); ok {
		return e.locales
	}
	return nil
}

func (r *Router) domainDefaultLocale(domain string) string {
	t := r.table.Load()
	if t == nil {
		return ""
	}
	if e, _, ok := t.domains.resolve(domain); ok {
		return e.defaultLocale
	}
	return ""
}

// ServeHTTP implements http.Handler: it resolves the domain, short-circuits
// declarative redirects and the root-locale redirect, matches the request
// against the compiled domain table, falls back to static-asset serving
// only once the matcher misses, dispatches the pipeline, and writes the
// finished Response back through w.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t := r.table.Load()
	if t == nil {
		http.Error(w, "router: no routes compiled", http.StatusServiceUnavailable)
		return
	}

	ctx := req.Context()
	var obsState any
	if r.observability != nil {
		var enriched context.Context
		enriched, obsState = r.observability.OnRequestStart(ctx, req)
		if enriched != ctx {
			ctx = enriched
			req = req.WithContext(ctx)
		}
	}

	if r.methodOverride {
		applyMethodOverride(req)
	}

	resp := newResponse()

	// Request-time normalization (§4.2): host and path are matched
	// case-insensitively ("EXAMPLE.COM" / "/USERS" reaches the same route
	// as "example.com" / "/users"). req.URL.Path is already
	// percent-decoded by net/http. rawPath keeps the original case for
	// the static-asset short circuit, which is a filesystem lookup, not
	// part of the matcher, and must not be case-folded.
	rawPath := req.URL.Path
	host := strings.ToLower(hostOnly(req.Host))
	path := strings.ToLower(rawPath)

	domainEntry, subdomain, domainOK := t.domains.resolve(host)
	if !domainOK && r.defaultDomain != "" {
		if e, ok := t.domains.exact[r.defaultDomain]; ok {
			domainEntry, domainOK = e, true
		}
	}

	if !domainOK {
		if req.Method == http.MethodGet && r.tryServeStatic(resp, rawPath) {
			r.finish(w, req, ctx, obsState, resp, "", "_static")
			return
		}
		r.writeNotFound(w, req, ctx, obsState, resp)
		return
	}

	if path == "/" && domainEntry.rootLocaleRedirect && domainEntry.defaultLocale != "" {
		resp.Redirect(http.StatusFound, "/"+domainEntry.defaultLocale+"/")
		r.finish(w, req, ctx, obsState, resp, "", "_redirect")
		return
	}

	if redir, ok := t.redirects.lookup(domainEntry.pattern, path); ok {
		resp.Redirect(redir.status, redir.target)
		r.finish(w, req, ctx, obsState, resp, "", "_redirect")
		return
	}

	match, ok := domainEntry.root.match(path, req.Method)
	if !ok && path != "/" && strings.HasSuffix(path, "/") {
		stripped := trailingSlashTarget(path)
		switch r.trailingSlashMode {
		case TrailingSlashRedirect:
			if _, found := domainEntry.root.match(stripped, req.Method); found {
				resp.Redirect(r.trailingSlashStatus, stripped)
				r.finish(w, req, ctx, obsState, resp, "", "_redirect")
				return
			}
		case TrailingSlashIgnore:
			if m, found := domainEntry.root.match(stripped, req.Method); found {
				match, ok = m, found
			}
		}
	}
	if !ok {
		// A defined route always wins over a static file at the same
		// path (§4.5): static serving is only consulted after a miss.
		if req.Method == http.MethodGet && r.tryServeStatic(resp, rawPath) {
			r.finish(w, req, ctx, obsState, resp, "", "_static")
			return
		}
		r.writeNotFound(w, req, ctx, obsState, resp)
		return
	}

	c := acquireContext()
	c.Request = req
	c.Response = resp
	c.router = r
	c.subdomain = subdomain
	c.routeName = match.route.Name
	c.params = match.params
	c.middleware = match.route.Middleware
	c.handler, _ = match.route.Handler.(HandlerFunc)

	r.runWithRecovery(c, domainEntry.pattern, match.route.Locale)

	r.finish(w, req, ctx, obsState, resp, match.route.Name, match.route.PathTemplate)
	releaseContext(c)
}

func (r *Router) runWithRecovery(c *Context, domain, locale string) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.errorHandler != nil {
				if out := r.errorHandler(c, rec); out != nil {
					*c.Response = *out
				}
				return
			}
			c.Response.Status = http.StatusInternalServerError
			c.Response.Headers.Set("Content-Type", "text/plain; charset=utf-8")
			c.Response.Body = []byte("internal server error")
		}
	}()
	c.dispatch(domain, locale)
}

func (r *Router) writeNotFound(w http.ResponseWriter, req *http.Request, ctx context.Context, obsState any, resp *Response) {
	if r.notFoundHandler != nil {
		c := acquireContext()
		c.Request = req
		c.Response = resp
		c.router = r
		result := r.notFoundHandler(c)
		if out := normalize(result, resp); out != resp {
			*resp = *out
		}
		releaseContext(c)
	} else {
		resp.Status = http.StatusNotFound
		resp.Headers.Set("Content-Type", "text/plain; charset=utf-8")
		resp.Body = []byte("404 page not found")
	}
	r.finish(w, req, ctx, obsState, resp, "", "_not_found")
}

func (r *Router) finish(w http.ResponseWriter, req *http.Request, ctx context.Context, obsState any, resp *Response, routeName, routePattern string) {
	if r.observability != nil && obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, resp, routeName, routePattern)
	}
	writeResponse(w, resp)
}

func hostOnly(host string) string {
	for i := 0; i < len(host); i++ {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}

func trailingSlashTarget(path string) string {
	if len(path) > 0 && path[len(path)-1] == '/' {
		return path[:len(path)-1]
	}
	return path + "/"
}

// methodOverrideAllowed is the safe subset §4.6 restricts method-override
// targets to: idempotent or route-scoped verbs that can't be used to
// smuggle a GET/POST into something a CSRF-unaware form shouldn't trigger.
var methodOverrideAllowed = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// applyMethodOverride rewrites a POST request's method in place from the
// X-HTTP-Method-Override header, a `_method` query parameter, or a
// `_method` POST form field (checked in that order), restricted to
// methodOverrideAllowed — an unrecognized or disallowed override value
// leaves the request's method untouched.
func applyMethodOverride(req *http.Request) {
	if req.Method != http.MethodPost {
		return
	}
	override := req.Header.Get("X-HTTP-Method-Override")
	if override == "" {
		override = req.URL.Query().Get("_method")
	}
	if override == "" {
		if err := req.ParseForm(); err == nil {
			override = req.PostForm.Get("_method")
		}
	}
	if override == "" {
		return
	}
	override = strings.ToUpper(strings.TrimSpace(override))
	if methodOverrideAllowed[override] {
		req.Method = override
	}
}
