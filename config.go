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

// Option configures a Router at construction time, following the
// teacher's functional-options pattern (one With<Thing> constructor per
// concern, applied in New before defaults are filled in).
type Option func(*Router)

// TrailingSlashMode selects how a request path differing from a matched
// route only by a trailing slash is resolved (§4.2, §6).
type TrailingSlashMode int

const (
	// TrailingSlashStrict leaves the path as-is: a trailing-slash
	// mismatch is a 404, just like any other unmatched path. Default.
	TrailingSlashStrict TrailingSlashMode = iota
	// TrailingSlashIgnore silently matches the stripped path, with no
	// redirect.
	TrailingSlashIgnore
	// TrailingSlashRedirect redirects to the stripped path (status from
	// WithTrailingSlash, default 301) whenever the stripped path exists.
	TrailingSlashRedirect
)

// WithTrailingSlash selects the trailing-slash policy applied to a
// request whose path differs from a matched route only by a trailing
// slash (§4.2). redirectStatus is only consulted under
// TrailingSlashRedirect (typically 301).
func WithTrailingSlash(mode TrailingSlashMode, redirectStatus int) Option {
	return func(r *Router) {
		r.trailingSlashMode = mode
		r.trailingSlashStatus = redirectStatus
	}
}

// WithDefaultDomain sets the domain pattern used when a request's Host
// header fails to resolve against the compiled domain table and no
// wildcard fallback domain is declared (§4.6, §2).
func WithDefaultDomain(domain string) Option {
	return func(r *Router) {
		r.defaultDomain = domain
	}
}

// WithNotFoundHandler overrides the handler invoked when no route
// matches a request (§4.6).
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(r *Router) {
		r.notFoundHandler = h
	}
}

// WithErrorHandler overrides how a panic recovered from the pipeline (or
// an error surfaced by middleware) is converted into a Response (§4.6).
func WithErrorHandler(h func(*Context, any) *Response) Option {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// WithStaticAssets enables the non-streaming static asset boundary step
// (§5): GET requests under urlPrefix that no route matches are served
// from root via os.ReadFile. A matched route always wins; static files
// are consulted only after the matcher misses.
func WithStaticAssets(urlPrefix, root string) Option {
	return func(r *Router) {
		r.serveStatic = true
		r.staticPrefix = urlPrefix
		r.staticRoot = root
	}
}

// WithMIMEType registers (or overrides) the content type served for a
// file extension by the static asset boundary step, taking priority over
// mime.TypeByExtension's system defaults.
func WithMIMEType(ext, contentType string) Option {
	return func(r *Router) {
		if r.mimeTypes == nil {
			r.mimeTypes = make(map[string]string)
		}
		r.mimeTypes[ext] = contentType
	}
}

// WithMethodOverride enables the `_method` form-field / X-HTTP-Method-Override
// header override for POST requests (§10), folded in as a built-in
// pre-match step rather than a separate middleware package.
func WithMethodOverride(enabled bool) Option {
	return func(r *Router) {
		r.methodOverride = enabled
	}
}

// WithObservability installs the ObservabilityRecorder used for the
// request lifecycle's metrics/tracing/logging hooks (§8).
func WithObservability(rec ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = rec
	}
}

func (r *Router) applyDefaults() {
	if r.trailingSlashStatus == 0 {
		r.trailingSlashStatus = 301
	}
	if r.observability == nil {
		r.observability = noopRecorder{}
	}
	if r.mimeTypes == nil {
		r.mimeTypes = make(map[string]string)
	}
}
