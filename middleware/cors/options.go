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

// Package cors provides middleware for handling Cross-Origin Resource
// Sharing (CORS) preflight and actual requests.
package cors

// WithAllowedOrigins sets the exact list of origins allowed to make
// cross-origin requests. Ignored when WithAllowAllOrigins or
// WithAllowOriginFunc is also set, since those take precedence.
//
// Example:
//
//	cors.New(cors.WithAllowedOrigins("https://example.com", "https://app.example.com"))
func WithAllowedOrigins(origins ...string) Option {
	return func(cfg *config) {
		cfg.allowedOrigins = origins
	}
}

// WithAllowAllOrigins allows any origin by reflecting "*" in the
// Access-Control-Allow-Origin header. Avoid combining with
// WithAllowCredentials(true) for origin-specific credentialed requests;
// when both are set the middleware still echoes the specific origin
// rather than "*", since browsers reject "*" with credentials.
//
// Example:
//
//	cors.New(cors.WithAllowAllOrigins(true))
func WithAllowAllOrigins(enabled bool) Option {
	return func(cfg *config) {
		cfg.allowAllOrigins = enabled
	}
}

// WithAllowOriginFunc sets a predicate used to decide whether an origin
// is allowed, for validation that can't be expressed as a static list
// (subdomain matching, dynamic allowlists). Takes precedence over
// WithAllowedOrigins.
//
// Example:
//
//	cors.New(cors.WithAllowOriginFunc(func(origin string) bool {
//	    return strings.HasSuffix(origin, ".example.com")
//	}))
func WithAllowOriginFunc(fn func(origin string) bool) Option {
	return func(cfg *config) {
		cfg.allowOriginFunc = fn
	}
}

// WithAllowedMethods sets the methods advertised in
// Access-Control-Allow-Methods on a preflight response.
// Default: GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS
//
// Example:
//
//	cors.New(cors.WithAllowedMethods("GET", "POST", "PUT"))
func WithAllowedMethods(methods ...string) Option {
	return func(cfg *config) {
		cfg.allowedMethods = methods
	}
}

// WithAllowedHeaders sets the headers advertised in
// Access-Control-Allow-Headers on a preflight response.
// Default: Origin, Content-Type, Accept, Authorization
//
// Example:
//
//	cors.New(cors.WithAllowedHeaders("Content-Type", "Authorization"))
func WithAllowedHeaders(headers ...string) Option {
	return func(cfg *config) {
		cfg.allowedHeaders = headers
	}
}

// WithExposedHeaders sets the headers exposed to the browser's
// JavaScript via Access-Control-Expose-Headers on an actual response.
//
// Example:
//
//	cors.New(cors.WithExposedHeaders("X-Request-ID", "X-Rate-Limit"))
func WithExposedHeaders(headers ...string) Option {
	return func(cfg *config) {
		cfg.exposedHeaders = headers
	}
}

// WithAllowCredentials sets Access-Control-Allow-Credentials on
// responses, signaling that the browser may expose the response to
// client-side code when the request was made with credentials.
// Default: false
//
// Example:
//
//	cors.New(cors.WithAllowedOrigins("https://example.com"), cors.WithAllowCredentials(true))
func WithAllowCredentials(enabled bool) Option {
	return func(cfg *config) {
		cfg.allowCredentials = enabled
	}
}

// WithMaxAge sets Access-Control-Max-Age, in seconds, controlling how
// long a browser may cache a preflight response.
// Default: 3600
//
// Example:
//
//	cors.New(cors.WithMaxAge(7200))
func WithMaxAge(seconds int) Option {
	return func(cfg *config) {
		cfg.maxAge = seconds
	}
}
