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
	"slices"
	"strconv"
	"strings"

	"hostmux.dev/router"
)

// Option defines functional options for cors middleware configuration.
type Option func(*config)

// config holds the configuration for the cors middleware.
type config struct {
	allowedOrigins   []string
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
	allowAllOrigins  bool
	allowOriginFunc  func(origin string) bool
}

// defaultConfig returns the default configuration for cors middleware.
// Default configuration is restrictive for security.
func defaultConfig() *config {
	return &config{
		allowedOrigins:   []string{},
		allowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		allowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		exposedHeaders:   []string{},
		allowCredentials: false,
		maxAge:           3600,
		allowAllOrigins:  false,
		allowOriginFunc:  nil,
	}
}

// New returns a middleware that handles Cross-Origin Resource Sharing
// (CORS). It automatically handles preflight requests and sets
// appropriate CORS headers.
//
// Security considerations:
//   - Default configuration is restrictive (no origins allowed by default)
//   - Use WithAllowedOrigins() to specify exact origins
//   - Avoid WithAllowAllOrigins() unless building a public API
//   - When using credentials, cannot use wildcard origins
//
// Basic usage:
//
//	r.RegisterMiddleware("cors", cors.New(
//	    cors.WithAllowedOrigins("https://example.com"),
//	))
//
// Dynamic origin validation:
//
//	r.RegisterMiddleware("cors", cors.New(
//	    cors.WithAllowOriginFunc(func(origin string) bool {
//	        return strings.HasSuffix(origin, ".example.com")
//	    }),
//	))
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	allowedMethodsHeader := strings.Join(cfg.allowedMethods, ", ")
	allowedHeadersHeader := strings.Join(cfg.allowedHeaders, ", ")
	exposedHeadersHeader := ""
	if len(cfg.exposedHeaders) > 0 {
		exposedHeadersHeader = strings.Join(cfg.exposedHeaders, ", ")
	}
	maxAgeHeader := strconv.Itoa(cfg.maxAge)

	return func(c *router.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			c.Next()
			return
		}

		allowedOrigin := ""
		switch {
		case cfg.allowAllOrigins:
			allowedOrigin = "*"
		case cfg.allowOriginFunc != nil:
			if cfg.allowOriginFunc(origin) {
				allowedOrigin = origin
			}
		default:
			if slices.Contains(cfg.allowedOrigins, origin) {
				allowedOrigin = origin
			}
		}

		if allowedOrigin == "" {
			c.Next()
			return
		}

		if cfg.allowCredentials && allowedOrigin == "*" {
			c.Response.Headers.Set("Access-Control-Allow-Origin", origin)
			c.Response.Headers.Set("Access-Control-Allow-Credentials", "true")
		} else {
			c.Response.Headers.Set("Access-Control-Allow-Origin", allowedOrigin)
			if cfg.allowCredentials {
				c.Response.Headers.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if exposedHeadersHeader != "" {
			c.Response.Headers.Set("Access-Control-Expose-Headers", exposedHeadersHeader)
		}

		if c.Request.Method == http.MethodOptions {
			c.Response.Headers.Set("Access-Control-Allow-Methods", allowedMethodsHeader)
			c.Response.Headers.Set("Access-Control-Allow-Headers", allowedHeadersHeader)
			c.Response.Headers.Set("Access-Control-Max-Age", maxAgeHeader)
			c.Response.SetStatus(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
