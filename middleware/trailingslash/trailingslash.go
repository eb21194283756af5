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

// Package trailingslash enforces a trailing-slash policy on requests
// that have already matched a route. The Router's own WithTrailingSlash
// option (config.go) runs before matching and owns redirects for
// unmatched paths; this middleware is for callers who mount the Router
// as a sub-handler under another framework and still want trailing-slash
// normalization applied to the requests that do reach it.
package trailingslash

import (
	"net/http"
	"strings"

	"hostmux.dev/router"
)

// Policy defines how a matched route's trailing slash is handled.
type Policy int

const (
	// PolicyRemove redirects paths with a trailing slash to the slash-less
	// form. The root path "/" is never redirected.
	PolicyRemove Policy = iota

	// PolicyAdd redirects paths without a trailing slash to the
	// slash-terminated form. The root path "/" is never redirected.
	PolicyAdd

	// PolicyStrict leaves the path untouched; mismatches were already
	// resolved (or rejected) by the Router's own matching step.
	PolicyStrict
)

// Option configures the trailingslash middleware.
type Option func(*config)

type config struct {
	policy Policy
}

func defaultConfig() *config {
	return &config{policy: PolicyRemove}
}

// WithPolicy sets the trailing slash policy. Default: PolicyRemove.
func WithPolicy(p Policy) Option {
	return func(c *config) { c.policy = p }
}

// New returns middleware that enforces a trailing-slash policy on
// already-matched requests.
//
// Example:
//
//	r.RegisterMiddleware("trailingslash", trailingslash.New(
//	    trailingslash.WithPolicy(trailingslash.PolicyAdd),
//	))
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		path := c.Request.URL.Path
		if path == "/" {
			c.Next()
			return
		}

		hasSlash := strings.HasSuffix(path, "/")

		switch cfg.policy {
		case PolicyRemove:
			if hasSlash {
				redirect308(c, strings.TrimSuffix(path, "/"))
				return
			}
		case PolicyAdd:
			if !hasSlash {
				redirect308(c, path+"/")
				return
			}
		case PolicyStrict:
			// Path already matched under the Router's own policy; nothing to do.
		}

		c.Next()
	}
}

func redirect308(c *router.Context, newPath string) {
	newURL := *c.Request.URL
	newURL.Path = newPath
	c.Response.SetStatus(http.StatusPermanentRedirect)
	c.Response.SetHeader("Location", newURL.String())
	c.Abort()
}
