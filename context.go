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

	"hostmux.dev/router/compiler"
)

// Context is the pipeline runner's per-request value: the incoming
// request, the in-progress Response, matched route metadata, and the
// ambient domain/locale slots. A Context is pooled (see pool.go) and must
// not be retained past the request it was handed for, matching the
// teacher's pooled-Context contract generalized to carry ambient slots
// instead of API-version state.
//
// ⚠️ THREAD SAFETY: Context is NOT thread-safe and must not be shared
// across goroutines spawned from a handler without explicit synchronization.
type Context struct {
	Request  *http.Request
	Response *Response

	router *Router

	domain    string
	locale    string
	subdomain string

	routeName string
	params    map[string]string

	middleware []*compiler.MiddlewareRef
	handler    HandlerFunc
	index      int
	aborted    bool
}

// reset clears a Context for return to the pool. Every field that could
// leak request state to the next borrower must be zeroed here.
func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.router = nil
	c.domain = ""
	c.locale = ""
	c.subdomain = ""
	c.routeName = ""
	c.params = nil
	c.middleware = nil
	c.handler = nil
	c.index = -1
	c.aborted = false
}

// Next advances the pipeline to the next middleware, or to the handler
// once every middleware has run.
func (c *Context) Next() {
	c.index++
	c.runCurrent()
}

func (c *Context) runCurrent() {
	if c.aborted {
		return
	}
	if c.index < len(c.middleware) {
		ref := c.middleware[c.index]
		switch mw := ref.Fn.(type) {
		case MiddlewareFunc:
			mw(c)
		case func(*Context):
			mw(c)
		default:
			// Compile does not check the shape of registered values, but
			// Router.RegisterMiddleware only accepts a MiddlewareFunc; an
			// unexpected value here only happens for a reference that
			// isn't callable, in which case skipping rather than panicking
			// keeps the rest of the chain running.
			c.Next()
		}
		return
	}
	if c.index == len(c.middleware) && c.handler != nil {
		result := c.handler(c)
		if out := normalize(result, c.Response); out != c.Response {
			*c.Response = *out
		}
	}
}

// Abort halts the pipeline: no further middleware or the handler will
// run, even if the current middleware subsequently calls Next.
func (c *Context) Abort() { c.aborted = true }

// IsAborted reports whether Abort has been called for this request.
func (c *Context) IsAborted() bool { return c.aborted }

// RouteName returns the matched route's name, or "" if it was unnamed.
func (c *Context) RouteName() string { return c.routeName }

// Subdomain returns the captured subdomain prefix when the match came
// from a wildcard-subdomain domain pattern (`*.suffix`); empty otherwise.
func (c *Context) Subdomain() string { return c.subdomain }

// dispatch runs the full pipeline for a matched route: it sets the
// ambient domain/locale slots, runs middleware then handler starting
// from index 0, and guarantees the slots are cleared on every exit path
// — including a panic propagating out of the chain, which recovery
// middleware further up the chain may or may not already have handled.
func (c *Context) dispatch(domain, locale string) {
	c.setAmbient(domain, locale)
	defer c.clearAmbient()
	c.index = -1
	c.Next()
}
