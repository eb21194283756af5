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

// Ambient request-scoped slots (§4.3, §9). The source relies on
// thread-local storage to make "current domain" and "locale" available
// to reverse URL helpers without threading them through every call. Go
// has no implicit thread-local, but it doesn't need one: each request
// already has its own *Context value, accessed by handlers and
// middleware directly and by reverse-URL helpers as Context methods. The
// isolation invariant in §5 ("concurrent requests observe independent
// slots") falls out for free from that — there is nothing to leak across
// goroutines because there is no shared ambient store to begin with.
//
// What the pipeline runner must still guarantee is the *lifecycle*: both
// slots are set right before the first middleware runs and cleared on
// every exit path. setAmbient/clearAmbient exist as named steps (rather
// than inlining field assignment at the call site) so that guarantee is
// visible at the one call site in dispatch.

func (c *Context) setAmbient(domain, locale string) {
	c.domain = domain
	c.locale = locale
}

func (c *Context) clearAmbient() {
	c.domain = ""
	c.locale = ""
}

// Domain returns the ambient current-domain slot for this request.
func (c *Context) Domain() string { return c.domain }

// Locale returns the ambient locale slot for this request; empty if the
// matched route was not localized.
func (c *Context) Locale() string { return c.locale }

// WithDomain scopes a temporary override of the ambient domain for the
// duration of fn, restoring the previous value on every exit path
// (including a panic propagating out of fn) — the scoped
// acquire/release pattern named in §6's with_domain.
func (c *Context) WithDomain(domain string, fn func()) {
	previous := c.domain
	c.domain = domain
	defer func() { c.domain = previous }()
	fn()
}
