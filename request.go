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

// This file contains request information methods for the Context type:
// convenient access to path parameters, query parameters, headers, and
// the domain/locale metadata attached to the matched route.

import (
	"encoding/json"
	"io"
	"strings"
)

// Param returns the value captured for a named path parameter (including
// a trailing wildcard's capture), or "" if it wasn't part of the match.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// AllParams returns a copy of every captured path parameter, safe for the
// caller to retain or mutate.
func (c *Context) AllParams() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

// Query returns the first value of a URL query parameter, or "" if absent.
func (c *Context) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// QueryDefault returns the first value of a URL query parameter, or def
// if it was not supplied.
func (c *Context) QueryDefault(name, def string) string {
	values := c.Request.URL.Query()
	if vs, ok := values[name]; ok && len(vs) > 0 {
		return vs[0]
	}
	return def
}

// Header returns the first value of a request header.
func (c *Context) Header(name string) string {
	return c.Request.Header.Get(name)
}

// Host returns the request's Host header, stripped of any port.
func (c *Context) Host() string {
	host := c.Request.Host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}

// Method returns the request's HTTP method.
func (c *Context) Method() string {
	return c.Request.Method
}

// Path returns the request's URL path.
func (c *Context) Path() string {
	return c.Request.URL.Path
}

// Body reads and returns the full request body. It does not cache the
// result — calling it twice on a non-replayable body returns an empty
// slice the second time, matching the one-shot semantics of
// http.Request.Body.
func (c *Context) Body() ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	defer c.Request.Body.Close()
	return io.ReadAll(c.Request.Body)
}

// BindJSON decodes the request body as JSON into v.
func (c *Context) BindJSON(v any) error {
	body, err := c.Body()
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// AvailableLocales returns the locales declared for the matched request's
// domain, or nil if the domain declares none.
func (c *Context) AvailableLocales() []string {
	if c.router == nil {
		return nil
	}
	return c.router.domainLocales(c.domain)
}

// DefaultLocale returns the matched domain's default locale, or "" if
// none is configured.
func (c *Context) DefaultLocale() string {
	if c.router == nil {
		return ""
	}
	return c.router.domainDefaultLocale(c.domain)
}

// ClientIP returns the first entry of the X-Forwarded-For header when
// that header is present, and otherwise RemoteAddr with any port
// stripped. The header is taken as-is: no check is made that the request
// came through a trusted proxy.
func (c *Context) ClientIP() string {
	if fwd := c.Request.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host := c.Request.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}
