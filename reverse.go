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
	"fmt"
	"net/url"
	"strings"

	"hostmux.dev/router/compiler"
)

// reverseOpts carries an explicit domain/locale override for one
// Path/URL call, applied before the ambient and default fallbacks (§4.4).
type reverseOpts struct {
	domain string
	locale string
}

// ReverseOption overrides the domain or locale used to resolve a
// Path/URL call, taking priority over both the ambient slot and the
// route's/domain's default.
type ReverseOption func(*reverseOpts)

// ForDomain pins reverse URL generation to domain, regardless of the
// ambient current-domain slot.
func ForDomain(domain string) ReverseOption {
	return func(o *reverseOpts) { o.domain = domain }
}

// ForLocale pins reverse URL generation to locale, regardless of the
// ambient locale slot or the domain's default.
func ForLocale(locale string) ReverseOption {
	return func(o *reverseOpts) { o.locale = locale }
}

// Path generates a path (no scheme/host) for the named route, filling
// in segment parameters from params and appending any leftover entries
// as a query string (§4.4).
func (r *Router) Path(name string, params map[string]string, opts ...ReverseOption) (string, error) {
	return r.path(name, params, "", "", opts)
}

// URL generates an absolute URL (scheme + host + path) for the named
// route. scheme is used as-is (e.g. "https"); pass "" to default to
// "https".
func (r *Router) URL(name, scheme string, params map[string]string, opts ...ReverseOption) (string, error) {
	p, domain, err := r.pathWithDomain(name, params, "", "", opts)
	if err != nil {
		return "", err
	}
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + domain + p, nil
}

func (c *Context) path(name string, params map[string]string, opts ...ReverseOption) (string, error) {
	if c.router == nil {
		return "", ErrRouteNotFound
	}
	return c.router.path(name, params, c.domain, c.locale, opts)
}

// Path generates a path for the named route, resolving domain/locale
// from this request's ambient slots when no explicit override is given.
func (c *Context) Path(name string, params map[string]string, opts ...ReverseOption) (string, error) {
	return c.path(name, params, opts...)
}

// URL generates an absolute URL for the named route using this
// request's ambient domain as the host, unless overridden.
func (c *Context) URL(name, scheme string, params map[string]string, opts ...ReverseOption) (string, error) {
	p, domain, err := c.router.pathWithDomain(name, params, c.domain, c.locale, opts)
	if err != nil {
		return "", err
	}
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + domain + p, nil
}

func (r *Router) path(name string, params map[string]string, ambientDomain, ambientLocale string, opts []ReverseOption) (string, error) {
	p, _, err := r.pathWithDomain(name, params, ambientDomain, ambientLocale, opts)
	return p, err
}

func (r *Router) pathWithDomain(name string, params map[string]string, ambientDomain, ambientLocale string, opts []ReverseOption) (string, string, error) {
	var o reverseOpts
	for _, opt := range opts {
		opt(&o)
	}

	t := r.table.Load()
	entry, ok := t.names.Lookup(name)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}

	domain := o.domain
	if domain == "" {
		domain = ambientDomain
	}
	if domain == "" {
		domain = entry.Domain
	}
	if domain == "" {
		domain = r.defaultDomain
	}
	if domain == "" {
		return "", "", ErrNoDomain
	}

	locale := o.locale
	if locale == "" {
		locale = ambientLocale
	}
	if locale == "" {
		locale = r.domainDefaultLocale(domain)
	}

	template := entry.PathTemplate
	segments := entry.Segments
	if locale != "" {
		if lt, ok := entry.LocalizedTemplates[locale]; ok {
			template = lt
			segs, err := compiler.ParseSegments(lt)
			if err != nil {
				return "", "", err
			}
			segments = segs
		} else if len(entry.LocalizedTemplates) > 0 {
			return "", "", fmt.Errorf("%w: %s has no template for locale %s", ErrLocaleUnavailable, name, locale)
		}
	}

	built, used, err := buildPath(template, segments, params)
	if err != nil {
		return "", "", err
	}

	leftover := url.Values{}
	for k, v := range params {
		if !used[k] {
			leftover.Add(k, v)
		}
	}
	if len(leftover) > 0 {
		built += "?" + leftover.Encode()
	}
	return built, domain, nil
}

func buildPath(template string, segments []compiler.Segment, params map[string]string) (string, map[string]bool, error) {
	used := make(map[string]bool)
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		switch seg.Kind {
		case compiler.SegmentLiteral:
			b.WriteString(seg.Value)
		case compiler.SegmentParam:
			v, ok := params[seg.Value]
			if !ok {
				return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, seg.Value)
			}
			used[seg.Value] = true
			b.WriteString(url.PathEscape(v))
		case compiler.SegmentWildcard:
			if seg.Value != "" {
				v, ok := params[seg.Value]
				if !ok {
					return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, seg.Value)
				}
				used[seg.Value] = true
				b.WriteString(v)
			}
		}
	}
	if b.Len() == 0 {
		return "/", used, nil
	}
	return b.String(), used, nil
}
