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
	"strings"

	"hostmux.dev/router/compiler"
)

// domainEntry is one compiled domain's route tree plus the locale
// metadata a request matched against it needs (AvailableLocales,
// DefaultLocale, §4.3).
type domainEntry struct {
	pattern            string
	root               *trieNode
	locales            []string
	defaultLocale      string
	rootLocaleRedirect bool
}

// domainTable is the immutable, compiled-once structure the matcher
// resolves a request's Host header against (§2): an exact match first,
// then ordered wildcard-subdomain patterns (`*.suffix`), then a single
// wildcard fallback (`*`). Built once by Compile/buildDomainTable and
// swapped in atomically by the Router — never mutated after a request
// can observe it.
type domainTable struct {
	exact              map[string]*domainEntry
	wildcardSubdomains []*domainEntry // ordered as declared
	wildcardFallback   *domainEntry
}

func newDomainTable() *domainTable {
	return &domainTable{exact: make(map[string]*domainEntry)}
}

func (dt *domainTable) entryFor(pattern string) *domainEntry {
	if pattern == "*" {
		if dt.wildcardFallback == nil {
			dt.wildcardFallback = &domainEntry{pattern: pattern, root: newTrieNode()}
		}
		return dt.wildcardFallback
	}
	if strings.HasPrefix(pattern, "*.") {
		for _, e := range dt.wildcardSubdomains {
			if e.pattern == pattern {
				return e
			}
		}
		e := &domainEntry{pattern: pattern, root: newTrieNode()}
		dt.wildcardSubdomains = append(dt.wildcardSubdomains, e)
		return e
	}
	e, ok := dt.exact[pattern]
	if !ok {
		e = &domainEntry{pattern: pattern, root: newTrieNode()}
		dt.exact[pattern] = e
	}
	return e
}

// resolve implements §2's domain resolution order: exact match, then the
// first declared wildcard-subdomain pattern whose suffix matches, then
// the wildcard fallback. Returns the matched domainEntry and, for a
// wildcard-subdomain match, the captured subdomain prefix.
func (dt *domainTable) resolve(host string) (*domainEntry, string, bool) {
	if e, ok := dt.exact[host]; ok {
		return e, "", true
	}
	for _, e := range dt.wildcardSubdomains {
		suffix := strings.TrimPrefix(e.pattern, "*")
		if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			prefix := strings.TrimSuffix(host, suffix)
			return e, prefix, true
		}
	}
	if dt.wildcardFallback != nil {
		return dt.wildcardFallback, "", true
	}
	return nil, "", false
}

// buildDomainTable groups a compiled Table's flat route list by domain
// pattern and inserts each route's segments into that domain's trie.
func buildDomainTable(table *compiler.Table, spec *compiler.Spec) *domainTable {
	dt := newDomainTable()
	for _, route := range table.Routes {
		entry := dt.entryFor(route.Domain)
		entry.root.insert(route.Segments, route)
	}
	if spec != nil {
		for _, dn := range spec.Domains {
			entry := dt.entryFor(dn.Name)
			entry.locales = dn.Locales
			entry.defaultLocale = dn.DefaultLocale
			entry.rootLocaleRedirect = dn.RootLocaleRedirect
		}
	}
	return dt
}
