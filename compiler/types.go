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

package compiler

import "regexp"

// SegmentKind tags a path Segment as a literal, a single-segment
// parameter, or a greedy wildcard.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentParam
	SegmentWildcard
)

// Segment is one normalized piece of a path template.
type Segment struct {
	Kind SegmentKind
	// Value holds the literal text for SegmentLiteral, or the captured
	// name for SegmentParam/SegmentWildcard (empty for a bare "*").
	Value string
}

// Constraint binds a compiled regex to a parameter name. It is evaluated
// after structural match, before a route is accepted.
type Constraint struct {
	Param   string
	Pattern *regexp.Regexp
}

// MiddlewareRef is the identity token middleware deduplication keys on.
// Two references to the same registered middleware resolve to the same
// *MiddlewareRef pointer, so "dedup by identity" is pointer equality.
type MiddlewareRef struct {
	Name string
	Fn   any
}

// CompiledRoute is the immutable record the route compiler emits for one
// (domain, method, path) combination. Handler and the entries of
// Middleware are opaque references resolved once at compile time; nothing
// downstream interprets them by name again.
type CompiledRoute struct {
	Domain       string
	Method       string
	PathTemplate string
	Segments     []Segment
	Handler      any
	Name         string
	Middleware   []*MiddlewareRef
	Constraints  []Constraint
	Locale       string
	ParamNames   []string

	// RedirectsFrom lists literal paths that should 301/302 to
	// PathTemplate; RedirectStatus is the status to use (default 301).
	RedirectsFrom  []string
	RedirectStatus int

	// Sitemap and Meta are opaque pass-through metadata; the compiler
	// never interprets them.
	Sitemap map[string]any
	Meta    map[string]any
}

// NameEntry is what the NameIndex stores per route name: enough to drive
// reverse URL generation without re-walking the compiled table.
type NameEntry struct {
	Domain string
	// PathTemplate and Segments describe the canonical (non-localized,
	// or last-declared-locale) template; LocalizedTemplates carries the
	// per-locale template strings for routes expanded via `localized:`.
	PathTemplate       string
	Segments           []Segment
	LocalizedTemplates map[string]string
	RequiredParams     []string
}

// NameIndex maps a route's declared name to its canonical reverse-URL
// metadata. Names are unique across the whole compiled table; locale
// expansions of the same route share one NameIndex entry by design.
type NameIndex struct {
	entries map[string]*NameEntry
}

// NewNameIndex returns an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{entries: make(map[string]*NameEntry)}
}

// Lookup returns the entry registered for name, if any.
func (idx *NameIndex) Lookup(name string) (*NameEntry, bool) {
	e, ok := idx.entries[name]
	return e, ok
}

// Names returns every registered route name, in no particular order.
func (idx *NameIndex) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for n := range idx.entries {
		names = append(names, n)
	}
	return names
}

// Warning is a non-fatal compile-time diagnostic (incomplete locale
// coverage for a route).
type Warning struct {
	Domain  string
	Route   string
	Message string
}

// Table is the flat, ordered output of Compile: one CompiledRoute per
// emitted (domain, method, path[, locale]) combination. The router
// package's trie builder consumes this to build the per-domain matching
// structure; Table itself carries no matching logic.
type Table struct {
	Routes []*CompiledRoute
}
