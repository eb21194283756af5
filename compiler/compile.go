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

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

var methodEmitOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}

// Compile runs the depth-first walk described for the route spec parser:
// resolve each node's own `use:` against inherited middleware, emit a
// CompiledRoute per method key (expanding localized defs into one record
// per declared locale), and recurse into path-segment children. The
// domain-level constraints key merges the same way middleware does —
// parent constraints apply unless overridden by a more specific one for
// the same parameter name.
func Compile(spec *Spec, reg *Registry) (*Table, *NameIndex, []Warning, error) {
	table := &Table{}
	idx := NewNameIndex()
	seenNames := make(map[string]bool)
	var warnings []Warning

	for _, dn := range spec.Domains {
		if err := validateLocaleTags(dn.Locales); err != nil {
			return nil, nil, nil, &CompileError{Err: err, Domain: dn.Name}
		}
		inheritedMW, err := resolveMiddleware(nil, dn.Use, dn.UseCleared, reg)
		if err != nil {
			return nil, nil, nil, &CompileError{Err: err, Domain: dn.Name}
		}
		w, err := walkPath(dn, dn.Root, "", inheritedMW, nil, reg, table, idx, seenNames)
		warnings = append(warnings, w...)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return table, idx, warnings, nil
}

// validateLocaleTags rejects a domain's declared locales up front if any
// isn't a well-formed BCP-47 tag, instead of letting a typo surface much
// later as a silent "no localized template" warning or a broken reverse
// URL. Uses golang.org/x/text/language rather than hand-rolling BCP-47
// parsing, matching the spec's declared canonicalization provider.
func validateLocaleTags(locales []string) error {
	for _, l := range locales {
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("%w: locale tag %q is not valid BCP-47: %v", ErrMalformedSpec, l, err)
		}
	}
	return nil
}

func resolveMiddleware(inherited []*MiddlewareRef, names []string, cleared bool, reg *Registry) ([]*MiddlewareRef, error) {
	base := inherited
	if cleared {
		base = nil
	}
	result := append([]*MiddlewareRef{}, base...)
	for _, name := range names {
		refs, ok := reg.ResolveMiddleware(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMiddleware, name)
		}
		result = dedupAppend(result, refs)
	}
	return result, nil
}

func mergeConstraintMaps(parent, own map[string]string) map[string]string {
	if len(parent) == 0 && len(own) == 0 {
		return nil
	}
	out := make(map[string]string, len(parent)+len(own))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range own {
		out[k] = v
	}
	return out
}

func walkPath(
	dn *DomainNode,
	pn *PathNode,
	currentPath string,
	inheritedMW []*MiddlewareRef,
	inheritedConstraints map[string]string,
	reg *Registry,
	table *Table,
	idx *NameIndex,
	seenNames map[string]bool,
) ([]Warning, error) {
	scopedMW, err := resolveMiddleware(inheritedMW, pn.Use, pn.UseCleared, reg)
	if err != nil {
		return nil, &CompileError{Err: err, Domain: dn.Name, Path: currentPath}
	}
	scopedConstraints := mergeConstraintMaps(inheritedConstraints, pn.Constraints)

	var warnings []Warning

	for _, method := range methodEmitOrder {
		rd, ok := pn.Methods[method]
		if !ok {
			continue
		}
		w, err := emitRoute(dn, method, currentPath, rd, scopedMW, scopedConstraints, reg, table, idx, seenNames)
		warnings = append(warnings, w...)
		if err != nil {
			return warnings, err
		}
	}

	for _, child := range pn.Children {
		childPath := joinPath(currentPath, child.Segment)
		w, err := walkPath(dn, child, childPath, scopedMW, scopedConstraints, reg, table, idx, seenNames)
		warnings = append(warnings, w...)
		if err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

func emitRoute(
	dn *DomainNode,
	method, currentPath string,
	rd *RouteDef,
	scopedMW []*MiddlewareRef,
	scopedConstraints map[string]string,
	reg *Registry,
	table *Table,
	idx *NameIndex,
	seenNames map[string]bool,
) ([]Warning, error) {
	routeMW, err := resolveMiddleware(scopedMW, rd.Use, rd.UseCleared, reg)
	if err != nil {
		return nil, &CompileError{Err: err, Domain: dn.Name, Path: currentPath, Name: rd.As}
	}
	handler, ok := reg.ResolveHandler(rd.To)
	if !ok {
		return nil, &CompileError{Err: fmt.Errorf("%w: handler %q not registered", ErrMalformedSpec, rd.To), Domain: dn.Name, Path: currentPath}
	}
	merged := mergeConstraintMaps(scopedConstraints, rd.Constraints)
	constraints, err := compileConstraints(merged)
	if err != nil {
		return nil, &CompileError{Err: err, Domain: dn.Name, Path: currentPath, Name: rd.As}
	}

	var warnings []Warning

	if len(rd.Localized) == 0 {
		segments, perr := parseSegments(currentPath)
		if perr != nil {
			return warnings, &CompileError{Err: perr, Domain: dn.Name, Path: currentPath}
		}
		route := &CompiledRoute{
			Domain: dn.Name, Method: method, PathTemplate: normalizePathTemplate(currentPath),
			Segments: segments, Handler: handler, Name: rd.As, Middleware: routeMW,
			Constraints: constraints, ParamNames: paramNames(segments),
			RedirectsFrom: rd.RedirectsFrom, RedirectStatus: rd.RedirectStatus,
			Sitemap: rd.Sitemap, Meta: rd.Meta,
		}
		table.Routes = append(table.Routes, route)
		if rd.As != "" {
			if err := registerName(idx, seenNames, rd.As, dn.Name, route.PathTemplate, segments, nil); err != nil {
				return warnings, &CompileError{Err: err, Domain: dn.Name, Path: currentPath, Name: rd.As}
			}
		}
		return warnings, nil
	}

	localeSet := make(map[string]bool, len(dn.Locales))
	for _, l := range dn.Locales {
		localeSet[l] = true
	}

	localizedTemplates := make(map[string]string, len(rd.Localized))
	var lastSegments []Segment
	var lastTemplate string
	for _, locale := range orderedLocaleKeys(rd.Localized, dn.Locales) {
		if !localeSet[locale] {
			return warnings, &CompileError{Err: fmt.Errorf("%w: %s", ErrLocaleNotDeclared, locale), Domain: dn.Name, Path: currentPath, Name: rd.As}
		}
		fullPath := "/" + locale + "/" + strings.TrimPrefix(rd.Localized[locale], "/")
		segments, perr := parseSegments(fullPath)
		if perr != nil {
			return warnings, &CompileError{Err: perr, Domain: dn.Name, Path: currentPath}
		}
		route := &CompiledRoute{
			Domain: dn.Name, Method: method, PathTemplate: normalizePathTemplate(fullPath),
			Segments: segments, Handler: handler, Name: rd.As, Middleware: routeMW,
			Constraints: constraints, Locale: locale, ParamNames: paramNames(segments),
			RedirectsFrom: rd.RedirectsFrom, RedirectStatus: rd.RedirectStatus,
			Sitemap: rd.Sitemap, Meta: rd.Meta,
		}
		table.Routes = append(table.Routes, route)
		localizedTemplates[locale] = route.PathTemplate
		lastSegments, lastTemplate = segments, route.PathTemplate
	}

	for _, l := range dn.Locales {
		if _, ok := rd.Localized[l]; !ok {
			warnings = append(warnings, Warning{
				Domain: dn.Name, Route: rd.As,
				Message: fmt.Sprintf("locale %q has no localized template for route %q at %q", l, rd.As, currentPath),
			})
		}
	}

	if rd.As != "" {
		if err := registerName(idx, seenNames, rd.As, dn.Name, lastTemplate, lastSegments, localizedTemplates); err != nil {
			return warnings, &CompileError{Err: err, Domain: dn.Name, Path: currentPath, Name: rd.As}
		}
	}
	return warnings, nil
}

func registerName(idx *NameIndex, seen map[string]bool, name, domain, template string, segments []Segment, localized map[string]string) error {
	if seen[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateRouteName, name)
	}
	seen[name] = true
	idx.entries[name] = &NameEntry{
		Domain: domain, PathTemplate: template, Segments: segments,
		LocalizedTemplates: localized, RequiredParams: paramNames(segments),
	}
	return nil
}

func orderedLocaleKeys(localized map[string]string, domainLocales []string) []string {
	var out []string
	seen := make(map[string]bool, len(localized))
	for _, l := range domainLocales {
		if _, ok := localized[l]; ok {
			out = append(out, l)
			seen[l] = true
		}
	}
	var rest []string
	for l := range localized {
		if !seen[l] {
			rest = append(rest, l)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func joinPath(base, seg string) string {
	base = strings.TrimSuffix(base, "/")
	seg = strings.TrimPrefix(seg, "/")
	if base == "" {
		return "/" + seg
	}
	if seg == "" {
		return base
	}
	return base + "/" + seg
}

func normalizePathTemplate(path string) string {
	parts := strings.Split(path, "/")
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) == 0 {
		return "/"
	}
	return "/" + strings.Join(clean, "/")
}

// ParseSegments normalizes a path template into its Literal/Param/Wildcard
// segments. Exported so the reverse URL generator can recompute a
// localized template's segments on demand instead of Compile storing a
// full Segments slice per locale.
func ParseSegments(path string) ([]Segment, error) {
	return parseSegments(path)
}

// parseSegments normalizes a path template into its Literal/Param/Wildcard
// segments. No regex syntax is permitted here — only literal text,
// `:name` parameters, and a single trailing `*name`/`*` wildcard.
func parseSegments(path string) ([]Segment, error) {
	parts := strings.Split(path, "/")
	var segs []Segment
	for _, p := range parts {
		if p == "" {
			continue
		}
		switch {
		case strings.HasPrefix(p, ":"):
			name := p[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter name in %q", ErrMalformedSpec, path)
			}
			segs = append(segs, Segment{Kind: SegmentParam, Value: name})
		case strings.HasPrefix(p, "*"):
			segs = append(segs, Segment{Kind: SegmentWildcard, Value: p[1:]})
		default:
			segs = append(segs, Segment{Kind: SegmentLiteral, Value: p})
		}
	}
	for i, s := range segs {
		if s.Kind == SegmentWildcard && i != len(segs)-1 {
			return nil, fmt.Errorf("%w: wildcard must be the last segment in %q", ErrMalformedSpec, path)
		}
	}
	return segs, nil
}

func paramNames(segments []Segment) []string {
	var names []string
	for _, s := range segments {
		if (s.Kind == SegmentParam || s.Kind == SegmentWildcard) && s.Value != "" {
			names = append(names, s.Value)
		}
	}
	return names
}
