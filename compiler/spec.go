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
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is the parsed RouteSpec tree: one DomainNode per top-level domain
// key, in declaration order.
type Spec struct {
	Domains []*DomainNode
}

// DomainNode is a top-level domain entry plus its domain-config keys.
type DomainNode struct {
	Name               string
	Locales            []string
	DefaultLocale      string
	RootLocaleRedirect bool
	Use                []string
	UseCleared         bool
	Root               *PathNode
}

// PathNode is one path-segment level of the tree. Segment is the raw
// declared key ("" for a domain's own root). Constraints declared here
// apply to every method key at this node and at every node below it; a
// descendant that declares the same parameter overrides the pattern.
type PathNode struct {
	Segment     string
	Use         []string
	UseCleared  bool
	Constraints map[string]string
	Methods     map[string]*RouteDef
	Children    []*PathNode
}

// RouteDef is the per-method route definition. Only To is required.
type RouteDef struct {
	To             string
	As             string
	Use            []string
	UseCleared     bool
	Constraints    map[string]string
	Localized      map[string]string
	RedirectsFrom  []string
	RedirectStatus int
	Sitemap        map[string]any
	Meta           map[string]any
}

var methodKeys = map[string]string{
	"get": "GET", "post": "POST", "put": "PUT", "patch": "PATCH",
	"delete": "DELETE", "options": "OPTIONS", "head": "HEAD",
}

func normalizeDomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseYAML parses a declarative route spec document. It walks the
// document's *yaml.Node tree directly (rather than unmarshaling into a
// plain map) so that domain keys, path keys, and method keys all keep
// their document declaration order — required because middleware merge
// order and locale coverage warnings must be deterministic.
func ParseYAML(data []byte) (*Spec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}
	if len(doc.Content) == 0 {
		return &Spec{}, nil
	}
	root := doc.Content[0]
	keys, vals, err := mappingPairs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: root must be a mapping of domain keys", err)
	}
	spec := &Spec{}
	for i, key := range keys {
		dn, err := parseDomainBody(key, vals[i])
		if err != nil {
			return nil, err
		}
		spec.Domains = append(spec.Domains, dn)
	}
	return spec, nil
}

func mappingPairs(node *yaml.Node) ([]string, []*yaml.Node, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("%w: expected a mapping", ErrMalformedSpec)
	}
	keys := make([]string, 0, len(node.Content)/2)
	vals := make([]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
		vals = append(vals, node.Content[i+1])
	}
	return keys, vals, nil
}

func decodeUse(node *yaml.Node) ([]string, bool, error) {
	if node.Tag == "!!null" {
		return nil, true, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, false, fmt.Errorf("%w: 'use' must be a list or null", ErrMalformedSpec)
	}
	names := make([]string, 0, len(node.Content))
	for _, c := range node.Content {
		names = append(names, c.Value)
	}
	return names, false, nil
}

func decodeStringMap(node *yaml.Node) (map[string]string, error) {
	keys, vals, err := mappingPairs(node)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(keys))
	for i, k := range keys {
		m[k] = vals[i].Value
	}
	return m, nil
}

func decodeStringList(node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a list", ErrMalformedSpec)
	}
	out := make([]string, 0, len(node.Content))
	for _, c := range node.Content {
		out = append(out, c.Value)
	}
	return out, nil
}

func parseDomainBody(name string, node *yaml.Node) (*DomainNode, error) {
	keys, vals, err := mappingPairs(node)
	if err != nil {
		return nil, fmt.Errorf("domain %s: %w", name, err)
	}
	dn := &DomainNode{Name: normalizeDomain(name), Root: &PathNode{}}

	var pathKeys []string
	var pathVals []*yaml.Node
	for i, key := range keys {
		switch key {
		case "locales":
			list, err := decodeStringList(vals[i])
			if err != nil {
				return nil, fmt.Errorf("domain %s: %w", name, err)
			}
			dn.Locales = list
		case "default_locale":
			dn.DefaultLocale = vals[i].Value
		case "root_locale_redirect":
			dn.RootLocaleRedirect = vals[i].Value == "true"
		case "use":
			u, cleared, err := decodeUse(vals[i])
			if err != nil {
				return nil, fmt.Errorf("domain %s: %w", name, err)
			}
			dn.Use, dn.UseCleared = u, cleared
		default:
			pathKeys = append(pathKeys, key)
			pathVals = append(pathVals, vals[i])
		}
	}
	if err := fillPathNode(dn.Root, pathKeys, pathVals); err != nil {
		return nil, fmt.Errorf("domain %s: %w", name, err)
	}
	return dn, nil
}

func fillPathNode(pn *PathNode, keys []string, vals []*yaml.Node) error {
	for i, key := range keys {
		v := vals[i]
		switch {
		case key == "use":
			u, cleared, err := decodeUse(v)
			if err != nil {
				return err
			}
			pn.Use, pn.UseCleared = u, cleared
		case key == "constraints":
			m, err := decodeStringMap(v)
			if err != nil {
				return err
			}
			pn.Constraints = m
		default:
			if method, ok := methodKeys[key]; ok {
				rd, err := parseRouteDef(v)
				if err != nil {
					return fmt.Errorf("method %s: %w", method, err)
				}
				if pn.Methods == nil {
					pn.Methods = make(map[string]*RouteDef)
				}
				pn.Methods[method] = rd
				continue
			}
			child, err := parsePathNode(key, v)
			if err != nil {
				return err
			}
			pn.Children = append(pn.Children, child)
		}
	}
	return nil
}

func parsePathNode(segment string, node *yaml.Node) (*PathNode, error) {
	keys, vals, err := mappingPairs(node)
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", segment, err)
	}
	pn := &PathNode{Segment: segment}
	if err := fillPathNode(pn, keys, vals); err != nil {
		return nil, fmt.Errorf("path %s: %w", segment, err)
	}
	return pn, nil
}

func parseRouteDef(node *yaml.Node) (*RouteDef, error) {
	keys, vals, err := mappingPairs(node)
	if err != nil {
		return nil, err
	}
	rd := &RouteDef{RedirectStatus: 301}
	for i, key := range keys {
		v := vals[i]
		switch key {
		case "to":
			rd.To = v.Value
		case "as":
			rd.As = v.Value
		case "use":
			u, cleared, err := decodeUse(v)
			if err != nil {
				return nil, err
			}
			rd.Use, rd.UseCleared = u, cleared
		case "constraints":
			m, err := decodeStringMap(v)
			if err != nil {
				return nil, err
			}
			rd.Constraints = m
		case "localized":
			m, err := decodeStringMap(v)
			if err != nil {
				return nil, err
			}
			rd.Localized = m
		case "redirects_from":
			list, err := decodeStringList(v)
			if err != nil {
				return nil, err
			}
			rd.RedirectsFrom = list
		case "redirect_status":
			status, err := strconv.Atoi(v.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: redirect_status must be an int", ErrMalformedSpec)
			}
			rd.RedirectStatus = status
		case "sitemap":
			var m map[string]any
			if err := v.Decode(&m); err != nil {
				return nil, err
			}
			rd.Sitemap = m
		case "meta":
			var m map[string]any
			if err := v.Decode(&m); err != nil {
				return nil, err
			}
			rd.Meta = m
		default:
			return nil, fmt.Errorf("%w: unknown route key %q", ErrMalformedSpec, key)
		}
	}
	if rd.To == "" {
		return nil, fmt.Errorf("%w: route missing required 'to'", ErrMalformedSpec)
	}
	return rd, nil
}
