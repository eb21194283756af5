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
	"hostmux.dev/router/compiler"
)

// trieNode is one segment position in a domain's per-method route tree.
// Three disjoint child slots, tried in priority order (§2): an exact
// literal child (the common case — a map rather than a scanned edge
// list, since domain trees can carry hundreds of sibling literals),
// a single parameter child, and a single wildcard child. A node can hold
// at most one of each, matching the structural invariant that a path
// position cannot register both ":id" and ":name" as siblings.
type trieNode struct {
	literalChildren map[string]*trieNode
	paramChild      *paramEdge
	wildcardChild   *wildcardEdge

	routes map[string]*compiler.CompiledRoute // by HTTP method
}

type paramEdge struct {
	name string
	node *trieNode
}

type wildcardEdge struct {
	name string
	node *trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{}
}

// insert walks/creates nodes for segments and attaches route at the
// terminal node under its method key. Called only during Compile's
// trie-build step, never concurrently with matching.
func (n *trieNode) insert(segments []compiler.Segment, route *compiler.CompiledRoute) {
	cur := n
	for _, seg := range segments {
		switch seg.Kind {
		case compiler.SegmentLiteral:
			if cur.literalChildren == nil {
				cur.literalChildren = make(map[string]*trieNode)
			}
			child, ok := cur.literalChildren[seg.Value]
			if !ok {
				child = newTrieNode()
				cur.literalChildren[seg.Value] = child
			}
			cur = child
		case compiler.SegmentParam:
			if cur.paramChild == nil {
				cur.paramChild = &paramEdge{name: seg.Value, node: newTrieNode()}
			}
			cur = cur.paramChild.node
		case compiler.SegmentWildcard:
			if cur.wildcardChild == nil {
				cur.wildcardChild = &wildcardEdge{name: seg.Value, node: newTrieNode()}
			}
			cur = cur.wildcardChild.node
		}
	}
	if cur.routes == nil {
		cur.routes = make(map[string]*compiler.CompiledRoute)
	}
	cur.routes[route.Method] = route
}

// matchResult is what a successful trie walk produces: the compiled
// route plus the path parameters captured along the way.
type matchResult struct {
	route  *compiler.CompiledRoute
	params map[string]string
}

// match walks path against the tree for method, trying literal, then
// param, then wildcard children at each segment position — no
// backtracking across sibling kinds once a deeper match fails, per §2's
// priority-without-backtrack invariant. Constraint checks run on the
// terminal node's route before it's accepted; a constraint failure at
// the terminal node is NOT backtracked either, matching the teacher's
// "first structural match wins" trie semantics generalized to this
// tree shape.
func (n *trieNode) match(path, method string) (*matchResult, bool) {
	// The root path ("" or "/") carries zero segments: the route (if
	// any) lives directly on n, with no descent at all. This is the
	// ONLY place an empty segment is allowed to resolve to a route —
	// a trailing slash after real segments (e.g. "/users/7/") is a
	// request-time normalization concern (see the TrailingSlashMode
	// handling in Router.ServeHTTP), not something the trie silently tolerates, or
	// :strict trailing-slash policy would be unenforceable.
	if path == "" || path == "/" {
		route, ok := n.routes[method]
		if !ok {
			return nil, false
		}
		if !matchConstraints(route.Constraints, nil) {
			return nil, false
		}
		return &matchResult{route: route, params: map[string]string{}}, true
	}

	params := make(map[string]string)
	cur := n
	start := 1
	if path[0] != '/' {
		start = 0
	}
	pathLen := len(path)

	for start <= pathLen {
		end := start
		for end < pathLen && path[end] != '/' {
			end++
		}
		segment := path[start:end]
		isLast := end >= pathLen

		if segment == "" {
			if !isLast {
				// A doubled slash mid-path ("/a//b"): drop the empty
				// segment per §4.2's "split into non-empty segments".
				start = end + 1
				continue
			}
			// A trailing slash after real content ("/users/7/"): not a
			// match here. Whether this normalizes, redirects, or 404s
			// is decided by the :redirect/:ignore/:strict policy before
			// match is ever called.
			return nil, false
		}

		if child, ok := cur.literalChildren[segment]; ok {
			cur = child
		} else if cur.paramChild != nil {
			params[cur.paramChild.name] = segment
			cur = cur.paramChild.node
		} else if cur.wildcardChild != nil {
			rest := path[start:]
			if cur.wildcardChild.name != "" {
				params[cur.wildcardChild.name] = rest
			}
			route, ok := cur.wildcardChild.node.routes[method]
			if !ok {
				return nil, false
			}
			if !matchConstraints(route.Constraints, params) {
				return nil, false
			}
			return &matchResult{route: route, params: params}, true
		} else {
			return nil, false
		}

		if isLast {
			route, ok := cur.routes[method]
			if !ok {
				return nil, false
			}
			if !matchConstraints(route.Constraints, params) {
				return nil, false
			}
			return &matchResult{route: route, params: params}, true
		}
		start = end + 1
	}

	route, ok := cur.routes[method]
	if !ok {
		return nil, false
	}
	if !matchConstraints(route.Constraints, params) {
		return nil, false
	}
	return &matchResult{route: route, params: params}, true
}

func matchConstraints(constraints []compiler.Constraint, params map[string]string) bool {
	for _, c := range constraints {
		v, ok := params[c.Param]
		if !ok || !c.Pattern.MatchString(v) {
			return false
		}
	}
	return true
}
