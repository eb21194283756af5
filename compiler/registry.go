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

import "sync"

// Registry is the module-level mapping from symbolic name to one or more
// concrete plugin references, and from handler name to handler value.
// It is mutated at boot (Register*) and only ever read during Compile —
// the same "write at boot, read-mostly after" discipline the rest of the
// package follows for the compiled table itself.
//
// Multi-class plugins (a single registered name that expands to several
// middleware in order — e.g. a "security" bundle expanding to CORS then
// CSRF) are represented by passing more than one fn to RegisterMiddleware;
// each becomes its own *MiddlewareRef so identity-based dedup still works
// per concrete middleware, not per symbolic name.
type Registry struct {
	mu         sync.RWMutex
	middleware map[string][]*MiddlewareRef
	handlers   map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		middleware: make(map[string][]*MiddlewareRef),
		handlers:   make(map[string]any),
	}
}

// RegisterMiddleware associates name with one or more middleware values.
// Re-registering a name replaces its entry.
func (r *Registry) RegisterMiddleware(name string, fns ...any) {
	refs := make([]*MiddlewareRef, len(fns))
	for i, fn := range fns {
		refs[i] = &MiddlewareRef{Name: name, Fn: fn}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware[name] = refs
}

// ResolveMiddleware returns the ordered *MiddlewareRef slice for name.
func (r *Registry) ResolveMiddleware(name string) ([]*MiddlewareRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	refs, ok := r.middleware[name]
	return refs, ok
}

// RegisterHandler associates a symbolic handler name (used by YAML specs'
// `to:` field) with a concrete handler value.
func (r *Registry) RegisterHandler(name string, h any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// ResolveHandler returns the handler registered for name.
func (r *Registry) ResolveHandler(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// dedupAppend appends src's entries onto dst, skipping any *MiddlewareRef
// already present by pointer identity. This is the one place the
// "deduplicated preserving first occurrence" invariant is enforced.
func dedupAppend(dst []*MiddlewareRef, src []*MiddlewareRef) []*MiddlewareRef {
	for _, ref := range src {
		found := false
		for _, existing := range dst {
			if existing == ref {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, ref)
		}
	}
	return dst
}
