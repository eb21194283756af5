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

// Builder constructs a Spec programmatically, for callers who would
// rather build routes in Go than maintain a YAML file. It produces
// exactly the same tree ParseYAML would, so Compile treats the two
// identically.
type Builder struct {
	spec *Spec
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{spec: &Spec{}}
}

// Build returns the assembled Spec.
func (b *Builder) Build() *Spec {
	return b.spec
}

// Domain appends a new domain entry; calling it again with the same name
// adds another entry rather than resuming the earlier one.
func (b *Builder) Domain(name string) *DomainBuilder {
	dn := &DomainNode{Name: normalizeDomain(name), Root: &PathNode{}}
	b.spec.Domains = append(b.spec.Domains, dn)
	return &DomainBuilder{node: dn}
}

// DomainBuilder configures one domain's config keys and path tree.
type DomainBuilder struct {
	node *DomainNode
}

func (d *DomainBuilder) Locales(locales ...string) *DomainBuilder {
	d.node.Locales = locales
	return d
}

func (d *DomainBuilder) DefaultLocale(locale string) *DomainBuilder {
	d.node.DefaultLocale = locale
	return d
}

func (d *DomainBuilder) RootLocaleRedirect(enabled bool) *DomainBuilder {
	d.node.RootLocaleRedirect = enabled
	return d
}

func (d *DomainBuilder) Use(names ...string) *DomainBuilder {
	d.node.Use = append(d.node.Use, names...)
	return d
}

func (d *DomainBuilder) ClearUse() *DomainBuilder {
	d.node.UseCleared = true
	d.node.Use = nil
	return d
}

// Path appends a new nested path segment under this domain's root; an
// existing child with the same segment is not reused.
func (d *DomainBuilder) Path(segment string) *PathBuilder {
	child := &PathNode{Segment: segment}
	d.node.Root.Children = append(d.node.Root.Children, child)
	return &PathBuilder{node: child}
}

// Get/Post/... register a method directly on the domain's root path
// (e.g. `GET /` on this domain).
func (d *DomainBuilder) Get(to string) *RouteDefBuilder    { return methodOn(d.node.Root, "GET", to) }
func (d *DomainBuilder) Post(to string) *RouteDefBuilder   { return methodOn(d.node.Root, "POST", to) }
func (d *DomainBuilder) Put(to string) *RouteDefBuilder    { return methodOn(d.node.Root, "PUT", to) }
func (d *DomainBuilder) Patch(to string) *RouteDefBuilder  { return methodOn(d.node.Root, "PATCH", to) }
func (d *DomainBuilder) Delete(to string) *RouteDefBuilder { return methodOn(d.node.Root, "DELETE", to) }

// PathBuilder configures one path-segment node: its own use/constraints,
// nested children, and method defs.
type PathBuilder struct {
	node *PathNode
}

func (p *PathBuilder) Use(names ...string) *PathBuilder {
	p.node.Use = append(p.node.Use, names...)
	return p
}

func (p *PathBuilder) ClearUse() *PathBuilder {
	p.node.UseCleared = true
	p.node.Use = nil
	return p
}

func (p *PathBuilder) Where(param, pattern string) *PathBuilder {
	if p.node.Constraints == nil {
		p.node.Constraints = make(map[string]string)
	}
	p.node.Constraints[param] = pattern
	return p
}

func (p *PathBuilder) Path(segment string) *PathBuilder {
	child := &PathNode{Segment: segment}
	p.node.Children = append(p.node.Children, child)
	return &PathBuilder{node: child}
}

func (p *PathBuilder) Get(to string) *RouteDefBuilder     { return methodOn(p.node, "GET", to) }
func (p *PathBuilder) Post(to string) *RouteDefBuilder    { return methodOn(p.node, "POST", to) }
func (p *PathBuilder) Put(to string) *RouteDefBuilder     { return methodOn(p.node, "PUT", to) }
func (p *PathBuilder) Patch(to string) *RouteDefBuilder   { return methodOn(p.node, "PATCH", to) }
func (p *PathBuilder) Delete(to string) *RouteDefBuilder  { return methodOn(p.node, "DELETE", to) }
func (p *PathBuilder) Options(to string) *RouteDefBuilder { return methodOn(p.node, "OPTIONS", to) }
func (p *PathBuilder) Head(to string) *RouteDefBuilder    { return methodOn(p.node, "HEAD", to) }

func methodOn(pn *PathNode, method, to string) *RouteDefBuilder {
	rd := &RouteDef{To: to, RedirectStatus: 301}
	if pn.Methods == nil {
		pn.Methods = make(map[string]*RouteDef)
	}
	pn.Methods[method] = rd
	return &RouteDefBuilder{def: rd}
}

// RouteDefBuilder configures the RouteDef just registered by a Get/Post/...
// call. Every method returns the same builder so calls chain naturally:
// p.Get("users#show").As("user").WhereUUID("id").
type RouteDefBuilder struct {
	def *RouteDef
}

func (r *RouteDefBuilder) As(name string) *RouteDefBuilder {
	r.def.As = name
	return r
}

func (r *RouteDefBuilder) Use(names ...string) *RouteDefBuilder {
	r.def.Use = append(r.def.Use, names...)
	return r
}

func (r *RouteDefBuilder) ClearUse() *RouteDefBuilder {
	r.def.UseCleared = true
	r.def.Use = nil
	return r
}

func (r *RouteDefBuilder) Where(param, pattern string) *RouteDefBuilder {
	if r.def.Constraints == nil {
		r.def.Constraints = make(map[string]string)
	}
	r.def.Constraints[param] = pattern
	return r
}

// WhereUUID, WhereInt, WhereFloat, WhereRegex, WhereEnum, WhereDate, and
// WhereDateTime are convenience wrappers over Where for common parameter
// shapes. They are sugar on top of the required regex constraints map,
// never a replacement for it.
func (r *RouteDefBuilder) WhereUUID(param string) *RouteDefBuilder  { return r.Where(param, patternUUID) }
func (r *RouteDefBuilder) WhereInt(param string) *RouteDefBuilder   { return r.Where(param, patternInt) }
func (r *RouteDefBuilder) WhereFloat(param string) *RouteDefBuilder { return r.Where(param, patternFloat) }
func (r *RouteDefBuilder) WhereRegex(param, pattern string) *RouteDefBuilder {
	return r.Where(param, pattern)
}
func (r *RouteDefBuilder) WhereEnum(param string, values ...string) *RouteDefBuilder {
	return r.Where(param, enumPattern(values))
}
func (r *RouteDefBuilder) WhereDate(param string) *RouteDefBuilder { return r.Where(param, patternDate) }
func (r *RouteDefBuilder) WhereDateTime(param string) *RouteDefBuilder {
	return r.Where(param, patternDateTime)
}

func (r *RouteDefBuilder) Localized(locale, template string) *RouteDefBuilder {
	if r.def.Localized == nil {
		r.def.Localized = make(map[string]string)
	}
	r.def.Localized[locale] = template
	return r
}

func (r *RouteDefBuilder) RedirectsFrom(paths ...string) *RouteDefBuilder {
	r.def.RedirectsFrom = append(r.def.RedirectsFrom, paths...)
	return r
}

func (r *RouteDefBuilder) RedirectStatus(status int) *RouteDefBuilder {
	r.def.RedirectStatus = status
	return r
}
