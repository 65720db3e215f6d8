package lang

import "mica/internal/token"

// Document is one compilation unit: the components and globals of a single
// source file, plus the registry they are looked up in.
type Document struct {
	Components []*Component
	Registry   *TypeRegister
}

// Component is a named, reusable UI definition with a root element. Globals
// are components without a visual base whose root element only carries
// property declarations.
type Component struct {
	ID          string
	RootElement *Element
	Global      bool
}

// Component is also a type: child elements can use a component as their
// base, and the registry hands components back from Lookup.
func (c *Component) String() string { return c.ID }

func (c *Component) equal(other Type) bool {
	o, ok := other.(*Component)
	return ok && c == o
}

// RepeatedElement is the repeater metadata of an element created by a
// `for data[index] in model:` or `if condition:` construct. The model
// expression is resolved against the scope enclosing the repeater.
type RepeatedElement struct {
	ModelDataID string // "" for `if`
	IndexID     string // "" when not declared
	Model       Expr
	Conditional bool
}

// Element is one node of a component's element tree. Children are owned;
// the parent edge is not stored, parent discovery is a per-component query
// in the resolver.
type Element struct {
	ID       string
	BaseType Type // *Builtin, *Component, or Void for globals
	Span     token.Span

	// PropertyDecls are the properties and callbacks declared on this
	// element itself; properties of the base type are looked up through it.
	PropertyDecls map[string]Type

	// Bindings maps property names to their expression. Before resolution
	// each entry is an *Uncompiled node; afterwards none remains.
	Bindings map[string]Expr

	Children []*Element
	Repeated *RepeatedElement

	Enclosing *Component
}

// LookupProperty returns the type of the named property or callback, first
// on the element's own declarations, then on its base type. Unknown names
// yield Invalid.
func (e *Element) LookupProperty(name string) Type {
	if t, ok := e.PropertyDecls[name]; ok {
		return t
	}
	switch base := e.BaseType.(type) {
	case *Builtin:
		if t, ok := base.Properties[name]; ok {
			return t
		}
	case *Component:
		return base.RootElement.LookupProperty(name)
	}
	return Invalid
}

// NamedReference points to a property or callback of an element. It never
// owns the element; the element tree does.
type NamedReference struct {
	Element *Element
	Name    string
}

// Ty returns the type of the referenced property or callback.
func (n *NamedReference) Ty() Type {
	return n.Element.LookupProperty(n.Name)
}
