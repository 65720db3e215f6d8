// Package resolve implements the expression resolution and type-checking
// pass. Before the pass, every property binding holds an *lang.Uncompiled
// node wrapping raw syntax; afterwards none remains: each binding is either
// a fully resolved expression or the explicit invalid marker, and in the
// latter case at least one diagnostic has been recorded.
package resolve

import (
	"path/filepath"
	"sort"

	"mica/internal/diag"
	"mica/internal/lang"
	"mica/internal/syntax"
)

type resolver struct {
	d       *diag.Diagnostics
	doc     *lang.Document
	docDir  string
	parents map[*lang.Element]*lang.Element

	// counter for macro-lowering temporaries, scoped to one run so the
	// output is deterministic.
	counter int
}

// ResolveExpressions resolves every binding of every component in the
// document, in place. The pass is error-recovering: a failed expression
// degrades to the invalid marker and resolution continues with the next
// binding. Running the pass on an already resolved document is a no-op.
func ResolveExpressions(doc *lang.Document, d *diag.Diagnostics) {
	r := &resolver{d: d, doc: doc, docDir: filepath.Dir(d.File())}
	for _, comp := range doc.Components {
		r.parents = buildParentMap(comp.RootElement)
		r.resolveElement(comp.RootElement, []*lang.Element{comp.RootElement})
	}
}

// ConstantExpression resolves an expression outside any element scope, for
// hosts that need simple constant values.
func ConstantExpression(node *syntax.Node, registry *lang.TypeRegister, d *diag.Diagnostics) lang.Expr {
	counter := 0
	ctx := &lookupCtx{
		propertyType: lang.Invalid,
		diag:         d,
		registry:     registry,
		localCount:   &counter,
	}
	return ctx.fromExpressionNode(node)
}

func (r *resolver) resolveElement(elem *lang.Element, scope []*lang.Element) {
	newScope := make([]*lang.Element, 0, len(scope)+2)
	newScope = append(newScope, scope...)

	if rep := elem.Repeated; rep != nil {
		// The repeated element enters its own scope twice: once as the
		// parent scope of the model expression, once for its body.
		newScope = append(newScope, elem)
		target := lang.Type(lang.Invalid)
		if rep.Conditional {
			target = lang.Bool
		}
		rep.Model = r.resolveExpression(rep.Model, "", target, scope)
	}
	newScope = append(newScope, elem)

	names := make([]string, 0, len(elem.Bindings))
	for name := range elem.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		propTy := elem.LookupProperty(name)
		if u, ok := elem.Bindings[name].(*lang.Uncompiled); ok &&
			lang.IsInvalid(propTy) && u.Node.Kind != syntax.CallbackConnection {
			r.d.Errorf(u.Node.Span, "unknown property %q", name)
		}
		elem.Bindings[name] = r.resolveExpression(elem.Bindings[name], name, propTy, newScope)
	}

	for _, child := range elem.Children {
		r.resolveElement(child, newScope)
	}
}

// resolveExpression replaces an unresolved binding node with its resolved
// expression. Already resolved expressions pass through untouched.
func (r *resolver) resolveExpression(e lang.Expr, propertyName string, propertyType lang.Type, scope []*lang.Element) lang.Expr {
	u, ok := e.(*lang.Uncompiled)
	if !ok {
		return e
	}

	ctx := &lookupCtx{
		propertyName: propertyName,
		propertyType: propertyType,
		scope:        scope,
		diag:         r.d,
		registry:     r.doc.Registry,
		parents:      r.parents,
		docDir:       r.docDir,
		localCount:   &r.counter,
	}

	node := u.Node
	switch node.Kind {
	case syntax.CallbackConnection:
		return ctx.fromCallbackConnection(node)
	case syntax.Expression:
		resolved := ctx.fromExpressionNode(node)
		return lang.MaybeConvertTo(resolved, propertyType, node.Span, r.d)
	case syntax.BindingExpression:
		return ctx.fromBindingExpressionNode(node)
	case syntax.TwoWayBinding:
		return ctx.fromTwoWayBinding(node)
	default:
		if !r.d.HasErrors() {
			panic("internal: unresolved node of unexpected kind " + node.Kind.String())
		}
		return &lang.InvalidExpr{}
	}
}

// lookupCtx carries the state of one top-level expression resolution.
type lookupCtx struct {
	// propertyName is the name of the property being resolved; used for
	// diagnostics and the percent-to-length rule. May be empty.
	propertyName string

	// propertyType is the declared type of the property, the coercion
	// target of the whole binding.
	propertyType lang.Type

	// scope is the stack of elements identifiers are visible in,
	// outermost first.
	scope []*lang.Element

	diag *diag.Diagnostics

	// arguments are the names of the enclosing callback's arguments.
	arguments []string

	registry *lang.TypeRegister
	parents  map[*lang.Element]*lang.Element
	docDir   string

	localCount *int
}

func (ctx *lookupCtx) self() *lang.Element {
	if len(ctx.scope) == 0 {
		return nil
	}
	return ctx.scope[len(ctx.scope)-1]
}

func (ctx *lookupCtx) findParent(e *lang.Element) *lang.Element {
	if e == nil {
		return nil
	}
	return ctx.parents[e]
}

// buildParentMap records the parent of every element of a component so that
// parent queries are O(1) during the pass. Parent edges are not stored on
// the elements themselves; the tree owns its children only.
func buildParentMap(root *lang.Element) map[*lang.Element]*lang.Element {
	parents := make(map[*lang.Element]*lang.Element)
	var walk func(e *lang.Element)
	walk = func(e *lang.Element) {
		for _, child := range e.Children {
			parents[child] = e
			walk(child)
		}
	}
	walk(root)
	return parents
}

// findElementByID searches the scope stack innermost-first. Within one
// scope the element subtree is searched, but the searcher does not descend
// into repeated children: ids inside a repeater are not visible outside it.
func findElementByID(scope []*lang.Element, name string) *lang.Element {
	for i := len(scope) - 1; i >= 0; i-- {
		if found := findElementByIDIn(scope[i], name); found != nil {
			return found
		}
	}
	return nil
}

func findElementByIDIn(e *lang.Element, name string) *lang.Element {
	if e.ID == name {
		return e
	}
	for _, child := range e.Children {
		if child.Repeated != nil {
			continue
		}
		if found := findElementByIDIn(child, name); found != nil {
			return found
		}
	}
	return nil
}
