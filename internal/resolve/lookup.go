package resolve

import (
	"strings"

	"golang.org/x/image/colornames"

	"mica/internal/lang"
	"mica/internal/syntax"
)

// fromQualifiedNameNode resolves a dotted identifier path. Resolution of
// the first segment tries, in order: callback arguments, the self/parent
// keywords and boolean literals, element ids and global singletons, the
// repeater index and model bindings, properties and callbacks of the
// elements in scope, context-typed keyword literals, and finally builtin
// functions and macros.
func (ctx *lookupCtx) fromQualifiedNameNode(node *syntax.Node) lang.Expr {
	idents := node.ChildrenOf(syntax.Identifier)
	if len(idents) == 0 {
		if !ctx.diag.HasErrors() {
			panic("internal: qualified name without identifiers")
		}
		return &lang.InvalidExpr{}
	}
	first := idents[0]
	firstStr := syntax.NormalizeIdentifier(first.Text)
	rest := idents[1:]

	for i, arg := range ctx.arguments {
		if arg != firstStr {
			continue
		}
		var ty lang.Type
		switch pt := ctx.propertyType.(type) {
		case *lang.Callback:
			ty = pt.Args[i]
		case *lang.Function:
			ty = pt.Args[i]
		default:
			panic("internal: arguments can only exist in callbacks or functions")
		}
		return ctx.maybeLookupObject(&lang.FunctionParameterReference{Index: i, Type: ty}, rest)
	}

	var elem *lang.Element
	switch firstStr {
	case "self":
		elem = ctx.self()
	case "parent":
		elem = ctx.findParent(ctx.self())
	case "true":
		return &lang.BoolLiteral{Value: true}
	case "false":
		return &lang.BoolLiteral{Value: false}
	default:
		elem = findElementByID(ctx.scope, firstStr)
		if elem == nil {
			if comp, ok := ctx.registry.Lookup(firstStr).(*lang.Component); ok && comp.Global {
				elem = comp.RootElement
			}
		}
	}
	if elem != nil {
		return ctx.continueLookupWithinElement(elem, rest, node)
	}

	for i := len(ctx.scope) - 1; i >= 0; i-- {
		scoped := ctx.scope[i]
		if rep := scoped.Repeated; rep != nil {
			if firstStr == rep.IndexID {
				return &lang.RepeaterIndexReference{Element: scoped}
			}
			if firstStr == rep.ModelDataID {
				return ctx.maybeLookupObject(&lang.RepeaterModelReference{Element: scoped}, rest)
			}
		}
		prop := scoped.LookupProperty(firstStr)
		if lang.IsPropertyType(prop) {
			if _, isObject := prop.(*lang.Object); isObject && len(rest) > 0 {
				ctx.diag.Errorf(node.Span, "field access on the object-typed property %q is not supported here", first.Text)
				return &lang.InvalidExpr{}
			}
			ref := &lang.PropertyReference{Reference: lang.NamedReference{Element: scoped, Name: firstStr}}
			return ctx.maybeLookupObject(ref, rest)
		}
		if _, ok := prop.(*lang.Callback); ok {
			if len(rest) > 0 {
				ctx.diag.Errorf(rest[0].Span, "cannot access fields of a callback")
			}
			return &lang.CallbackReference{Reference: lang.NamedReference{Element: scoped, Name: firstStr}}
		}
	}

	if len(rest) > 0 {
		ctx.diag.Errorf(node.Span, "cannot access id %q", first.Text)
		return &lang.InvalidExpr{}
	}

	if e := ctx.contextKeywordLiteral(firstStr); e != nil {
		return e
	}

	switch firstStr {
	case "debug":
		return &lang.BuiltinFunctionReference{Function: lang.BuiltinDebug}
	case "mod":
		return &lang.BuiltinFunctionReference{Function: lang.BuiltinMod}
	case "round":
		return &lang.BuiltinFunctionReference{Function: lang.BuiltinRound}
	case "ceil":
		return &lang.BuiltinFunctionReference{Function: lang.BuiltinCeil}
	case "floor":
		return &lang.BuiltinFunctionReference{Function: lang.BuiltinFloor}
	case "rgb":
		return &lang.BuiltinFunctionReference{Function: lang.BuiltinRgb}
	case "min":
		return &lang.BuiltinMacroReference{Macro: lang.MacroMin}
	case "max":
		return &lang.BuiltinMacroReference{Macro: lang.MacroMax}
	case "cubic_bezier":
		return &lang.BuiltinMacroReference{Macro: lang.MacroCubicBezier}
	}

	// Identifiers may contain dashes. If stripping the first dashed
	// suffix leaves a name that would have resolved, the user most
	// likely meant a subtraction.
	if idx := strings.IndexByte(first.Text, '-'); idx >= 0 {
		prefix := syntax.NormalizeIdentifier(first.Text[:idx])
		for i := len(ctx.scope) - 1; i >= 0; i-- {
			scoped := ctx.scope[i]
			hit := lang.IsPropertyType(scoped.LookupProperty(prefix))
			if rep := scoped.Repeated; !hit && rep != nil {
				hit = prefix == rep.IndexID || prefix == rep.ModelDataID
			}
			if hit {
				ctx.diag.Errorf(node.Span, "unknown unqualified identifier %q. Use space before the '-' if you meant a substraction.", first.Text)
				return &lang.InvalidExpr{}
			}
		}
	}
	ctx.diag.Errorf(node.Span, "unknown unqualified identifier %q", first.Text)
	return &lang.InvalidExpr{}
}

// contextKeywordLiteral resolves identifiers that are only meaningful for
// the type of the property being bound: named colors, easing keywords, and
// enum values.
func (ctx *lookupCtx) contextKeywordLiteral(name string) lang.Expr {
	switch pt := ctx.propertyType.(type) {
	case *lang.Basic:
		if lang.Equal(pt, lang.Color) {
			if c, ok := colornames.Map[name]; ok {
				value := uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
				return &lang.Cast{
					From: &lang.NumberLiteral{Value: float64(value)},
					To:   lang.Color,
				}
			}
		}
		if lang.Equal(pt, lang.Easing) {
			switch name {
			case "linear":
				return &lang.EasingCurveExpr{Curve: lang.LinearCurve()}
			case "ease":
				return &lang.EasingCurveExpr{Curve: lang.CubicBezierCurve(0.25, 0.1, 0.25, 1)}
			case "ease_in":
				return &lang.EasingCurveExpr{Curve: lang.CubicBezierCurve(0.42, 0, 1, 1)}
			case "ease_in_out":
				return &lang.EasingCurveExpr{Curve: lang.CubicBezierCurve(0.42, 0, 0.58, 1)}
			case "ease_out":
				return &lang.EasingCurveExpr{Curve: lang.CubicBezierCurve(0, 0, 0.58, 1)}
			case "cubic_bezier":
				return &lang.BuiltinMacroReference{Macro: lang.MacroCubicBezier}
			}
		}
	case *lang.Enumeration:
		if idx := pt.ValueIndex(name); idx >= 0 {
			return &lang.EnumerationValue{Enum: pt, Value: idx}
		}
	}
	return nil
}

// continueLookupWithinElement resolves the path segments that follow an
// element reference. A bare element reference is only valid when an
// element reference is expected.
func (ctx *lookupCtx) continueLookupWithinElement(elem *lang.Element, rest []*syntax.Node, node *syntax.Node) lang.Expr {
	if len(rest) == 0 {
		if lang.Equal(ctx.propertyType, lang.ElementReference) {
			return &lang.ElementReferenceExpr{Element: elem}
		}
		ctx.diag.Errorf(node.Span, "cannot take a reference to an element")
		return &lang.InvalidExpr{}
	}

	second := rest[0]
	name := syntax.NormalizeIdentifier(second.Text)
	prop := elem.LookupProperty(name)
	if lang.IsPropertyType(prop) {
		ref := &lang.PropertyReference{Reference: lang.NamedReference{Element: elem, Name: name}}
		return ctx.maybeLookupObject(ref, rest[1:])
	}
	if _, ok := prop.(*lang.Callback); ok {
		if len(rest) > 1 {
			ctx.diag.Errorf(rest[1].Span, "cannot access fields of a callback")
		}
		return &lang.CallbackReference{Reference: lang.NamedReference{Element: elem, Name: name}}
	}

	what := "element"
	switch base := elem.BaseType.(type) {
	case *lang.Builtin:
		what = "element " + base.Name
	case *lang.Component:
		what = "element " + base.ID
	default:
		if elem.Enclosing != nil && elem.Enclosing.Global {
			what = "global " + elem.Enclosing.ID
		}
	}
	extra := ""
	if idx := strings.IndexByte(second.Text, '-'); idx >= 0 {
		prefix := syntax.NormalizeIdentifier(second.Text[:idx])
		if !lang.IsInvalid(elem.LookupProperty(prefix)) {
			extra = " Use space before the '-' if you meant a substraction."
		}
	}
	ctx.diag.Errorf(second.Span, "%s does not have a property %q.%s", what, second.Text, extra)
	return &lang.InvalidExpr{}
}

// maybeLookupObject descends into the remaining path segments, one field
// access at a time.
func (ctx *lookupCtx) maybeLookupObject(base lang.Expr, rest []*syntax.Node) lang.Expr {
	for _, next := range rest {
		nextStr := syntax.NormalizeIdentifier(next.Text)
		switch ty := base.Ty().(type) {
		case *lang.Object:
			if _, ok := ty.Field(nextStr); !ok {
				return ctx.unknownField(next, func(name string) bool {
					_, ok := ty.Field(name)
					return ok
				})
			}
			base = &lang.ObjectAccess{Base: base, Name: nextStr}
		case *lang.Component:
			prop := ty.RootElement.LookupProperty(nextStr)
			if lang.IsInvalid(prop) {
				return ctx.unknownField(next, func(name string) bool {
					return !lang.IsInvalid(ty.RootElement.LookupProperty(name))
				})
			}
			base = &lang.ObjectAccess{Base: base, Name: nextStr}
		case *lang.Basic:
			if lang.IsInvalid(ty) {
				// already diagnosed upstream
				return &lang.InvalidExpr{}
			}
			if lang.Equal(ty, lang.String) {
				switch nextStr {
				case "is_float":
					return &lang.MemberFunction{
						Base:   base,
						Member: &lang.BuiltinFunctionReference{Function: lang.BuiltinStringIsFloat},
					}
				case "to_float":
					return &lang.MemberFunction{
						Base:   base,
						Member: &lang.BuiltinFunctionReference{Function: lang.BuiltinStringToFloat},
					}
				}
				ctx.diag.Errorf(next.Span, "cannot access the field %q of a string", next.Text)
				return &lang.InvalidExpr{}
			}
			ctx.diag.Errorf(next.Span, "cannot access fields of %s", ty)
			return &lang.InvalidExpr{}
		default:
			ctx.diag.Errorf(next.Span, "cannot access fields of %s", base.Ty())
			return &lang.InvalidExpr{}
		}
	}
	return base
}

// unknownField reports a missing field, with the dash-recovery hint when
// the name up to the first dash would have matched.
func (ctx *lookupCtx) unknownField(next *syntax.Node, has func(string) bool) lang.Expr {
	if idx := strings.IndexByte(next.Text, '-'); idx >= 0 {
		if has(syntax.NormalizeIdentifier(next.Text[:idx])) {
			ctx.diag.Errorf(next.Span, "unknown field %q. Use space before the '-' if you meant a substraction.", next.Text)
			return &lang.InvalidExpr{}
		}
	}
	ctx.diag.Errorf(next.Span, "unknown field %q", next.Text)
	return &lang.InvalidExpr{}
}
