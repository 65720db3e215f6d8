package resolve

import (
	"fmt"

	"mica/internal/lang"
	"mica/internal/syntax"
)

// minMaxType maps the type of the first argument to the type the whole
// min/max expression computes in. Plain and percent numbers compare as
// floats; unit-carrying types compare in their own unit.
func minMaxType(t lang.Type) lang.Type {
	switch {
	case lang.Equal(t, lang.Float32), lang.Equal(t, lang.Int32), lang.Equal(t, lang.Percent):
		return lang.Float32
	case lang.Equal(t, lang.Length), lang.Equal(t, lang.LogicalLength), lang.Equal(t, lang.Duration):
		return t
	default:
		return nil
	}
}

// minMaxMacro lowers min(...) / max(...) into a left fold of two-way
// comparisons. Each step stores both operands in temporaries so they are
// evaluated once. op is '<' for min and '>' for max.
func (ctx *lookupCtx) minMaxMacro(node *syntax.Node, op rune, argNodes []*syntax.Node) lang.Expr {
	if len(argNodes) == 0 {
		ctx.diag.Errorf(node.Span, "needs at least one argument")
		return &lang.InvalidExpr{}
	}
	base := ctx.fromExpressionNode(argNodes[0])
	ty := minMaxType(base.Ty())
	if ty == nil {
		if !lang.IsInvalid(base.Ty()) {
			ctx.diag.Errorf(argNodes[0].Span, "invalid argument type")
		}
		return &lang.InvalidExpr{}
	}
	base = lang.MaybeConvertTo(base, ty, argNodes[0].Span, ctx.diag)
	for _, argNode := range argNodes[1:] {
		rhs := lang.MaybeConvertTo(ctx.fromExpressionNode(argNode), ty, argNode.Span, ctx.diag)
		*ctx.localCount++
		lhsName := fmt.Sprintf("minmax_lhs%d", *ctx.localCount)
		rhsName := fmt.Sprintf("minmax_rhs%d", *ctx.localCount)
		lhsRead := &lang.ReadLocalVariable{Name: lhsName, Type: ty}
		rhsRead := &lang.ReadLocalVariable{Name: rhsName, Type: ty}
		base = &lang.CodeBlock{Exprs: []lang.Expr{
			&lang.StoreLocalVariable{Name: lhsName, Value: base},
			&lang.StoreLocalVariable{Name: rhsName, Value: rhs},
			&lang.Condition{
				Condition: &lang.BinaryExpression{Lhs: lhsRead, Rhs: rhsRead, Op: op},
				TrueExpr:  lhsRead,
				FalseExpr: rhsRead,
			},
		}}
	}
	return base
}

// cubicBezierMacro builds an easing curve from exactly four unitless
// number literals. Missing coordinates default to 0 and only the first
// problem is reported, so a best-effort curve always comes out.
func (ctx *lookupCtx) cubicBezierMacro(node *syntax.Node, argNodes []*syntax.Node) lang.Expr {
	var coords [4]float64
	reported := false
	for i := 0; i < 4; i++ {
		if i >= len(argNodes) {
			if !reported {
				ctx.diag.Errorf(node.Span, "not enough arguments")
				reported = true
			}
			continue
		}
		e := ctx.fromExpressionNode(argNodes[i])
		nl, ok := e.(*lang.NumberLiteral)
		if !ok || nl.Unit != lang.UnitNone {
			if !reported {
				ctx.diag.Errorf(argNodes[i].Span, "arguments to cubic bezier curve must be number literals")
				reported = true
			}
			continue
		}
		coords[i] = nl.Value
	}
	if len(argNodes) > 4 && !reported {
		ctx.diag.Errorf(argNodes[4].Span, "too many arguments")
	}
	return &lang.EasingCurveExpr{
		Curve: lang.CubicBezierCurve(coords[0], coords[1], coords[2], coords[3]),
	}
}
