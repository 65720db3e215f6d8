package resolve

import (
	"path/filepath"
	"strings"

	"mica/internal/lang"
	"mica/internal/syntax"
	"mica/internal/token"
)

// fromExpressionNode builds the resolved expression for one expression
// node. Unknown or malformed children degrade to the invalid marker; the
// parser has diagnosed those already.
func (ctx *lookupCtx) fromExpressionNode(node *syntax.Node) lang.Expr {
	if len(node.Children) == 0 {
		if !ctx.diag.HasErrors() {
			panic("internal: empty expression node")
		}
		return &lang.InvalidExpr{}
	}
	child := node.Children[0]
	switch child.Kind {
	case syntax.Expression:
		return ctx.fromExpressionNode(child)
	case syntax.QualifiedName:
		return ctx.fromQualifiedNameNode(child)
	case syntax.StringLiteral:
		s, ok := unescapeString(child.Text)
		if !ok {
			ctx.diag.Errorf(child.Span, "cannot parse string literal")
			return &lang.InvalidExpr{}
		}
		return &lang.StringLiteral{Value: s}
	case syntax.NumberLiteral:
		value, unit, err := parseNumberLiteral(child.Text)
		if err != nil {
			ctx.diag.Errorf(child.Span, "%s", err)
			return &lang.InvalidExpr{}
		}
		if unit == lang.UnitS {
			// Durations compute in milliseconds.
			value *= 1000
			unit = lang.UnitMs
		}
		return &lang.NumberLiteral{Value: value, Unit: unit}
	case syntax.ColorLiteral:
		value, ok := parseColorLiteral(child.Text)
		if !ok {
			ctx.diag.Errorf(child.Span, "invalid color literal")
			return &lang.InvalidExpr{}
		}
		return &lang.Cast{
			From: &lang.NumberLiteral{Value: float64(value)},
			To:   lang.Color,
		}
	case syntax.BangExpression:
		return ctx.fromBangExpressionNode(child)
	case syntax.FunctionCallExpression:
		return ctx.fromFunctionCallNode(child)
	case syntax.SelfAssignment:
		return ctx.fromSelfAssignmentNode(child)
	case syntax.BinaryExpression:
		return ctx.fromBinaryExpressionNode(child)
	case syntax.UnaryOpExpression:
		return ctx.fromUnaryOpNode(child)
	case syntax.ConditionalExpression:
		return ctx.fromConditionalNode(child)
	case syntax.ObjectLiteral:
		return ctx.fromObjectLiteralNode(child)
	case syntax.Array:
		return ctx.fromArrayNode(child)
	case syntax.CodeBlock:
		return ctx.fromCodeBlockNode(child)
	default:
		if !ctx.diag.HasErrors() {
			panic("internal: unexpected expression child " + child.Kind.String())
		}
		return &lang.InvalidExpr{}
	}
}

// fromBindingExpressionNode resolves a `name: value;` binding: the value is
// resolved, given a chance at the percent-to-length rewrite, and finally
// coerced to the property type.
func (ctx *lookupCtx) fromBindingExpressionNode(node *syntax.Node) lang.Expr {
	var e lang.Expr = &lang.InvalidExpr{}
	if c := node.Child(syntax.Expression); c != nil {
		e = ctx.fromExpressionNode(c)
	} else if c := node.Child(syntax.CodeBlock); c != nil {
		e = ctx.fromCodeBlockNode(c)
	} else if !ctx.diag.HasErrors() {
		panic("internal: empty binding expression")
	}
	e = ctx.attemptPercentConversion(e, node.Span)
	return lang.MaybeConvertTo(e, ctx.propertyType, node.Span, ctx.diag)
}

// attemptPercentConversion rewrites a percent value bound to a length
// property into a fraction of the same property on the nearest ancestor
// that has it. Only the width and height properties take part.
func (ctx *lookupCtx) attemptPercentConversion(e lang.Expr, span token.Span) lang.Expr {
	if !lang.Equal(ctx.propertyType, lang.Length) || !lang.Equal(e.Ty(), lang.Percent) {
		return e
	}
	if ctx.propertyName != "width" && ctx.propertyName != "height" {
		ctx.diag.Errorf(span, "automatic conversion from percentage to length is only possible for the properties width and height")
		return &lang.InvalidExpr{}
	}
	for parent := ctx.findParent(ctx.self()); parent != nil; parent = ctx.findParent(parent) {
		if !lang.Equal(parent.LookupProperty(ctx.propertyName), lang.Length) {
			continue
		}
		fraction := &lang.BinaryExpression{
			Lhs: e,
			Rhs: &lang.NumberLiteral{Value: 0.01},
			Op:  lang.OpMul,
		}
		return &lang.BinaryExpression{
			Lhs: fraction,
			Rhs: &lang.PropertyReference{Reference: lang.NamedReference{Element: parent, Name: ctx.propertyName}},
			Op:  lang.OpMul,
		}
	}
	ctx.diag.Errorf(span, "cannot find a parent property to apply the relative length to")
	return &lang.InvalidExpr{}
}

func (ctx *lookupCtx) fromCodeBlockNode(node *syntax.Node) lang.Expr {
	children := node.ChildrenOf(syntax.Expression)
	exprs := make([]lang.Expr, len(children))
	for i, c := range children {
		exprs[i] = ctx.fromExpressionNode(c)
	}
	return &lang.CodeBlock{Exprs: exprs}
}

// fromCallbackConnection resolves a `name(args) => { ... }` handler. The
// declared argument names become visible inside the body.
func (ctx *lookupCtx) fromCallbackConnection(node *syntax.Node) lang.Expr {
	cb, ok := ctx.propertyType.(*lang.Callback)
	if !ok {
		if !lang.IsInvalid(ctx.propertyType) {
			ctx.diag.Errorf(node.Span, "%q is not a callback", ctx.propertyName)
		} else {
			ctx.diag.Errorf(node.Span, "unknown callback %q", ctx.propertyName)
		}
		cb = &lang.Callback{}
	}
	args := node.ChildrenOf(syntax.Identifier)
	if len(args) > len(cb.Args) {
		ctx.diag.Errorf(args[len(cb.Args)].Span, "the callback only has %d arguments", len(cb.Args))
		args = args[:len(cb.Args)]
	}
	ctx.arguments = make([]string, len(args))
	for i, a := range args {
		ctx.arguments[i] = syntax.NormalizeIdentifier(a.Text)
	}
	block := node.Child(syntax.CodeBlock)
	if block == nil {
		if !ctx.diag.HasErrors() {
			panic("internal: callback connection without body")
		}
		return &lang.InvalidExpr{}
	}
	return ctx.fromCodeBlockNode(block)
}

// fromTwoWayBinding resolves `name <=> other;`. The expression must be a
// plain property reference of exactly the bound property's type.
func (ctx *lookupCtx) fromTwoWayBinding(node *syntax.Node) lang.Expr {
	c := node.Child(syntax.Expression)
	if c == nil {
		if !ctx.diag.HasErrors() {
			panic("internal: two-way binding without expression")
		}
		return &lang.InvalidExpr{}
	}
	e := ctx.fromExpressionNode(c)
	pr, ok := e.(*lang.PropertyReference)
	if !ok {
		if !lang.IsInvalid(e.Ty()) {
			ctx.diag.Errorf(node.Span, "the expression in a two-way binding must be a property reference")
		}
		return e
	}
	if !lang.IsInvalid(ctx.propertyType) && !lang.Equal(pr.Ty(), ctx.propertyType) {
		ctx.diag.Errorf(node.Span, "the property does not have the same type as the bound property")
	}
	return &lang.TwoWayBinding{Reference: pr.Reference}
}

// fromBangExpressionNode resolves `keyword!expr`. The only keyword is img!,
// which turns a string literal into a resource reference with the path
// anchored at the source file's directory.
func (ctx *lookupCtx) fromBangExpressionNode(node *syntax.Node) lang.Expr {
	name, _ := node.ChildText(syntax.Identifier)
	sub := node.Child(syntax.Expression)
	if name != "img" {
		ctx.diag.Errorf(node.Span, "unknown bang keyword %q", name)
		return &lang.InvalidExpr{}
	}
	if sub != nil {
		if e, ok := ctx.fromExpressionNode(sub).(*lang.StringLiteral); ok {
			return &lang.ResourceReference{AbsolutePath: ctx.resolveResourcePath(e.Value)}
		}
	}
	ctx.diag.Errorf(node.Span, "img! must be followed by a valid path")
	return &lang.InvalidExpr{}
}

func (ctx *lookupCtx) resolveResourcePath(path string) string {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if ctx.docDir == "" || ctx.docDir == "." {
		return path
	}
	return filepath.Join(ctx.docDir, path)
}

// fromFunctionCallNode resolves a call. Macro callees lower in place;
// member functions pass their receiver as first argument; regular callees
// get an arity check and per-argument coercion.
func (ctx *lookupCtx) fromFunctionCallNode(node *syntax.Node) lang.Expr {
	exprs := node.ChildrenOf(syntax.Expression)
	if len(exprs) == 0 {
		if !ctx.diag.HasErrors() {
			panic("internal: call without callee")
		}
		return &lang.InvalidExpr{}
	}
	function := ctx.fromExpressionNode(exprs[0])
	argNodes := exprs[1:]

	if macro, ok := function.(*lang.BuiltinMacroReference); ok {
		switch macro.Macro {
		case lang.MacroMin:
			return ctx.minMaxMacro(node, lang.OpLess, argNodes)
		case lang.MacroMax:
			return ctx.minMaxMacro(node, lang.OpGreater, argNodes)
		case lang.MacroCubicBezier:
			return ctx.cubicBezierMacro(node, argNodes)
		}
	}

	arguments := make([]lang.Expr, 0, len(argNodes)+1)
	argSpans := make([]token.Span, 0, len(argNodes)+1)
	if member, ok := function.(*lang.MemberFunction); ok {
		arguments = append(arguments, member.Base)
		argSpans = append(argSpans, exprs[0].Span)
		function = member.Member
	}
	for _, n := range argNodes {
		arguments = append(arguments, ctx.fromExpressionNode(n))
		argSpans = append(argSpans, n.Span)
	}

	var expected []lang.Type
	switch ty := function.Ty().(type) {
	case *lang.Function:
		expected = ty.Args
	case *lang.Callback:
		expected = ty.Args
	default:
		if !lang.IsInvalid(ty) {
			ctx.diag.Errorf(exprs[0].Span, "the expression is not a function")
		}
		return &lang.InvalidExpr{}
	}
	if len(arguments) != len(expected) {
		ctx.diag.Errorf(node.Span, "the callback or function expects %d arguments, but %d are provided", len(expected), len(arguments))
	} else {
		for i := range arguments {
			arguments[i] = lang.MaybeConvertTo(arguments[i], expected[i], argSpans[i], ctx.diag)
		}
	}
	return &lang.FunctionCall{Function: function, Arguments: arguments}
}

func (ctx *lookupCtx) fromSelfAssignmentNode(node *syntax.Node) lang.Expr {
	exprs := node.ChildrenOf(syntax.Expression)
	if len(exprs) != 2 {
		if !ctx.diag.HasErrors() {
			panic("internal: malformed assignment node")
		}
		return &lang.InvalidExpr{}
	}
	lhs := ctx.fromExpressionNode(exprs[0])
	if !lang.IsReadWrite(lhs) && !lang.IsInvalid(lhs.Ty()) {
		if node.Text == "=" {
			ctx.diag.Errorf(node.Span, "assignment needs to be done on a property")
		} else {
			ctx.diag.Errorf(node.Span, "self assignment needs to be done on a property")
		}
	}
	rhs := lang.MaybeConvertTo(ctx.fromExpressionNode(exprs[1]), lhs.Ty(), exprs[1].Span, ctx.diag)
	op := rune(node.Text[0]) // "=" or the first rune of "+=", "-=", "*=", "/="
	return &lang.SelfAssignment{Lhs: lhs, Rhs: rhs, Op: op}
}

var binaryOps = map[string]rune{
	"+":  lang.OpAdd,
	"-":  lang.OpSub,
	"*":  lang.OpMul,
	"/":  lang.OpDiv,
	"<":  lang.OpLess,
	">":  lang.OpGreater,
	"<=": lang.OpLessEq,
	">=": lang.OpGreaterEq,
	"==": lang.OpEq,
	"!=": lang.OpNotEq,
	"&&": lang.OpAnd,
	"||": lang.OpOr,
}

var unitTypes = []lang.Type{lang.Duration, lang.Length, lang.LogicalLength}

// fromBinaryExpressionNode resolves a binary operator. Comparisons coerce
// both sides to their common type, logical operators to bool, and
// arithmetic follows the unit rules: '+' and '-' keep the left operand's
// unit; '*' with one unit-carrying operand coerces the other to a plain
// number; '/' of two values of the same unit is a ratio, and '/' by a
// plain number keeps the unit. Everything else computes on plain numbers.
func (ctx *lookupCtx) fromBinaryExpressionNode(node *syntax.Node) lang.Expr {
	exprs := node.ChildrenOf(syntax.Expression)
	op, known := binaryOps[node.Text]
	if len(exprs) != 2 || !known {
		if !ctx.diag.HasErrors() {
			panic("internal: malformed binary expression node")
		}
		return &lang.InvalidExpr{}
	}
	lhs := ctx.fromExpressionNode(exprs[0])
	rhs := ctx.fromExpressionNode(exprs[1])

	var expected lang.Type
	switch lang.ClassOfOperator(op) {
	case lang.ComparisonOp:
		expected = lang.CommonTargetType(lhs.Ty(), rhs.Ty())
	case lang.LogicalOp:
		expected = lang.Bool
	default:
		lty, rty := lhs.Ty(), rhs.Ty()
		if op == lang.OpAdd && (lang.Equal(lty, lang.String) || lang.Equal(rty, lang.String)) {
			expected = lang.String
			break
		}
		expected = lang.Float32
		for _, unit := range unitTypes {
			switch {
			case (op == lang.OpAdd || op == lang.OpSub) && lang.Equal(lty, unit):
				expected = unit
			case op == lang.OpMul && lang.Equal(lty, unit):
				return &lang.BinaryExpression{
					Lhs: lhs,
					Rhs: lang.MaybeConvertTo(rhs, lang.Float32, exprs[1].Span, ctx.diag),
					Op:  op,
				}
			case op == lang.OpMul && lang.Equal(rty, unit):
				return &lang.BinaryExpression{
					Lhs: lang.MaybeConvertTo(lhs, lang.Float32, exprs[0].Span, ctx.diag),
					Rhs: rhs,
					Op:  op,
				}
			case op == lang.OpDiv && lang.Equal(lty, unit) && lang.Equal(rty, unit):
				return &lang.BinaryExpression{Lhs: lhs, Rhs: rhs, Op: op}
			case op == lang.OpDiv && lang.Equal(lty, unit):
				return &lang.BinaryExpression{
					Lhs: lhs,
					Rhs: lang.MaybeConvertTo(rhs, lang.Float32, exprs[1].Span, ctx.diag),
					Op:  op,
				}
			}
		}
	}
	return &lang.BinaryExpression{
		Lhs: lang.MaybeConvertTo(lhs, expected, exprs[0].Span, ctx.diag),
		Rhs: lang.MaybeConvertTo(rhs, expected, exprs[1].Span, ctx.diag),
		Op:  op,
	}
}

func (ctx *lookupCtx) fromUnaryOpNode(node *syntax.Node) lang.Expr {
	sub := node.Child(syntax.Expression)
	if sub == nil || node.Text == "" {
		if !ctx.diag.HasErrors() {
			panic("internal: malformed unary expression node")
		}
		return &lang.InvalidExpr{}
	}
	return &lang.UnaryOp{Sub: ctx.fromExpressionNode(sub), Op: rune(node.Text[0])}
}

func (ctx *lookupCtx) fromConditionalNode(node *syntax.Node) lang.Expr {
	exprs := node.ChildrenOf(syntax.Expression)
	if len(exprs) != 3 {
		if !ctx.diag.HasErrors() {
			panic("internal: malformed conditional node")
		}
		return &lang.InvalidExpr{}
	}
	condition := lang.MaybeConvertTo(ctx.fromExpressionNode(exprs[0]), lang.Bool, exprs[0].Span, ctx.diag)
	trueExpr := ctx.fromExpressionNode(exprs[1])
	falseExpr := ctx.fromExpressionNode(exprs[2])
	result := lang.CommonTargetType(trueExpr.Ty(), falseExpr.Ty())
	return &lang.Condition{
		Condition: condition,
		TrueExpr:  lang.MaybeConvertTo(trueExpr, result, exprs[1].Span, ctx.diag),
		FalseExpr: lang.MaybeConvertTo(falseExpr, result, exprs[2].Span, ctx.diag),
	}
}

func (ctx *lookupCtx) fromObjectLiteralNode(node *syntax.Node) lang.Expr {
	values := make(map[string]lang.Expr)
	var fields []lang.ObjectField
	for _, member := range node.ChildrenOf(syntax.ObjectMember) {
		name, ok := member.ChildText(syntax.Identifier)
		value := member.Child(syntax.Expression)
		if !ok || value == nil {
			continue
		}
		name = syntax.NormalizeIdentifier(name)
		e := ctx.fromExpressionNode(value)
		values[name] = e
		fields = append(fields, lang.ObjectField{Name: name, Type: e.Ty()})
	}
	return &lang.ObjectLiteral{Type: lang.NewObject("", fields), Values: values}
}

func (ctx *lookupCtx) fromArrayNode(node *syntax.Node) lang.Expr {
	exprs := node.ChildrenOf(syntax.Expression)
	values := make([]lang.Expr, len(exprs))
	types := make([]lang.Type, len(exprs))
	for i, c := range exprs {
		values[i] = ctx.fromExpressionNode(c)
		types[i] = values[i].Ty()
	}
	elementTy := lang.CommonTargetType(types...)
	for i := range values {
		values[i] = lang.MaybeConvertTo(values[i], elementTy, exprs[i].Span, ctx.diag)
	}
	return &lang.ArrayLiteral{ElementTy: elementTy, Values: values}
}
