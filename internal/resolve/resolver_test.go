package resolve_test

import (
	"strings"
	"testing"

	"mica/internal/diag"
	"mica/internal/lang"
	"mica/internal/lexer"
	"mica/internal/parser"
	"mica/internal/resolve"
	"mica/internal/syntax"
)

func compile(t *testing.T, input string) (*lang.Document, *diag.Diagnostics) {
	t.Helper()
	l := lexer.New(input)
	d := diag.New("test.mica")
	doc := parser.New(l, d).ParseDocument()
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("lexer errors: %v", errs)
	}
	resolve.ResolveExpressions(doc, d)
	return doc, d
}

func expectNoErrors(t *testing.T, d *diag.Diagnostics) {
	t.Helper()
	if d.HasErrors() {
		for _, e := range d.All() {
			t.Logf("diagnostic: %s", e)
		}
		t.Fatalf("expected no diagnostics, got %d", len(d.All()))
	}
}

func expectError(t *testing.T, d *diag.Diagnostics, substr string) {
	t.Helper()
	for _, e := range d.All() {
		if strings.Contains(e.Msg, substr) {
			return
		}
	}
	for _, e := range d.All() {
		t.Logf("diagnostic: %s", e)
	}
	t.Fatalf("expected a diagnostic containing %q", substr)
}

func rootBinding(t *testing.T, doc *lang.Document, name string) lang.Expr {
	t.Helper()
	if len(doc.Components) == 0 {
		t.Fatal("no components parsed")
	}
	root := doc.Components[len(doc.Components)-1].RootElement
	e, ok := root.Bindings[name]
	if !ok {
		t.Fatalf("no binding %q on root element", name)
	}
	return e
}

func TestResolveValidDocument(t *testing.T) {
	input := `
App := Rectangle {
    width: 100phx;
    height: 50phx + 25phx;
    color: #abc;
    property<string> title: "hello " + "world";
    property<bool> flag: true;

    Text {
        text: title;
        font_size: 12phx;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	if n, ok := rootBinding(t, doc, "width").(*lang.NumberLiteral); !ok || n.Unit != lang.UnitPhx || n.Value != 100 {
		t.Fatalf("width resolved to %#v, want 100phx literal", rootBinding(t, doc, "width"))
	}
	if b, ok := rootBinding(t, doc, "height").(*lang.BinaryExpression); !ok || b.Op != lang.OpAdd {
		t.Fatalf("height resolved to %#v, want an addition", rootBinding(t, doc, "height"))
	}
	if c, ok := rootBinding(t, doc, "color").(*lang.Cast); !ok || !lang.Equal(c.To, lang.Color) {
		t.Fatalf("color resolved to %#v, want a cast to color", rootBinding(t, doc, "color"))
	}
	title := rootBinding(t, doc, "title")
	if !lang.Equal(title.Ty(), lang.String) {
		t.Fatalf("title has type %s, want string", title.Ty())
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	input := `
App := Rectangle {
    width: 10phx;
    property<int> count: 1 + 2;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)
	before := rootBinding(t, doc, "count")

	resolve.ResolveExpressions(doc, d)
	expectNoErrors(t, d)
	if rootBinding(t, doc, "count") != before {
		t.Fatal("second resolution changed an already resolved binding")
	}
}

func TestNoUncompiledNodesRemain(t *testing.T) {
	input := `
App := Rectangle {
    width: nonsense;
    height: 10phx;
    for item in [1, 2, 3]: Text {
        text: "x";
    }
}
`
	doc, d := compile(t, input)
	if !d.HasErrors() {
		t.Fatal("expected diagnostics for the unknown identifier")
	}
	var check func(e *lang.Element)
	check = func(e *lang.Element) {
		for name, binding := range e.Bindings {
			if _, ok := binding.(*lang.Uncompiled); ok {
				t.Errorf("binding %q still unresolved", name)
			}
		}
		if e.Repeated != nil {
			if _, ok := e.Repeated.Model.(*lang.Uncompiled); ok {
				t.Error("repeater model still unresolved")
			}
		}
		for _, child := range e.Children {
			check(child)
		}
	}
	for _, comp := range doc.Components {
		check(comp.RootElement)
	}
}

func TestUnknownIdentifier(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<int> a: something;
}
`)
	expectError(t, d, `unknown unqualified identifier "something"`)
}

func TestUnknownProperty(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    frobnicate: 42;
}
`)
	expectError(t, d, `unknown property "frobnicate"`)
}

func TestHyphenRecoveryHint(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<int> foo: 2;
    property<int> b: foo-x;
}
`)
	expectError(t, d, "Use space before the '-' if you meant a substraction")
}

func TestDashedIdentifierNormalization(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<int> foo_x: 2;
    property<int> b: foo-x;
}
`)
	expectNoErrors(t, d)
}

func TestPropertyShadowing(t *testing.T) {
	input := `
App := Rectangle {
    property<int> depth: 1;
    Rectangle {
        property<int> depth: 2;
        property<int> d: depth;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	inner := doc.Components[0].RootElement.Children[0]
	pr, ok := inner.Bindings["d"].(*lang.PropertyReference)
	if !ok {
		t.Fatalf("d resolved to %#v, want a property reference", inner.Bindings["d"])
	}
	if pr.Reference.Element != inner {
		t.Fatal("depth resolved to the outer element, want the innermost declaration")
	}
}

func TestElementIDLookup(t *testing.T) {
	input := `
App := Rectangle {
    rect := Rectangle { width: 10phx; }
    property<length> w: rect.width;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	pr, ok := rootBinding(t, doc, "w").(*lang.PropertyReference)
	if !ok {
		t.Fatalf("w resolved to %#v, want a property reference", rootBinding(t, doc, "w"))
	}
	if pr.Reference.Element != doc.Components[0].RootElement.Children[0] {
		t.Fatal("w does not reference the rect element")
	}
}

func TestIDInsideRepeaterNotVisible(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    for item in [1, 2]: Rectangle {
        boxed := Rectangle {}
    }
    property<length> w: boxed.width;
}
`)
	expectError(t, d, `cannot access id "boxed"`)
}

func TestSelfAndParent(t *testing.T) {
	input := `
App := Rectangle {
    width: 80phx;
    Rectangle {
        width: parent.width - 10phx;
        height: self.width;
    }
}
`
	_, d := compile(t, input)
	expectNoErrors(t, d)
}

func TestPercentToLengthConversion(t *testing.T) {
	input := `
App := Rectangle {
    width: 100phx;
    Rectangle {
        width: 50%;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	inner := doc.Components[0].RootElement.Children[0]
	outer, ok := inner.Bindings["width"].(*lang.BinaryExpression)
	if !ok || outer.Op != lang.OpMul {
		t.Fatalf("width resolved to %#v, want a multiplication", inner.Bindings["width"])
	}
	pr, ok := outer.Rhs.(*lang.PropertyReference)
	if !ok || pr.Reference.Name != "width" || pr.Reference.Element != doc.Components[0].RootElement {
		t.Fatalf("percent width is not relative to the parent width: %#v", outer.Rhs)
	}
	fraction, ok := outer.Lhs.(*lang.BinaryExpression)
	if !ok || fraction.Op != lang.OpMul {
		t.Fatalf("expected the percent value scaled by 0.01, got %#v", outer.Lhs)
	}
}

func TestPercentWithoutEligibleAncestor(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    width: 50%;
}
`)
	expectError(t, d, "cannot find a parent property to apply the relative length to")
}

func TestPercentOnOtherProperty(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    Rectangle {
        property<length> gap: 10%;
    }
}
`)
	expectError(t, d, "only possible for the properties width and height")
}

func TestTwoWayBinding(t *testing.T) {
	input := `
App := Rectangle {
    rect := Rectangle {}
    property<length> a;
    a <=> rect.width;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	tw, ok := rootBinding(t, doc, "a").(*lang.TwoWayBinding)
	if !ok {
		t.Fatalf("a resolved to %#v, want a two-way binding", rootBinding(t, doc, "a"))
	}
	if tw.Reference.Name != "width" {
		t.Fatalf("two-way binding references %q, want width", tw.Reference.Name)
	}
}

func TestTwoWayBindingTypeMismatch(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    rect := Rectangle {}
    property<color> c;
    c <=> rect.width;
}
`)
	expectError(t, d, "the property does not have the same type as the bound property")
}

func TestTwoWayBindingToLiteral(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<length> b;
    b <=> 42phx;
}
`)
	expectError(t, d, "the expression in a two-way binding must be a property reference")
}

func TestMinMaxLowering(t *testing.T) {
	input := `
App := Rectangle {
    property<length> m: min(self.width, 10phx, 20phx);
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	block, ok := rootBinding(t, doc, "m").(*lang.CodeBlock)
	if !ok {
		t.Fatalf("min resolved to %#v, want a code block", rootBinding(t, doc, "m"))
	}
	if len(block.Exprs) != 3 {
		t.Fatalf("lowered min has %d expressions, want store, store, condition", len(block.Exprs))
	}
	cond, ok := block.Exprs[2].(*lang.Condition)
	if !ok {
		t.Fatalf("final expression is %#v, want a condition", block.Exprs[2])
	}
	cmp, ok := cond.Condition.(*lang.BinaryExpression)
	if !ok || cmp.Op != lang.OpLess {
		t.Fatalf("min compares with %#v, want '<'", cond.Condition)
	}
	if !lang.Equal(block.Ty(), lang.Length) {
		t.Fatalf("min of lengths has type %s, want length", block.Ty())
	}
}

func TestMinMaxIntComputesAsFloat(t *testing.T) {
	input := `
App := Rectangle {
    property<float> m: max(1, 2, 3);
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)
	if ty := rootBinding(t, doc, "m").Ty(); !lang.Equal(ty, lang.Float32) {
		t.Fatalf("max over ints has type %s, want float", ty)
	}
}

func TestMinMaxSingleArgument(t *testing.T) {
	input := `
App := Rectangle {
    property<length> m: min(width);
    property<float> n: min(2);
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	// One unit-typed argument folds to nothing: the argument comes back as is.
	if _, ok := rootBinding(t, doc, "m").(*lang.PropertyReference); !ok {
		t.Fatalf("got %T, want the bare property reference", rootBinding(t, doc, "m"))
	}
	// An int argument still normalizes to float.
	c, ok := rootBinding(t, doc, "n").(*lang.Cast)
	if !ok || !lang.Equal(c.To, lang.Float32) {
		t.Fatalf("got %#v, want a cast to float", rootBinding(t, doc, "n"))
	}
}

func TestMinNeedsArguments(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<float> m: min();
}
`)
	expectError(t, d, "needs at least one argument")
}

func TestMinInvalidArgumentType(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<string> m: min("a", "b");
}
`)
	expectError(t, d, "invalid argument type")
}

func TestCubicBezier(t *testing.T) {
	input := `
App := Rectangle {
    PropertyAnimation {
        easing: cubic_bezier(0.1, 0.2, 0.3, 0.4);
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	anim := doc.Components[0].RootElement.Children[0]
	curve, ok := anim.Bindings["easing"].(*lang.EasingCurveExpr)
	if !ok {
		t.Fatalf("easing resolved to %#v, want an easing curve", anim.Bindings["easing"])
	}
	got := curve.Curve
	if got.Linear || got.A != 0.1 || got.B != 0.2 || got.C != 0.3 || got.D != 0.4 {
		t.Fatalf("wrong curve: %+v", got)
	}
}

func TestCubicBezierArity(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    PropertyAnimation {
        easing: cubic_bezier(0.1, 0.2);
    }
}
`)
	expectError(t, d, "not enough arguments")
}

func TestCubicBezierNonLiteralArgument(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<float> f: 0.5;
    PropertyAnimation {
        easing: cubic_bezier(f, 0.2, 0.3, 0.4);
    }
}
`)
	expectError(t, d, "arguments to cubic bezier curve must be number literals")
}

func TestEasingKeyword(t *testing.T) {
	input := `
App := Rectangle {
    PropertyAnimation {
        easing: ease_in_out;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)
	anim := doc.Components[0].RootElement.Children[0]
	if _, ok := anim.Bindings["easing"].(*lang.EasingCurveExpr); !ok {
		t.Fatalf("easing resolved to %#v, want an easing curve", anim.Bindings["easing"])
	}
}

func TestNamedColor(t *testing.T) {
	input := `
App := Rectangle {
    color: blue;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	cast, ok := rootBinding(t, doc, "color").(*lang.Cast)
	if !ok || !lang.Equal(cast.To, lang.Color) {
		t.Fatalf("color resolved to %#v, want a cast to color", rootBinding(t, doc, "color"))
	}
	n, ok := cast.From.(*lang.NumberLiteral)
	if !ok || uint32(n.Value) != 0xff0000ff {
		t.Fatalf("blue packed as %#v, want 0xff0000ff", cast.From)
	}
}

func TestNamedColorOnlyForColorProperties(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<int> a: blue;
}
`)
	expectError(t, d, `unknown unqualified identifier "blue"`)
}

func TestEnumerationValue(t *testing.T) {
	input := `
App := Text {
    horizontal_alignment: align_center;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	ev, ok := rootBinding(t, doc, "horizontal_alignment").(*lang.EnumerationValue)
	if !ok {
		t.Fatalf("alignment resolved to %#v, want an enumeration value", rootBinding(t, doc, "horizontal_alignment"))
	}
	if ev.Enum != lang.TextHorizontalAlignment || ev.Value != 1 {
		t.Fatalf("wrong enumeration value: %v %d", ev.Enum, ev.Value)
	}
}

func TestCallbackConnectionArguments(t *testing.T) {
	input := `
App := TouchArea {
    callback activated(int, string);
    activated(count, label) => {
        debug(label);
        x = count * 1phx;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	block, ok := rootBinding(t, doc, "activated").(*lang.CodeBlock)
	if !ok || len(block.Exprs) != 2 {
		t.Fatalf("handler resolved to %#v, want a two-expression code block", rootBinding(t, doc, "activated"))
	}
}

func TestCallbackConnectionTooManyArguments(t *testing.T) {
	_, d := compile(t, `
App := TouchArea {
    clicked(a) => {}
}
`)
	expectError(t, d, "the callback only has 0 arguments")
}

func TestCallbackFieldAccess(t *testing.T) {
	_, d := compile(t, `
App := TouchArea {
    property<int> z: clicked.foo;
}
`)
	expectError(t, d, "cannot access fields of a callback")
}

func TestCallbackCall(t *testing.T) {
	input := `
App := TouchArea {
    callback activated(int);
    clicked => { activated(4); }
}
`
	_, d := compile(t, input)
	expectNoErrors(t, d)
}

func TestFunctionArityMismatch(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    color: rgb(255, 0);
}
`)
	expectError(t, d, "expects 3 arguments, but 2 are provided")
}

func TestBuiltinRgb(t *testing.T) {
	input := `
App := Rectangle {
    color: rgb(255, 0, 0);
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)
	if ty := rootBinding(t, doc, "color").Ty(); !lang.Equal(ty, lang.Color) {
		t.Fatalf("rgb() has type %s, want color", ty)
	}
}

func TestStringMemberFunctions(t *testing.T) {
	input := `
App := Rectangle {
    txt := Text { text: "3.14"; }
    property<bool> ok: txt.text.is_float();
    property<float> value: txt.text.to_float();
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	call, ok := rootBinding(t, doc, "ok").(*lang.FunctionCall)
	if !ok || len(call.Arguments) != 1 {
		t.Fatalf("is_float resolved to %#v, want a call with the receiver argument", rootBinding(t, doc, "ok"))
	}
	if !lang.Equal(call.Ty(), lang.Bool) {
		t.Fatalf("is_float() has type %s, want bool", call.Ty())
	}
}

func TestAssignmentTargetMustBeProperty(t *testing.T) {
	_, d := compile(t, `
App := TouchArea {
    clicked => { 1 + 1 = 3; }
}
`)
	expectError(t, d, "assignment needs to be done on a property")
}

func TestSelfAssignmentInHandler(t *testing.T) {
	input := `
App := TouchArea {
    clicked => { width += 5phx; }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	block := rootBinding(t, doc, "clicked").(*lang.CodeBlock)
	sa, ok := block.Exprs[0].(*lang.SelfAssignment)
	if !ok || sa.Op != '+' {
		t.Fatalf("handler body is %#v, want a '+' self assignment", block.Exprs[0])
	}
}

func TestRepeaterModelAndIndex(t *testing.T) {
	input := `
App := Rectangle {
    for person[i] in [{ name: "ada" }, { name: "brian" }]: Text {
        text: person.name;
        y: i * 20phx;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	repeated := doc.Components[0].RootElement.Children[0]
	if repeated.Repeated == nil {
		t.Fatal("repeater metadata missing")
	}
	access, ok := repeated.Bindings["text"].(*lang.ObjectAccess)
	if !ok || access.Name != "name" {
		t.Fatalf("text resolved to %#v, want model field access", repeated.Bindings["text"])
	}
	if _, ok := access.Base.(*lang.RepeaterModelReference); !ok {
		t.Fatalf("field access base is %#v, want the repeater model", access.Base)
	}
}

func TestIntegerModelDataIsInt(t *testing.T) {
	input := `
App := Rectangle {
    for n in 5: Text {
        property<int> v: n;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	repeated := doc.Components[0].RootElement.Children[0]
	model, ok := repeated.Bindings["v"].(*lang.RepeaterModelReference)
	if !ok {
		t.Fatalf("v resolved to %#v, want the repeater model", repeated.Bindings["v"])
	}
	if !lang.Equal(model.Ty(), lang.Int32) {
		t.Fatalf("integer model data has type %s, want int", model.Ty())
	}
}

func TestIfRepeaterConditionCoercion(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    if 1phx: Rectangle {}
}
`)
	expectError(t, d, "cannot convert expression of type length to bool")
}

func TestIfRepeaterValid(t *testing.T) {
	input := `
App := Rectangle {
    property<bool> visible: true;
    if visible: Rectangle { width: 10phx; }
}
`
	_, d := compile(t, input)
	expectNoErrors(t, d)
}

func TestNestedRepeaterScopes(t *testing.T) {
	input := `
App := Rectangle {
    for row in [[1, 2], [3]]: Rectangle {
        for cell in row: Text {
            property<int> v: cell;
        }
    }
}
`
	_, d := compile(t, input)
	expectNoErrors(t, d)
}

func TestUnitArithmetic(t *testing.T) {
	input := `
App := Rectangle {
    property<duration> total: 100ms + 50ms;
    property<length> scaled: width * 2;
    property<float> ratio: width / height;
    property<length> half: width / 2;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	if ty := rootBinding(t, doc, "ratio").Ty(); !lang.Equal(ty, lang.Float32) {
		t.Fatalf("length/length has type %s, want float", ty)
	}
	if ty := rootBinding(t, doc, "scaled").Ty(); !lang.Equal(ty, lang.Length) {
		t.Fatalf("length*float has type %s, want length", ty)
	}
}

func TestSecondsNormalizeToMilliseconds(t *testing.T) {
	doc, d := compile(t, `
App := Rectangle {
    property<duration> delay: 2s;
}
`)
	expectNoErrors(t, d)

	lit, ok := rootBinding(t, doc, "delay").(*lang.NumberLiteral)
	if !ok {
		t.Fatalf("binding is %T, want *lang.NumberLiteral", rootBinding(t, doc, "delay"))
	}
	if lit.Value != 2000 || lit.Unit != lang.UnitMs {
		t.Fatalf("got %v %v, want 2000 ms", lit.Value, lit.Unit)
	}
}

func TestUnitlessLiteralTypes(t *testing.T) {
	doc, d := compile(t, `
App := Rectangle {
    property<int> whole: 7;
    property<float> frac: 7.5;
}
`)
	expectNoErrors(t, d)

	if ty := rootBinding(t, doc, "whole").Ty(); !lang.Equal(ty, lang.Int32) {
		t.Fatalf("integral literal has type %s, want int", ty)
	}
	if ty := rootBinding(t, doc, "frac").Ty(); !lang.Equal(ty, lang.Float32) {
		t.Fatalf("fractional literal has type %s, want float", ty)
	}
}

func TestUnitMismatch(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<duration> bad: 100ms + self.width;
}
`)
	expectError(t, d, "cannot convert expression of type length to duration")
}

func TestComparisonYieldsBool(t *testing.T) {
	input := `
App := Rectangle {
    property<bool> wide: width > 100phx;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)
	if ty := rootBinding(t, doc, "wide").Ty(); !lang.Equal(ty, lang.Bool) {
		t.Fatalf("comparison has type %s, want bool", ty)
	}
}

func TestConditionalCommonType(t *testing.T) {
	input := `
App := Rectangle {
    property<float> f: true ? 1 : 2.5;
}
`
	_, d := compile(t, input)
	expectNoErrors(t, d)
}

func TestConditionalConditionMustBeBool(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<int> f: "yes" ? 1 : 2;
}
`)
	expectError(t, d, "cannot convert expression of type string to bool")
}

func TestGlobalSingleton(t *testing.T) {
	input := `
global Theme := {
    property<color> highlight: #4070ff;
    property<length> spacing: 8phx;
}

App := Rectangle {
    color: Theme.highlight;
    Rectangle {
        x: Theme.spacing;
    }
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	pr, ok := rootBinding(t, doc, "color").(*lang.PropertyReference)
	if !ok {
		t.Fatalf("color resolved to %#v, want a property reference", rootBinding(t, doc, "color"))
	}
	if pr.Reference.Element != doc.Components[0].RootElement {
		t.Fatal("color does not reference the global's root element")
	}
}

func TestGlobalUnknownProperty(t *testing.T) {
	_, d := compile(t, `
global Theme := {
    property<color> highlight;
}

App := Rectangle {
    color: Theme.missing;
}
`)
	expectError(t, d, `global Theme does not have a property "missing"`)
}

func TestObjectPropertyFieldAccessRejected(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<{ a: int }> obj;
    property<int> b: obj.a;
}
`)
	expectError(t, d, "field access on the object-typed property")
}

func TestQualifiedObjectFieldAccess(t *testing.T) {
	input := `
App := Rectangle {
    property<{ a: int, b: string }> obj: { a: 1, b: "x" };
    property<int> v: self.obj.a;
}
`
	_, d := compile(t, input)
	expectNoErrors(t, d)
}

func TestUnknownObjectField(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    property<{ a: int }> obj;
    property<int> v: self.obj.nope;
}
`)
	expectError(t, d, `unknown field "nope"`)
}

func TestElementReferenceProperty(t *testing.T) {
	input := `
App := Rectangle {
    rect := Rectangle {}
    property<element> target: rect;
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	er, ok := rootBinding(t, doc, "target").(*lang.ElementReferenceExpr)
	if !ok {
		t.Fatalf("target resolved to %#v, want an element reference", rootBinding(t, doc, "target"))
	}
	if er.Element != doc.Components[0].RootElement.Children[0] {
		t.Fatal("target does not reference the rect element")
	}
}

func TestBareElementReferenceRejected(t *testing.T) {
	_, d := compile(t, `
App := Rectangle {
    rect := Rectangle {}
    property<int> q: rect;
}
`)
	expectError(t, d, "cannot take a reference to an element")
}

func TestImageResource(t *testing.T) {
	input := `
App := Image {
    source: img!"icon.png";
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	res, ok := rootBinding(t, doc, "source").(*lang.ResourceReference)
	if !ok {
		t.Fatalf("source resolved to %#v, want a resource reference", rootBinding(t, doc, "source"))
	}
	if res.AbsolutePath != "icon.png" {
		t.Fatalf("resource path %q, want icon.png", res.AbsolutePath)
	}
}

func TestImgBangNeedsStringLiteral(t *testing.T) {
	_, d := compile(t, `
App := Image {
    source: img!42;
}
`)
	expectError(t, d, "img! must be followed by a valid path")
}

func TestArrayCommonElementType(t *testing.T) {
	input := `
App := Rectangle {
    property<[int]> values: [1, 2.5, 3];
}
`
	doc, d := compile(t, input)
	expectNoErrors(t, d)

	arr, ok := rootBinding(t, doc, "values").(*lang.ArrayLiteral)
	if !ok {
		t.Fatalf("values resolved to %#v, want an array literal", rootBinding(t, doc, "values"))
	}
	if len(arr.Values) != 3 {
		t.Fatalf("array has %d values, want 3", len(arr.Values))
	}
}

func TestComponentAsChildElement(t *testing.T) {
	input := `
Button := Rectangle {
    property<string> label;
}

App := Rectangle {
    Button {
        label: "press me";
    }
}
`
	_, d := compile(t, input)
	expectNoErrors(t, d)
}

func TestConstantExpression(t *testing.T) {
	l := lexer.New(`
App := Rectangle {
    property<duration> t: 1s + 500ms;
}
`)
	d := diag.New("test.mica")
	doc := parser.New(l, d).ParseDocument()
	expectNoErrors(t, d)

	u, ok := doc.Components[0].RootElement.Bindings["t"].(*lang.Uncompiled)
	if !ok {
		t.Fatal("binding should still be unresolved after parsing")
	}
	node := u.Node.Child(syntax.Expression)
	if node == nil {
		t.Fatal("binding has no expression node")
	}

	e := resolve.ConstantExpression(node, doc.Registry, d)
	expectNoErrors(t, d)
	if !lang.Equal(e.Ty(), lang.Duration) {
		t.Fatalf("constant expression has type %s, want duration", e.Ty())
	}
	bin, ok := e.(*lang.BinaryExpression)
	if !ok {
		t.Fatalf("got %T, want *lang.BinaryExpression", e)
	}
	lhs, ok := bin.Lhs.(*lang.NumberLiteral)
	if !ok || lhs.Value != 1000 || lhs.Unit != lang.UnitMs {
		t.Fatalf("got %#v, want the literal 1000ms", bin.Lhs)
	}
}
