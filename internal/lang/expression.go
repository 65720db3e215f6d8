package lang

import (
	"math"

	"mica/internal/syntax"
)

// Unit is the suffix of a number literal.
type Unit int

const (
	UnitNone Unit = iota
	UnitPhx       // physical pixels
	UnitPx        // logical pixels
	UnitMs        // milliseconds
	UnitS         // seconds
	UnitPercent
)

var unitNames = map[string]Unit{
	"":    UnitNone,
	"phx": UnitPhx,
	"px":  UnitPx,
	"ms":  UnitMs,
	"s":   UnitS,
	"%":   UnitPercent,
}

// ParseUnit maps a unit suffix to its Unit, reporting whether it is known.
func ParseUnit(s string) (Unit, bool) {
	u, ok := unitNames[s]
	return u, ok
}

func (u Unit) String() string {
	switch u {
	case UnitPhx:
		return "phx"
	case UnitPx:
		return "px"
	case UnitMs:
		return "ms"
	case UnitS:
		return "s"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Ty returns the value type a literal with this unit has.
func (u Unit) Ty() Type {
	switch u {
	case UnitPhx:
		return Length
	case UnitPx:
		return LogicalLength
	case UnitMs, UnitS:
		return Duration
	case UnitPercent:
		return Percent
	default:
		return Float32
	}
}

// EasingCurve is a resolved easing value: linear, or a cubic bezier.
type EasingCurve struct {
	Linear     bool
	A, B, C, D float64
}

func LinearCurve() EasingCurve { return EasingCurve{Linear: true} }

func CubicBezierCurve(a, b, c, d float64) EasingCurve {
	return EasingCurve{A: a, B: b, C: c, D: d}
}

// BuiltinFunction is one of the fixed global functions.
type BuiltinFunction int

const (
	BuiltinDebug BuiltinFunction = iota
	BuiltinMod
	BuiltinRound
	BuiltinCeil
	BuiltinFloor
	BuiltinRgb
	BuiltinStringIsFloat
	BuiltinStringToFloat
)

// Ty returns the function type of the builtin. String member functions take
// their receiver as first argument.
func (f BuiltinFunction) Ty() *Function {
	switch f {
	case BuiltinDebug:
		return &Function{Args: []Type{String}, Return: Void}
	case BuiltinMod:
		return &Function{Args: []Type{Int32, Int32}, Return: Int32}
	case BuiltinRound, BuiltinCeil, BuiltinFloor:
		return &Function{Args: []Type{Float32}, Return: Int32}
	case BuiltinRgb:
		return &Function{Args: []Type{Int32, Int32, Int32}, Return: Color}
	case BuiltinStringIsFloat:
		return &Function{Args: []Type{String}, Return: Bool}
	case BuiltinStringToFloat:
		return &Function{Args: []Type{String}, Return: Float32}
	default:
		return &Function{Return: Invalid}
	}
}

// BuiltinMacro is one of the builtin macros, lowered at resolution time.
type BuiltinMacro int

const (
	MacroMin BuiltinMacro = iota
	MacroMax
	MacroCubicBezier
)

// Operator discriminants. Comparison and logical operators are encoded as a
// single rune: '=' (==), '!' (!=), '≤' (<=), '≥' (>=), '&' (&&), '|' (||).
const (
	OpAdd       = '+'
	OpSub       = '-'
	OpMul       = '*'
	OpDiv       = '/'
	OpLess      = '<'
	OpGreater   = '>'
	OpLessEq    = '≤'
	OpGreaterEq = '≥'
	OpEq        = '='
	OpNotEq     = '!'
	OpAnd       = '&'
	OpOr        = '|'
)

// OperatorClass groups binary operators by their typing rule.
type OperatorClass int

const (
	ArithmeticOp OperatorClass = iota
	ComparisonOp
	LogicalOp
)

func ClassOfOperator(op rune) OperatorClass {
	switch op {
	case OpLess, OpGreater, OpLessEq, OpGreaterEq, OpEq, OpNotEq:
		return ComparisonOp
	case OpAnd, OpOr:
		return LogicalOp
	default:
		return ArithmeticOp
	}
}

// Expr is the closed set of resolved expression kinds. Before resolution a
// binding holds an *Uncompiled node; after the pass none remains.
type Expr interface {
	// Ty is the type this expression evaluates to.
	Ty() Type
	exprNode()
}

// InvalidExpr is the explicit marker for an expression that could not be
// resolved. Producing one implies at least one diagnostic was recorded.
type InvalidExpr struct{}

func (*InvalidExpr) Ty() Type { return Invalid }
func (*InvalidExpr) exprNode() {}

// Uncompiled wraps a raw syntax node not yet processed by the resolution
// pass.
type Uncompiled struct {
	Node *syntax.Node
}

func (*Uncompiled) Ty() Type { return Invalid }
func (*Uncompiled) exprNode() {}

type StringLiteral struct {
	Value string
}

func (*StringLiteral) Ty() Type { return String }
func (*StringLiteral) exprNode() {}

type NumberLiteral struct {
	Value float64
	Unit  Unit
}

// Ty types unitless literals as int when they are integral, float otherwise.
func (n *NumberLiteral) Ty() Type {
	if n.Unit == UnitNone {
		if n.Value == math.Trunc(n.Value) {
			return Int32
		}
		return Float32
	}
	return n.Unit.Ty()
}
func (*NumberLiteral) exprNode() {}

type BoolLiteral struct {
	Value bool
}

func (*BoolLiteral) Ty() Type { return Bool }
func (*BoolLiteral) exprNode() {}

// PropertyReference is a resolved reference to an element property.
type PropertyReference struct {
	Reference NamedReference
}

func (p *PropertyReference) Ty() Type { return p.Reference.Ty() }
func (*PropertyReference) exprNode() {}

// CallbackReference is a resolved reference to an element callback.
type CallbackReference struct {
	Reference NamedReference
}

func (c *CallbackReference) Ty() Type { return c.Reference.Ty() }
func (*CallbackReference) exprNode() {}

// FunctionParameterReference is a reference to an argument of the enclosing
// callback or function.
type FunctionParameterReference struct {
	Index int
	Type  Type
}

func (f *FunctionParameterReference) Ty() Type { return f.Type }
func (*FunctionParameterReference) exprNode() {}

// ElementReferenceExpr names an element itself, for element-typed
// properties.
type ElementReferenceExpr struct {
	Element *Element
}

func (*ElementReferenceExpr) Ty() Type { return ElementReference }
func (*ElementReferenceExpr) exprNode() {}

// RepeaterIndexReference is the index of the enclosing repeater.
type RepeaterIndexReference struct {
	Element *Element
}

func (*RepeaterIndexReference) Ty() Type { return Int32 }
func (*RepeaterIndexReference) exprNode() {}

// RepeaterModelReference is the per-instance model data of the enclosing
// repeater.
type RepeaterModelReference struct {
	Element *Element
}

func (r *RepeaterModelReference) Ty() Type {
	if r.Element.Repeated == nil || r.Element.Repeated.Model == nil {
		return Invalid
	}
	model := r.Element.Repeated.Model.Ty()
	if arr, ok := model.(*Array); ok {
		return arr.Element
	}
	// An integer model repeats N times; the data is the iteration number.
	if isBasic(model, BasicInt32) || isBasic(model, BasicFloat32) {
		return Int32
	}
	return model
}
func (*RepeaterModelReference) exprNode() {}

// MemberFunction is a function bound to a receiver; the receiver is passed
// as the first call argument.
type MemberFunction struct {
	Base   Expr
	Member Expr
}

func (m *MemberFunction) Ty() Type { return m.Member.Ty() }
func (*MemberFunction) exprNode() {}

type BuiltinFunctionReference struct {
	Function BuiltinFunction
}

func (b *BuiltinFunctionReference) Ty() Type { return b.Function.Ty() }
func (*BuiltinFunctionReference) exprNode() {}

// BuiltinMacroReference only appears transiently as the callee of a call
// node; the call lowers it away.
type BuiltinMacroReference struct {
	Macro BuiltinMacro
}

func (*BuiltinMacroReference) Ty() Type { return Invalid }
func (*BuiltinMacroReference) exprNode() {}

// StoreLocalVariable and ReadLocalVariable exist only for macro lowering.
type StoreLocalVariable struct {
	Name  string
	Value Expr
}

func (*StoreLocalVariable) Ty() Type { return Void }
func (*StoreLocalVariable) exprNode() {}

type ReadLocalVariable struct {
	Name string
	Type Type
}

func (r *ReadLocalVariable) Ty() Type { return r.Type }
func (*ReadLocalVariable) exprNode() {}

// ObjectAccess reads a field of an object-typed base expression.
type ObjectAccess struct {
	Base Expr
	Name string
}

func (o *ObjectAccess) Ty() Type {
	switch base := o.Base.Ty().(type) {
	case *Object:
		if t, found := base.Field(o.Name); found {
			return t
		}
	case *Component:
		return base.RootElement.LookupProperty(o.Name)
	}
	return Invalid
}
func (*ObjectAccess) exprNode() {}

// Cast converts its operand to an explicit target type.
type Cast struct {
	From Expr
	To   Type
}

func (c *Cast) Ty() Type { return c.To }
func (*Cast) exprNode() {}

// CodeBlock is an ordered sequence whose value is the last expression.
type CodeBlock struct {
	Exprs []Expr
}

func (c *CodeBlock) Ty() Type {
	if len(c.Exprs) == 0 {
		return Void
	}
	return c.Exprs[len(c.Exprs)-1].Ty()
}
func (*CodeBlock) exprNode() {}

type FunctionCall struct {
	Function  Expr
	Arguments []Expr
}

func (f *FunctionCall) Ty() Type {
	switch t := f.Function.Ty().(type) {
	case *Function:
		return t.Return
	case *Callback:
		return Void
	default:
		return Invalid
	}
}
func (*FunctionCall) exprNode() {}

// SelfAssignment writes to a property. Op is '=', '+', '-', '*' or '/'.
type SelfAssignment struct {
	Lhs Expr
	Rhs Expr
	Op  rune
}

func (*SelfAssignment) Ty() Type { return Void }
func (*SelfAssignment) exprNode() {}

type BinaryExpression struct {
	Lhs Expr
	Rhs Expr
	Op  rune
}

func (b *BinaryExpression) Ty() Type {
	switch ClassOfOperator(b.Op) {
	case ComparisonOp, LogicalOp:
		return Bool
	default:
		lhs := b.Lhs.Ty()
		switch b.Op {
		case OpMul:
			// A unit-carrying operand wins over the plain factor.
			if rhs := b.Rhs.Ty(); hasUnit(rhs) && !hasUnit(lhs) {
				return rhs
			}
		case OpDiv:
			// Dividing two values of the same unit yields a plain ratio.
			if hasUnit(lhs) && Equal(lhs, b.Rhs.Ty()) {
				return Float32
			}
		}
		return lhs
	}
}

func hasUnit(t Type) bool {
	return Equal(t, Duration) || Equal(t, Length) || Equal(t, LogicalLength)
}
func (*BinaryExpression) exprNode() {}

type UnaryOp struct {
	Sub Expr
	Op  rune // '+', '-' or '!'
}

func (u *UnaryOp) Ty() Type {
	if u.Op == '!' {
		return Bool
	}
	return u.Sub.Ty()
}
func (*UnaryOp) exprNode() {}

type Condition struct {
	Condition Expr
	TrueExpr  Expr
	FalseExpr Expr
}

func (c *Condition) Ty() Type { return c.TrueExpr.Ty() }
func (*Condition) exprNode() {}

// ObjectLiteral constructs an object value.
type ObjectLiteral struct {
	Type   *Object
	Values map[string]Expr
}

func (o *ObjectLiteral) Ty() Type { return o.Type }
func (*ObjectLiteral) exprNode() {}

// ArrayLiteral constructs an array value.
type ArrayLiteral struct {
	ElementTy Type
	Values    []Expr
}

func (a *ArrayLiteral) Ty() Type { return &Array{Element: a.ElementTy} }
func (*ArrayLiteral) exprNode() {}

// ResourceReference names an external resource by absolute path or URL.
type ResourceReference struct {
	AbsolutePath string
}

func (*ResourceReference) Ty() Type { return Resource }
func (*ResourceReference) exprNode() {}

type EasingCurveExpr struct {
	Curve EasingCurve
}

func (*EasingCurveExpr) Ty() Type { return Easing }
func (*EasingCurveExpr) exprNode() {}

type EnumerationValue struct {
	Enum  *Enumeration
	Value int
}

func (e *EnumerationValue) Ty() Type { return e.Enum }
func (*EnumerationValue) exprNode() {}

// TwoWayBinding aliases the bound property to another property.
type TwoWayBinding struct {
	Reference NamedReference
}

func (t *TwoWayBinding) Ty() Type { return t.Reference.Ty() }
func (*TwoWayBinding) exprNode() {}

// IsReadWrite reports whether e denotes a writable location.
func IsReadWrite(e Expr) bool {
	_, ok := e.(*PropertyReference)
	return ok
}
