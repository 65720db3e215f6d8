package lang

import "sort"

// Type is the closed set of value types the language knows about.
type Type interface {
	String() string
	equal(Type) bool
}

// Basic types

type BasicKind int

const (
	BasicInvalid BasicKind = iota
	BasicVoid
	BasicBool
	BasicInt32
	BasicFloat32
	BasicString
	BasicColor
	BasicLength
	BasicLogicalLength
	BasicDuration
	BasicPercent
	BasicEasing
	BasicElementReference
	BasicResource
)

type Basic struct {
	Kind BasicKind
	Name string
}

func (b *Basic) String() string { return b.Name }

func (b *Basic) equal(other Type) bool {
	o, ok := other.(*Basic)
	if !ok {
		return false
	}
	return b.Kind == o.Kind
}

var (
	Invalid          = &Basic{Kind: BasicInvalid, Name: "invalid"}
	Void             = &Basic{Kind: BasicVoid, Name: "void"}
	Bool             = &Basic{Kind: BasicBool, Name: "bool"}
	Int32            = &Basic{Kind: BasicInt32, Name: "int"}
	Float32          = &Basic{Kind: BasicFloat32, Name: "float"}
	String           = &Basic{Kind: BasicString, Name: "string"}
	Color            = &Basic{Kind: BasicColor, Name: "color"}
	Length           = &Basic{Kind: BasicLength, Name: "length"}
	LogicalLength    = &Basic{Kind: BasicLogicalLength, Name: "logical_length"}
	Duration         = &Basic{Kind: BasicDuration, Name: "duration"}
	Percent          = &Basic{Kind: BasicPercent, Name: "percent"}
	Easing           = &Basic{Kind: BasicEasing, Name: "easing"}
	ElementReference = &Basic{Kind: BasicElementReference, Name: "element"}
	Resource         = &Basic{Kind: BasicResource, Name: "resource"}
)

func IsInvalid(t Type) bool {
	if b, ok := t.(*Basic); ok {
		return b.Kind == BasicInvalid
	}
	return false
}

func isBasic(t Type, kind BasicKind) bool {
	b, ok := t.(*Basic)
	return ok && b.Kind == kind
}

// Enumeration is a named, closed set of value names.
type Enumeration struct {
	Name   string
	Values []string
}

func (e *Enumeration) String() string { return e.Name }

func (e *Enumeration) equal(other Type) bool {
	o, ok := other.(*Enumeration)
	return ok && e == o
}

// ValueIndex returns the index of the named value, or -1.
func (e *Enumeration) ValueIndex(name string) int {
	for i, v := range e.Values {
		if v == name {
			return i
		}
	}
	return -1
}

// ObjectField is one named field of an Object type.
type ObjectField struct {
	Name string
	Type Type
}

// Object is an anonymous (or optionally named) record type. Fields are kept
// sorted by name so that field order is deterministic.
type Object struct {
	Name   string // may be ""
	Fields []ObjectField
}

// NewObject builds an Object type, sorting the fields by name.
func NewObject(name string, fields []ObjectField) *Object {
	sorted := make([]ObjectField, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Object{Name: name, Fields: sorted}
}

func (o *Object) String() string {
	if o.Name != "" {
		return o.Name
	}
	s := "{ "
	for i, f := range o.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.Name + ": " + f.Type.String()
	}
	return s + " }"
}

func (o *Object) equal(other Type) bool {
	ot, ok := other.(*Object)
	if !ok {
		return false
	}
	if len(o.Fields) != len(ot.Fields) {
		return false
	}
	for i, f := range o.Fields {
		if f.Name != ot.Fields[i].Name || !f.Type.equal(ot.Fields[i].Type) {
			return false
		}
	}
	return true
}

// Field returns the type of the named field and whether it exists.
func (o *Object) Field(name string) (Type, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return Invalid, false
}

// Array is a homogeneous array type.
type Array struct {
	Element Type
}

func (a *Array) String() string { return "[" + a.Element.String() + "]" }

func (a *Array) equal(other Type) bool {
	o, ok := other.(*Array)
	return ok && a.Element.equal(o.Element)
}

// Function is a callable with typed arguments and a return type.
type Function struct {
	Args   []Type
	Return Type
}

func (f *Function) String() string {
	s := "function("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ") -> " + f.Return.String()
}

func (f *Function) equal(other Type) bool {
	o, ok := other.(*Function)
	if !ok || len(f.Args) != len(o.Args) || !f.Return.equal(o.Return) {
		return false
	}
	for i, a := range f.Args {
		if !a.equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Callback is a signal with typed arguments and no return value.
type Callback struct {
	Args []Type
}

func (c *Callback) String() string {
	s := "callback("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (c *Callback) equal(other Type) bool {
	o, ok := other.(*Callback)
	if !ok || len(c.Args) != len(o.Args) {
		return false
	}
	for i, a := range c.Args {
		if !a.equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Builtin is a builtin element type (Rectangle, Text, ...) usable as an
// element base. Properties includes callbacks.
type Builtin struct {
	Name       string
	Properties map[string]Type
}

func (b *Builtin) String() string { return b.Name }

func (b *Builtin) equal(other Type) bool {
	o, ok := other.(*Builtin)
	return ok && b == o
}

// Equal reports whether two types are the same type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.equal(b)
}

// IsPropertyType reports whether t is a type a property value can have, as
// opposed to callbacks, functions, element base types and the invalid/void
// markers.
func IsPropertyType(t Type) bool {
	switch t := t.(type) {
	case *Basic:
		return t.Kind != BasicInvalid && t.Kind != BasicVoid
	case *Callback, *Function, *Builtin, *Component:
		return false
	case nil:
		return false
	default:
		return true
	}
}

// CanConvert reports whether a value of type `from` may be implicitly cast
// to type `to`. Equal types trivially convert. The percent-to-length rule is
// deliberately absent: that rewrite only happens through the dedicated
// conversion in the resolver.
func CanConvert(from, to Type) bool {
	if Equal(from, to) {
		return true
	}
	switch {
	case isBasic(from, BasicInt32) && isBasic(to, BasicFloat32),
		isBasic(from, BasicFloat32) && isBasic(to, BasicInt32):
		return true
	case (isBasic(from, BasicInt32) || isBasic(from, BasicFloat32)) && isBasic(to, BasicColor):
		// 0xAARRGGBB packing
		return true
	case isBasic(from, BasicPercent) && isBasic(to, BasicFloat32):
		return true
	case isBasic(from, BasicLength) && isBasic(to, BasicLogicalLength),
		isBasic(from, BasicLogicalLength) && isBasic(to, BasicLength):
		return true
	}
	if fromObj, ok := from.(*Object); ok {
		if toObj, ok := to.(*Object); ok {
			// Field-wise: every shared field must convert; fields missing on
			// one side are tolerated (they come from merged literals).
			for _, f := range fromObj.Fields {
				if ft, ok := toObj.Field(f.Name); ok && !CanConvert(f.Type, ft) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// CommonTargetType folds a list of types into one type every member can be
// cast to. Object types merge field-wise; otherwise the convertible
// direction wins. Incompatible lists degrade to Invalid, which the caller
// diagnoses if the type is actually needed.
func CommonTargetType(types ...Type) Type {
	target := Type(Invalid)
	for _, ty := range types {
		switch {
		case Equal(target, ty):
			// keep
		case IsInvalid(target):
			target = ty
		default:
			targetObj, tok := target.(*Object)
			tyObj, eok := ty.(*Object)
			switch {
			case tok && eok:
				target = mergeObjects(targetObj, tyObj)
			case CanConvert(ty, target):
				// keep
			case CanConvert(target, ty):
				target = ty
			default:
				target = Invalid
			}
		}
	}
	return target
}

func mergeObjects(a, b *Object) *Object {
	fields := make([]ObjectField, len(a.Fields))
	copy(fields, a.Fields)
	for _, f := range b.Fields {
		merged := false
		for i := range fields {
			if fields[i].Name == f.Name {
				fields[i].Type = CommonTargetType(fields[i].Type, f.Type)
				merged = true
				break
			}
		}
		if !merged {
			fields = append(fields, f)
		}
	}
	name := a.Name
	if name == "" {
		name = b.Name
	}
	return NewObject(name, fields)
}
