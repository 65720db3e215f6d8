package lang

// TypeRegister is a read-only lookup table for builtin types and, layered
// per document, components and globals.
type TypeRegister struct {
	parent *TypeRegister
	types  map[string]Type
}

// NewTypeRegister creates a registry layered on top of parent. A nil parent
// makes a root registry.
func NewTypeRegister(parent *TypeRegister) *TypeRegister {
	return &TypeRegister{parent: parent, types: make(map[string]Type)}
}

// Lookup resolves a type name, falling back to the parent registry, and
// returns Invalid for unknown names.
func (r *TypeRegister) Lookup(name string) Type {
	for reg := r; reg != nil; reg = reg.parent {
		if t, ok := reg.types[name]; ok {
			return t
		}
	}
	return Invalid
}

// Register adds a type under the given name, shadowing any parent entry.
func (r *TypeRegister) Register(name string, t Type) {
	r.types[name] = t
}

// TextHorizontalAlignment is the horizontal alignment enumeration of the
// Text element.
var TextHorizontalAlignment = &Enumeration{
	Name:   "TextHorizontalAlignment",
	Values: []string{"align_left", "align_center", "align_right"},
}

func geometry() map[string]Type {
	return map[string]Type{
		"x":      Length,
		"y":      Length,
		"width":  Length,
		"height": Length,
	}
}

func withGeometry(extra map[string]Type) map[string]Type {
	props := geometry()
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// BuiltinRegistry returns the root registry: element types, property type
// names, and builtin enumerations.
func BuiltinRegistry() *TypeRegister {
	r := NewTypeRegister(nil)

	// Property type names as they appear in property<...> declarations.
	for _, t := range []*Basic{
		Int32, Float32, String, Bool, Color, Length, LogicalLength,
		Duration, Percent, Easing, ElementReference, Resource,
	} {
		r.Register(t.Name, t)
	}
	r.Register(TextHorizontalAlignment.Name, TextHorizontalAlignment)

	r.Register("Rectangle", &Builtin{
		Name: "Rectangle",
		Properties: withGeometry(map[string]Type{
			"color":        Color,
			"border_width": Length,
			"border_color": Color,
		}),
	})
	r.Register("Text", &Builtin{
		Name: "Text",
		Properties: withGeometry(map[string]Type{
			"text":                 String,
			"color":                Color,
			"font_size":            Length,
			"horizontal_alignment": TextHorizontalAlignment,
		}),
	})
	r.Register("Image", &Builtin{
		Name: "Image",
		Properties: withGeometry(map[string]Type{
			"source": Resource,
		}),
	})
	r.Register("TouchArea", &Builtin{
		Name: "TouchArea",
		Properties: withGeometry(map[string]Type{
			"pressed": Bool,
			"clicked": &Callback{},
		}),
	})
	r.Register("Window", &Builtin{
		Name: "Window",
		Properties: map[string]Type{
			"width":  Length,
			"height": Length,
			"color":  Color,
			"title":  String,
		},
	})
	r.Register("PropertyAnimation", &Builtin{
		Name: "PropertyAnimation",
		Properties: map[string]Type{
			"duration":   Duration,
			"easing":     Easing,
			"loop_count": Int32,
		},
	})
	return r
}
