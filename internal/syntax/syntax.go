// Package syntax defines the loosely typed syntax tree the parser hands to
// the expression resolution pass. Nodes carry a kind tag, a source span,
// token text for leaves, and children for interior nodes; the resolver
// dispatches on the kind tag.
package syntax

import (
	"fmt"

	"mica/internal/token"
)

type Kind int

const (
	Invalid Kind = iota

	Identifier
	QualifiedName
	StringLiteral
	NumberLiteral
	ColorLiteral

	Expression
	BangExpression
	FunctionCallExpression
	SelfAssignment
	BinaryExpression
	UnaryOpExpression
	ConditionalExpression
	ObjectLiteral
	ObjectMember
	Array
	CodeBlock

	// Binding-level kinds, attached to element properties by the parser.
	BindingExpression
	CallbackConnection
	TwoWayBinding
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Identifier:
		return "Identifier"
	case QualifiedName:
		return "QualifiedName"
	case StringLiteral:
		return "StringLiteral"
	case NumberLiteral:
		return "NumberLiteral"
	case ColorLiteral:
		return "ColorLiteral"
	case Expression:
		return "Expression"
	case BangExpression:
		return "BangExpression"
	case FunctionCallExpression:
		return "FunctionCallExpression"
	case SelfAssignment:
		return "SelfAssignment"
	case BinaryExpression:
		return "BinaryExpression"
	case UnaryOpExpression:
		return "UnaryOpExpression"
	case ConditionalExpression:
		return "ConditionalExpression"
	case ObjectLiteral:
		return "ObjectLiteral"
	case ObjectMember:
		return "ObjectMember"
	case Array:
		return "Array"
	case CodeBlock:
		return "CodeBlock"
	case BindingExpression:
		return "BindingExpression"
	case CallbackConnection:
		return "CallbackConnection"
	case TwoWayBinding:
		return "TwoWayBinding"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one node of the raw syntax tree. Leaves (identifiers, literals,
// operators) carry Text; interior nodes carry Children. BinaryExpression,
// UnaryOpExpression and SelfAssignment nodes store their operator in Text.
type Node struct {
	Kind     Kind
	Span     token.Span
	Text     string
	Children []*Node
}

// Child returns the first direct child of the given kind, or nil.
func (n *Node) Child(k Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// ChildText returns the text of the first direct child of the given kind,
// and whether such a child exists.
func (n *Node) ChildText(k Kind) (string, bool) {
	if c := n.Child(k); c != nil {
		return c.Text, true
	}
	return "", false
}

// NormalizeIdentifier maps an identifier to its canonical spelling: dashes
// and underscores are interchangeable in the language, so lookups always
// use the underscore form. Diagnostics keep the raw text.
func NormalizeIdentifier(s string) string {
	out := []byte(s)
	for i := range out {
		if out[i] == '-' {
			out[i] = '_'
		}
	}
	return string(out)
}

// ChildrenOf returns all direct children of the given kind, in order.
func (n *Node) ChildrenOf(k Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}
