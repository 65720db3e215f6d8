package token

import "fmt"

type Kind int

const (
	Illegal Kind = iota
	EOF

	Ident  // Identifier (may contain '-' followed by a letter)
	Number // Number literal, unit suffix included (10, 1.5phx, 100%)
	String // String literal
	Color  // Color literal (#rgb, #rgba, #rrggbb, #aarrggbb)

	// Keywords
	Property
	Callback
	Global
	For
	In
	If

	// Operators
	Assign  // =
	PlusEq  // +=
	MinusEq // -=
	StarEq  // *=
	SlashEq // /=

	Plus  // +
	Minus // -
	Star  // *
	Slash // /

	Bang   // !
	AndAnd // &&
	OrOr   // ||

	Eq    // ==
	NotEq // !=
	Lt    // <
	LtEq  // <=
	Gt    // >
	GtEq  // >=

	// Symbols
	ColonEq     // :=
	Arrow       // =>
	TwoWayArrow // <=>
	Comma       // ,
	Semicolon   // ;
	Dot         // .
	Colon       // :
	Question    // ?

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
)

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a source range, used by diagnostics and syntax nodes.
type Span struct {
	Start Position
	End   Position
}

type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

// Span returns the source range covered by the token. Tokens never span
// multiple lines.
func (t Token) Span() Span {
	return Span{
		Start: t.Pos,
		End:   Position{Line: t.Pos.Line, Column: t.Pos.Column + len(t.Lexeme)},
	}
}

var keywords = map[string]Kind{
	"property": Property,
	"callback": Callback,
	"global":   Global,
	"for":      For,
	"in":       In,
	"if":       If,
}

// LookupIdent returns the keyword kind for lit, or Ident.
func LookupIdent(lit string) Kind {
	if kind, ok := keywords[lit]; ok {
		return kind
	}
	return Ident
}

func (k Kind) String() string {
	switch k {
	case Illegal:
		return "Illegal"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Number:
		return "Number"
	case String:
		return "String"
	case Color:
		return "Color"
	case Property:
		return "property"
	case Callback:
		return "callback"
	case Global:
		return "global"
	case For:
		return "for"
	case In:
		return "in"
	case If:
		return "if"
	case Assign:
		return "="
	case PlusEq:
		return "+="
	case MinusEq:
		return "-="
	case StarEq:
		return "*="
	case SlashEq:
		return "/="
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Bang:
		return "!"
	case AndAnd:
		return "&&"
	case OrOr:
		return "||"
	case Eq:
		return "=="
	case NotEq:
		return "!="
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Gt:
		return ">"
	case GtEq:
		return ">="
	case ColonEq:
		return ":="
	case Arrow:
		return "=>"
	case TwoWayArrow:
		return "<=>"
	case Comma:
		return ","
	case Semicolon:
		return ";"
	case Dot:
		return "."
	case Colon:
		return ":"
	case Question:
		return "?"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
