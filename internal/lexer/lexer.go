package lexer

import (
	"fmt"
	"unicode"

	"mica/internal/token"
)

type Lexer struct {
	input []rune

	pos int

	ch   rune
	line int
	col  int

	errors []string
}

func New(input string) *Lexer {
	l := &Lexer{
		input: []rune(input),
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

func (l *Lexer) Errors() []string {
	return l.errors
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := token.Position{
		Line:   l.line,
		Column: l.col,
	}

	ch := l.ch

	// EOF
	if ch == 0 {
		return token.Token{
			Kind:   token.EOF,
			Lexeme: "",
			Pos:    pos,
		}
	}

	// Numbers, with the unit suffix kept in the lexeme ("10", "1.5phx", "100%").
	// Splitting value from unit is the resolver's job, so that malformed
	// literals are diagnosed with a proper source location.
	if isDigit(ch) {
		return token.Token{
			Kind:   token.Number,
			Lexeme: l.readNumber(),
			Pos:    pos,
		}
	}

	// Identifiers / keywords. A '-' continues the identifier when followed
	// by a letter: "foo-bar" is one identifier, subtraction needs spaces.
	if isLetter(ch) {
		lit := l.readIdentifier()
		return token.Token{
			Kind:   token.LookupIdent(lit),
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Color literals
	if ch == '#' {
		return token.Token{
			Kind:   token.Color,
			Lexeme: l.readColor(),
			Pos:    pos,
		}
	}

	// Strings. The lexeme keeps the surrounding quotes; unescaping happens
	// in the resolver's literal parser.
	if ch == '"' {
		lit, ok := l.readString()
		if !ok {
			return token.Token{Kind: token.Illegal, Lexeme: lit, Pos: pos}
		}
		return token.Token{
			Kind:   token.String,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	// Single- and multi-character tokens
	var kind token.Kind
	var lexeme string

	switch ch {
	case ';':
		kind = token.Semicolon
		lexeme = ";"
	case ',':
		kind = token.Comma
		lexeme = ","
	case '.':
		kind = token.Dot
		lexeme = "."
	case '?':
		kind = token.Question
		lexeme = "?"
	case '(':
		kind = token.LParen
		lexeme = "("
	case ')':
		kind = token.RParen
		lexeme = ")"
	case '{':
		kind = token.LBrace
		lexeme = "{"
	case '}':
		kind = token.RBrace
		lexeme = "}"
	case '[':
		kind = token.LBracket
		lexeme = "["
	case ']':
		kind = token.RBracket
		lexeme = "]"
	case ':':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.ColonEq
			lexeme = ":="
		} else {
			kind = token.Colon
			lexeme = ":"
		}
	case '=':
		switch l.peekChar() {
		case '=':
			l.readChar()
			kind = token.Eq
			lexeme = "=="
		case '>':
			l.readChar()
			kind = token.Arrow
			lexeme = "=>"
		default:
			kind = token.Assign
			lexeme = "="
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			if l.peekChar() == '>' {
				l.readChar()
				kind = token.TwoWayArrow
				lexeme = "<=>"
			} else {
				kind = token.LtEq
				lexeme = "<="
			}
		} else {
			kind = token.Lt
			lexeme = "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.GtEq
			lexeme = ">="
		} else {
			kind = token.Gt
			lexeme = ">"
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.NotEq
			lexeme = "!="
		} else {
			kind = token.Bang
			lexeme = "!"
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			kind = token.AndAnd
			lexeme = "&&"
		} else {
			l.errorf(pos, "unexpected character %q", ch)
			kind = token.Illegal
			lexeme = "&"
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			kind = token.OrOr
			lexeme = "||"
		} else {
			l.errorf(pos, "unexpected character %q", ch)
			kind = token.Illegal
			lexeme = "|"
		}
	case '+':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.PlusEq
			lexeme = "+="
		} else {
			kind = token.Plus
			lexeme = "+"
		}
	case '-':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.MinusEq
			lexeme = "-="
		} else {
			kind = token.Minus
			lexeme = "-"
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.StarEq
			lexeme = "*="
		} else {
			kind = token.Star
			lexeme = "*"
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.SlashEq
			lexeme = "/="
		} else {
			kind = token.Slash
			lexeme = "/"
		}
	default:
		l.errorf(pos, "unexpected character %q", ch)
		kind = token.Illegal
		lexeme = string(ch)
	}

	l.readChar()
	return token.Token{Kind: kind, Lexeme: lexeme, Pos: pos}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf("%d:%d: ", pos.Line, pos.Column) + fmt.Sprintf(format, args...)
	l.errors = append(l.errors, msg)
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		// Keep pos one past the current rune at EOF too, so tokens that
		// run to the end of input slice out their last character.
		l.ch = 0
		l.pos = len(l.input) + 1
		return
	}

	l.ch = l.input[l.pos]
	l.pos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for unicode.IsSpace(l.ch) {
			l.readChar()
		}

		if l.ch == '/' {
			switch l.peekChar() {
			case '/':
				l.readChar() // '/'
				l.readChar() // second '/'
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			case '*':
				l.readChar() // '/'
				l.readChar() // '*'
				for {
					if l.ch == 0 {
						// EOF inside comment
						return
					}
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar() // '*'
						l.readChar() // '/'
						break
					}
					l.readChar()
				}
				continue
			}
		}

		break
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos - 1 // current rune is already in l.ch
	for isLetter(l.ch) || isDigit(l.ch) || (l.ch == '-' && isLetter(l.peekChar())) {
		l.readChar()
	}
	return string(l.input[start : l.pos-1])
}

// readNumber consumes the digit/dot prefix and any trailing unit letters
// (including '%'). Validation is left to the literal parser.
func (l *Lexer) readNumber() string {
	start := l.pos - 1
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	for isLetter(l.ch) || l.ch == '%' {
		l.readChar()
	}
	return string(l.input[start : l.pos-1])
}

func (l *Lexer) readColor() string {
	start := l.pos - 1 // '#'
	l.readChar()
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[start : l.pos-1])
}

func (l *Lexer) readString() (string, bool) {
	start := l.pos - 1 // opening quote
	l.readChar()
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			lit := string(l.input[start : l.pos-1])
			l.errorf(token.Position{Line: l.line, Column: l.col}, "unterminated string literal")
			return lit, false
		}
		if l.ch == '\\' {
			l.readChar() // skip the escaped character
		}
		l.readChar()
	}
	l.readChar() // closing quote
	return string(l.input[start : l.pos-1]), true
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}
