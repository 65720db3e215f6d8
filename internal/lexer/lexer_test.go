package lexer_test

import (
	"testing"

	"mica/internal/lexer"
	"mica/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `App := Rectangle {
    width: 100phx;
    property<length> gap: 1.5px;
    a <=> rect.width;
    clicked => { width += 5phx; }
    color: #a0b0c0;
    text: "hi";
    flag: x >= 2 && !done || a != b;
}`

	expected := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.Ident, "App"},
		{token.ColonEq, ":="},
		{token.Ident, "Rectangle"},
		{token.LBrace, "{"},
		{token.Ident, "width"},
		{token.Colon, ":"},
		{token.Number, "100phx"},
		{token.Semicolon, ";"},
		{token.Property, "property"},
		{token.Lt, "<"},
		{token.Ident, "length"},
		{token.Gt, ">"},
		{token.Ident, "gap"},
		{token.Colon, ":"},
		{token.Number, "1.5px"},
		{token.Semicolon, ";"},
		{token.Ident, "a"},
		{token.TwoWayArrow, "<=>"},
		{token.Ident, "rect"},
		{token.Dot, "."},
		{token.Ident, "width"},
		{token.Semicolon, ";"},
		{token.Ident, "clicked"},
		{token.Arrow, "=>"},
		{token.LBrace, "{"},
		{token.Ident, "width"},
		{token.PlusEq, "+="},
		{token.Number, "5phx"},
		{token.Semicolon, ";"},
		{token.RBrace, "}"},
		{token.Ident, "color"},
		{token.Colon, ":"},
		{token.Color, "#a0b0c0"},
		{token.Semicolon, ";"},
		{token.Ident, "text"},
		{token.Colon, ":"},
		{token.String, `"hi"`},
		{token.Semicolon, ";"},
		{token.Ident, "flag"},
		{token.Colon, ":"},
		{token.Ident, "x"},
		{token.GtEq, ">="},
		{token.Number, "2"},
		{token.AndAnd, "&&"},
		{token.Bang, "!"},
		{token.Ident, "done"},
		{token.OrOr, "||"},
		{token.Ident, "a"},
		{token.NotEq, "!="},
		{token.Ident, "b"},
		{token.Semicolon, ";"},
		{token.RBrace, "}"},
		{token.EOF, ""},
	}

	l := lexer.New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Kind != want.kind || tok.Lexeme != want.lexeme {
			t.Fatalf("token %d: got (%s, %q), want (%s, %q)", i, tok.Kind, tok.Lexeme, want.kind, want.lexeme)
		}
	}
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
}

func TestDashedIdentifier(t *testing.T) {
	l := lexer.New("font-size font -size font-2")

	tok := l.NextToken()
	if tok.Kind != token.Ident || tok.Lexeme != "font-size" {
		t.Fatalf("got (%s, %q), want one dashed identifier", tok.Kind, tok.Lexeme)
	}

	// '-' not followed by a letter is a minus token.
	if tok = l.NextToken(); tok.Lexeme != "font" {
		t.Fatalf("got %q, want font", tok.Lexeme)
	}
	if tok = l.NextToken(); tok.Kind != token.Minus {
		t.Fatalf("got %s, want '-'", tok.Kind)
	}
	if tok = l.NextToken(); tok.Lexeme != "size" {
		t.Fatalf("got %q, want size", tok.Lexeme)
	}
	if tok = l.NextToken(); tok.Lexeme != "font" {
		t.Fatalf("got %q, want font", tok.Lexeme)
	}
	if tok = l.NextToken(); tok.Kind != token.Minus {
		t.Fatalf("got %s, want '-'", tok.Kind)
	}
	if tok = l.NextToken(); tok.Kind != token.Number || tok.Lexeme != "2" {
		t.Fatalf("got (%s, %q), want the number 2", tok.Kind, tok.Lexeme)
	}
}

func TestComments(t *testing.T) {
	input := `
// line comment
a /* block
   comment */ b
`
	l := lexer.New(input)
	if tok := l.NextToken(); tok.Lexeme != "a" {
		t.Fatalf("got %q, want a", tok.Lexeme)
	}
	if tok := l.NextToken(); tok.Lexeme != "b" {
		t.Fatalf("got %q, want b", tok.Lexeme)
	}
	if tok := l.NextToken(); tok.Kind != token.EOF {
		t.Fatalf("got %s, want EOF", tok.Kind)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := lexer.New(`"never closed`)
	tok := l.NextToken()
	if tok.Kind != token.Illegal {
		t.Fatalf("got %s, want Illegal", tok.Kind)
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lexer error for the unterminated string")
	}
}

func TestTokenAtEndOfInput(t *testing.T) {
	// Tokens running to the end of input must keep their last character.
	cases := []struct {
		input  string
		kind   token.Kind
		lexeme string
	}{
		{"forx", token.Ident, "forx"},
		{"2", token.Number, "2"},
		{"1.5phx", token.Number, "1.5phx"},
		{"#a0b0c0", token.Color, "#a0b0c0"},
		{`"hi"`, token.String, `"hi"`},
	}
	for _, c := range cases {
		l := lexer.New(c.input)
		tok := l.NextToken()
		if tok.Kind != c.kind || tok.Lexeme != c.lexeme {
			t.Errorf("%q: got (%s, %q), want (%s, %q)", c.input, tok.Kind, tok.Lexeme, c.kind, c.lexeme)
		}
		if tok = l.NextToken(); tok.Kind != token.EOF {
			t.Errorf("%q: got %s after the token, want EOF", c.input, tok.Kind)
		}
	}
}

func TestKeywords(t *testing.T) {
	l := lexer.New("property callback global for in if forx")
	kinds := []token.Kind{
		token.Property, token.Callback, token.Global,
		token.For, token.In, token.If, token.Ident,
	}
	for i, want := range kinds {
		if tok := l.NextToken(); tok.Kind != want {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, want)
		}
	}
}
