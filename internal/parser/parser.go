// Package parser turns a token stream into a document: the component and
// element trees, with every binding holding a raw, unresolved syntax node.
// Expression resolution happens later, in the resolve package.
package parser

import (
	"mica/internal/diag"
	"mica/internal/lang"
	"mica/internal/lexer"
	"mica/internal/syntax"
	"mica/internal/token"
)

type Parser struct {
	l *lexer.Lexer
	d *diag.Diagnostics

	cur  token.Token
	peek token.Token

	registry *lang.TypeRegister
}

func New(l *lexer.Lexer, d *diag.Diagnostics) *Parser {
	p := &Parser{
		l:        l,
		d:        d,
		registry: lang.NewTypeRegister(lang.BuiltinRegistry()),
	}
	// init cur/peek
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(span token.Span, format string, args ...interface{}) {
	p.d.Errorf(span, format, args...)
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.cur.Kind != kind {
		p.errorf(p.cur.Span(), "expected %s, got %s (%q)", kind, p.cur.Kind, p.cur.Lexeme)
	}
	tok := p.cur
	p.nextToken()
	return tok
}

// ---------- Top-level ----------

// ParseDocument parses components and globals until EOF. Components are
// registered in the document registry as they complete, so later components
// can use earlier ones as base types.
func (p *Parser) ParseDocument() *lang.Document {
	doc := &lang.Document{Registry: p.registry}

	for p.cur.Kind != token.EOF {
		switch {
		case p.cur.Kind == token.Global:
			if c := p.parseGlobal(); c != nil {
				doc.Components = append(doc.Components, c)
				p.registry.Register(c.ID, c)
			}
		case p.cur.Kind == token.Ident && p.peek.Kind == token.ColonEq:
			if c := p.parseComponent(); c != nil {
				doc.Components = append(doc.Components, c)
				p.registry.Register(c.ID, c)
			}
		default:
			p.errorf(p.cur.Span(), "expected a component declaration, got %q", p.cur.Lexeme)
			p.nextToken()
		}
	}
	return doc
}

func (p *Parser) parseComponent() *lang.Component {
	name := p.expect(token.Ident)
	p.expect(token.ColonEq)

	comp := &lang.Component{ID: syntax.NormalizeIdentifier(name.Lexeme)}
	comp.RootElement = p.parseElement(comp)
	return comp
}

// parseGlobal parses `global Name := { ... }`: a singleton component whose
// root element has no visual base, only declared properties.
func (p *Parser) parseGlobal() *lang.Component {
	p.expect(token.Global)
	name := p.expect(token.Ident)
	p.expect(token.ColonEq)

	comp := &lang.Component{ID: syntax.NormalizeIdentifier(name.Lexeme), Global: true}
	elem := p.newElement(comp, lang.Void, name.Span())
	p.expect(token.LBrace)
	p.parseElementContent(elem, comp)
	p.expect(token.RBrace)
	comp.RootElement = elem
	return comp
}

func (p *Parser) newElement(comp *lang.Component, base lang.Type, span token.Span) *lang.Element {
	return &lang.Element{
		BaseType:      base,
		Span:          span,
		PropertyDecls: make(map[string]lang.Type),
		Bindings:      make(map[string]lang.Expr),
		Enclosing:     comp,
	}
}

func (p *Parser) parseElement(comp *lang.Component) *lang.Element {
	name := p.expect(token.Ident)
	base := p.registry.Lookup(syntax.NormalizeIdentifier(name.Lexeme))
	switch base.(type) {
	case *lang.Builtin, *lang.Component:
	default:
		p.errorf(name.Span(), "unknown element type %q", name.Lexeme)
		base = lang.Invalid
	}

	elem := p.newElement(comp, base, name.Span())
	p.expect(token.LBrace)
	p.parseElementContent(elem, comp)
	p.expect(token.RBrace)
	return elem
}

func (p *Parser) parseElementContent(elem *lang.Element, comp *lang.Component) {
	for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
		switch {
		case p.cur.Kind == token.Property:
			p.parsePropertyDecl(elem)
		case p.cur.Kind == token.Callback:
			p.parseCallbackDecl(elem)
		case p.cur.Kind == token.For:
			p.parseForRepeater(elem, comp)
		case p.cur.Kind == token.If:
			p.parseIfRepeater(elem, comp)
		case p.cur.Kind == token.Ident && p.peek.Kind == token.ColonEq:
			// id := Element { ... }
			id := p.cur
			p.nextToken()
			p.nextToken()
			child := p.parseElement(comp)
			child.ID = syntax.NormalizeIdentifier(id.Lexeme)
			elem.Children = append(elem.Children, child)
		case p.cur.Kind == token.Ident && p.peek.Kind == token.LBrace:
			elem.Children = append(elem.Children, p.parseElement(comp))
		case p.cur.Kind == token.Ident && p.peek.Kind == token.Colon:
			p.parseBinding(elem)
		case p.cur.Kind == token.Ident && p.peek.Kind == token.TwoWayArrow:
			p.parseTwoWayBinding(elem)
		case p.cur.Kind == token.Ident && (p.peek.Kind == token.Arrow || p.peek.Kind == token.LParen):
			p.parseCallbackConnection(elem)
		default:
			p.errorf(p.cur.Span(), "unexpected token %q in element", p.cur.Lexeme)
			p.nextToken()
		}
	}
}

// ---------- Members ----------

func (p *Parser) parsePropertyDecl(elem *lang.Element) {
	p.expect(token.Property)
	p.expect(token.Lt)
	ty := p.parseType()
	p.expect(token.Gt)
	name := p.expect(token.Ident)

	prop := syntax.NormalizeIdentifier(name.Lexeme)
	if _, exists := elem.PropertyDecls[prop]; exists {
		p.errorf(name.Span(), "duplicate declaration of %q", name.Lexeme)
	}
	elem.PropertyDecls[prop] = ty

	if p.cur.Kind == token.Colon {
		p.nextToken()
		elem.Bindings[prop] = &lang.Uncompiled{Node: p.parseBindingValue()}
		return
	}
	p.expect(token.Semicolon)
}

func (p *Parser) parseCallbackDecl(elem *lang.Element) {
	p.expect(token.Callback)
	name := p.expect(token.Ident)

	cb := &lang.Callback{}
	if p.cur.Kind == token.LParen {
		p.nextToken()
		for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
			cb.Args = append(cb.Args, p.parseType())
			if p.cur.Kind != token.Comma {
				break
			}
			p.nextToken()
		}
		p.expect(token.RParen)
	}

	prop := syntax.NormalizeIdentifier(name.Lexeme)
	if _, exists := elem.PropertyDecls[prop]; exists {
		p.errorf(name.Span(), "duplicate declaration of %q", name.Lexeme)
	}
	elem.PropertyDecls[prop] = cb
	p.expect(token.Semicolon)
}

// parseBinding parses `name: expr;` or `name: { ... }`.
func (p *Parser) parseBinding(elem *lang.Element) {
	name := p.expect(token.Ident)
	p.expect(token.Colon)
	elem.Bindings[syntax.NormalizeIdentifier(name.Lexeme)] = &lang.Uncompiled{Node: p.parseBindingValue()}
}

// parseBindingValue wraps the right-hand side of a binding in a
// BindingExpression node holding either an Expression or a CodeBlock.
func (p *Parser) parseBindingValue() *syntax.Node {
	var child *syntax.Node
	if p.cur.Kind == token.LBrace {
		child = p.parseBraced()
		if child.Kind == syntax.ObjectLiteral {
			child = exprNode(child)
		}
		if p.cur.Kind == token.Semicolon {
			p.nextToken()
		}
	} else {
		child = p.parseExpression()
		p.expect(token.Semicolon)
	}
	return &syntax.Node{
		Kind:     syntax.BindingExpression,
		Span:     child.Span,
		Children: []*syntax.Node{child},
	}
}

func (p *Parser) parseTwoWayBinding(elem *lang.Element) {
	name := p.expect(token.Ident)
	p.expect(token.TwoWayArrow)
	expr := p.parseExpression()
	p.expect(token.Semicolon)

	node := &syntax.Node{
		Kind:     syntax.TwoWayBinding,
		Span:     expr.Span,
		Children: []*syntax.Node{expr},
	}
	elem.Bindings[syntax.NormalizeIdentifier(name.Lexeme)] = &lang.Uncompiled{Node: node}
}

// parseCallbackConnection parses `name => { ... }` or `name(a, b) => { ... }`.
func (p *Parser) parseCallbackConnection(elem *lang.Element) {
	name := p.expect(token.Ident)

	var args []*syntax.Node
	if p.cur.Kind == token.LParen {
		p.nextToken()
		for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
			arg := p.expect(token.Ident)
			args = append(args, identNode(arg))
			if p.cur.Kind != token.Comma {
				break
			}
			p.nextToken()
		}
		p.expect(token.RParen)
	}
	p.expect(token.Arrow)
	block := p.parseCodeBlock()

	node := &syntax.Node{
		Kind:     syntax.CallbackConnection,
		Span:     name.Span(),
		Children: append(args, block),
	}
	elem.Bindings[syntax.NormalizeIdentifier(name.Lexeme)] = &lang.Uncompiled{Node: node}
}

// ---------- Repeaters ----------

// parseForRepeater parses `for data[index] in model: Element { ... }`.
func (p *Parser) parseForRepeater(elem *lang.Element, comp *lang.Component) {
	p.expect(token.For)
	data := p.expect(token.Ident)

	indexID := ""
	if p.cur.Kind == token.LBracket {
		p.nextToken()
		index := p.expect(token.Ident)
		indexID = syntax.NormalizeIdentifier(index.Lexeme)
		p.expect(token.RBracket)
	}
	p.expect(token.In)
	model := p.parseExpression()
	p.expect(token.Colon)

	child := p.parseElement(comp)
	child.Repeated = &lang.RepeatedElement{
		ModelDataID: syntax.NormalizeIdentifier(data.Lexeme),
		IndexID:     indexID,
		Model:       &lang.Uncompiled{Node: model},
	}
	elem.Children = append(elem.Children, child)
}

// parseIfRepeater parses `if condition: Element { ... }`.
func (p *Parser) parseIfRepeater(elem *lang.Element, comp *lang.Component) {
	p.expect(token.If)
	condition := p.parseExpression()
	p.expect(token.Colon)

	child := p.parseElement(comp)
	child.Repeated = &lang.RepeatedElement{
		Conditional: true,
		Model:       &lang.Uncompiled{Node: condition},
	}
	elem.Children = append(elem.Children, child)
}

// ---------- Types ----------

func (p *Parser) parseType() lang.Type {
	switch p.cur.Kind {
	case token.LBracket:
		p.nextToken()
		elem := p.parseType()
		p.expect(token.RBracket)
		return &lang.Array{Element: elem}
	case token.LBrace:
		p.nextToken()
		var fields []lang.ObjectField
		for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
			name := p.expect(token.Ident)
			p.expect(token.Colon)
			fields = append(fields, lang.ObjectField{
				Name: syntax.NormalizeIdentifier(name.Lexeme),
				Type: p.parseType(),
			})
			if p.cur.Kind != token.Comma {
				break
			}
			p.nextToken()
		}
		p.expect(token.RBrace)
		return lang.NewObject("", fields)
	case token.Ident:
		name := p.cur
		p.nextToken()
		t := p.registry.Lookup(syntax.NormalizeIdentifier(name.Lexeme))
		if lang.IsInvalid(t) {
			p.errorf(name.Span(), "unknown type %q", name.Lexeme)
		}
		return t
	default:
		p.errorf(p.cur.Span(), "expected a type, got %q", p.cur.Lexeme)
		p.nextToken()
		return lang.Invalid
	}
}
