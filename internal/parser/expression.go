package parser

import (
	"mica/internal/syntax"
	"mica/internal/token"
)

// Expression parsing builds the raw syntax tree the resolver consumes.
// Every sub-expression is wrapped in an Expression node; composite nodes
// (binary, call, conditional, ...) keep their operator in Text and their
// operands as Expression children.

func identNode(tok token.Token) *syntax.Node {
	return &syntax.Node{Kind: syntax.Identifier, Span: tok.Span(), Text: tok.Lexeme}
}

func exprNode(child *syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.Expression, Span: child.Span, Children: []*syntax.Node{child}}
}

func spanJoin(a, b token.Span) token.Span {
	return token.Span{Start: a.Start, End: b.End}
}

func (p *Parser) parseExpression() *syntax.Node {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() *syntax.Node {
	lhs := p.parseConditional()
	switch p.cur.Kind {
	case token.Assign, token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq:
		op := p.cur.Lexeme
		p.nextToken()
		rhs := p.parseAssignment()
		return exprNode(&syntax.Node{
			Kind:     syntax.SelfAssignment,
			Span:     spanJoin(lhs.Span, rhs.Span),
			Text:     op,
			Children: []*syntax.Node{lhs, rhs},
		})
	}
	return lhs
}

func (p *Parser) parseConditional() *syntax.Node {
	cond := p.parseOr()
	if p.cur.Kind != token.Question {
		return cond
	}
	p.nextToken()
	trueExpr := p.parseExpression()
	p.expect(token.Colon)
	falseExpr := p.parseConditional()
	return exprNode(&syntax.Node{
		Kind:     syntax.ConditionalExpression,
		Span:     spanJoin(cond.Span, falseExpr.Span),
		Children: []*syntax.Node{cond, trueExpr, falseExpr},
	})
}

func (p *Parser) parseBinaryChain(next func() *syntax.Node, kinds ...token.Kind) *syntax.Node {
	lhs := next()
	for {
		matched := false
		for _, k := range kinds {
			if p.cur.Kind == k {
				matched = true
				break
			}
		}
		if !matched {
			return lhs
		}
		op := p.cur.Lexeme
		p.nextToken()
		rhs := next()
		lhs = exprNode(&syntax.Node{
			Kind:     syntax.BinaryExpression,
			Span:     spanJoin(lhs.Span, rhs.Span),
			Text:     op,
			Children: []*syntax.Node{lhs, rhs},
		})
	}
}

func (p *Parser) parseOr() *syntax.Node {
	return p.parseBinaryChain(p.parseAnd, token.OrOr)
}

func (p *Parser) parseAnd() *syntax.Node {
	return p.parseBinaryChain(p.parseEquality, token.AndAnd)
}

func (p *Parser) parseEquality() *syntax.Node {
	return p.parseBinaryChain(p.parseRelational, token.Eq, token.NotEq)
}

func (p *Parser) parseRelational() *syntax.Node {
	return p.parseBinaryChain(p.parseAdditive, token.Lt, token.LtEq, token.Gt, token.GtEq)
}

func (p *Parser) parseAdditive() *syntax.Node {
	return p.parseBinaryChain(p.parseMultiplicative, token.Plus, token.Minus)
}

func (p *Parser) parseMultiplicative() *syntax.Node {
	return p.parseBinaryChain(p.parseUnary, token.Star, token.Slash)
}

func (p *Parser) parseUnary() *syntax.Node {
	switch p.cur.Kind {
	case token.Plus, token.Minus, token.Bang:
		op := p.cur
		p.nextToken()
		sub := p.parseUnary()
		return exprNode(&syntax.Node{
			Kind:     syntax.UnaryOpExpression,
			Span:     spanJoin(op.Span(), sub.Span),
			Text:     op.Lexeme,
			Children: []*syntax.Node{sub},
		})
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() *syntax.Node {
	switch p.cur.Kind {
	case token.Number:
		tok := p.cur
		p.nextToken()
		return exprNode(&syntax.Node{Kind: syntax.NumberLiteral, Span: tok.Span(), Text: tok.Lexeme})
	case token.String:
		tok := p.cur
		p.nextToken()
		return exprNode(&syntax.Node{Kind: syntax.StringLiteral, Span: tok.Span(), Text: tok.Lexeme})
	case token.Color:
		tok := p.cur
		p.nextToken()
		return exprNode(&syntax.Node{Kind: syntax.ColorLiteral, Span: tok.Span(), Text: tok.Lexeme})
	case token.LParen:
		p.nextToken()
		e := p.parseExpression()
		p.expect(token.RParen)
		return e
	case token.LBracket:
		return exprNode(p.parseArray())
	case token.LBrace:
		braced := p.parseBraced()
		return exprNode(braced)
	case token.Ident:
		return p.parseQualifiedOrCall()
	default:
		p.errorf(p.cur.Span(), "expected an expression, got %q", p.cur.Lexeme)
		node := &syntax.Node{Kind: syntax.Invalid, Span: p.cur.Span()}
		p.nextToken()
		return exprNode(node)
	}
}

func (p *Parser) parseArray() *syntax.Node {
	open := p.expect(token.LBracket)
	node := &syntax.Node{Kind: syntax.Array, Span: open.Span()}
	for p.cur.Kind != token.RBracket && p.cur.Kind != token.EOF {
		node.Children = append(node.Children, p.parseExpression())
		if p.cur.Kind != token.Comma {
			break
		}
		p.nextToken()
	}
	closing := p.expect(token.RBracket)
	node.Span = spanJoin(open.Span(), closing.Span())
	return node
}

// parseBraced disambiguates `{ field: expr, ... }` (object literal) from
// `{ expr; expr; }` (code block) after the opening brace. An empty pair of
// braces is an empty code block.
func (p *Parser) parseBraced() *syntax.Node {
	open := p.expect(token.LBrace)
	if p.cur.Kind == token.Ident && p.peek.Kind == token.Colon {
		return p.parseObjectLiteral(open)
	}
	return p.parseCodeBlockRest(open)
}

// parseObjectLiteral continues after the opening brace, at the first field
// name.
func (p *Parser) parseObjectLiteral(open token.Token) *syntax.Node {
	node := &syntax.Node{Kind: syntax.ObjectLiteral, Span: open.Span()}
	for p.cur.Kind == token.Ident {
		name := p.expect(token.Ident)
		p.expect(token.Colon)
		value := p.parseExpression()
		node.Children = append(node.Children, &syntax.Node{
			Kind:     syntax.ObjectMember,
			Span:     spanJoin(name.Span(), value.Span),
			Children: []*syntax.Node{identNode(name), value},
		})
		if p.cur.Kind != token.Comma {
			break
		}
		p.nextToken()
	}
	closing := p.expect(token.RBrace)
	node.Span = spanJoin(open.Span(), closing.Span())
	return node
}

// parseCodeBlock expects and parses a `{ ... }` block.
func (p *Parser) parseCodeBlock() *syntax.Node {
	open := p.expect(token.LBrace)
	return p.parseCodeBlockRest(open)
}

// parseCodeBlockRest continues after the opening brace.
func (p *Parser) parseCodeBlockRest(open token.Token) *syntax.Node {
	node := &syntax.Node{Kind: syntax.CodeBlock, Span: open.Span()}
	for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
		node.Children = append(node.Children, p.parseExpression())
		if p.cur.Kind != token.Semicolon {
			break
		}
		p.nextToken()
	}
	closing := p.expect(token.RBrace)
	node.Span = spanJoin(open.Span(), closing.Span())
	return node
}

// parseQualifiedOrCall parses a dotted name and an optional call argument
// list or bang suffix.
func (p *Parser) parseQualifiedOrCall() *syntax.Node {
	first := p.expect(token.Ident)
	qn := &syntax.Node{
		Kind:     syntax.QualifiedName,
		Span:     first.Span(),
		Children: []*syntax.Node{identNode(first)},
	}
	for p.cur.Kind == token.Dot {
		p.nextToken()
		part := p.expect(token.Ident)
		qn.Children = append(qn.Children, identNode(part))
		qn.Span = spanJoin(qn.Span, part.Span())
	}

	switch p.cur.Kind {
	case token.Bang:
		// img!"path" and friends
		p.nextToken()
		if len(qn.Children) > 1 {
			p.errorf(qn.Span, "bang keyword cannot be qualified")
		}
		sub := p.parseUnary()
		return exprNode(&syntax.Node{
			Kind:     syntax.BangExpression,
			Span:     spanJoin(qn.Span, sub.Span),
			Children: []*syntax.Node{qn.Children[0], sub},
		})
	case token.LParen:
		open := p.cur
		p.nextToken()
		call := &syntax.Node{
			Kind:     syntax.FunctionCallExpression,
			Span:     spanJoin(qn.Span, open.Span()),
			Children: []*syntax.Node{exprNode(qn)},
		}
		for p.cur.Kind != token.RParen && p.cur.Kind != token.EOF {
			call.Children = append(call.Children, p.parseExpression())
			if p.cur.Kind != token.Comma {
				break
			}
			p.nextToken()
		}
		closing := p.expect(token.RParen)
		call.Span = spanJoin(qn.Span, closing.Span())
		return exprNode(call)
	}
	return exprNode(qn)
}
