package parser

import (
	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/token"
)

// parseJSXElement parses an element with the current token on '<'. JSX is
// the one place the token stream is context-sensitive: between tags the
// lexer is switched into raw-text mode one token at a time.
func (p *Parser) parseJSXElement() ast.Expression {
	element := &ast.JSXElement{Token: p.curToken()}

	name, ok := p.parseJSXName()
	if !ok {
		return nil
	}
	element.Name = name

	for {
		switch {
		case p.peekTokenIs(token.SLASH):
			p.nextToken()
			if !p.expectPeek(token.GT) {
				return element
			}
			element.SelfClosing = true
			return element
		case p.peekTokenIs(token.GT):
			p.nextToken()
			p.parseJSXChildren(element)
			return element
		case p.peekTokenIs(token.IDENT) || isKeywordLike(p.peekToken()):
			p.nextToken()
			attr := p.parseJSXAttribute()
			if attr == nil {
				return element
			}
			element.Attributes = append(element.Attributes, attr)
		case p.peekTokenIs(token.LBRACE):
			p.nextToken()
			attr := &ast.JSXAttribute{Token: p.curToken()}
			if !p.expectPeek(token.ELLIPSIS) {
				return element
			}
			p.nextToken()
			attr.Spread = p.parseExpression(LOWEST)
			if !p.expectPeek(token.RBRACE) {
				return element
			}
			element.Attributes = append(element.Attributes, attr)
		default:
			p.errorf(diagnostics.ErrP001, p.peekToken(), "unexpected token %q in element", p.peekToken().Lexeme)
			return element
		}
	}
}

// parseJSXName reads a possibly dotted element name with the current token
// on '<' (or '/', for closing tags).
func (p *Parser) parseJSXName() (string, bool) {
	if !p.peekTokenIs(token.IDENT) {
		p.errorf(diagnostics.ErrP001, p.peekToken(), "expected element name, got %q", p.peekToken().Lexeme)
		return "", false
	}
	p.nextToken()
	name := p.curToken().Lexeme
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return name, false
		}
		name += "." + p.curToken().Lexeme
	}
	return name, true
}

func (p *Parser) parseJSXAttribute() *ast.JSXAttribute {
	attr := &ast.JSXAttribute{Token: p.curToken(), Name: p.curToken().Lexeme}
	// name-name attributes like data-id
	for p.peekTokenIs(token.MINUS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		attr.Name += "-" + p.curToken().Lexeme
	}
	if !p.peekTokenIs(token.ASSIGN) {
		return attr // bare attribute
	}
	p.nextToken()
	switch {
	case p.peekTokenIs(token.STRING):
		p.nextToken()
		value, _ := p.curToken().Literal.(string)
		attr.Value = &ast.StringLiteral{Token: p.curToken(), Value: value}
	case p.peekTokenIs(token.LBRACE):
		p.nextToken()
		container := &ast.JSXExpressionContainer{Token: p.curToken()}
		p.nextToken()
		container.Expression = p.parseExpression(LOWEST)
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		attr.Value = container
	default:
		p.errorf(diagnostics.ErrP001, p.peekToken(), "expected attribute value, got %q", p.peekToken().Lexeme)
		return nil
	}
	return attr
}

// parseJSXChildren parses children with the current token on the opening
// tag's '>', and leaves it on the closing tag's '>'.
func (p *Parser) parseJSXChildren(element *ast.JSXElement) {
	for {
		p.enterJSXText()
		p.nextToken()

		switch p.curToken().Type {
		case token.JSX_TEXT:
			value, _ := p.curToken().Literal.(string)
			element.Children = append(element.Children, &ast.JSXText{Token: p.curToken(), Value: value})
		case token.LBRACE:
			container := &ast.JSXExpressionContainer{Token: p.curToken()}
			p.nextToken()
			container.Expression = p.parseExpression(LOWEST)
			if !p.expectPeek(token.RBRACE) {
				return
			}
			element.Children = append(element.Children, container)
		case token.LT:
			if p.peekTokenIs(token.SLASH) {
				p.nextToken() // '/'
				name, ok := p.parseJSXName()
				if ok && name != element.Name {
					p.errorf(diagnostics.ErrP003, p.curToken(),
						"mismatched closing tag: expected </%s>, got </%s>", element.Name, name)
				}
				p.expectPeek(token.GT)
				return
			}
			child := p.parseJSXElement()
			if child == nil {
				return
			}
			element.Children = append(element.Children, child)
		case token.EOF:
			p.errorf(diagnostics.ErrP001, p.curToken(), "unterminated element <%s>", element.Name)
			return
		default:
			p.errorf(diagnostics.ErrP001, p.curToken(), "unexpected token %q in element children", p.curToken().Lexeme)
			return
		}
	}
}
