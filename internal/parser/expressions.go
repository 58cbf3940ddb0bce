package parser

import (
	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.curToken()
	value, _ := tok.Literal.(float64)
	return &ast.NumberLiteral{Token: tok, Value: value, Raw: tok.Lexeme}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken()
	value, _ := tok.Literal.(string)
	return &ast.StringLiteral{Token: tok, Value: value}
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	return &ast.TemplateLiteral{Token: p.curToken(), Raw: p.curToken().Lexeme}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken(), Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken()}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expr := &ast.UnaryExpression{Token: p.curToken(), Operator: p.curToken().Lexeme}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parsePrefixUpdate() ast.Expression {
	expr := &ast.UpdateExpression{Token: p.curToken(), Operator: p.curToken().Lexeme, Prefix: true}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	return &ast.UpdateExpression{Token: p.curToken(), Operator: p.curToken().Lexeme, Operand: left}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Lexeme,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseAssignment(left ast.Expression) ast.Expression {
	expr := &ast.AssignmentExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Lexeme,
		Target:   left,
	}
	switch left.(type) {
	case *ast.Identifier, *ast.MemberExpression:
	default:
		p.errorf(diagnostics.ErrP001, p.curToken(), "invalid assignment target")
	}
	p.nextToken()
	// Right-associative: a = b = c parses as a = (b = c).
	expr.Value = p.parseExpression(ASSIGN - 1)
	return expr
}

func (p *Parser) parseConditional(test ast.Expression) ast.Expression {
	expr := &ast.ConditionalExpression{Token: p.curToken(), Test: test}
	p.nextToken()
	expr.Consequent = p.parseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return expr
	}
	p.nextToken()
	expr.Alternate = p.parseExpression(TERNARY - 1)
	return expr
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken(), Callee: callee}
	call.Arguments = p.parseExpressionList(token.RPAREN)
	return call
}

func (p *Parser) parseNewExpression() ast.Expression {
	expr := &ast.NewExpression{Token: p.curToken()}
	p.nextToken()
	expr.Callee = p.parseExpression(CALL)
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		expr.Arguments = p.parseExpressionList(token.RPAREN)
	}
	return expr
}

// parseExpressionList parses comma-separated expressions with the current
// token on the opening delimiter, leaving it on end.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	var list []ast.Expression
	for !p.peekTokenIs(end) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.ELLIPSIS) {
			spread := &ast.SpreadElement{Token: p.curToken()}
			p.nextToken()
			spread.Argument = p.parseExpression(LOWEST)
			list = append(list, spread)
		} else {
			if e := p.parseExpression(LOWEST); e != nil {
				list = append(list, e)
			}
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // end delimiter
	return list
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{
		Token:    p.curToken(),
		Object:   object,
		Optional: p.curTokenIs(token.OPTIONAL_CHAIN),
	}
	p.nextToken()
	if !p.curTokenIs(token.IDENT) && !isKeywordLike(p.curToken()) {
		p.errorf(diagnostics.ErrP001, p.curToken(), "expected property name, got %q", p.curToken().Lexeme)
		return expr
	}
	expr.Property = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
	return expr
}

func (p *Parser) parseComputedMember(object ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.curToken(), Object: object, Computed: true}
	p.nextToken()
	expr.Property = p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACKET)
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken()}
	arr.Elements = p.parseExpressionList(token.RBRACKET)
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken()}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		prop := &ast.ObjectProperty{Token: p.curToken()}

		if p.curTokenIs(token.ELLIPSIS) {
			p.nextToken()
			prop.Spread = p.parseExpression(LOWEST)
			obj.Properties = append(obj.Properties, prop)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			}
			continue
		}

		switch {
		case p.curTokenIs(token.LBRACKET):
			prop.Computed = true
			p.nextToken()
			prop.Key = p.parseExpression(LOWEST)
			if !p.expectPeek(token.RBRACKET) {
				return obj
			}
		case p.curTokenIs(token.IDENT) || isKeywordLike(p.curToken()):
			prop.Key = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
		case p.curTokenIs(token.STRING):
			value, _ := p.curToken().Literal.(string)
			prop.Key = &ast.StringLiteral{Token: p.curToken(), Value: value}
		case p.curTokenIs(token.NUMBER):
			value, _ := p.curToken().Literal.(float64)
			prop.Key = &ast.NumberLiteral{Token: p.curToken(), Value: value, Raw: p.curToken().Lexeme}
		default:
			p.errorf(diagnostics.ErrP001, p.curToken(), "expected property key, got %q", p.curToken().Lexeme)
			p.skipToStatementBoundary()
			return obj
		}

		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			prop.Value = p.parseExpression(LOWEST)
		} else if key, ok := prop.Key.(*ast.Identifier); ok && !prop.Computed {
			prop.Shorthand = true
			prop.Value = &ast.Identifier{Token: key.Token, Value: key.Value}
		} else {
			p.errorf(diagnostics.ErrP001, p.peekToken(), "expected ':' after property key")
		}

		obj.Properties = append(obj.Properties, prop)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // '}'
	return obj
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	fn := &ast.FunctionExpression{Token: p.curToken()}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParameterList()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

// parseGroupOrArrow disambiguates `(expr)` from `(params) => body` by
// scanning ahead to the matching parenthesis.
func (p *Parser) parseGroupOrArrow() ast.Expression {
	if p.isArrowAhead() {
		return p.parseParenArrow()
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return expr
}

func (p *Parser) isArrowAhead() bool {
	depth := 1
	i := p.pos + 1
	for depth > 0 {
		tok := p.tokenAt(i)
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.EOF:
			return false
		}
		if depth == 0 {
			return p.tokenAt(i+1).Type == token.ARROW
		}
		i++
	}
	return false
}

func (p *Parser) parseParenArrow() ast.Expression {
	arrow := &ast.ArrowFunction{Token: p.curToken()}
	arrow.Params = p.parseParameterList()
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.parseArrowBody(arrow)
	return arrow
}

// parseSingleParamArrow handles `x => body`; the identifier was already
// parsed as the left operand.
func (p *Parser) parseSingleParamArrow(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorf(diagnostics.ErrP001, p.curToken(), "invalid arrow function parameter")
		return left
	}
	arrow := &ast.ArrowFunction{Token: ident.Token, Params: []*ast.Identifier{ident}}
	p.parseArrowBody(arrow)
	return arrow
}

func (p *Parser) parseArrowBody(arrow *ast.ArrowFunction) {
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		arrow.Body = p.parseBlockStatement()
		return
	}
	p.nextToken()
	arrow.Expr = p.parseExpression(LOWEST)
}

// isKeywordLike reports whether a token is a keyword that can appear where
// an identifier is expected (property names, object keys).
func isKeywordLike(tok token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.NUMBER, token.STRING, token.TEMPLATE, token.EOF, token.ILLEGAL, token.JSX_TEXT:
		return false
	}
	lexeme := tok.Lexeme
	if lexeme == "" {
		return false
	}
	c := lexeme[0]
	return c >= 'a' && c <= 'z'
}
