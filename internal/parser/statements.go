package parser

import (
	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/token"
)

// parseStatement leaves the current token on the last token of the parsed
// statement; the caller advances past it.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken().Type {
	case token.LET, token.CONST, token.VAR:
		return p.parseVariableDeclaration()
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.IMPORT:
		return p.parseImportDeclaration()
	case token.EXPORT:
		return p.parseExportStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() ast.Statement {
	decl := &ast.VariableDeclaration{Token: p.curToken(), Kind: p.curToken().Lexeme}

	for {
		p.nextToken()
		d := &ast.VariableDeclarator{Token: p.curToken()}

		switch p.curToken().Type {
		case token.IDENT:
			d.Name = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
		case token.LBRACKET:
			d.Pattern = p.parseArrayPattern()
			if d.Pattern == nil {
				return decl
			}
		default:
			p.errorf(diagnostics.ErrP001, p.curToken(), "expected binding name, got %q", p.curToken().Lexeme)
			p.skipToStatementBoundary()
			return decl
		}

		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			d.Init = p.parseExpression(LOWEST)
		}
		decl.Declarators = append(decl.Declarators, d)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	pattern := &ast.ArrayPattern{Token: p.curToken()}
	for !p.peekTokenIs(token.RBRACKET) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		pattern.Elements = append(pattern.Elements, &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // ']'
	return pattern
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	fn := &ast.FunctionDeclaration{Token: p.curToken()}
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	fn.Name = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
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

// parseParameterList parses `(a, b, c)` with the current token on '('.
func (p *Parser) parseParameterList() []*ast.Identifier {
	var params []*ast.Identifier
	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.IDENT) {
			return params
		}
		params = append(params, &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // ')'
	return params
}

func (p *Parser) parseClassDeclaration() ast.Statement {
	class := &ast.ClassDeclaration{Token: p.curToken()}
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	class.Name = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}

	if p.peekTokenIs(token.IDENT) && p.peekToken().Lexeme == "extends" {
		p.nextToken()
		p.nextToken()
		class.Parent = p.parseExpression(CALL)
	}

	if !p.expectPeek(token.LBRACE) {
		return class
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.SEMICOLON) {
			continue
		}
		method := p.parseClassMethod()
		if method == nil {
			p.skipToStatementBoundary()
			continue
		}
		class.Methods = append(class.Methods, method)
	}
	p.nextToken() // '}'
	return class
}

func (p *Parser) parseClassMethod() *ast.ClassMethod {
	method := &ast.ClassMethod{Token: p.curToken()}
	if p.curTokenIs(token.IDENT) && p.curToken().Lexeme == "static" && p.peekTokenIs(token.IDENT) {
		method.Static = true
		p.nextToken()
	}
	if !p.curTokenIs(token.IDENT) {
		p.errorf(diagnostics.ErrP001, p.curToken(), "expected method name, got %q", p.curToken().Lexeme)
		return nil
	}
	method.Name = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	method.Params = p.parseParameterList()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	method.Body = p.parseBlockStatement()
	return method
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken()}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}
	p.nextToken()
	stmt.Argument = p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken()}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Consequent = p.parseStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken()}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	markDirectives(block.Statements)
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken()}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		p.skipToStatementBoundary()
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseImportDeclaration handles the forms:
//
//	import "m";
//	import X from "m";
//	import * as X from "m";
//	import { a, b as c } from "m";
//	import X, { a } from "m";
func (p *Parser) parseImportDeclaration() ast.Statement {
	decl := &ast.ImportDeclaration{Token: p.curToken()}

	if p.peekTokenIs(token.STRING) {
		p.nextToken()
		decl.Source = &ast.StringLiteral{Token: p.curToken(), Value: p.curToken().Literal.(string)}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		return decl
	}

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		decl.Specifiers = append(decl.Specifiers, &ast.ImportSpecifier{
			Token: p.curToken(),
			Kind:  ast.ImportDefault,
			Local: &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme},
		})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}

	if p.peekTokenIs(token.STAR) {
		p.nextToken()
		if !p.expectPeek(token.AS) {
			return decl
		}
		if !p.expectPeek(token.IDENT) {
			return decl
		}
		decl.Specifiers = append(decl.Specifiers, &ast.ImportSpecifier{
			Token: p.curToken(),
			Kind:  ast.ImportNamespace,
			Local: &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme},
		})
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
			if !p.expectPeek(token.IDENT) {
				return decl
			}
			spec := &ast.ImportSpecifier{
				Token:    p.curToken(),
				Kind:     ast.ImportNamed,
				Imported: p.curToken().Lexeme,
				Local:    &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme},
			}
			if p.peekTokenIs(token.AS) {
				p.nextToken()
				if !p.expectPeek(token.IDENT) {
					return decl
				}
				spec.Local = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Lexeme}
			}
			decl.Specifiers = append(decl.Specifiers, spec)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			}
		}
		p.nextToken() // '}'
	}

	if !p.expectPeek(token.FROM) {
		return decl
	}
	if !p.expectPeek(token.STRING) {
		return decl
	}
	decl.Source = &ast.StringLiteral{Token: p.curToken(), Value: p.curToken().Literal.(string)}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseExportStatement() ast.Statement {
	stmt := &ast.ExportStatement{Token: p.curToken()}
	if p.peekTokenIs(token.DEFAULT) {
		stmt.Default = true
		p.nextToken()
	}
	p.nextToken()
	stmt.Declaration = p.parseStatement()
	return stmt
}
