package parser

import (
	"fmt"

	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/lexer"
	"github.com/statewire/statewire/internal/pipeline"
	"github.com/statewire/statewire/internal/token"
)

const MaxRecursionDepth = 500

// Operator precedence levels.
const (
	LOWEST = iota
	ASSIGN
	TERNARY
	LOGICAL_OR
	LOGICAL_AND
	EQUALITY
	COMPARE
	SUM
	PRODUCT
	PREFIX
	POSTFIX
	CALL
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:         ASSIGN,
	token.PLUS_ASSIGN:    ASSIGN,
	token.MINUS_ASSIGN:   ASSIGN,
	token.STAR_ASSIGN:    ASSIGN,
	token.SLASH_ASSIGN:   ASSIGN,
	token.ARROW:          ASSIGN,
	token.QUESTION:       TERNARY,
	token.OR:             LOGICAL_OR,
	token.NULLISH:        LOGICAL_OR,
	token.AND:            LOGICAL_AND,
	token.EQ:             EQUALITY,
	token.NOT_EQ:         EQUALITY,
	token.STRICT_EQ:      EQUALITY,
	token.STRICT_NOT_EQ:  EQUALITY,
	token.LT:             COMPARE,
	token.GT:             COMPARE,
	token.LT_EQ:          COMPARE,
	token.GT_EQ:          COMPARE,
	token.PLUS:           SUM,
	token.MINUS:          SUM,
	token.STAR:           PRODUCT,
	token.SLASH:          PRODUCT,
	token.PERCENT:        PRODUCT,
	token.INC:            POSTFIX,
	token.DEC:            POSTFIX,
	token.LPAREN:         CALL,
	token.LBRACKET:       CALL,
	token.DOT:            CALL,
	token.OPTIONAL_CHAIN: CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a Pratt parser over a lazily lexed token buffer. The buffer can
// be truncated and re-lexed past the current token, which is how JSX raw
// text is handled without a separate lexing pass.
type Parser struct {
	l   *lexer.Lexer
	ctx *pipeline.PipelineContext

	tokens []token.Token
	pos    int

	depth               int
	inRecursionRecovery bool

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{l: l, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TEMPLATE: p.parseTemplateLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.NULL:     p.parseNullLiteral,
		token.BANG:     p.parseUnaryExpression,
		token.MINUS:    p.parseUnaryExpression,
		token.PLUS:     p.parseUnaryExpression,
		token.TYPEOF:   p.parseUnaryExpression,
		token.INC:      p.parsePrefixUpdate,
		token.DEC:      p.parsePrefixUpdate,
		token.LPAREN:   p.parseGroupOrArrow,
		token.LBRACKET: p.parseArrayLiteral,
		token.LBRACE:   p.parseObjectLiteral,
		token.FUNCTION: p.parseFunctionExpression,
		token.NEW:      p.parseNewExpression,
		token.LT:       p.parseJSXElement,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.ASSIGN:         p.parseAssignment,
		token.PLUS_ASSIGN:    p.parseAssignment,
		token.MINUS_ASSIGN:   p.parseAssignment,
		token.STAR_ASSIGN:    p.parseAssignment,
		token.SLASH_ASSIGN:   p.parseAssignment,
		token.ARROW:          p.parseSingleParamArrow,
		token.QUESTION:       p.parseConditional,
		token.OR:             p.parseBinaryExpression,
		token.NULLISH:        p.parseBinaryExpression,
		token.AND:            p.parseBinaryExpression,
		token.EQ:             p.parseBinaryExpression,
		token.NOT_EQ:         p.parseBinaryExpression,
		token.STRICT_EQ:      p.parseBinaryExpression,
		token.STRICT_NOT_EQ:  p.parseBinaryExpression,
		token.LT:             p.parseBinaryExpression,
		token.GT:             p.parseBinaryExpression,
		token.LT_EQ:          p.parseBinaryExpression,
		token.GT_EQ:          p.parseBinaryExpression,
		token.PLUS:           p.parseBinaryExpression,
		token.MINUS:          p.parseBinaryExpression,
		token.STAR:           p.parseBinaryExpression,
		token.SLASH:          p.parseBinaryExpression,
		token.PERCENT:        p.parseBinaryExpression,
		token.INC:            p.parsePostfixUpdate,
		token.DEC:            p.parsePostfixUpdate,
		token.LPAREN:         p.parseCallExpression,
		token.LBRACKET:       p.parseComputedMember,
		token.DOT:            p.parseMemberExpression,
		token.OPTIONAL_CHAIN: p.parseMemberExpression,
	}

	p.ensure(0)
	return p
}

func (p *Parser) ensure(i int) {
	for len(p.tokens) <= i {
		p.tokens = append(p.tokens, p.l.NextToken())
	}
}

func (p *Parser) curToken() token.Token {
	p.ensure(p.pos)
	return p.tokens[p.pos]
}

func (p *Parser) peekToken() token.Token {
	p.ensure(p.pos + 1)
	return p.tokens[p.pos+1]
}

// tokenAt gives arbitrary lookahead; used for arrow-function detection.
func (p *Parser) tokenAt(i int) token.Token {
	p.ensure(i)
	return p.tokens[i]
}

func (p *Parser) nextToken() {
	p.pos++
	p.ensure(p.pos)
}

// enterJSXText arms raw-text lexing for the next token. If lookahead was
// already scanned in normal mode it is discarded and the lexer rewound.
func (p *Parser) enterJSXText() {
	if len(p.tokens) > p.pos+1 {
		p.tokens = p.tokens[:p.pos+1]
		p.l.RewindAfter(p.tokens[p.pos])
	}
	p.l.SetJSXTextMode()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken().Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken().Type == t }

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken().Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken().Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP001, p.peekToken(), "expected %s, got %s", t, p.peekToken().Type)
	return false
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, fmt.Sprintf(format, args...)))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorf(diagnostics.ErrP002, tok, "unexpected token %q", tok.Lexeme)
}

// skipToStatementBoundary recovers from a parse error by advancing to a
// likely statement end.
func (p *Parser) skipToStatementBoundary() {
	for !p.curTokenIs(token.SEMICOLON) &&
		!p.curTokenIs(token.RBRACE) &&
		!p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Body = append(program.Body, stmt)
		}
		p.nextToken()
	}
	markDirectives(program.Body)
	return program
}

// markDirectives flags the leading string-literal-only expression statements
// (the "use strict" prologue); injected statements must stay below them.
func markDirectives(body []ast.Statement) {
	for _, stmt := range body {
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok {
			return
		}
		sl, ok := es.Expression.(*ast.StringLiteral)
		if !ok {
			return
		}
		es.Directive = sl.Value
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		if !p.inRecursionRecovery {
			p.errorf(diagnostics.ErrP006, p.curToken(), "expression too complex: recursion depth limit exceeded")
			p.inRecursionRecovery = true
		}
		p.skipToStatementBoundary()
		p.inRecursionRecovery = false
		return nil
	}

	prefix := p.prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken())
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken().Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}
