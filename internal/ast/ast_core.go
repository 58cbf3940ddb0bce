package ast

import (
	"github.com/statewire/statewire/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary
// token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Program is the root node of every tree the parser produces.
type Program struct {
	File string // Source file path
	Body []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Body) > 0 {
		return p.Body[0].TokenLiteral()
	}
	return ""
}

// VariableDeclaration represents let/const/var with one or more declarators.
type VariableDeclaration struct {
	Token       token.Token // the let/const/var token
	Kind        string      // "let", "const" or "var"
	Declarators []*VariableDeclarator
}

func (vd *VariableDeclaration) statementNode()       {}
func (vd *VariableDeclaration) TokenLiteral() string { return vd.Token.Lexeme }
func (vd *VariableDeclaration) GetToken() token.Token {
	if vd == nil {
		return token.Token{}
	}
	return vd.Token
}

// VariableDeclarator is one binding in a declaration. Name and Pattern are
// mutually exclusive: `let x = 1` uses Name, `const [a, b] = v` uses Pattern.
type VariableDeclarator struct {
	Token   token.Token
	Name    *Identifier
	Pattern *ArrayPattern
	Init    Expression // nil when the declarator has no initializer
}

func (d *VariableDeclarator) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// ArrayPattern is a destructuring target of plain identifiers, e.g. [a, b].
type ArrayPattern struct {
	Token    token.Token // the '[' token
	Elements []*Identifier
}

func (ap *ArrayPattern) GetToken() token.Token {
	if ap == nil {
		return token.Token{}
	}
	return ap.Token
}

// FunctionDeclaration represents `function Name(params) { body }`.
type FunctionDeclaration struct {
	Token  token.Token // the 'function' token
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// ClassMethod is one method inside a class body.
type ClassMethod struct {
	Token  token.Token
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
	Static bool
}

func (cm *ClassMethod) GetToken() token.Token {
	if cm == nil {
		return token.Token{}
	}
	return cm.Token
}

// ClassDeclaration represents `class Name extends Parent { methods }`.
type ClassDeclaration struct {
	Token   token.Token // the 'class' token
	Name    *Identifier
	Parent  Expression // nil without extends
	Methods []*ClassMethod
}

func (cd *ClassDeclaration) statementNode()       {}
func (cd *ClassDeclaration) TokenLiteral() string { return cd.Token.Lexeme }
func (cd *ClassDeclaration) GetToken() token.Token {
	if cd == nil {
		return token.Token{}
	}
	return cd.Token
}

// BlockStatement is a `{ ... }` statement list.
type BlockStatement struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

// ReturnStatement represents `return expr;`.
type ReturnStatement struct {
	Token    token.Token
	Argument Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}

// IfStatement represents if/else. Alternate may be another IfStatement.
type IfStatement struct {
	Token      token.Token
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil without else
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// ExpressionStatement wraps an expression used as a statement. Directive is
// set (to the unquoted value) for prologue statements like "use strict";
// insertion into a body must stay after those.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
	Directive  string
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

type ImportKind int

const (
	ImportDefault ImportKind = iota
	ImportNamespace
	ImportNamed
)

// ImportSpecifier is one binding introduced by an import declaration.
type ImportSpecifier struct {
	Token    token.Token
	Kind     ImportKind
	Local    *Identifier
	Imported string // for named imports, the source-side name
}

func (is *ImportSpecifier) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// ImportDeclaration represents `import ... from "source";`.
type ImportDeclaration struct {
	Token      token.Token // the 'import' token
	Specifiers []*ImportSpecifier
	Source     *StringLiteral
}

func (id *ImportDeclaration) statementNode()       {}
func (id *ImportDeclaration) TokenLiteral() string { return id.Token.Lexeme }
func (id *ImportDeclaration) GetToken() token.Token {
	if id == nil {
		return token.Token{}
	}
	return id.Token
}

// ExportStatement wraps a declaration with `export` (optionally default).
type ExportStatement struct {
	Token       token.Token // the 'export' token
	Default     bool
	Declaration Statement
}

func (es *ExportStatement) statementNode()       {}
func (es *ExportStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExportStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
