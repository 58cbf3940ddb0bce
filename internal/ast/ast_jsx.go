package ast

import (
	"github.com/statewire/statewire/internal/token"
)

// JSXElement represents <Name attr={v}>children</Name>. Name may be dotted
// (e.g. "Ctx.Provider"); it is kept as a string because element names are
// markup, not variable references.
type JSXElement struct {
	Token       token.Token // the '<' token
	Name        string
	Attributes  []*JSXAttribute
	Children    []Expression // JSXText, JSXExpressionContainer or JSXElement
	SelfClosing bool
}

func (je *JSXElement) expressionNode()      {}
func (je *JSXElement) TokenLiteral() string { return je.Token.Lexeme }
func (je *JSXElement) GetToken() token.Token {
	if je == nil {
		return token.Token{}
	}
	return je.Token
}

// JSXAttribute is one attribute. Value is nil for bare attributes, a
// StringLiteral for name="v", or a JSXExpressionContainer for name={expr}.
// When Spread is set the attribute is {...expr} and the other fields are
// empty.
type JSXAttribute struct {
	Token  token.Token
	Name   string
	Value  Expression
	Spread Expression
}

func (ja *JSXAttribute) GetToken() token.Token {
	if ja == nil {
		return token.Token{}
	}
	return ja.Token
}

// JSXExpressionContainer represents {expr} in attribute or child position.
type JSXExpressionContainer struct {
	Token      token.Token // the '{' token
	Expression Expression
}

func (jc *JSXExpressionContainer) expressionNode()      {}
func (jc *JSXExpressionContainer) TokenLiteral() string { return jc.Token.Lexeme }
func (jc *JSXExpressionContainer) GetToken() token.Token {
	if jc == nil {
		return token.Token{}
	}
	return jc.Token
}

// JSXText is literal text between tags. Identifiers inside it are markup,
// never variable references.
type JSXText struct {
	Token token.Token
	Value string
}

func (jt *JSXText) expressionNode()      {}
func (jt *JSXText) TokenLiteral() string { return jt.Token.Lexeme }
func (jt *JSXText) GetToken() token.Token {
	if jt == nil {
		return token.Token{}
	}
	return jt.Token
}
