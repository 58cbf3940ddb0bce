package transform

import (
	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/naming"
)

// exitOwner runs owner-exit synthesis on a transformed body: the hoisted
// state declaration first, then any pending context reads, both spliced in
// after the body's directive prologue, followed by provider wrapping of the
// owner's returned elements.
func (t *Transformer) exitOwner(fr *frame, body *ast.BlockStatement) {
	if !fr.isOwner {
		return
	}
	if len(fr.managed) == 0 && len(fr.contextReads) == 0 {
		return
	}

	var inject []ast.Statement
	if len(fr.managed) > 0 {
		inject = append(inject, t.stateDeclaration(fr))
	}
	for _, cr := range fr.sortedContextReads() {
		inject = append(inject, t.contextReadDecl(cr))
	}
	body.Statements = spliceAfterDirectives(body.Statements, inject)

	if len(fr.managed) > 0 {
		t.wrapReturns(body.Statements, fr)
	}
}

// stateDeclaration builds the owner's hoisted state:
//
//	const [counter, setCounter] = useState({ count: 0, ... });
func (t *Transformer) stateDeclaration(fr *frame) ast.Statement {
	state := &ast.ObjectLiteral{}
	for _, m := range fr.managed {
		value := m.init
		if value == nil {
			value = &ast.Identifier{Value: "undefined"}
		}
		state.Properties = append(state.Properties, &ast.ObjectProperty{
			Key:   &ast.Identifier{Value: m.key},
			Value: value,
		})
	}

	return &ast.VariableDeclaration{
		Kind: "const",
		Declarators: []*ast.VariableDeclarator{{
			Pattern: &ast.ArrayPattern{Elements: []*ast.Identifier{
				{Value: naming.LowerFirst(fr.name)},
				{Value: naming.SetterName(fr.name)},
			}},
			Init: &ast.CallExpression{
				Callee:    t.useStateExpr(),
				Arguments: []ast.Expression{state},
			},
		}},
	}
}

// contextReadDecl builds a consuming owner's context binding:
//
//	const CTX_Admin_<hash> = useContext(SharedStatesSW.CTX_Admin_<hash>);
func (t *Transformer) contextReadDecl(cr contextRead) ast.Statement {
	t.usedShared = true
	return &ast.VariableDeclaration{
		Kind: "const",
		Declarators: []*ast.VariableDeclarator{{
			Name: &ast.Identifier{Value: cr.contextName},
			Init: &ast.CallExpression{
				Callee: t.useContextExpr(),
				Arguments: []ast.Expression{&ast.MemberExpression{
					Object:   &ast.Identifier{Value: config.SharedModuleAlias},
					Property: &ast.Identifier{Value: cr.contextName},
				}},
			},
		}},
	}
}

// wrapReturns wraps every rendering return in the owner's provider. It
// follows blocks and branches but never descends into nested functions;
// their returns belong to someone else.
func (t *Transformer) wrapReturns(stmts []ast.Statement, fr *frame) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStatement:
			t.wrapReturn(s, fr)
		case *ast.IfStatement:
			t.wrapReturns([]ast.Statement{s.Consequent}, fr)
			if s.Alternate != nil {
				t.wrapReturns([]ast.Statement{s.Alternate}, fr)
			}
		case *ast.BlockStatement:
			t.wrapReturns(s.Statements, fr)
		}
	}
}

// wrapReturn wraps a single return argument. A bare element becomes the
// provider's child directly; an expression that merely branches to elements
// (ternary arms, logical operands) is wrapped whole, as a provider child
// expression, so every rendered branch sees the live state. A return that
// cannot render an element is left alone with a debug note.
func (t *Transformer) wrapReturn(s *ast.ReturnStatement, fr *frame) {
	if s.Argument == nil {
		return
	}
	if element, ok := s.Argument.(*ast.JSXElement); ok {
		s.Argument = t.wrapInProvider(element, fr)
		return
	}
	if rendersElement(s.Argument) {
		s.Argument = t.wrapInProvider(
			&ast.JSXExpressionContainer{Expression: s.Argument}, fr)
		return
	}
	t.errorf(diagnostics.SeverityDebug, diagnostics.ErrT003, s,
		"returned value renders no element, provider not attached")
}

// rendersElement reports whether evaluating the expression can yield an
// element. It looks through conditional and logical branches but not into
// nested functions; an element produced by a callback renders elsewhere.
func rendersElement(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.JSXElement:
		return true
	case *ast.ConditionalExpression:
		return rendersElement(e.Consequent) || rendersElement(e.Alternate)
	case *ast.BinaryExpression:
		return rendersElement(e.Left) || rendersElement(e.Right)
	}
	return false
}

// wrapInProvider produces
//
//	<SharedStatesSW.CTX_Counter_<hash>.Provider value={{counter, setCounter}}>
//	  ...original element...
//	</SharedStatesSW.CTX_Counter_<hash>.Provider>
func (t *Transformer) wrapInProvider(child ast.Expression, fr *frame) ast.Expression {
	t.usedShared = true
	contextName := naming.ContextName(naming.ScopeKey(fr.name, t.fileHash))
	value := &ast.ObjectLiteral{Properties: []*ast.ObjectProperty{
		{Key: &ast.Identifier{Value: naming.LowerFirst(fr.name)}, Shorthand: true,
			Value: &ast.Identifier{Value: naming.LowerFirst(fr.name)}},
		{Key: &ast.Identifier{Value: naming.SetterName(fr.name)}, Shorthand: true,
			Value: &ast.Identifier{Value: naming.SetterName(fr.name)}},
	}}
	return &ast.JSXElement{
		Name: config.SharedModuleAlias + "." + contextName + ".Provider",
		Attributes: []*ast.JSXAttribute{{
			Name:  "value",
			Value: &ast.JSXExpressionContainer{Expression: value},
		}},
		Children: []ast.Expression{child},
	}
}

// spliceAfterDirectives inserts statements after the leading directive
// prologue ("use strict" and friends).
func spliceAfterDirectives(stmts []ast.Statement, inject []ast.Statement) []ast.Statement {
	if len(inject) == 0 {
		return stmts
	}
	at := 0
	for at < len(stmts) {
		expr, ok := stmts[at].(*ast.ExpressionStatement)
		if !ok || expr.Directive == "" {
			break
		}
		at++
	}
	out := make([]ast.Statement, 0, len(stmts)+len(inject))
	out = append(out, stmts[:at]...)
	out = append(out, inject...)
	out = append(out, stmts[at:]...)
	return out
}
