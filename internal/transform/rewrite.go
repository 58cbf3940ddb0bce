package transform

import (
	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/naming"
)

// rewriteExpr walks an expression and returns its replacement. Most nodes
// are rewritten in place; managed identifiers and plain assignments to them
// are swapped for new nodes.
func (t *Transformer) rewriteExpr(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.Identifier:
		return t.rewriteIdentifier(e)
	case *ast.AssignmentExpression:
		return t.rewriteAssignment(e)
	case *ast.UpdateExpression:
		if ident, ok := e.Operand.(*ast.Identifier); ok && t.cfg.IsManagedName(ident.Value) {
			t.errorf(diagnostics.SeverityDebug, diagnostics.ErrT006, e,
				"update of managed variable "+ident.Value+" left unmodified; use plain assignment")
			return e
		}
		e.Operand = t.rewriteExpr(e.Operand)
		return e
	case *ast.BinaryExpression:
		e.Left = t.rewriteExpr(e.Left)
		e.Right = t.rewriteExpr(e.Right)
		return e
	case *ast.UnaryExpression:
		e.Operand = t.rewriteExpr(e.Operand)
		return e
	case *ast.ConditionalExpression:
		e.Test = t.rewriteExpr(e.Test)
		e.Consequent = t.rewriteExpr(e.Consequent)
		e.Alternate = t.rewriteExpr(e.Alternate)
		return e
	case *ast.CallExpression:
		e.Callee = t.rewriteExpr(e.Callee)
		for i, arg := range e.Arguments {
			e.Arguments[i] = t.rewriteExpr(arg)
		}
		return e
	case *ast.NewExpression:
		e.Callee = t.rewriteExpr(e.Callee)
		for i, arg := range e.Arguments {
			e.Arguments[i] = t.rewriteExpr(arg)
		}
		return e
	case *ast.MemberExpression:
		e.Object = t.rewriteExpr(e.Object)
		// Non-computed property names are labels, not references.
		if e.Computed {
			e.Property = t.rewriteExpr(e.Property)
		}
		return e
	case *ast.ArrayLiteral:
		for i, el := range e.Elements {
			e.Elements[i] = t.rewriteExpr(el)
		}
		return e
	case *ast.ObjectLiteral:
		for _, prop := range e.Properties {
			if prop.Spread != nil {
				prop.Spread = t.rewriteExpr(prop.Spread)
				continue
			}
			if prop.Computed {
				prop.Key = t.rewriteExpr(prop.Key)
			}
			if prop.Shorthand {
				// Expanding the shorthand would be needed if the value were
				// managed; rewrite and un-shorthand only in that case.
				rewritten := t.rewriteExpr(prop.Value)
				if rewritten != prop.Value {
					prop.Shorthand = false
				}
				prop.Value = rewritten
				continue
			}
			name := ""
			if key, ok := prop.Key.(*ast.Identifier); ok && !prop.Computed {
				name = key.Value
			}
			prop.Value = t.rewriteExprNamed(prop.Value, name)
		}
		return e
	case *ast.SpreadElement:
		e.Argument = t.rewriteExpr(e.Argument)
		return e
	case *ast.FunctionExpression:
		name := ""
		if e.Name != nil {
			name = e.Name.Value
		}
		t.transformFunctionBody(name, e.Body)
		return e
	case *ast.ArrowFunction:
		t.transformArrow(e, "")
		return e
	case *ast.JSXElement:
		return t.rewriteJSXElement(e)
	case *ast.JSXExpressionContainer:
		e.Expression = t.rewriteExpr(e.Expression)
		return e
	default:
		// Literals, templates (opaque) and text pass through.
		return expr
	}
}

// rewriteExprNamed is rewriteExpr with a derived name for function values,
// so `const Counter = () => {...}` makes Counter an owner.
func (t *Transformer) rewriteExprNamed(expr ast.Expression, name string) ast.Expression {
	switch e := expr.(type) {
	case *ast.ArrowFunction:
		t.transformArrow(e, name)
		return e
	case *ast.FunctionExpression:
		if e.Name == nil {
			t.transformFunctionBody(name, e.Body)
			return e
		}
	}
	return t.rewriteExpr(expr)
}

func (t *Transformer) rewriteJSXElement(e *ast.JSXElement) ast.Expression {
	for _, attr := range e.Attributes {
		if attr.Spread != nil {
			attr.Spread = t.rewriteExpr(attr.Spread)
			continue
		}
		// Attribute names and string values are not references; only
		// expression containers are rewritten.
		if container, ok := attr.Value.(*ast.JSXExpressionContainer); ok {
			container.Expression = t.rewriteExpr(container.Expression)
		}
	}
	for i, child := range e.Children {
		e.Children[i] = t.rewriteExpr(child)
	}
	return e
}

// rewriteIdentifier turns a managed reference into a state-object read:
// counter["count"] locally, CTX_Admin_<hash>.admin["adminName"] for a
// foreign owner's state.
func (t *Transformer) rewriteIdentifier(ident *ast.Identifier) ast.Expression {
	if !t.cfg.IsManagedName(ident.Value) {
		return ident
	}
	key := t.cfg.StripPrefix(ident.Value)

	root := t.rootOwnerFrame()
	if root == nil {
		t.errorf(diagnostics.SeverityError, diagnostics.ErrT001, ident,
			"managed reference "+ident.Value+" has no enclosing component")
		return ident
	}
	declKey, ok := t.store.FindOwnerOf(key)
	if !ok {
		t.errorf(diagnostics.SeverityDebug, diagnostics.ErrT002, ident,
			"managed reference "+ident.Value+" has no registered owner; left unmodified")
		return ident
	}

	if declKey == naming.ScopeKey(root.name, t.fileHash) {
		return stateRead(naming.LowerFirst(root.name), key)
	}

	cr := t.requireContextRead(root, declKey)
	owner := naming.OwnerOfScopeKey(declKey)
	return stateRead(cr.contextName+"."+naming.LowerFirst(owner), key)
}

// rewriteAssignment turns a plain write to a managed variable into a
// functional setter call: setOwner(prevState => ({...prevState, key: value})).
func (t *Transformer) rewriteAssignment(a *ast.AssignmentExpression) ast.Expression {
	target, isIdent := a.Target.(*ast.Identifier)
	if !isIdent || !t.cfg.IsManagedName(target.Value) {
		a.Target = t.rewriteExpr(a.Target)
		a.Value = t.rewriteExpr(a.Value)
		return a
	}
	if a.Operator != "=" {
		t.errorf(diagnostics.SeverityDebug, diagnostics.ErrT006, a,
			"compound assignment to managed variable "+target.Value+" left unmodified; use plain assignment")
		return a
	}

	key := t.cfg.StripPrefix(target.Value)
	root := t.rootOwnerFrame()
	if root == nil {
		t.errorf(diagnostics.SeverityError, diagnostics.ErrT001, a,
			"managed write to "+target.Value+" has no enclosing component")
		return a
	}
	declKey, ok := t.store.FindOwnerOf(key)
	if !ok {
		t.errorf(diagnostics.SeverityDebug, diagnostics.ErrT002, a,
			"managed write to "+target.Value+" has no registered owner; left unmodified")
		return a
	}

	value := t.rewriteExpr(a.Value)

	var setter ast.Expression
	owner := naming.OwnerOfScopeKey(declKey)
	if declKey == naming.ScopeKey(root.name, t.fileHash) {
		setter = &ast.Identifier{Value: naming.SetterName(owner)}
	} else {
		cr := t.requireContextRead(root, declKey)
		setter = &ast.MemberExpression{
			Object:   &ast.Identifier{Value: cr.contextName},
			Property: &ast.Identifier{Value: naming.SetterName(owner)},
		}
	}

	updater := &ast.ArrowFunction{
		Params: []*ast.Identifier{{Value: config.UpdaterParamName}},
		Expr: &ast.ObjectLiteral{Properties: []*ast.ObjectProperty{
			{Spread: &ast.Identifier{Value: config.UpdaterParamName}},
			{Key: &ast.Identifier{Value: key}, Value: value},
		}},
	}
	return &ast.CallExpression{Token: a.Token, Callee: setter, Arguments: []ast.Expression{updater}}
}

// requireContextRead queues a useContext injection for declKey's context in
// the given owner and returns the pending record.
func (t *Transformer) requireContextRead(root *frame, declKey string) contextRead {
	if root.contextReads == nil {
		root.contextReads = make(map[string]contextRead)
	}
	if cr, ok := root.contextReads[declKey]; ok {
		return cr
	}
	cr := contextRead{scopeKey: declKey, contextName: naming.ContextName(declKey)}
	root.contextReads[declKey] = cr
	t.usedShared = true
	return cr
}

// stateRead builds object["key"] where object may be a dotted path.
func stateRead(object, key string) ast.Expression {
	return &ast.MemberExpression{
		Object:   dottedIdent(object),
		Property: &ast.StringLiteral{Value: key},
		Computed: true,
	}
}

// dottedIdent builds a member chain from a dotted name.
func dottedIdent(name string) ast.Expression {
	var expr ast.Expression
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			part := &ast.Identifier{Value: name[start:i]}
			if expr == nil {
				expr = part
			} else {
				expr = &ast.MemberExpression{Object: expr, Property: part}
			}
			start = i + 1
		}
	}
	return expr
}
