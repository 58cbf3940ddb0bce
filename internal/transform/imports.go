package transform

import (
	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/config"
)

// bindImports settles, at file entry, how the file reaches the framework's
// hooks: through an existing default or namespace binding, through named
// hook imports, or not at all (in which case an aliased default import is
// injected at file exit).
func (t *Transformer) bindImports(program *ast.Program) {
	for _, stmt := range program.Body {
		imp, ok := stmt.(*ast.ImportDeclaration)
		if !ok || imp.Source == nil || imp.Source.Value != config.FrameworkModule {
			continue
		}
		for _, spec := range imp.Specifiers {
			switch spec.Kind {
			case ast.ImportDefault, ast.ImportNamespace:
				if t.frameworkBinding == "" {
					t.frameworkBinding = spec.Local.Value
				}
			case ast.ImportNamed:
				switch spec.Imported {
				case config.UseStateHook:
					t.stateHookBinding = spec.Local.Value
				case config.UseContextHook:
					t.contextHookBinding = spec.Local.Value
				}
			}
		}
	}
}

func (t *Transformer) useStateExpr() ast.Expression {
	if t.stateHookBinding != "" {
		return &ast.Identifier{Value: t.stateHookBinding}
	}
	return t.frameworkHook(config.UseStateHook)
}

func (t *Transformer) useContextExpr() ast.Expression {
	if t.contextHookBinding != "" {
		return &ast.Identifier{Value: t.contextHookBinding}
	}
	return t.frameworkHook(config.UseContextHook)
}

func (t *Transformer) frameworkHook(hook string) ast.Expression {
	binding := t.frameworkBinding
	if binding == "" {
		binding = config.FrameworkAlias
		t.needFrameworkImport = true
	}
	return &ast.MemberExpression{
		Object:   &ast.Identifier{Value: binding},
		Property: &ast.Identifier{Value: hook},
	}
}

// injectImports adds, at file exit and exactly once each, the fallback
// framework import and the shared-context module import, after the file's
// directive prologue.
func (t *Transformer) injectImports(program *ast.Program) {
	var inject []ast.Statement
	if t.needFrameworkImport {
		inject = append(inject, defaultImport(config.FrameworkAlias, config.FrameworkModule))
	}
	if t.usedShared {
		inject = append(inject, defaultImport(config.SharedModuleAlias, t.ctx.ModuleSpecifier))
	}
	if len(inject) == 0 {
		return
	}
	program.Body = spliceAfterDirectives(program.Body, inject)
}

func defaultImport(local, source string) ast.Statement {
	return &ast.ImportDeclaration{
		Specifiers: []*ast.ImportSpecifier{{
			Kind:  ast.ImportDefault,
			Local: &ast.Identifier{Value: local},
		}},
		Source: &ast.StringLiteral{Value: source},
	}
}
