package parser

import (
	"testing"

	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/lexer"
	"github.com/statewire/statewire/internal/pipeline"
)

func parse(t *testing.T, input string) (*ast.Program, []*diagnostics.DiagnosticError) {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: input}
	p := New(lexer.New(input), ctx)
	return p.ParseProgram(), ctx.Errors
}

func parseClean(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, errs := parse(t, input)
	for _, e := range errs {
		t.Errorf("unexpected diagnostic: %s", e)
	}
	return program
}

func TestVariableDeclarations(t *testing.T) {
	program := parseClean(t, `const a = 1, b = "two";
let c;
var _$_count = 0;`)

	if len(program.Body) != 3 {
		t.Fatalf("statements = %d, want 3", len(program.Body))
	}

	first, ok := program.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("statement 0 is %T", program.Body[0])
	}
	if first.Kind != "const" || len(first.Declarators) != 2 {
		t.Fatalf("got %s with %d declarators", first.Kind, len(first.Declarators))
	}
	if first.Declarators[1].Name.Value != "b" {
		t.Errorf("declarator 1 name = %s", first.Declarators[1].Name.Value)
	}

	second := program.Body[1].(*ast.VariableDeclaration)
	if second.Declarators[0].Init != nil {
		t.Error("let c should have no initializer")
	}

	third := program.Body[2].(*ast.VariableDeclaration)
	if third.Kind != "var" || third.Declarators[0].Name.Value != "_$_count" {
		t.Errorf("got %s %s", third.Kind, third.Declarators[0].Name.Value)
	}
}

func TestArrayPatternDeclaration(t *testing.T) {
	program := parseClean(t, `const [count, setCount] = useState(0);`)

	decl := program.Body[0].(*ast.VariableDeclaration)
	pattern := decl.Declarators[0].Pattern
	if pattern == nil || len(pattern.Elements) != 2 {
		t.Fatalf("pattern = %v", pattern)
	}
	if pattern.Elements[0].Value != "count" || pattern.Elements[1].Value != "setCount" {
		t.Errorf("elements = %s, %s", pattern.Elements[0].Value, pattern.Elements[1].Value)
	}
	if _, ok := decl.Declarators[0].Init.(*ast.CallExpression); !ok {
		t.Errorf("init is %T, want CallExpression", decl.Declarators[0].Init)
	}
}

func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		input      string
		params     int
		hasBlock   bool
	}{
		{`const f = () => 1;`, 0, false},
		{`const f = x => x * 2;`, 1, false},
		{`const f = (a, b) => { return a; };`, 2, true},
		{`const f = (a) => ({ key: a });`, 1, false},
	}

	for _, tt := range tests {
		program := parseClean(t, tt.input)
		decl := program.Body[0].(*ast.VariableDeclaration)
		arrow, ok := decl.Declarators[0].Init.(*ast.ArrowFunction)
		if !ok {
			t.Fatalf("%s: init is %T", tt.input, decl.Declarators[0].Init)
		}
		if len(arrow.Params) != tt.params {
			t.Errorf("%s: params = %d, want %d", tt.input, len(arrow.Params), tt.params)
		}
		if (arrow.Body != nil) != tt.hasBlock {
			t.Errorf("%s: block body = %v, want %v", tt.input, arrow.Body != nil, tt.hasBlock)
		}
	}
}

func TestGroupedExpressionIsNotArrow(t *testing.T) {
	program := parseClean(t, `const x = (a + b) * c;`)
	decl := program.Body[0].(*ast.VariableDeclaration)
	mul, ok := decl.Declarators[0].Init.(*ast.BinaryExpression)
	if !ok || mul.Operator != "*" {
		t.Fatalf("init = %T", decl.Declarators[0].Init)
	}
	if inner, ok := mul.Left.(*ast.BinaryExpression); !ok || inner.Operator != "+" {
		t.Errorf("left = %T", mul.Left)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	program := parseClean(t, `a + b * c;`)
	stmt := program.Body[0].(*ast.ExpressionStatement)
	add := stmt.Expression.(*ast.BinaryExpression)
	if add.Operator != "+" {
		t.Fatalf("root operator = %s, want +", add.Operator)
	}
	mul, ok := add.Right.(*ast.BinaryExpression)
	if !ok || mul.Operator != "*" {
		t.Fatalf("right = %T", add.Right)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	program := parseClean(t, `a = b = 1;`)
	stmt := program.Body[0].(*ast.ExpressionStatement)
	outer := stmt.Expression.(*ast.AssignmentExpression)
	if _, ok := outer.Value.(*ast.AssignmentExpression); !ok {
		t.Fatalf("value = %T, want nested assignment", outer.Value)
	}
}

func TestFunctionAndClassDeclarations(t *testing.T) {
	program := parseClean(t, `function Greet(name) { return name; }
class Store extends Base {
  get(key) { return key; }
  static make() { return new Store(); }
}`)

	fn := program.Body[0].(*ast.FunctionDeclaration)
	if fn.Name.Value != "Greet" || len(fn.Params) != 1 {
		t.Errorf("function = %s/%d", fn.Name.Value, len(fn.Params))
	}

	class := program.Body[1].(*ast.ClassDeclaration)
	if class.Name.Value != "Store" || class.Parent == nil {
		t.Fatalf("class = %s, parent %v", class.Name.Value, class.Parent)
	}
	if len(class.Methods) != 2 {
		t.Fatalf("methods = %d", len(class.Methods))
	}
	if !class.Methods[1].Static {
		t.Error("make should be static")
	}
}

func TestImportForms(t *testing.T) {
	tests := []struct {
		input string
		kinds []ast.ImportKind
	}{
		{`import "./side-effect.js";`, nil},
		{`import React from "react";`, []ast.ImportKind{ast.ImportDefault}},
		{`import * as React from "react";`, []ast.ImportKind{ast.ImportNamespace}},
		{`import { useState, useContext as useCtx } from "react";`, []ast.ImportKind{ast.ImportNamed, ast.ImportNamed}},
		{`import React, { useState } from "react";`, []ast.ImportKind{ast.ImportDefault, ast.ImportNamed}},
	}

	for _, tt := range tests {
		program := parseClean(t, tt.input)
		imp := program.Body[0].(*ast.ImportDeclaration)
		if imp.Source == nil {
			t.Fatalf("%s: no source", tt.input)
		}
		if len(imp.Specifiers) != len(tt.kinds) {
			t.Fatalf("%s: specifiers = %d, want %d", tt.input, len(imp.Specifiers), len(tt.kinds))
		}
		for i, kind := range tt.kinds {
			if imp.Specifiers[i].Kind != kind {
				t.Errorf("%s: specifier %d kind = %d, want %d", tt.input, i, imp.Specifiers[i].Kind, kind)
			}
		}
	}
}

func TestImportAlias(t *testing.T) {
	program := parseClean(t, `import { useContext as useCtx } from "react";`)
	spec := program.Body[0].(*ast.ImportDeclaration).Specifiers[0]
	if spec.Imported != "useContext" || spec.Local.Value != "useCtx" {
		t.Errorf("imported = %s, local = %s", spec.Imported, spec.Local.Value)
	}
}

func TestExportStatements(t *testing.T) {
	program := parseClean(t, `export default function App() { return null; }
export const answer = 42;`)

	first := program.Body[0].(*ast.ExportStatement)
	if !first.Default {
		t.Error("first export should be default")
	}
	if _, ok := first.Declaration.(*ast.FunctionDeclaration); !ok {
		t.Errorf("declaration = %T", first.Declaration)
	}

	second := program.Body[1].(*ast.ExportStatement)
	if second.Default {
		t.Error("second export should not be default")
	}
}

func TestDirectivePrologue(t *testing.T) {
	program := parseClean(t, `"use strict";
"use client";
const x = "not a directive";
"also not a directive";`)

	if d := program.Body[0].(*ast.ExpressionStatement).Directive; d != "use strict" {
		t.Errorf("directive 0 = %q", d)
	}
	if d := program.Body[1].(*ast.ExpressionStatement).Directive; d != "use client" {
		t.Errorf("directive 1 = %q", d)
	}
	if d := program.Body[3].(*ast.ExpressionStatement).Directive; d != "" {
		t.Errorf("statement 3 marked as directive %q", d)
	}
}

func TestJSXElement(t *testing.T) {
	program := parseClean(t, `const el = <div className="box" id={myId} data-test="x" hidden {...rest}>
  Hello there
  <br />
  {count}
</div>;`)

	decl := program.Body[0].(*ast.VariableDeclaration)
	el, ok := decl.Declarators[0].Init.(*ast.JSXElement)
	if !ok {
		t.Fatalf("init = %T", decl.Declarators[0].Init)
	}
	if el.Name != "div" || el.SelfClosing {
		t.Fatalf("element = %s, selfClosing %v", el.Name, el.SelfClosing)
	}
	if len(el.Attributes) != 5 {
		t.Fatalf("attributes = %d, want 5", len(el.Attributes))
	}
	if el.Attributes[0].Name != "className" {
		t.Errorf("attr 0 = %s", el.Attributes[0].Name)
	}
	if _, ok := el.Attributes[1].Value.(*ast.JSXExpressionContainer); !ok {
		t.Errorf("attr 1 value = %T", el.Attributes[1].Value)
	}
	if el.Attributes[2].Name != "data-test" {
		t.Errorf("attr 2 = %s", el.Attributes[2].Name)
	}
	if el.Attributes[3].Value != nil {
		t.Error("bare attribute should have nil value")
	}
	if el.Attributes[4].Spread == nil {
		t.Error("attr 4 should be a spread")
	}

	if len(el.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(el.Children))
	}
	if _, ok := el.Children[0].(*ast.JSXText); !ok {
		t.Errorf("child 0 = %T", el.Children[0])
	}
	if br, ok := el.Children[1].(*ast.JSXElement); !ok || !br.SelfClosing {
		t.Errorf("child 1 = %T", el.Children[1])
	}
	if _, ok := el.Children[2].(*ast.JSXExpressionContainer); !ok {
		t.Errorf("child 2 = %T", el.Children[2])
	}
}

func TestJSXDottedName(t *testing.T) {
	program := parseClean(t, `const el = <Ctx.Provider value={v}><span /></Ctx.Provider>;`)
	el := program.Body[0].(*ast.VariableDeclaration).Declarators[0].Init.(*ast.JSXElement)
	if el.Name != "Ctx.Provider" {
		t.Errorf("name = %s", el.Name)
	}
}

func TestJSXMismatchedClosingTag(t *testing.T) {
	_, errs := parse(t, `const el = <div></span>;`)
	found := false
	for _, e := range errs {
		if e.Code == diagnostics.ErrP003 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a mismatched-tag diagnostic")
	}
}

func TestReturnStatements(t *testing.T) {
	program := parseClean(t, `function f() {
  if (done) {
    return;
  }
  return value;
}`)
	body := program.Body[0].(*ast.FunctionDeclaration).Body
	ifStmt := body.Statements[0].(*ast.IfStatement)
	bare := ifStmt.Consequent.(*ast.BlockStatement).Statements[0].(*ast.ReturnStatement)
	if bare.Argument != nil {
		t.Error("bare return should have nil argument")
	}
	last := body.Statements[1].(*ast.ReturnStatement)
	if last.Argument == nil {
		t.Error("return value should have an argument")
	}
}

func TestRecoveryProducesDiagnostics(t *testing.T) {
	program, errs := parse(t, `const = 5;
const ok = 1;`)
	if len(errs) == 0 {
		t.Fatal("expected diagnostics")
	}
	// Recovery must reach the healthy statement.
	found := false
	for _, stmt := range program.Body {
		if decl, ok := stmt.(*ast.VariableDeclaration); ok {
			for _, d := range decl.Declarators {
				if d.Name != nil && d.Name.Value == "ok" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("parser did not recover to the following statement")
	}
}

func TestMemberAndCallChains(t *testing.T) {
	program := parseClean(t, `store.users[0].name?.first();`)
	stmt := program.Body[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression = %T", stmt.Expression)
	}
	opt, ok := call.Callee.(*ast.MemberExpression)
	if !ok || !opt.Optional {
		t.Fatalf("callee = %T, optional %v", call.Callee, opt != nil && opt.Optional)
	}
}
