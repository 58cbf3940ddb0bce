// Package prettyprinter renders a syntax tree back to JavaScript source.
// Output favors plain, readable code over preserving input formatting.
package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/statewire/statewire/internal/ast"
)

// Operator precedence (higher = binds tighter).
var operatorPrecedence = map[string]int{
	"||":  3,
	"??":  3,
	"&&":  4,
	"==":  5,
	"!=":  5,
	"===": 5,
	"!==": 5,
	"<":   6,
	">":   6,
	"<=":  6,
	">=":  6,
	"+":   7,
	"-":   7,
	"*":   8,
	"/":   8,
	"%":   8,
}

const (
	precLowest  = 0
	precAssign  = 1
	precTernary = 2
	precUnary   = 9
	precPostfix = 10
	precCall    = 11
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return precUnary
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a whole program.
func (p *CodePrinter) Print(program *ast.Program) string {
	p.buf.Reset()
	p.indent = 0
	for _, stmt := range program.Body {
		p.printStmt(stmt)
	}
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *CodePrinter) printStmt(stmt ast.Statement) {
	if stmt == nil {
		return
	}
	p.writeIndent()
	p.printStmtInline(stmt)
	p.write("\n")
}

// printStmtInline prints a statement without leading indent or trailing
// newline; used for else-if chains.
func (p *CodePrinter) printStmtInline(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		p.printVariableDeclaration(s)
		p.write(";")
	case *ast.FunctionDeclaration:
		p.write("function " + s.Name.Value)
		p.printParams(s.Params)
		p.write(" ")
		p.printBlock(s.Body)
	case *ast.ClassDeclaration:
		p.printClass(s)
	case *ast.ReturnStatement:
		p.write("return")
		if s.Argument != nil {
			p.write(" ")
			p.printExpr(s.Argument, precLowest)
		}
		p.write(";")
	case *ast.IfStatement:
		p.printIf(s)
	case *ast.BlockStatement:
		p.printBlock(s)
	case *ast.ExpressionStatement:
		p.printExpr(s.Expression, precLowest)
		p.write(";")
	case *ast.ImportDeclaration:
		p.printImport(s)
	case *ast.ExportStatement:
		p.write("export ")
		if s.Default {
			p.write("default ")
		}
		p.printStmtInline(s.Declaration)
	default:
		p.write("/* unsupported statement */")
	}
}

func (p *CodePrinter) printVariableDeclaration(decl *ast.VariableDeclaration) {
	p.write(decl.Kind + " ")
	for i, d := range decl.Declarators {
		if i > 0 {
			p.write(", ")
		}
		if d.Pattern != nil {
			p.write("[")
			for j, el := range d.Pattern.Elements {
				if j > 0 {
					p.write(", ")
				}
				p.write(el.Value)
			}
			p.write("]")
		} else if d.Name != nil {
			p.write(d.Name.Value)
		}
		if d.Init != nil {
			p.write(" = ")
			p.printExpr(d.Init, precAssign)
		}
	}
}

func (p *CodePrinter) printBlock(block *ast.BlockStatement) {
	if block == nil {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	for _, stmt := range block.Statements {
		p.printStmt(stmt)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printIf(stmt *ast.IfStatement) {
	p.write("if (")
	p.printExpr(stmt.Test, precLowest)
	p.write(") ")
	p.printNestedStmt(stmt.Consequent)
	if stmt.Alternate != nil {
		p.write(" else ")
		p.printNestedStmt(stmt.Alternate)
	}
}

func (p *CodePrinter) printNestedStmt(stmt ast.Statement) {
	if block, ok := stmt.(*ast.BlockStatement); ok {
		p.printBlock(block)
		return
	}
	p.printStmtInline(stmt)
}

func (p *CodePrinter) printClass(class *ast.ClassDeclaration) {
	p.write("class " + class.Name.Value)
	if class.Parent != nil {
		p.write(" extends ")
		p.printExpr(class.Parent, precCall)
	}
	p.write(" {\n")
	p.indent++
	for _, m := range class.Methods {
		p.writeIndent()
		if m.Static {
			p.write("static ")
		}
		p.write(m.Name.Value)
		p.printParams(m.Params)
		p.write(" ")
		p.printBlock(m.Body)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printImport(decl *ast.ImportDeclaration) {
	p.write("import ")
	if len(decl.Specifiers) == 0 {
		p.write(quote(decl.Source.Value) + ";")
		return
	}
	wroteDefault := false
	var named []*ast.ImportSpecifier
	for _, spec := range decl.Specifiers {
		switch spec.Kind {
		case ast.ImportDefault:
			p.write(spec.Local.Value)
			wroteDefault = true
		case ast.ImportNamespace:
			if wroteDefault {
				p.write(", ")
			}
			p.write("* as " + spec.Local.Value)
		case ast.ImportNamed:
			named = append(named, spec)
		}
	}
	if len(named) > 0 {
		if wroteDefault {
			p.write(", ")
		}
		p.write("{ ")
		for i, spec := range named {
			if i > 0 {
				p.write(", ")
			}
			if spec.Imported != spec.Local.Value {
				p.write(spec.Imported + " as " + spec.Local.Value)
			} else {
				p.write(spec.Local.Value)
			}
		}
		p.write(" }")
	}
	p.write(" from " + quote(decl.Source.Value) + ";")
}

func (p *CodePrinter) printParams(params []*ast.Identifier) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Value)
	}
	p.write(")")
}

// printExpr prints an expression, adding parentheses only if needed.
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int) {
	if expr == nil {
		p.write("/* ??? */")
		return
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.NumberLiteral:
		if e.Raw != "" {
			p.write(e.Raw)
		} else {
			p.write(strconv.FormatFloat(e.Value, 'f', -1, 64))
		}
	case *ast.StringLiteral:
		p.write(quote(e.Value))
	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ast.NullLiteral:
		p.write("null")
	case *ast.TemplateLiteral:
		p.write(e.Raw)
	case *ast.BinaryExpression:
		prec := getPrecedence(e.Operator)
		p.parens(prec < parentPrec, func() {
			p.printExpr(e.Left, prec)
			p.write(" " + e.Operator + " ")
			p.printExpr(e.Right, prec+1)
		})
	case *ast.UnaryExpression:
		p.parens(precUnary < parentPrec, func() {
			p.write(e.Operator)
			if isWordOperator(e.Operator) {
				p.write(" ")
			}
			p.printExpr(e.Operand, precUnary)
		})
	case *ast.UpdateExpression:
		p.parens(precPostfix < parentPrec, func() {
			if e.Prefix {
				p.write(e.Operator)
				p.printExpr(e.Operand, precUnary)
			} else {
				p.printExpr(e.Operand, precPostfix)
				p.write(e.Operator)
			}
		})
	case *ast.AssignmentExpression:
		p.parens(precAssign < parentPrec, func() {
			p.printExpr(e.Target, precCall)
			p.write(" " + e.Operator + " ")
			p.printExpr(e.Value, precAssign)
		})
	case *ast.ConditionalExpression:
		p.parens(precTernary < parentPrec, func() {
			p.printExpr(e.Test, precTernary+1)
			p.write(" ? ")
			p.printExpr(e.Consequent, precTernary)
			p.write(" : ")
			p.printExpr(e.Alternate, precTernary)
		})
	case *ast.CallExpression:
		p.parens(precCall < parentPrec, func() {
			p.printExpr(e.Callee, precCall)
			p.printArguments(e.Arguments)
		})
	case *ast.NewExpression:
		p.parens(precCall < parentPrec, func() {
			p.write("new ")
			p.printExpr(e.Callee, precCall)
			p.printArguments(e.Arguments)
		})
	case *ast.MemberExpression:
		p.parens(precCall < parentPrec, func() {
			p.printExpr(e.Object, precCall)
			if e.Computed {
				p.write("[")
				p.printExpr(e.Property, precLowest)
				p.write("]")
			} else if e.Optional {
				p.write("?.")
				p.printExpr(e.Property, precLowest)
			} else {
				p.write(".")
				p.printExpr(e.Property, precLowest)
			}
		})
	case *ast.ArrayLiteral:
		p.write("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, precLowest)
		}
		p.write("]")
	case *ast.ObjectLiteral:
		p.printObjectLiteral(e)
	case *ast.SpreadElement:
		p.write("...")
		p.printExpr(e.Argument, precLowest)
	case *ast.FunctionExpression:
		p.parens(parentPrec > precLowest, func() {
			p.write("function")
			if e.Name != nil {
				p.write(" " + e.Name.Value)
			}
			p.printParams(e.Params)
			p.write(" ")
			p.printBlock(e.Body)
		})
	case *ast.ArrowFunction:
		p.parens(precAssign < parentPrec, func() {
			p.printArrow(e)
		})
	case *ast.JSXElement:
		p.printJSXElement(e)
	case *ast.JSXExpressionContainer:
		p.write("{")
		p.printExpr(e.Expression, precLowest)
		p.write("}")
	case *ast.JSXText:
		p.write(e.Value)
	default:
		p.write("/* unsupported expression */")
	}
}

func (p *CodePrinter) printObjectLiteral(obj *ast.ObjectLiteral) {
	if len(obj.Properties) == 0 {
		p.write("{}")
		return
	}
	p.write("{ ")
	for i, prop := range obj.Properties {
		if i > 0 {
			p.write(", ")
		}
		switch {
		case prop.Spread != nil:
			p.write("...")
			p.printExpr(prop.Spread, precLowest)
		case prop.Shorthand:
			p.printExpr(prop.Key, precLowest)
		case prop.Computed:
			p.write("[")
			p.printExpr(prop.Key, precLowest)
			p.write("]: ")
			p.printExpr(prop.Value, precAssign)
		default:
			p.printExpr(prop.Key, precLowest)
			p.write(": ")
			p.printExpr(prop.Value, precAssign)
		}
	}
	p.write(" }")
}

func (p *CodePrinter) printArrow(arrow *ast.ArrowFunction) {
	p.printParams(arrow.Params)
	p.write(" => ")
	if arrow.Body != nil {
		p.printBlock(arrow.Body)
		return
	}
	// An object-literal body needs parentheses to not read as a block.
	if _, isObject := arrow.Expr.(*ast.ObjectLiteral); isObject {
		p.write("(")
		p.printExpr(arrow.Expr, precLowest)
		p.write(")")
		return
	}
	p.printExpr(arrow.Expr, precAssign)
}

func (p *CodePrinter) printArguments(args []ast.Expression) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, precLowest)
	}
	p.write(")")
}

func (p *CodePrinter) printJSXElement(e *ast.JSXElement) {
	p.write("<" + e.Name)
	for _, attr := range e.Attributes {
		p.write(" ")
		if attr.Spread != nil {
			p.write("{...")
			p.printExpr(attr.Spread, precLowest)
			p.write("}")
			continue
		}
		p.write(attr.Name)
		if attr.Value != nil {
			p.write("=")
			p.printExpr(attr.Value, precLowest)
		}
	}
	if e.SelfClosing {
		p.write(" />")
		return
	}
	p.write(">")
	for _, child := range e.Children {
		p.printExpr(child, precLowest)
	}
	p.write("</" + e.Name + ">")
}

func (p *CodePrinter) parens(need bool, body func()) {
	if need {
		p.write("(")
	}
	body()
	if need {
		p.write(")")
	}
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '\r':
			sb.WriteString("\\r")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func isWordOperator(op string) bool {
	return op != "" && op[0] >= 'a' && op[0] <= 'z'
}
