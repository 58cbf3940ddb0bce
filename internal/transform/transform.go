// Package transform is the core pass: it finds prefix-marked declarations,
// registers them as shared state, rewrites reads and writes to flow through
// the owner's generated context, and synthesizes the owner-level state and
// provider plumbing.
package transform

import (
	"sort"

	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/naming"
	"github.com/statewire/statewire/internal/pipeline"
	"github.com/statewire/statewire/internal/registry"
)

// managedDecl is one discovered prefixed declaration, hoisted into the
// owner's state object at owner exit.
type managedDecl struct {
	key  string // prefix-stripped state key
	init ast.Expression
}

// contextRead is a pending useContext injection for a foreign owner's
// context, keyed by scope key on the frame.
type contextRead struct {
	scopeKey    string
	contextName string
}

// frame is one function on the traversal stack. Owner frames (named,
// uppercase-leading) accumulate the discoveries and foreign reads that
// owner-exit synthesis turns into injected statements.
type frame struct {
	name    string
	isOwner bool

	managed      []managedDecl
	contextReads map[string]contextRead
}

type Transformer struct {
	cfg      *config.Config
	store    *registry.Store
	ctx      *pipeline.PipelineContext
	fileHash string

	frames []*frame

	// Import binder state, settled at file entry and consumed at file exit.
	frameworkBinding    string // default/namespace binding of the framework module
	stateHookBinding    string // named binding for the state hook, if imported
	contextHookBinding  string // named binding for the context hook, if imported
	needFrameworkImport bool
	usedShared          bool
}

func New(cfg *config.Config, store *registry.Store, ctx *pipeline.PipelineContext) *Transformer {
	return &Transformer{
		cfg:      cfg,
		store:    store,
		ctx:      ctx,
		fileHash: ctx.FileHash,
	}
}

func (t *Transformer) pushFrame(name string) *frame {
	fr := &frame{name: name, isOwner: naming.IsOwnerName(name)}
	t.frames = append(t.frames, fr)
	return fr
}

func (t *Transformer) popFrame() {
	t.frames = t.frames[:len(t.frames)-1]
}

// rootOwnerFrame is the innermost owner on the stack; managed references in
// nested helpers and callbacks resolve against it.
func (t *Transformer) rootOwnerFrame() *frame {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if t.frames[i].isOwner {
			return t.frames[i]
		}
	}
	return nil
}

func (t *Transformer) errorf(sev diagnostics.Severity, code diagnostics.ErrorCode, node ast.TokenProvider, msg string) {
	err := diagnostics.NewError(code, node.GetToken(), msg)
	err.Severity = sev
	err.File = t.ctx.FilePath
	t.ctx.Errors = append(t.ctx.Errors, err)
}

func (t *Transformer) transformStatements(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		if s := t.transformStatement(stmt); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t *Transformer) transformStatement(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		return t.transformVariableDeclaration(s)
	case *ast.FunctionDeclaration:
		t.transformFunctionBody(s.Name.Value, s.Body)
		return s
	case *ast.ClassDeclaration:
		for _, m := range s.Methods {
			t.transformFunctionBody(m.Name.Value, m.Body)
		}
		return s
	case *ast.BlockStatement:
		s.Statements = t.transformStatements(s.Statements)
		return s
	case *ast.ReturnStatement:
		if s.Argument != nil {
			s.Argument = t.rewriteExpr(s.Argument)
		}
		return s
	case *ast.IfStatement:
		s.Test = t.rewriteExpr(s.Test)
		s.Consequent = t.transformStatement(s.Consequent)
		if s.Alternate != nil {
			s.Alternate = t.transformStatement(s.Alternate)
		}
		return s
	case *ast.ExpressionStatement:
		if s.Directive != "" {
			return s
		}
		s.Expression = t.rewriteExpr(s.Expression)
		return s
	case *ast.ExportStatement:
		s.Declaration = t.transformStatement(s.Declaration)
		return s
	default:
		// Imports are scanned once at file entry and left in place.
		return stmt
	}
}

// transformVariableDeclaration removes managed declarators (hoisting them to
// the owner's state object) and rewrites the rest. A declaration whose
// declarators are all managed disappears entirely.
func (t *Transformer) transformVariableDeclaration(decl *ast.VariableDeclaration) ast.Statement {
	kept := make([]*ast.VariableDeclarator, 0, len(decl.Declarators))
	for _, d := range decl.Declarators {
		if d.Name != nil && t.cfg.IsManagedName(d.Name.Value) {
			if t.discoverManaged(d) {
				continue
			}
		}
		if d.Init != nil {
			name := ""
			if d.Name != nil {
				name = d.Name.Value
			}
			d.Init = t.rewriteExprNamed(d.Init, name)
		}
		kept = append(kept, d)
	}
	if len(kept) == 0 {
		return nil
	}
	decl.Declarators = kept
	return decl
}

// discoverManaged registers one prefixed declarator and queues it for
// owner-exit synthesis. It reports whether the declarator was consumed;
// declarations outside any owner are diagnosed and left alone.
func (t *Transformer) discoverManaged(d *ast.VariableDeclarator) bool {
	root := t.rootOwnerFrame()
	if root == nil {
		t.errorf(diagnostics.SeverityError, diagnostics.ErrT005, d,
			"managed declaration "+d.Name.Value+" has no enclosing component")
		return false
	}

	key := t.cfg.StripPrefix(d.Name.Value)
	scopeKey := naming.ScopeKey(root.name, t.fileHash)
	if other, conflict := t.store.OwnerConflict(scopeKey, key); conflict {
		t.errorf(diagnostics.SeverityWarning, diagnostics.ErrT004, d,
			"managed name "+d.Name.Value+" is already claimed by "+other+"; references resolve to the first owner")
	}

	if d.Init != nil {
		d.Init = t.rewriteExpr(d.Init)
	}
	def := classifyDefault(d.Init)
	t.store.Register(scopeKey, key, def)
	t.recordRegistration(scopeKey, key, def)
	root.managed = append(root.managed, managedDecl{key: key, init: d.Init})
	return true
}

// transformFunctionBody pushes a frame named after the function, transforms
// the body, and runs owner-exit synthesis when the frame accumulated work.
func (t *Transformer) transformFunctionBody(name string, body *ast.BlockStatement) {
	if body == nil {
		return
	}
	fr := t.pushFrame(name)
	body.Statements = t.transformStatements(body.Statements)
	t.popFrame()
	t.exitOwner(fr, body)
}

// transformArrow handles both body forms. An expression-bodied owner that
// needs injections is converted to a block body first.
func (t *Transformer) transformArrow(arrow *ast.ArrowFunction, name string) {
	if arrow.Body != nil {
		t.transformFunctionBody(name, arrow.Body)
		return
	}
	fr := t.pushFrame(name)
	arrow.Expr = t.rewriteExpr(arrow.Expr)
	t.popFrame()
	if !fr.isOwner || (len(fr.managed) == 0 && len(fr.contextReads) == 0) {
		return
	}
	ret := &ast.ReturnStatement{Argument: arrow.Expr}
	arrow.Expr = nil
	arrow.Body = &ast.BlockStatement{Statements: []ast.Statement{ret}}
	t.exitOwner(fr, arrow.Body)
}

func (fr *frame) sortedContextReads() []contextRead {
	reads := make([]contextRead, 0, len(fr.contextReads))
	keys := make([]string, 0, len(fr.contextReads))
	for key := range fr.contextReads {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		reads = append(reads, fr.contextReads[key])
	}
	return reads
}
