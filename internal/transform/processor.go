package transform

import (
	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/pipeline"
	"github.com/statewire/statewire/internal/registry"
)

// TransformProcessor is the pipeline stage wrapping one Transformer run per
// file. The registry store is shared across every file of the build.
type TransformProcessor struct {
	Config *config.Config
	Store  *registry.Store

	// SkipReset leaves the file's existing registry entries in place. The
	// build runner sets it on its rewrite pass: the discovery pass already
	// populated the registry, and clearing entries mid-build would race
	// with lookups from parallel workers.
	SkipReset bool
}

func (tp *TransformProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	// Stale entries from a previous compilation of this file would otherwise
	// shadow the fresh declarations.
	if !tp.SkipReset {
		tp.Store.ResetForFile(ctx.FileHash)
	}

	t := New(tp.Config, tp.Store, ctx)
	t.bindImports(ctx.AstRoot)
	ctx.AstRoot.Body = t.transformStatements(ctx.AstRoot.Body)
	t.injectImports(ctx.AstRoot)
	return ctx
}
