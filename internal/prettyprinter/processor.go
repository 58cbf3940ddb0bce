package prettyprinter

import (
	"github.com/statewire/statewire/internal/pipeline"
)

// PrinterProcessor renders the (possibly rewritten) tree back to source.
type PrinterProcessor struct{}

func (pp *PrinterProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	printer := NewCodePrinter()
	ctx.Output = printer.Print(ctx.AstRoot)
	return ctx
}
