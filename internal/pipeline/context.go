package pipeline

import (
	"github.com/statewire/statewire/internal/ast"
	"github.com/statewire/statewire/internal/diagnostics"
)

// Registration is a replayable record of one registry registration made
// while a file was transformed. The build cache stores these so unchanged
// files can repopulate the registry without being re-parsed.
type Registration struct {
	ScopeKey string `json:"scopeKey"`
	Variable string `json:"variable"`
	Default  []byte `json:"default"` // JSON-encoded registry.Default
}

// PipelineContext carries one file through the stages.
type PipelineContext struct {
	FilePath   string
	FileHash   string
	SourceCode string

	// ModuleSpecifier is the import path the import binder uses when it
	// injects the shared-context module import.
	ModuleSpecifier string

	AstRoot *ast.Program
	Output  string

	Registrations []Registration
	Errors        []*diagnostics.DiagnosticError
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}
