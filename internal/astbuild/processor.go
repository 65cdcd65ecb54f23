package astbuild

import (
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/pipeline"
)

// Processor converts the parse tree into the AST as a pipeline stage. It
// only runs on trees with no recorded syntax errors, so any failure here is
// a literal the parser accepted but the AST cannot represent.
type Processor struct{}

func (bp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Failed() || ctx.Tree == nil {
		return ctx
	}
	program, err := Build(ctx.Tree)
	if err != nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP002, err.Region, err.Message))
		return ctx
	}
	ctx.Program = program
	return ctx
}
