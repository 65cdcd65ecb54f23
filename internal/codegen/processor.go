package codegen

import "github.com/clear-lang/clearc/internal/pipeline"

// Processor runs code generation as the last analysis-consuming stage.
type Processor struct{}

func (gp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Failed() || ctx.Program == nil {
		return ctx
	}
	code, err := Generate(ctx.Program, ctx.Structs)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Code = code
	return ctx
}
