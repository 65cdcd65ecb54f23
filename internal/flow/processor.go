package flow

import "github.com/clear-lang/clearc/internal/pipeline"

// Processor runs the flow checker as a pipeline stage. Warnings are recorded
// even when the stage ends with a fatal error.
type Processor struct{}

func (fp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Failed() || ctx.Program == nil {
		return ctx
	}
	warnings, err := Check(ctx.Program)
	for _, w := range warnings {
		ctx.AddError(w)
	}
	if err != nil {
		ctx.AddError(err)
	}
	return ctx
}
