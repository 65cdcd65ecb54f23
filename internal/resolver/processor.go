package resolver

import "github.com/clear-lang/clearc/internal/pipeline"

// Processor runs name resolution and type checking as a pipeline stage. It
// records the struct registry on the context for the code generator.
type Processor struct{}

func (rp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Failed() || ctx.Program == nil {
		return ctx
	}
	policy := ctx.Redeclaration
	if policy == "" {
		policy = pipeline.RedeclarationShadow
	}
	structs, err := Resolve(ctx.Program, policy)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Structs = structs
	return ctx
}
