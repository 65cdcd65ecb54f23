package parser

import (
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/pipeline"
)

// Processor runs the parser as a pipeline stage. Syntax errors are collected
// in full rather than halting at the first one; the AST builder decides what
// survives.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Failed() {
		return ctx
	}
	tree, errs := Parse(ctx.Tokens)
	ctx.Tree = tree
	for _, err := range errs {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, err.Region, err.Message))
	}
	return ctx
}
