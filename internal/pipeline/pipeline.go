// Package pipeline wires the compiler stages together. Each stage is a
// Processor that consumes the complete output of the previous stage from a
// shared Context and writes its own output back. Compilation is synchronous
// batch processing; a Context is owned by exactly one run.
package pipeline

import (
	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/bytecode"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/parsetree"
	"github.com/clear-lang/clearc/internal/token"
)

// RedeclarationPolicy controls what the resolver does when a name is
// redeclared within the same scope level.
type RedeclarationPolicy string

const (
	// RedeclarationShadow silently replaces the same-level binding.
	RedeclarationShadow RedeclarationPolicy = "shadow"
	// RedeclarationError rejects a same-level redeclaration.
	RedeclarationError RedeclarationPolicy = "error"
)

// Context carries one compilation run through the pipeline.
type Context struct {
	FilePath string
	Source   string

	// Stage outputs, filled in order.
	Tokens  []token.Token
	Tree    *parsetree.Tree
	Program *ast.Ast
	Structs map[string]*ast.StructDecl
	Code    *bytecode.Program

	// Options.
	Redeclaration RedeclarationPolicy

	Errors []*diagnostics.Diagnostic
}

// AddError appends a diagnostic, stamping the file path.
func (ctx *Context) AddError(d *diagnostics.Diagnostic) {
	if d.File == "" {
		d.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, d)
}

// Failed reports whether any fatal diagnostic has been recorded. Warnings do
// not halt the pipeline.
func (ctx *Context) Failed() bool {
	return diagnostics.HasFatal(ctx.Errors)
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline is a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the stages in order. Stages after a fatal diagnostic are still
// invoked but are expected to return immediately; this keeps warning
// collection uniform without re-entering earlier stages.
func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
