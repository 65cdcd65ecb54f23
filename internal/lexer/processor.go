package lexer

import (
	"fmt"

	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/pipeline"
	"github.com/clear-lang/clearc/internal/token"
)

// Processor runs the lexer as the first pipeline stage. Any ERROR token is
// fatal to the compile.
type Processor struct{}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.Tokens = Tokenize(ctx.Source)
	for _, tok := range ctx.Tokens {
		if tok.Kind == token.ERROR {
			ctx.AddError(diagnostics.NewError(
				diagnostics.ErrL001,
				tok.Lexeme,
				fmt.Sprintf("unrecognized character %q", tok.Lexeme.String()),
			))
		}
	}
	return ctx
}
