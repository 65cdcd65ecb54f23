package pipeline_test

import (
	"testing"

	"github.com/clear-lang/clearc/internal/astbuild"
	"github.com/clear-lang/clearc/internal/codegen"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/flow"
	"github.com/clear-lang/clearc/internal/lexer"
	"github.com/clear-lang/clearc/internal/parser"
	"github.com/clear-lang/clearc/internal/pipeline"
	"github.com/clear-lang/clearc/internal/resolver"
)

func compile(source string) *pipeline.Context {
	ctx := &pipeline.Context{FilePath: "test.clr", Source: source}
	return pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
		&astbuild.Processor{},
		&resolver.Processor{},
		&flow.Processor{},
		&codegen.Processor{},
	).Run(ctx)
}

func TestCompileWholeProgram(t *testing.T) {
	source := `
struct Point {
	int x;
	int y;
}

func manhattan(Point p) int {
	var dx = p.x;
	if (dx < 0i) {
		dx = -dx;
	}
	var dy = p.y;
	if (dy < 0i) {
		dy = -dy;
	}
	return dx + dy;
}

val p = Point(3i, -4i);
print manhattan(p);
`
	ctx := compile(source)
	if ctx.Failed() {
		t.Fatalf("compile failed: %v", ctx.Errors)
	}
	if ctx.Code == nil || len(ctx.Code.Code) == 0 {
		t.Fatal("no bytecode produced")
	}
}

// A fatal diagnostic in an early stage leaves later stage outputs empty, and
// the stages after it do not add errors of their own.
func TestFatalErrorShortCircuits(t *testing.T) {
	ctx := compile("val x = ;")
	if !ctx.Failed() {
		t.Fatal("expected a syntax error to fail the compile")
	}
	if ctx.Program != nil {
		t.Error("AST should not be built after a parse failure")
	}
	if ctx.Code != nil {
		t.Error("bytecode should not be generated after a parse failure")
	}
}

func TestWarningsDoNotFail(t *testing.T) {
	ctx := compile("func f() int {\nreturn 1i;\nprint 2i;\n}")
	if ctx.Failed() {
		t.Fatalf("warnings must not fail the compile: %v", ctx.Errors)
	}
	found := false
	for _, d := range ctx.Errors {
		if d.Code == diagnostics.ErrF002 && d.Severity == diagnostics.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Error("expected an unreachable code warning to be collected")
	}
	if ctx.Code == nil {
		t.Error("bytecode should still be produced alongside warnings")
	}
}

func TestRedeclarationPolicyFlowsThrough(t *testing.T) {
	ctx := &pipeline.Context{
		FilePath:      "test.clr",
		Source:        "val x = 1i;\nval x = 2i;",
		Redeclaration: pipeline.RedeclarationError,
	}
	pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
		&astbuild.Processor{},
		&resolver.Processor{},
	).Run(ctx)
	if !ctx.Failed() {
		t.Fatal("error policy should reject a same-scope redeclaration")
	}
	if ctx.Errors[0].Code != diagnostics.ErrA005 {
		t.Errorf("code = %s, want %s", ctx.Errors[0].Code, diagnostics.ErrA005)
	}
}
