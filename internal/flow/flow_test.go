package flow

import (
	"testing"

	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/astbuild"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/lexer"
	"github.com/clear-lang/clearc/internal/parser"
	"github.com/clear-lang/clearc/internal/pipeline"
	"github.com/clear-lang/clearc/internal/resolver"
)

func checkSource(t *testing.T, source string) (*ast.Ast, []*diagnostics.Diagnostic, *diagnostics.Diagnostic) {
	t.Helper()
	tree, errs := parser.Parse(lexer.Tokenize(source))
	if len(errs) > 0 {
		t.Fatalf("syntax errors in %q: %v", source, errs)
	}
	program, buildErr := astbuild.Build(tree)
	if buildErr != nil {
		t.Fatalf("Build(%q) error: %s", source, buildErr.Message)
	}
	if _, err := resolver.Resolve(program, pipeline.RedeclarationShadow); err != nil {
		t.Fatalf("Resolve(%q) error: %s", source, err.Message)
	}
	warnings, fatal := Check(program)
	return program, warnings, fatal
}

func TestMissingReturnIsFatal(t *testing.T) {
	tests := []string{
		"func f() int {\nprint 1i;\n}",
		"func f(int n) int {\nif (n < 0i) {\nreturn 0i;\n}\n}",
		"func f(int n) int {\nwhile (n < 10i) {\nreturn n;\n}\n}",
	}
	for _, source := range tests {
		_, _, fatal := checkSource(t, source)
		if fatal == nil {
			t.Errorf("Check(%q) passed, want %s", source, diagnostics.ErrF001)
			continue
		}
		if fatal.Code != diagnostics.ErrF001 {
			t.Errorf("Check(%q) code = %s, want %s", source, fatal.Code, diagnostics.ErrF001)
		}
	}
}

func TestVoidFunctionMustNotReturn(t *testing.T) {
	_, _, fatal := checkSource(t, "func f() void {\nreturn;\n}")
	if fatal == nil || fatal.Code != diagnostics.ErrF001 {
		t.Fatalf("fatal = %v, want %s for a return inside a void function", fatal, diagnostics.ErrF001)
	}
}

func TestCompleteReturnPaths(t *testing.T) {
	tests := []string{
		"func f() int {\nreturn 1i;\n}",
		"func f(int n) int {\nif (n < 0i) {\nreturn -n;\n} else {\nreturn n;\n}\n}",
		"func f(int n) int {\nif (n < 0i) {\nreturn -n;\n} else if (n < 10i) {\nreturn n;\n} else {\nreturn 10i;\n}\n}",
		"func f(int n) int {\nif (n < 0i) {\nreturn -n;\n}\nreturn n;\n}",
		"func f() void {\nprint 1i;\n}",
	}
	for _, source := range tests {
		_, warnings, fatal := checkSource(t, source)
		if fatal != nil {
			t.Errorf("Check(%q) fatal: %s", source, fatal.Message)
		}
		if len(warnings) > 0 {
			t.Errorf("Check(%q) warnings: %v", source, warnings)
		}
	}
}

// A conditional without an else can only sometimes return, even when every
// branch always returns.
func TestIfWithoutElseIsSometimes(t *testing.T) {
	program, _, fatal := checkSource(t, "func f(int n) int {\nif (true) {\nreturn n;\n}\nreturn 0i;\n}")
	if fatal != nil {
		t.Fatalf("unexpected fatal: %s", fatal.Message)
	}
	fn := program.Decls[0].(*ast.FuncDecl)
	ifStmt := fn.Block.Decls[0].(*ast.IfStmt)
	if ifStmt.Return().Kind != ast.ReturnSometimes {
		t.Errorf("if without else = %v, want ReturnSometimes", ifStmt.Return().Kind)
	}
}

func TestIfElseAllReturningIsAlways(t *testing.T) {
	program, _, fatal := checkSource(t,
		"func f(int n) int {\nif (n < 0i) {\nreturn -n;\n} else {\nreturn n;\n}\n}")
	if fatal != nil {
		t.Fatalf("unexpected fatal: %s", fatal.Message)
	}
	fn := program.Decls[0].(*ast.FuncDecl)
	ifStmt := fn.Block.Decls[0].(*ast.IfStmt)
	if ifStmt.Return().Kind != ast.ReturnAlways {
		t.Errorf("if/else with returning branches = %v, want ReturnAlways", ifStmt.Return().Kind)
	}
}

func TestUnreachableCodeWarns(t *testing.T) {
	_, warnings, fatal := checkSource(t, "func f() int {\nreturn 1i;\nprint 2i;\n}")
	if fatal != nil {
		t.Fatalf("unexpected fatal: %s", fatal.Message)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	w := warnings[0]
	if w.Code != diagnostics.ErrF002 || w.Severity != diagnostics.SeverityWarning {
		t.Errorf("warning = %s %v, want %s warning", w.Code, w.Severity, diagnostics.ErrF002)
	}
}

func TestEveryUnreachableDeclWarns(t *testing.T) {
	_, warnings, fatal := checkSource(t, "func f() int {\nreturn 1i;\nprint 2i;\nprint 3i;\n}")
	if fatal != nil {
		t.Fatalf("unexpected fatal: %s", fatal.Message)
	}
	if len(warnings) != 2 {
		t.Errorf("got %d warnings, want one per unreachable declaration", len(warnings))
	}
}

// The loop body may run zero times, so a while never promises a return.
func TestWhileIsAtMostSometimes(t *testing.T) {
	program, _, fatal := checkSource(t,
		"func f(int n) int {\nwhile (true) {\nreturn n;\n}\nreturn 0i;\n}")
	if fatal != nil {
		t.Fatalf("unexpected fatal: %s", fatal.Message)
	}
	fn := program.Decls[0].(*ast.FuncDecl)
	loop := fn.Block.Decls[0].(*ast.WhileStmt)
	if loop.Return().Kind != ast.ReturnSometimes {
		t.Errorf("while with returning body = %v, want ReturnSometimes", loop.Return().Kind)
	}
}
