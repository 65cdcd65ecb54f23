package resolver

import (
	"testing"

	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/astbuild"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/lexer"
	"github.com/clear-lang/clearc/internal/parser"
	"github.com/clear-lang/clearc/internal/pipeline"
)

func buildAst(t *testing.T, source string) *ast.Ast {
	t.Helper()
	tree, errs := parser.Parse(lexer.Tokenize(source))
	if len(errs) > 0 {
		t.Fatalf("syntax errors in %q: %v", source, errs)
	}
	program, err := astbuild.Build(tree)
	if err != nil {
		t.Fatalf("Build(%q) error: %s", source, err.Message)
	}
	return program
}

func resolveSource(t *testing.T, source string) (*ast.Ast, *diagnostics.Diagnostic) {
	t.Helper()
	program := buildAst(t, source)
	_, err := Resolve(program, pipeline.RedeclarationShadow)
	return program, err
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
	}{
		{"undefined name", "print y;", diagnostics.ErrA001},
		{"undefined type", "val x foo = 1i;", diagnostics.ErrA001},
		{"builtin as value", "val f = int;", diagnostics.ErrA001},
		{"unknown struct field", "struct P {\nint x;\n}\nprint P(1i).y;", diagnostics.ErrA001},
		{"declared type mismatch", "val x int = 4.5;", diagnostics.ErrA002},
		{"operand type mismatch", "print 1i + 4.5;", diagnostics.ErrA002},
		{"operator not defined on type", "print true + false;", diagnostics.ErrA002},
		{"int division", "print 1i / 2i;", diagnostics.ErrA002},
		{"logical needs bool", "print 1i and 2i;", diagnostics.ErrA002},
		{"unary bang needs bool", "print !1i;", diagnostics.ErrA002},
		{"void initializer", "func f() void {\n}\nval x = f();", diagnostics.ErrA002},
		{"field on non-struct", "val n = 1i;\nprint n.x;", diagnostics.ErrA002},
		{"return type mismatch", "func f() int {\nreturn 4.5;\n}", diagnostics.ErrA002},
		{"builtin signature mismatch", "print int(\"hi\");", diagnostics.ErrA003},
		{"builtin arity mismatch", "print clock(1i);", diagnostics.ErrA003},
		{"call of non-function", "val x = 1i;\nprint x(2i);", diagnostics.ErrA003},
		{"wrong argument types", "func f(int a) int {\nreturn a;\n}\nprint f(4.5);", diagnostics.ErrA003},
		{"assign to immutable", "val x = 1i;\nx = 2i;", diagnostics.ErrA004},
		{"assign to parameter", "func f(int a) int {\nreturn a = 1i;\n}", diagnostics.ErrA004},
		{"assign to non-name", "var x = 1i;\nx + 1i = 2i;", diagnostics.ErrA004},
		{"return outside function", "return 1i;", diagnostics.ErrA005},
		{"value named after builtin", "val type = 1i;", diagnostics.ErrA005},
		{"function named after builtin", "func clock() num {\nreturn 1.5;\n}", diagnostics.ErrA005},
		{"parameter named after builtin", "func f(int clock) int {\nreturn clock;\n}", diagnostics.ErrA005},
		{"struct named after builtin", "struct num {\nint x;\n}", diagnostics.ErrA005},
		{"value shadowing constructor", "struct P {\nint x;\n}\nval P = 1i;", diagnostics.ErrA005},
		{"function shadowing constructor", "struct P {\nint x;\n}\nfunc P() void {\n}", diagnostics.ErrA005},
		{"struct redefinition", "struct P {\nint x;\n}\nstruct P {\nint y;\n}", diagnostics.ErrA005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveSource(t, tt.source)
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want %s", tt.source, tt.code)
			}
			if err.Code != tt.code {
				t.Errorf("Resolve(%q) code = %s (%s), want %s", tt.source, err.Code, err.Message, tt.code)
			}
		})
	}
}

func TestResolveAccepts(t *testing.T) {
	sources := []string{
		"val x = 1i;\nprint x;",
		"var x = 1i;\nx = x + 1i;",
		"print \"a\" + \"b\";",
		"print 1.5 / 0.5;",
		"print 1i < 2i;",
		"print true and false or true;",
		"print !true;",
		"print -1i;",
		"print num(1i) + 2.5;",
		"print str(true);",
		"print type(1i);",
		"print clock();",
		"if (true) {\nprint 1i;\n} else {\nprint 2i;\n}",
		"while (1i < 2i) {\nprint 1i;\n}",
		"func f(int a, int b) int {\nreturn a + b;\n}\nprint f(1i, 2i);",
		"func fact(int n) int {\nif (n < 2i) {\nreturn 1i;\n}\nreturn n * fact(n - 1i);\n}\nprint fact(5i);",
		"struct Point {\nint x;\nint y;\n}\nval p = Point(1i, 2i);\nprint p.x + p.y;",
		"func apply(func(int) int f, int x) int {\nreturn f(x);\n}",
	}
	for _, source := range sources {
		if _, err := resolveSource(t, source); err != nil {
			t.Errorf("Resolve(%q) error: %s", source, err.Message)
		}
	}
}

func TestLiteralTypes(t *testing.T) {
	program, err := resolveSource(t, "val a = 1i;\nval b = 1.5;\nval c = \"s\";\nval d = true;")
	if err != nil {
		t.Fatalf("Resolve() error: %s", err.Message)
	}
	want := []ast.TypeKind{ast.TypeInt, ast.TypeNum, ast.TypeStr, ast.TypeBool}
	for i, kind := range want {
		init := program.Decls[i].(*ast.ValueDecl).Init
		if init.Type().Kind != kind {
			t.Errorf("decl %d init type = %s, want kind %v", i, init.Type(), kind)
		}
	}
}

// A comparison takes the type of its operands, not bool, and conditions are
// not required to be bool.
func TestComparisonKeepsOperandType(t *testing.T) {
	program, err := resolveSource(t, "val c = 1i < 2i;")
	if err != nil {
		t.Fatalf("Resolve() error: %s", err.Message)
	}
	init := program.Decls[0].(*ast.ValueDecl).Init
	if init.Type().Kind != ast.TypeInt {
		t.Errorf("comparison type = %s, want int", init.Type())
	}
	if _, err := resolveSource(t, "if (1i) {\nprint 1i;\n}"); err != nil {
		t.Errorf("non-bool condition rejected: %s", err.Message)
	}
}

func TestShadowingInNestedScope(t *testing.T) {
	source := "val x = 1i;\n{\nval x = \"inner\";\nprint x + \"!\";\n}\nprint x + 1i;"
	if _, err := resolveSource(t, source); err != nil {
		t.Errorf("nested shadowing rejected: %s", err.Message)
	}
}

func TestRedeclarationPolicies(t *testing.T) {
	source := "val x = 1i;\nval x = 2.5;\nprint x + 0.5;"
	program := buildAst(t, source)
	if _, err := Resolve(program, pipeline.RedeclarationShadow); err != nil {
		t.Errorf("shadow policy rejected a redeclaration: %s", err.Message)
	}
	program = buildAst(t, source)
	_, err := Resolve(program, pipeline.RedeclarationError)
	if err == nil {
		t.Fatal("error policy accepted a same-scope redeclaration")
	}
	if err.Code != diagnostics.ErrA005 {
		t.Errorf("redeclaration code = %s, want %s", err.Code, diagnostics.ErrA005)
	}
}

func TestConstructorSignature(t *testing.T) {
	_, err := resolveSource(t, "struct Point {\nint x;\nint y;\n}\nval p = Point(1i);")
	if err == nil {
		t.Fatal("constructor accepted too few arguments")
	}
	if err.Code != diagnostics.ErrA003 {
		t.Errorf("code = %s, want %s", err.Code, diagnostics.ErrA003)
	}
}

func TestAssignmentHasAssignedType(t *testing.T) {
	program, err := resolveSource(t, "var x = 1i;\nval y = (x = 2i);")
	if err != nil {
		t.Fatalf("Resolve() error: %s", err.Message)
	}
	init := program.Decls[1].(*ast.ValueDecl).Init
	if init.Type().Kind != ast.TypeInt {
		t.Errorf("assignment expression type = %s, want int", init.Type())
	}
}

func TestFunctionTypeAnnotation(t *testing.T) {
	program, err := resolveSource(t, "func inc(int n) int {\nreturn n + 1i;\n}\nval f = inc;")
	if err != nil {
		t.Fatalf("Resolve() error: %s", err.Message)
	}
	init := program.Decls[1].(*ast.ValueDecl).Init
	typ := init.Type()
	if typ.Kind != ast.TypeFunction || len(typ.Params) != 1 || typ.Return.Kind != ast.TypeInt {
		t.Errorf("function value type = %s, want func(int) int", typ)
	}
}
