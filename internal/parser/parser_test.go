package parser

import (
	"strings"
	"testing"

	"github.com/clear-lang/clearc/internal/lexer"
)

func parseSource(t *testing.T, source string) (string, []string) {
	t.Helper()
	tree, errs := Parse(lexer.Tokenize(source))
	if tree == nil {
		t.Fatalf("Parse(%q) returned nil tree", source)
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Message
	}
	return tree.Pprint(), messages
}

// Pretty-printing a parse tree and parsing the result again must reach a
// fixed point: the second print equals the first.
func TestPprintFixedPoint(t *testing.T) {
	sources := []string{
		"val x = 3i;",
		"var name str = \"clear\";",
		"print 1i + 2i * 3i;",
		"print (1i + 2i) * 3i;",
		"print;",
		"func add(int a, int b) int {\nreturn a + b;\n}",
		"func greet() void {\nprint \"hi\";\n}",
		"struct Point {\nint x;\nint y;\n}",
		"if (a < b) {\nprint a;\n} else if (a > b) {\nprint b;\n} else {\nprint 0i;\n}",
		"while (true) {\nx = x + 1i;\n}",
		"while {\nprint 1i;\n}",
		"val f (func(int) int)? = g;",
		"print p.x;",
		"print !done and ready or retry;",
	}
	for _, source := range sources {
		first, errs := parseSource(t, source)
		if len(errs) > 0 {
			t.Errorf("Parse(%q) unexpected errors: %v", source, errs)
			continue
		}
		second, errs := parseSource(t, first)
		if len(errs) > 0 {
			t.Errorf("reparsing %q produced errors: %v", first, errs)
			continue
		}
		if first != second {
			t.Errorf("pprint not a fixed point:\nfirst:\n%s\nsecond:\n%s", first, second)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{"val x 3i;", "missing '=' for value initializer"},
		{"val x = 3i", "missing ';' to end value declaration"},
		{"print 3i", "missing ';' to end print statement"},
		{"func f() void {", "unclosed block"},
		{"func f int {}", "missing '(' to begin parameters"},
		{"struct Point {", "unclosed struct declaration"},
		{"struct Point { int x }", "missing ';' after struct field"},
		{"if a) {}", "missing '(' to start condition"},
		{"if (a {}", "missing ')' to end condition"},
		{"return 1i", "missing ';' to end return statement"},
		{"print (1i;", "missing ')' to end grouping"},
		{"print 1i +;", "unexpected token; expected expression"},
		{"print 1i +", "unexpected EOF; expected expression"},
		{"f(a b);", "missing ',' delimiter"},
		{"f(a, b;", "unclosed '('"},
		{"val x blah blah = 1i;", "missing '=' for value initializer"},
	}
	for _, tt := range tests {
		_, messages := parseSource(t, tt.source)
		if len(messages) == 0 {
			t.Errorf("Parse(%q) produced no errors, want %q", tt.source, tt.message)
			continue
		}
		found := false
		for _, msg := range messages {
			if msg == tt.message {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Parse(%q) errors = %v, want one to be %q", tt.source, messages, tt.message)
		}
	}
}

// A parse error is a tree node, not a bail-out: the rest of the source still
// parses and later declarations survive.
func TestErrorsAreNodes(t *testing.T) {
	printed, messages := parseSource(t, "print 1i + *;\nval x = 2i;")
	if len(messages) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(messages), messages)
	}
	if !strings.Contains(printed, "<error>") {
		t.Errorf("pprint should show the error slot, got:\n%s", printed)
	}
	if !strings.Contains(printed, "val x = 2i;") {
		t.Errorf("declaration after the error was lost:\n%s", printed)
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"print 1i + 2i * 3i;", "print (1i)+((2i)*(3i));"},
		{"print 1i * 2i + 3i;", "print ((1i)*(2i))+(3i);"},
		{"print a or b and c;", "print (a)or((b)and(c));"},
		{"print -a.b;", "print -((a).(b));"},
		{"print f(x)(y);", "print f(x)(y);"},
	}
	for _, tt := range tests {
		printed, errs := parseSource(t, tt.source)
		if len(errs) > 0 {
			t.Errorf("Parse(%q) unexpected errors: %v", tt.source, errs)
			continue
		}
		if printed != tt.want {
			t.Errorf("Parse(%q).Pprint() = %q, want %q", tt.source, printed, tt.want)
		}
	}
}

// An unclosed argument list is reported with a region covering the opening
// parenthesis through the last token consumed, not just the parenthesis.
func TestUnclosedTupleRegionSpansArguments(t *testing.T) {
	source := "print f(1i, 2i"
	_, errs := Parse(lexer.Tokenize(source))
	for _, err := range errs {
		if err.Message != "unclosed '('" {
			continue
		}
		if got := err.Region.String(); got != "(1i, 2i" {
			t.Errorf("unclosed '(' region = %q, want %q", got, "(1i, 2i")
		}
		return
	}
	t.Fatalf("Parse(%q) did not report an unclosed '(' error, got %v", source, errs)
}
