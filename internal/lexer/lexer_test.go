package lexer

import (
	"testing"

	"github.com/clear-lang/clearc/internal/pipeline"
	"github.com/clear-lang/clearc/internal/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		source string
		want   []token.Kind
	}{
		{"val x = 3i;", []token.Kind{token.VAL, token.IDENTIFIER, token.EQUALS, token.INT_LITERAL, token.SEMICOLON}},
		{"var pi = 3.14;", []token.Kind{token.VAR, token.IDENTIFIER, token.EQUALS, token.NUM_LITERAL, token.SEMICOLON}},
		{`print "hi";`, []token.Kind{token.PRINT, token.STR_LITERAL, token.SEMICOLON}},
		{"a <= b", []token.Kind{token.IDENTIFIER, token.LESS_EQUAL, token.IDENTIFIER}},
		{"a < = b", []token.Kind{token.IDENTIFIER, token.LESS, token.EQUALS, token.IDENTIFIER}},
		{"a == b != c", []token.Kind{token.IDENTIFIER, token.EQUAL_EQUAL, token.IDENTIFIER, token.BANG_EQUAL, token.IDENTIFIER}},
		{"!x", []token.Kind{token.BANG, token.IDENTIFIER}},
		{"f(x)?", []token.Kind{token.IDENTIFIER, token.LEFT_PAREN, token.IDENTIFIER, token.RIGHT_PAREN, token.QUESTION_MARK}},
	}
	for _, tt := range tests {
		got := kinds(Tokenize(tt.source))
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.source, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %v, want %v", tt.source, i, got[i], tt.want[i])
			}
		}
	}
}

func TestIntVersusNumLiterals(t *testing.T) {
	// The 'i' suffix marks an int; bare digits are a num even without a
	// fractional part.
	tokens := Tokenize("42i 42 4.25")
	want := []token.Kind{token.INT_LITERAL, token.NUM_LITERAL, token.NUM_LITERAL}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTrailingDotIsNotFractional(t *testing.T) {
	// Digits followed by a dot with no digit after it split into a num
	// literal and a dot token.
	got := kinds(Tokenize("42."))
	want := []token.Kind{token.NUM_LITERAL, token.DOT}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Tokenize(%q) kinds = %v, want %v", "42.", got, want)
	}
}

func TestKeywordReclassification(t *testing.T) {
	tokens := Tokenize("if iff returning return")
	want := []token.Kind{token.IF, token.IDENTIFIER, token.IDENTIFIER, token.RETURN}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCommentsAndWhitespaceAreSkipped(t *testing.T) {
	tokens := Tokenize("// leading comment\nval   x\t= 1i; // trailing")
	want := []token.Kind{token.VAL, token.IDENTIFIER, token.EQUALS, token.INT_LITERAL, token.SEMICOLON}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRegionCoversLeadingTrivia(t *testing.T) {
	source := "  // note\n  val"
	tokens := Tokenize(source)
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens, want 1", len(tokens))
	}
	tok := tokens[0]
	if tok.Lexeme.String() != "val" {
		t.Errorf("Lexeme = %q, want %q", tok.Lexeme.String(), "val")
	}
	if tok.Region.Start != 0 || tok.Region.String() != source {
		t.Errorf("Region = %q, want the whole source including trivia", tok.Region.String())
	}
}

func TestUnrecognizedCharacterBecomesErrorToken(t *testing.T) {
	tokens := Tokenize("val x = 1i @")
	last := tokens[len(tokens)-1]
	if last.Kind != token.ERROR {
		t.Fatalf("last token kind = %v, want ERROR", last.Kind)
	}
	if last.Lexeme.String() != "@" {
		t.Errorf("error lexeme = %q, want %q", last.Lexeme.String(), "@")
	}
}

func TestUnterminatedStringFallsToErrorRule(t *testing.T) {
	// The opening quote never matches the string rule without a closing
	// quote, so it lexes as a one-character ERROR token.
	tokens := Tokenize(`print "oops`)
	if tokens[1].Kind != token.ERROR || tokens[1].Lexeme.String() != `"` {
		t.Errorf("token after print = %v %q, want ERROR %q",
			tokens[1].Kind, tokens[1].Lexeme.String(), `"`)
	}
}

func TestProcessorReportsErrorTokens(t *testing.T) {
	ctx := &pipeline.Context{Source: "val x = #;"}
	(&Processor{}).Process(ctx)
	if !ctx.Failed() {
		t.Fatal("expected a fatal diagnostic for an unrecognized character")
	}
	if len(ctx.Tokens) == 0 {
		t.Error("tokens should still be produced alongside the diagnostic")
	}
}

func TestProcessorCleanSource(t *testing.T) {
	ctx := &pipeline.Context{Source: "print 1i + 2i;"}
	(&Processor{}).Process(ctx)
	if ctx.Failed() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Errors)
	}
	if len(ctx.Tokens) != 5 {
		t.Errorf("got %d tokens, want 5", len(ctx.Tokens))
	}
}
