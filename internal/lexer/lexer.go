// Package lexer converts Clear source text into a list of position-tracked
// tokens. Matching at each position tries every skip rule first (repeatedly),
// then every consume rule in a fixed priority order, and finally falls back
// to consuming a single character as an ERROR token.
package lexer

import "github.com/clear-lang/clearc/internal/token"

// matchFunc reports how many leading bytes of s the rule matches, zero for
// no match.
type matchFunc func(s string) int

type consumeRule struct {
	match matchFunc
	kind  token.Kind
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func matchLineComment(s string) int {
	if len(s) < 2 || s[0] != '/' || s[1] != '/' {
		return 0
	}
	n := 2
	for n < len(s) && s[n] != '\n' {
		n++
	}
	return n
}

func matchWhitespace(s string) int {
	n := 0
	for n < len(s) && isSpace(s[n]) {
		n++
	}
	return n
}

func matchIdentifier(s string) int {
	if len(s) == 0 || !isAlpha(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && (isAlpha(s[n]) || isDigit(s[n])) {
		n++
	}
	return n
}

func matchDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// matchIntLiteral matches digits with a trailing 'i' suffix, e.g. "42i".
func matchIntLiteral(s string) int {
	n := matchDigits(s)
	if n == 0 || n >= len(s) || s[n] != 'i' {
		return 0
	}
	return n + 1
}

// matchNumLiteral matches digits with an optional fractional part.
func matchNumLiteral(s string) int {
	n := matchDigits(s)
	if n == 0 {
		return 0
	}
	if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
		n++
		n += matchDigits(s[n:])
	}
	return n
}

// matchStrLiteral matches a non-greedy quoted string with no escape
// processing. An unterminated quote is not a string literal; the opening
// quote falls through to the ERROR rule.
func matchStrLiteral(s string) int {
	if len(s) == 0 || s[0] != '"' {
		return 0
	}
	for n := 1; n < len(s); n++ {
		if s[n] == '"' {
			return n + 1
		}
	}
	return 0
}

func matchExact(symbol string) matchFunc {
	return func(s string) int {
		if len(s) >= len(symbol) && s[:len(symbol)] == symbol {
			return len(symbol)
		}
		return 0
	}
}

var skipRules = []matchFunc{matchLineComment, matchWhitespace}

// consumeRules are tried in order; longer symbols come before their one-char
// prefixes.
var consumeRules = []consumeRule{
	{matchIdentifier, token.IDENTIFIER},
	{matchIntLiteral, token.INT_LITERAL},
	{matchNumLiteral, token.NUM_LITERAL},
	{matchStrLiteral, token.STR_LITERAL},
	{matchExact("=="), token.EQUAL_EQUAL},
	{matchExact("!="), token.BANG_EQUAL},
	{matchExact("<="), token.LESS_EQUAL},
	{matchExact(">="), token.GREATER_EQUAL},
	{matchExact("="), token.EQUALS},
	{matchExact("<"), token.LESS},
	{matchExact(">"), token.GREATER},
	{matchExact("+"), token.PLUS},
	{matchExact("-"), token.MINUS},
	{matchExact("*"), token.STAR},
	{matchExact("/"), token.SLASH},
	{matchExact("."), token.DOT},
	{matchExact("!"), token.BANG},
	{matchExact(","), token.COMMA},
	{matchExact(";"), token.SEMICOLON},
	{matchExact("{"), token.LEFT_BRACE},
	{matchExact("}"), token.RIGHT_BRACE},
	{matchExact("("), token.LEFT_PAREN},
	{matchExact(")"), token.RIGHT_PAREN},
	{matchExact("?"), token.QUESTION_MARK},
}

// Lexer walks over a source string emitting tokens or skipping based on the
// rule tables. The start offset trails behind skipped trivia so that each
// token's Region covers the trivia before it.
type Lexer struct {
	source string
	start  int
	end    int
	tokens []token.Token
}

func New(source string) *Lexer {
	return &Lexer{source: source}
}

func (l *Lexer) done() bool {
	return l.end == len(l.source)
}

func (l *Lexer) rest() string {
	return l.source[l.end:]
}

func (l *Lexer) consume(n int, kind token.Kind) {
	region := token.NewSourceView(l.source, l.start, l.end+n-1)
	lexeme := token.NewSourceView(l.source, l.end, l.end+n-1)
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: lexeme, Region: region})
	l.end += n
	l.start = l.end
}

func (l *Lexer) step() {
	for _, skip := range skipRules {
		if n := skip(l.rest()); n > 0 {
			l.end += n
			return
		}
	}
	for _, rule := range consumeRules {
		if n := rule.match(l.rest()); n > 0 {
			l.consume(n, rule.kind)
			return
		}
	}
	// Fallback: one unrecognized character.
	l.consume(1, token.ERROR)
}

// Tokenize lexes the whole source, reclassifying identifiers that exactly
// match a keyword.
func Tokenize(source string) []token.Token {
	l := New(source)
	for !l.done() {
		l.step()
	}
	for i, tok := range l.tokens {
		if tok.Kind == token.IDENTIFIER {
			if kw, ok := token.Keywords[tok.Lexeme.String()]; ok {
				l.tokens[i].Kind = kw
			}
		}
	}
	return l.tokens
}
