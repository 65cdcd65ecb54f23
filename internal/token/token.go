// Package token defines the lexical token model for Clear source code.
package token

// Kind enumerates the kinds of tokens in valid Clear source code.
type Kind int

const (
	// Non-definite tokens
	IDENTIFIER Kind = iota
	INT_LITERAL
	NUM_LITERAL
	STR_LITERAL
	// Keywords
	VAL
	VAR
	FUNC
	STRUCT
	IF
	ELSE
	WHILE
	RETURN
	PRINT
	VOID
	AND
	OR
	TRUE
	FALSE
	// Symbols
	EQUALS
	EQUAL_EQUAL
	BANG_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	PLUS
	MINUS
	STAR
	SLASH
	DOT
	BANG
	COMMA
	SEMICOLON
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_PAREN
	RIGHT_PAREN
	QUESTION_MARK
	// Special
	ERROR
)

var kindNames = map[Kind]string{
	IDENTIFIER:    "identifier",
	INT_LITERAL:   "int literal",
	NUM_LITERAL:   "num literal",
	STR_LITERAL:   "str literal",
	VAL:           "'val'",
	VAR:           "'var'",
	FUNC:          "'func'",
	STRUCT:        "'struct'",
	IF:            "'if'",
	ELSE:          "'else'",
	WHILE:         "'while'",
	RETURN:        "'return'",
	PRINT:         "'print'",
	VOID:          "'void'",
	AND:           "'and'",
	OR:            "'or'",
	TRUE:          "'true'",
	FALSE:         "'false'",
	EQUALS:        "'='",
	EQUAL_EQUAL:   "'=='",
	BANG_EQUAL:    "'!='",
	LESS:          "'<'",
	LESS_EQUAL:    "'<='",
	GREATER:       "'>'",
	GREATER_EQUAL: "'>='",
	PLUS:          "'+'",
	MINUS:         "'-'",
	STAR:          "'*'",
	SLASH:         "'/'",
	DOT:           "'.'",
	BANG:          "'!'",
	COMMA:         "','",
	SEMICOLON:     "';'",
	LEFT_BRACE:    "'{'",
	RIGHT_BRACE:   "'}'",
	LEFT_PAREN:    "'('",
	RIGHT_PAREN:   "')'",
	QUESTION_MARK: "'?'",
	ERROR:         "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Keywords maps identifier lexemes to their keyword kinds. Identifiers are
// reclassified against this table after raw tokenization.
var Keywords = map[string]Kind{
	"val":    VAL,
	"var":    VAR,
	"func":   FUNC,
	"struct": STRUCT,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"return": RETURN,
	"print":  PRINT,
	"void":   VOID,
	"and":    AND,
	"or":     OR,
	"true":   TRUE,
	"false":  FALSE,
}

// Token is a single token within a string of Clear source code. Region spans
// the token plus any skipped trivia before it; Lexeme is the exact matched
// text. Tokens are immutable once produced by the lexer.
type Token struct {
	Kind   Kind
	Lexeme SourceView
	Region SourceView
}

func (t Token) String() string {
	return t.Lexeme.String()
}
