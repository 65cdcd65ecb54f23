// Package parser parses a token list into a parse tree. Statements and
// declarations use recursive descent, one function per production;
// expressions use a table-driven Pratt parser. A production that cannot find
// its expected token records a ParseError at the current position and
// continues with a stub; there is no token skipping and no panic recovery.
package parser

import (
	"github.com/clear-lang/clearc/internal/parsetree"
	"github.com/clear-lang/clearc/internal/token"
)

// Parser is a cursor over a token list that accumulates syntax errors.
type Parser struct {
	tokens  []token.Token
	current int
	errors  []*parsetree.ParseError
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) done() bool {
	return p.current == len(p.tokens)
}

func (p *Parser) prev() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) curr() (token.Token, bool) {
	if p.done() {
		return token.Token{}, false
	}
	return p.tokens[p.current], true
}

func (p *Parser) advance() (token.Token, bool) {
	if p.done() {
		return token.Token{}, false
	}
	p.current++
	return p.prev(), true
}

func (p *Parser) check(kind token.Kind) bool {
	tok, ok := p.curr()
	return ok && tok.Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.current++
	return true
}

// currRegion returns a view of the current token, or of the previous token
// when the parser has consumed all input.
func (p *Parser) currRegion() token.SourceView {
	if tok, ok := p.curr(); ok {
		return tok.Lexeme
	}
	return p.prev().Lexeme
}

// report records a ParseError at region and returns it so callers can also
// embed it in a child slot.
func (p *Parser) report(message string, region token.SourceView) *parsetree.ParseError {
	err := &parsetree.ParseError{Message: message, Region: region}
	p.errors = append(p.errors, err)
	return err
}

// Parse parses the whole token list into a tree, returning the tree along
// with every syntax error found. The tree keeps parsing past errors for
// maximal diagnostic yield; error slots poison affected nodes later, when the
// AST is built.
func Parse(tokens []token.Token) (*parsetree.Tree, []*parsetree.ParseError) {
	p := New(tokens)
	var decls []parsetree.Decl
	for !p.done() {
		decls = append(decls, p.parseDecl())
	}
	return &parsetree.Tree{Decls: decls}, p.errors
}

// parseTuple parses the elements of an (a, b, ...) form into a list, given
// that the opening '(' has already been consumed. Parameters, call arguments
// and function-type parameter lists all share this helper.
func parseTuple[T any](p *Parser, parseElem func(*Parser) T) []T {
	opener := p.prev()
	if p.match(token.RIGHT_PAREN) {
		return nil
	}
	elems := []T{parseElem(p)}
	for !p.match(token.RIGHT_PAREN) {
		if p.done() {
			region := opener.Lexeme
			if span, err := token.Range(opener.Lexeme, p.prev().Lexeme); err == nil {
				region = span
			}
			p.report("unclosed '('", region)
			break
		}
		before := p.current
		if !p.match(token.COMMA) {
			p.report("missing ',' delimiter", p.currRegion())
		}
		elems = append(elems, parseElem(p))
		if p.current == before {
			// The element parser made no progress, so the cursor is stuck
			// on a token no rule here can consume.
			break
		}
	}
	return elems
}

// parseName consumes an identifier slot, substituting a ParseError stub when
// the identifier is missing.
func (p *Parser) parseName(message string) parsetree.Name {
	if p.match(token.IDENTIFIER) {
		return parsetree.Name{Tok: p.prev()}
	}
	return parsetree.Name{Err: p.report(message, p.currRegion())}
}
