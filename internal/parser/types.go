package parser

import (
	"github.com/clear-lang/clearc/internal/parsetree"
	"github.com/clear-lang/clearc/internal/token"
)

// parseType parses a type.
//
// Type : ( "(" Type ")" | FuncType | AtomType ) "?"? ;
func (p *Parser) parseType() *parsetree.Type {
	var result *parsetree.Type
	switch {
	case p.match(token.LEFT_PAREN):
		result = p.parseType()
		if !p.match(token.RIGHT_PAREN) {
			p.report("missing ')' to end type grouping", p.currRegion())
		}
	case p.match(token.FUNC):
		result = &parsetree.Type{Node: p.finishFuncType()}
	default:
		result = &parsetree.Type{Node: p.parseAtomType()}
	}

	if p.match(token.QUESTION_MARK) {
		result.Optional = true
	}
	return result
}

// finishFuncType parses a function type given that the "func" keyword has
// already been consumed.
func (p *Parser) finishFuncType() *parsetree.FuncType {
	if !p.match(token.LEFT_PAREN) {
		p.report("missing '(' to begin parameter types", p.currRegion())
	}
	params := parseTuple(p, func(p *Parser) *parsetree.Type {
		return p.parseType()
	})
	returnType := p.parseType()
	return &parsetree.FuncType{Params: params, ReturnType: returnType}
}

// parseAtomType parses an atomic type: a type name or "void".
func (p *Parser) parseAtomType() *parsetree.AtomType {
	if p.match(token.IDENTIFIER) || p.match(token.VOID) {
		return &parsetree.AtomType{Name: parsetree.Name{Tok: p.prev()}}
	}
	err := p.report("expected type", p.currRegion())
	return &parsetree.AtomType{Name: parsetree.Name{Err: err}}
}
