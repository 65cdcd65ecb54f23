package parser

import (
	"github.com/clear-lang/clearc/internal/parsetree"
	"github.com/clear-lang/clearc/internal/token"
)

// Precedence orders the binding strength of infix expressions.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecMax
)

// Next returns the next highest precedence, used by binary operators for
// left-associativity.
func (p Precedence) Next() Precedence {
	if p >= PrecMax {
		return PrecMax
	}
	return p + 1
}

type prefixRule func(p *Parser) parsetree.Expr
type infixRule func(p *Parser, left parsetree.Expr) parsetree.Expr

// prattRule is the expression-parsing rule for one token kind.
type prattRule struct {
	prefix     prefixRule
	infix      infixRule
	precedence Precedence
}

var prattTable map[token.Kind]prattRule

// The table is built in init to break the reference cycle between the rules
// and the parse functions.
func init() {
	prattTable = map[token.Kind]prattRule{
		token.LEFT_PAREN:    {prefix: finishGrouping, infix: finishCall, precedence: PrecCall},
		token.DOT:           {infix: finishBinary, precedence: PrecCall},
		token.MINUS:         {prefix: finishUnary, infix: finishBinary, precedence: PrecTerm},
		token.PLUS:          {infix: finishBinary, precedence: PrecTerm},
		token.STAR:          {infix: finishBinary, precedence: PrecFactor},
		token.SLASH:         {infix: finishBinary, precedence: PrecFactor},
		token.BANG:          {prefix: finishUnary},
		token.EQUALS:        {infix: finishBinary, precedence: PrecAssignment},
		token.EQUAL_EQUAL:   {infix: finishBinary, precedence: PrecEquality},
		token.BANG_EQUAL:    {infix: finishBinary, precedence: PrecEquality},
		token.LESS:          {infix: finishBinary, precedence: PrecComparison},
		token.LESS_EQUAL:    {infix: finishBinary, precedence: PrecComparison},
		token.GREATER:       {infix: finishBinary, precedence: PrecComparison},
		token.GREATER_EQUAL: {infix: finishBinary, precedence: PrecComparison},
		token.AND:           {infix: finishBinary, precedence: PrecAnd},
		token.OR:            {infix: finishBinary, precedence: PrecOr},
		token.STR_LITERAL:   {prefix: finishAtom},
		token.NUM_LITERAL:   {prefix: finishAtom},
		token.INT_LITERAL:   {prefix: finishAtom},
		token.TRUE:          {prefix: finishAtom},
		token.FALSE:         {prefix: finishAtom},
		token.IDENTIFIER:    {prefix: finishAtom},
	}
}

// parseExpr parses an expression at assignment precedence.
func (p *Parser) parseExpr() parsetree.Expr {
	return p.parsePrecedence(PrecAssignment)
}

// parsePrecedence parses an expression bound by the given precedence: the
// current token's prefix rule first, then every infix operator whose table
// precedence is at least the bound.
func (p *Parser) parsePrecedence(precedence Precedence) parsetree.Expr {
	expr := p.parsePrefix()
	for {
		tok, ok := p.curr()
		if !ok {
			break
		}
		rule := prattTable[tok.Kind]
		if rule.infix == nil || rule.precedence < precedence {
			break
		}
		p.advance()
		expr = rule.infix(p, expr)
	}
	return expr
}

// parsePrefix parses a prefix expression. A token with no prefix rule is a
// hard parse error: the error is recorded and embedded as the expression.
func (p *Parser) parsePrefix() parsetree.Expr {
	start, ok := p.advance()
	if !ok {
		return p.report("unexpected EOF; expected expression", p.currRegion())
	}
	rule := prattTable[start.Kind]
	if rule.prefix == nil {
		return p.report("unexpected token; expected expression", start.Lexeme)
	}
	return rule.prefix(p)
}

// finishUnary parses a unary expression given that the operator has already
// been consumed.
func finishUnary(p *Parser) parsetree.Expr {
	operator := p.prev()
	target := p.parsePrecedence(PrecUnary)
	return &parsetree.UnaryExpr{Operator: operator, Target: target}
}

// finishBinary parses the right hand side of a binary expression given that
// the operator has already been consumed.
func finishBinary(p *Parser, left parsetree.Expr) parsetree.Expr {
	operator := p.prev()
	prec := prattTable[operator.Kind].precedence
	right := p.parsePrecedence(prec.Next())
	return &parsetree.BinaryExpr{Left: left, Operator: operator, Right: right}
}

// finishGrouping parses a parenthesized expression given that the '(' has
// already been consumed.
func finishGrouping(p *Parser) parsetree.Expr {
	expr := p.parseExpr()
	if !p.match(token.RIGHT_PAREN) {
		p.report("missing ')' to end grouping", p.currRegion())
	}
	return expr
}

// finishCall parses the argument list of a call expression given that the
// '(' has already been consumed.
func finishCall(p *Parser, left parsetree.Expr) parsetree.Expr {
	args := parseTuple(p, func(p *Parser) parsetree.Expr {
		return p.parseExpr()
	})
	return &parsetree.CallExpr{Function: left, Args: args}
}

// finishAtom wraps the just-consumed literal or identifier token.
func finishAtom(p *Parser) parsetree.Expr {
	return &parsetree.AtomExpr{Tok: p.prev()}
}
