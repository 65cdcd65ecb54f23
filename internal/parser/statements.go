package parser

import (
	"github.com/clear-lang/clearc/internal/parsetree"
	"github.com/clear-lang/clearc/internal/token"
)

// parseDecl parses a single declaration.
//
// Decl : ValueDecl | FuncDecl | StructDecl | Stmt ;
func (p *Parser) parseDecl() parsetree.Decl {
	if p.match(token.VAL) || p.match(token.VAR) {
		return p.finishValueDecl()
	}
	if p.match(token.FUNC) {
		return p.finishFuncDecl()
	}
	if p.match(token.STRUCT) {
		return p.finishStructDecl()
	}
	return p.parseStmt()
}

// finishValueDecl parses a value declaration given that the "val" or "var"
// keyword has already been consumed.
func (p *Parser) finishValueDecl() *parsetree.ValueDecl {
	keyword := p.prev()
	name := p.parseName("missing value name")

	var valType *parsetree.Type
	if !p.match(token.EQUALS) {
		valType = p.parseType()
		if !p.match(token.EQUALS) {
			p.report("missing '=' for value initializer", p.currRegion())
		}
	}

	expr := p.parseExpr()

	if !p.match(token.SEMICOLON) {
		p.report("missing ';' to end value declaration", p.currRegion())
	}
	return &parsetree.ValueDecl{First: keyword, Keyword: keyword, Name: name, Type: valType, Expr: expr}
}

// finishFuncDecl parses a function declaration given that the "func" keyword
// has already been consumed.
func (p *Parser) finishFuncDecl() *parsetree.FuncDecl {
	keyword := p.prev()
	name := p.parseName("missing function name")

	if !p.match(token.LEFT_PAREN) {
		p.report("missing '(' to begin parameters", p.currRegion())
	}
	params := parseTuple(p, func(p *Parser) parsetree.Param {
		paramType := p.parseType()
		paramName := p.parseName("missing parameter name")
		return parsetree.Param{Type: paramType, Name: paramName}
	})

	returnType := p.parseType()
	block := p.parseBlock()
	return &parsetree.FuncDecl{First: keyword, Name: name, Params: params, ReturnType: returnType, Block: block}
}

// finishStructDecl parses a struct declaration given that the "struct"
// keyword has already been consumed.
func (p *Parser) finishStructDecl() *parsetree.StructDecl {
	keyword := p.prev()
	name := p.parseName("missing struct name")

	if !p.match(token.LEFT_BRACE) {
		p.report("missing '{' to begin struct fields", p.currRegion())
		return &parsetree.StructDecl{First: keyword, Name: name}
	}
	opener := p.prev()

	var fields []parsetree.Param
	for !p.match(token.RIGHT_BRACE) {
		if p.done() {
			p.report("unclosed struct declaration", opener.Lexeme)
			break
		}
		before := p.current
		fieldType := p.parseType()
		fieldName := p.parseName("missing field name")
		if !p.match(token.SEMICOLON) {
			p.report("missing ';' after struct field", p.currRegion())
		}
		fields = append(fields, parsetree.Param{Type: fieldType, Name: fieldName})
		if p.current == before {
			// No field rule consumed anything; stop rather than spin on the
			// same token.
			break
		}
	}
	return &parsetree.StructDecl{First: keyword, Name: name, Fields: fields}
}

// parseStmt parses a single statement.
//
// Stmt : PrintStmt | BlockStmt | IfStmt | WhileStmt | ReturnStmt | ExprStmt ;
func (p *Parser) parseStmt() parsetree.Stmt {
	if p.match(token.PRINT) {
		return p.finishPrintStmt()
	}
	if p.match(token.LEFT_BRACE) {
		return p.finishBlock()
	}
	if p.match(token.IF) {
		return p.finishIfStmt()
	}
	if p.match(token.WHILE) {
		return p.finishWhileStmt()
	}
	if p.match(token.RETURN) {
		return p.finishReturnStmt()
	}
	return p.parseExprStmt()
}

// finishPrintStmt parses a print statement given that the "print" keyword has
// already been consumed.
func (p *Parser) finishPrintStmt() *parsetree.PrintStmt {
	keyword := p.prev()
	if p.match(token.SEMICOLON) {
		return &parsetree.PrintStmt{First: keyword}
	}
	expr := p.parseExpr()
	if !p.match(token.SEMICOLON) {
		p.report("missing ';' to end print statement", p.currRegion())
	}
	return &parsetree.PrintStmt{First: keyword, Expr: expr}
}

// parseBlock parses a block statement including its opening brace.
func (p *Parser) parseBlock() *parsetree.BlockStmt {
	if p.match(token.LEFT_BRACE) {
		return p.finishBlock()
	}
	p.report("expected '{' to start block", p.currRegion())
	return &parsetree.BlockStmt{First: p.prev()}
}

// finishBlock parses a block statement given that the opening brace has
// already been consumed.
func (p *Parser) finishBlock() *parsetree.BlockStmt {
	opener := p.prev()
	var decls []parsetree.Decl
	for !p.match(token.RIGHT_BRACE) {
		if p.done() {
			p.report("unclosed block", opener.Lexeme)
			break
		}
		decls = append(decls, p.parseDecl())
	}
	return &parsetree.BlockStmt{First: opener, Decls: decls}
}

// finishIfStmt parses an if statement given that the "if" keyword has already
// been consumed.
func (p *Parser) finishIfStmt() *parsetree.IfStmt {
	stmt := &parsetree.IfStmt{First: p.prev()}

	parseCond := func() {
		if !p.match(token.LEFT_PAREN) {
			p.report("missing '(' to start condition", p.currRegion())
		}
		cond := p.parseExpr()
		if !p.match(token.RIGHT_PAREN) {
			p.report("missing ')' to end condition", p.currRegion())
		}
		block := p.parseBlock()
		stmt.Pairs = append(stmt.Pairs, parsetree.CondBlock{Cond: cond, Block: block})
	}

	parseCond()
	for p.match(token.ELSE) {
		if p.match(token.IF) {
			parseCond()
		} else {
			stmt.Fallback = p.parseBlock()
			break
		}
	}
	return stmt
}

// finishWhileStmt parses a while statement given that the "while" keyword has
// already been consumed.
func (p *Parser) finishWhileStmt() *parsetree.WhileStmt {
	keyword := p.prev()
	var cond parsetree.Expr
	if p.match(token.LEFT_PAREN) {
		cond = p.parseExpr()
		if !p.match(token.RIGHT_PAREN) {
			p.report("missing ')' to end condition", p.currRegion())
		}
	}
	block := p.parseBlock()
	return &parsetree.WhileStmt{First: keyword, Cond: cond, Block: block}
}

// finishReturnStmt parses a return statement given that the "return" keyword
// has already been consumed.
func (p *Parser) finishReturnStmt() *parsetree.ReturnStmt {
	ret := p.prev()
	if p.match(token.SEMICOLON) {
		return &parsetree.ReturnStmt{First: ret, Return: ret}
	}
	expr := p.parseExpr()
	if !p.match(token.SEMICOLON) {
		p.report("missing ';' to end return statement", p.currRegion())
	}
	return &parsetree.ReturnStmt{First: ret, Return: ret, Expr: expr}
}

// parseExprStmt parses an expression statement.
func (p *Parser) parseExprStmt() *parsetree.ExprStmt {
	first, _ := p.curr()
	expr := p.parseExpr()
	if !p.match(token.SEMICOLON) {
		p.report("missing ';' to end expression statement", p.currRegion())
	}
	return &parsetree.ExprStmt{First: first, Expr: expr}
}
