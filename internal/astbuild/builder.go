// Package astbuild converts a parse tree into an AST. The parse tree may be
// littered with error nodes; the conversion fails on the first one reached in
// a leftmost depth-first walk, so the error reported is always the earliest
// one in source order. On success the AST is error-free by construction.
package astbuild

import (
	"strconv"
	"strings"

	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/parsetree"
	"github.com/clear-lang/clearc/internal/token"
)

// Build converts tree into an AST, or returns the leftmost error.
func Build(tree *parsetree.Tree) (*ast.Ast, *parsetree.ParseError) {
	decls, err := buildDecls(tree.Decls)
	if err != nil {
		return nil, err
	}
	return &ast.Ast{Decls: decls}, nil
}

func buildDecls(decls []parsetree.Decl) ([]ast.Decl, *parsetree.ParseError) {
	built := make([]ast.Decl, len(decls))
	for i, decl := range decls {
		node, err := buildDecl(decl)
		if err != nil {
			return nil, err
		}
		built[i] = node
	}
	return built, nil
}

func buildDecl(decl parsetree.Decl) (ast.Decl, *parsetree.ParseError) {
	switch d := decl.(type) {
	case *parsetree.ValueDecl:
		return buildValueDecl(d)
	case *parsetree.FuncDecl:
		return buildFuncDecl(d)
	case *parsetree.StructDecl:
		return buildStructDecl(d)
	case parsetree.Stmt:
		return buildStmt(d)
	}
	panic("unhandled declaration node")
}

func buildValueDecl(d *parsetree.ValueDecl) (ast.Decl, *parsetree.ParseError) {
	if d.Name.Err != nil {
		return nil, d.Name.Err
	}
	var declType ast.TypeExpr
	if d.Type != nil {
		var err *parsetree.ParseError
		declType, err = buildType(d.Type)
		if err != nil {
			return nil, err
		}
	}
	init, err := buildExpr(d.Expr)
	if err != nil {
		return nil, err
	}
	return &ast.ValueDecl{
		First:    d.First,
		Name:     d.Name.Tok,
		Mutable:  d.Keyword.Kind == token.VAR,
		DeclType: declType,
		Init:     init,
	}, nil
}

func buildFuncDecl(d *parsetree.FuncDecl) (ast.Decl, *parsetree.ParseError) {
	if d.Name.Err != nil {
		return nil, d.Name.Err
	}
	params, err := buildParams(d.Params)
	if err != nil {
		return nil, err
	}
	returnType, err := buildType(d.ReturnType)
	if err != nil {
		return nil, err
	}
	block, err := buildBlock(d.Block)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{
		First:      d.First,
		Name:       d.Name.Tok,
		Params:     params,
		ReturnType: returnType,
		Block:      block,
	}, nil
}

func buildStructDecl(d *parsetree.StructDecl) (ast.Decl, *parsetree.ParseError) {
	if d.Name.Err != nil {
		return nil, d.Name.Err
	}
	fields, err := buildParams(d.Fields)
	if err != nil {
		return nil, err
	}
	return &ast.StructDecl{First: d.First, Name: d.Name.Tok, Fields: fields}, nil
}

func buildParams(params []parsetree.Param) ([]ast.Param, *parsetree.ParseError) {
	built := make([]ast.Param, len(params))
	for i, p := range params {
		paramType, err := buildType(p.Type)
		if err != nil {
			return nil, err
		}
		if p.Name.Err != nil {
			return nil, p.Name.Err
		}
		built[i] = ast.Param{Type: paramType, Name: p.Name.Tok}
	}
	return built, nil
}

func buildStmt(stmt parsetree.Stmt) (ast.Stmt, *parsetree.ParseError) {
	switch s := stmt.(type) {
	case *parsetree.PrintStmt:
		if s.Expr == nil {
			return &ast.PrintStmt{First: s.First}, nil
		}
		expr, err := buildExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.PrintStmt{First: s.First, Expr: expr}, nil

	case *parsetree.BlockStmt:
		return buildBlock(s)

	case *parsetree.IfStmt:
		node := &ast.IfStmt{First: s.First}
		for _, pair := range s.Pairs {
			cond, err := buildExpr(pair.Cond)
			if err != nil {
				return nil, err
			}
			block, err := buildBlock(pair.Block)
			if err != nil {
				return nil, err
			}
			node.Pairs = append(node.Pairs, ast.CondBlock{Cond: cond, Block: block})
		}
		if s.Fallback != nil {
			fallback, err := buildBlock(s.Fallback)
			if err != nil {
				return nil, err
			}
			node.Else = fallback
		}
		return node, nil

	case *parsetree.WhileStmt:
		var cond ast.Expr
		if s.Cond != nil {
			var err *parsetree.ParseError
			cond, err = buildExpr(s.Cond)
			if err != nil {
				return nil, err
			}
		}
		block, err := buildBlock(s.Block)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{First: s.First, Cond: cond, Block: block}, nil

	case *parsetree.ReturnStmt:
		if s.Expr == nil {
			return &ast.ReturnStmt{First: s.First}, nil
		}
		expr, err := buildExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{First: s.First, Expr: expr}, nil

	case *parsetree.ExprStmt:
		expr, err := buildExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{First: s.First, Expr: expr}, nil
	}
	panic("unhandled statement node")
}

func buildBlock(block *parsetree.BlockStmt) (*ast.BlockStmt, *parsetree.ParseError) {
	decls, err := buildDecls(block.Decls)
	if err != nil {
		return nil, err
	}
	return &ast.BlockStmt{First: block.First, Decls: decls}, nil
}

func buildExpr(expr parsetree.Expr) (ast.Expr, *parsetree.ParseError) {
	switch e := expr.(type) {
	case *parsetree.ParseError:
		return nil, e

	case *parsetree.UnaryExpr:
		target, err := buildExpr(e.Target)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operator: e.Operator, Target: target}, nil

	case *parsetree.BinaryExpr:
		left, err := buildExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Operator: e.Operator, Left: left, Right: right}, nil

	case *parsetree.CallExpr:
		function, err := buildExpr(e.Function)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i], err = buildExpr(arg)
			if err != nil {
				return nil, err
			}
		}
		return &ast.CallExpr{Function: function, Args: args}, nil

	case *parsetree.AtomExpr:
		return buildAtom(e.Tok)
	}
	panic("unhandled expression node")
}

func buildAtom(tok token.Token) (ast.Expr, *parsetree.ParseError) {
	switch tok.Kind {
	case token.INT_LITERAL:
		digits := strings.TrimSuffix(tok.String(), "i")
		value, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			return nil, &parsetree.ParseError{
				Message: "integer literal out of range",
				Region:  tok.Lexeme,
			}
		}
		return &ast.IntExpr{Tok: tok, Value: int32(value)}, nil

	case token.NUM_LITERAL:
		value, err := strconv.ParseFloat(tok.String(), 64)
		if err != nil {
			return nil, &parsetree.ParseError{
				Message: "malformed number literal",
				Region:  tok.Lexeme,
			}
		}
		return &ast.NumExpr{Tok: tok, Value: value}, nil

	case token.STR_LITERAL:
		quoted := tok.String()
		return &ast.StrExpr{Tok: tok, Value: quoted[1 : len(quoted)-1]}, nil

	case token.TRUE:
		return &ast.BoolExpr{Tok: tok, Value: true}, nil

	case token.FALSE:
		return &ast.BoolExpr{Tok: tok, Value: false}, nil

	case token.IDENTIFIER:
		return &ast.IdentExpr{Name: tok}, nil
	}
	panic("unhandled atom token")
}

func buildType(t *parsetree.Type) (ast.TypeExpr, *parsetree.ParseError) {
	switch node := t.Node.(type) {
	case *parsetree.AtomType:
		if node.Name.Err != nil {
			return nil, node.Name.Err
		}
		return &ast.AtomType{Name: node.Name.Tok, Optional: t.Optional}, nil

	case *parsetree.FuncType:
		params := make([]ast.TypeExpr, len(node.Params))
		for i, param := range node.Params {
			built, err := buildType(param)
			if err != nil {
				return nil, err
			}
			params[i] = built
		}
		returnType, err := buildType(node.ReturnType)
		if err != nil {
			return nil, err
		}
		return &ast.FuncType{Params: params, ReturnType: returnType, Optional: t.Optional}, nil
	}
	panic("unhandled type node")
}
