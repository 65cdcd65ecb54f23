// Package parsetree defines the parse tree produced by the parser. There is
// one node per grammar production, and any child slot may hold a ParseError
// in place of a valid subtree: syntax errors are data, not control flow.
// Every node can pretty-print itself back as syntactically valid-looking
// Clear code, rendering <error> for error slots.
package parsetree

import (
	"fmt"
	"strings"

	"github.com/clear-lang/clearc/internal/token"
)

// ParseError is a syntax error embedded in the tree at the point of failure.
// It doubles as an expression node so it can occupy expression slots.
type ParseError struct {
	Message string
	Region  token.SourceView
}

func (e *ParseError) Pprint() string { return "<error>" }
func (e *ParseError) exprNode()      {}

// Name is a token-or-error slot for identifier positions.
type Name struct {
	Tok token.Token
	Err *ParseError
}

func (n Name) Pprint() string {
	if n.Err != nil {
		return "<error>"
	}
	return n.Tok.String()
}

// Node is any parse tree node.
type Node interface {
	Pprint() string
}

// Decl is a top-level or block-level declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement; every statement is also a declaration.
type Stmt interface {
	Decl
	stmtNode()
}

// Expr is an expression node or an embedded ParseError.
type Expr interface {
	Node
	exprNode()
}

// indent prefixes every line with four spaces.
func indent(orig string) string {
	lines := strings.Split(orig, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}

// Tree is the root of the parse tree.
//
// Tree : Decl* ;
type Tree struct {
	Decls []Decl
}

func (t *Tree) Pprint() string {
	parts := make([]string, len(t.Decls))
	for i, decl := range t.Decls {
		parts[i] = decl.Pprint()
	}
	return strings.Join(parts, "\n")
}

// ValueDecl : ( "val" | "var" ) identifier Type? "=" Expr ";" ;
type ValueDecl struct {
	First   token.Token
	Keyword token.Token
	Name    Name
	Type    *Type // nil when inferred
	Expr    Expr
}

func (d *ValueDecl) declNode() {}

func (d *ValueDecl) Pprint() string {
	typeStr := ""
	if d.Type != nil {
		typeStr = " " + d.Type.Pprint()
	}
	return fmt.Sprintf("%s %s%s = %s;", d.Keyword, d.Name.Pprint(), typeStr, d.Expr.Pprint())
}

// Param is a (type, name) pair used by function and struct declarations.
type Param struct {
	Type *Type
	Name Name
}

func (p Param) Pprint() string {
	return fmt.Sprintf("%s %s", p.Type.Pprint(), p.Name.Pprint())
}

// FuncDecl : "func" identifier "(" ( Param ( "," Param )* )? ")" Type BlockStmt ;
type FuncDecl struct {
	First      token.Token
	Name       Name
	Params     []Param
	ReturnType *Type
	Block      *BlockStmt
}

func (d *FuncDecl) declNode() {}

func (d *FuncDecl) Pprint() string {
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.Pprint()
	}
	return fmt.Sprintf("func %s(%s) %s %s",
		d.Name.Pprint(), strings.Join(params, ", "), d.ReturnType.Pprint(), d.Block.Pprint())
}

// StructDecl : "struct" identifier "{" ( Param ";" )* "}" ;
type StructDecl struct {
	First  token.Token
	Name   Name
	Fields []Param
}

func (d *StructDecl) declNode() {}

func (d *StructDecl) Pprint() string {
	fields := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = f.Pprint() + ";"
	}
	return fmt.Sprintf("struct %s {\n%s\n}", d.Name.Pprint(), indent(strings.Join(fields, "\n")))
}

// PrintStmt : "print" Expr? ";" ;
type PrintStmt struct {
	First token.Token
	Expr  Expr // nil for a blank print
}

func (s *PrintStmt) declNode() {}
func (s *PrintStmt) stmtNode() {}

func (s *PrintStmt) Pprint() string {
	if s.Expr == nil {
		return "print;"
	}
	return fmt.Sprintf("print %s;", s.Expr.Pprint())
}

// BlockStmt : "{" Decl* "}" ;
type BlockStmt struct {
	First token.Token
	Decls []Decl
}

func (s *BlockStmt) declNode() {}
func (s *BlockStmt) stmtNode() {}

func (s *BlockStmt) Pprint() string {
	parts := make([]string, len(s.Decls))
	for i, decl := range s.Decls {
		parts[i] = decl.Pprint()
	}
	return fmt.Sprintf("{\n%s\n}", indent(strings.Join(parts, "\n")))
}

// CondBlock is one ( condition, block ) pair of an if/else chain.
type CondBlock struct {
	Cond  Expr
	Block *BlockStmt
}

// IfStmt : "if" "(" Expr ")" BlockStmt
//          ( "else" "if" "(" Expr ")" BlockStmt )*
//          ( "else" BlockStmt )? ;
type IfStmt struct {
	First    token.Token
	Pairs    []CondBlock
	Fallback *BlockStmt // nil when there is no else branch
}

func (s *IfStmt) declNode() {}
func (s *IfStmt) stmtNode() {}

func (s *IfStmt) Pprint() string {
	var b strings.Builder
	for i, pair := range s.Pairs {
		if i > 0 {
			b.WriteString(" else ")
		}
		fmt.Fprintf(&b, "if (%s) %s", pair.Cond.Pprint(), pair.Block.Pprint())
	}
	if s.Fallback != nil {
		fmt.Fprintf(&b, " else %s", s.Fallback.Pprint())
	}
	return b.String()
}

// WhileStmt : "while" ( "(" Expr ")" )? BlockStmt ;
type WhileStmt struct {
	First token.Token
	Cond  Expr // nil for an unconditional loop
	Block *BlockStmt
}

func (s *WhileStmt) declNode() {}
func (s *WhileStmt) stmtNode() {}

func (s *WhileStmt) Pprint() string {
	if s.Cond == nil {
		return fmt.Sprintf("while %s", s.Block.Pprint())
	}
	return fmt.Sprintf("while (%s) %s", s.Cond.Pprint(), s.Block.Pprint())
}

// ReturnStmt : "return" Expr? ";" ;
type ReturnStmt struct {
	First  token.Token
	Return token.Token
	Expr   Expr // nil for a void return
}

func (s *ReturnStmt) declNode() {}
func (s *ReturnStmt) stmtNode() {}

func (s *ReturnStmt) Pprint() string {
	if s.Expr == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", s.Expr.Pprint())
}

// ExprStmt : Expr ";" ;
type ExprStmt struct {
	First token.Token
	Expr  Expr
}

func (s *ExprStmt) declNode() {}
func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pprint() string {
	return s.Expr.Pprint() + ";"
}

// TypeNode is the non-optional part of a type.
type TypeNode interface {
	Node
	typeNode()
}

// Type : ( "(" Type ")" | FuncType | AtomType ) "?"? ;
type Type struct {
	Node     TypeNode
	Optional bool
}

func (t *Type) Pprint() string {
	if t.Optional {
		return fmt.Sprintf("(%s)?", t.Node.Pprint())
	}
	return t.Node.Pprint()
}

// FuncType : "func" "(" ( Type ( "," Type )* )? ")" Type ;
type FuncType struct {
	Params     []*Type
	ReturnType *Type
}

func (t *FuncType) typeNode() {}

func (t *FuncType) Pprint() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Pprint()
	}
	return fmt.Sprintf("func(%s) %s", strings.Join(params, ", "), t.ReturnType.Pprint())
}

// AtomType : identifier | "void" ;
type AtomType struct {
	Name Name
}

func (t *AtomType) typeNode() {}

func (t *AtomType) Pprint() string {
	return t.Name.Pprint()
}

// UnaryExpr is a prefix operator expression.
type UnaryExpr struct {
	Operator token.Token
	Target   Expr
}

func (e *UnaryExpr) exprNode() {}

func (e *UnaryExpr) Pprint() string {
	return fmt.Sprintf("%s(%s)", e.Operator, e.Target.Pprint())
}

// BinaryExpr is an infix operator expression.
type BinaryExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (e *BinaryExpr) exprNode() {}

func (e *BinaryExpr) Pprint() string {
	return fmt.Sprintf("(%s)%s(%s)", e.Left.Pprint(), e.Operator, e.Right.Pprint())
}

// CallExpr is a function call expression.
type CallExpr struct {
	Function Expr
	Args     []Expr
}

func (e *CallExpr) exprNode() {}

func (e *CallExpr) Pprint() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = arg.Pprint()
	}
	return fmt.Sprintf("%s(%s)", e.Function.Pprint(), strings.Join(args, ", "))
}

// AtomExpr is a literal or identifier expression.
type AtomExpr struct {
	Tok token.Token
}

func (e *AtomExpr) exprNode() {}

func (e *AtomExpr) Pprint() string {
	return e.Tok.String()
}
