// Package ast defines the abstract syntax tree the resolver, flow checker
// and code generator operate on. Unlike the parse tree, an Ast contains no
// error nodes: a tree with any syntax error inside never becomes an Ast.
// Stage results live on the nodes as annotations, each written by exactly
// one stage: types by the resolver, return behavior by the flow checker,
// name indices by the code generator.
package ast

import "github.com/clear-lang/clearc/internal/token"

// Decl is a top-level or block-level declaration.
type Decl interface {
	FirstToken() token.Token
	Return() ReturnAnnot
	SetReturn(ReturnAnnot)
	declNode()
}

// Stmt is a statement; every statement is also a declaration.
type Stmt interface {
	Decl
	stmtNode()
}

// Expr is an expression. Its type annotation starts unresolved and is filled
// in by the resolver.
type Expr interface {
	FirstToken() token.Token
	Type() TypeAnnot
	SetType(TypeAnnot)
	exprNode()
}

// TypeExpr is a written-out type. The resolver fills in its annotation.
type TypeExpr interface {
	Type() TypeAnnot
	SetType(TypeAnnot)
	typeExprNode()
}

// Ast is the root node of a compilation unit.
type Ast struct {
	Decls []Decl
}

// Param is a typed name, used for function parameters and struct fields.
type Param struct {
	Type TypeExpr
	Name token.Token
}

// ValueDecl is a val or var declaration.
type ValueDecl struct {
	returnAnnot
	indexAnnot
	First    token.Token
	Name     token.Token
	Mutable  bool
	DeclType TypeExpr // nil when the type is inferred
	Init     Expr
}

func (d *ValueDecl) declNode()               {}
func (d *ValueDecl) FirstToken() token.Token { return d.First }

// FuncDecl is a function declaration.
type FuncDecl struct {
	returnAnnot
	indexAnnot
	First      token.Token
	Name       token.Token
	Params     []Param
	ReturnType TypeExpr
	Block      *BlockStmt
}

func (d *FuncDecl) declNode()               {}
func (d *FuncDecl) FirstToken() token.Token { return d.First }

// StructDecl is a struct declaration. Declaring a struct also binds a
// constructor function of the same name taking the fields in order.
type StructDecl struct {
	returnAnnot
	indexAnnot
	First  token.Token
	Name   token.Token
	Fields []Param
}

func (d *StructDecl) declNode()               {}
func (d *StructDecl) FirstToken() token.Token { return d.First }

// FieldType returns the resolved type of the named field, if present.
func (d *StructDecl) FieldType(name string) (TypeAnnot, bool) {
	for _, f := range d.Fields {
		if f.Name.String() == name {
			return f.Type.Type(), true
		}
	}
	return TypeAnnot{}, false
}

// FieldIndex returns the position of the named field, or -1.
func (d *StructDecl) FieldIndex(name string) int {
	for i, f := range d.Fields {
		if f.Name.String() == name {
			return i
		}
	}
	return -1
}

// PrintStmt prints its expression, or a blank line when there is none.
type PrintStmt struct {
	returnAnnot
	First token.Token
	Expr  Expr // nil for a blank print
}

func (s *PrintStmt) declNode()               {}
func (s *PrintStmt) stmtNode()               {}
func (s *PrintStmt) FirstToken() token.Token { return s.First }

// BlockStmt is a brace-delimited scope.
type BlockStmt struct {
	returnAnnot
	First token.Token
	Decls []Decl
}

func (s *BlockStmt) declNode()               {}
func (s *BlockStmt) stmtNode()               {}
func (s *BlockStmt) FirstToken() token.Token { return s.First }

// CondBlock is one condition/block pair of an if/else chain.
type CondBlock struct {
	Cond  Expr
	Block *BlockStmt
}

// IfStmt is an if statement with zero or more else-if pairs and an optional
// else block.
type IfStmt struct {
	returnAnnot
	First token.Token
	Pairs []CondBlock
	Else  *BlockStmt // nil when there is no else branch
}

func (s *IfStmt) declNode()               {}
func (s *IfStmt) stmtNode()               {}
func (s *IfStmt) FirstToken() token.Token { return s.First }

// WhileStmt is a while loop; a nil condition loops forever.
type WhileStmt struct {
	returnAnnot
	First token.Token
	Cond  Expr
	Block *BlockStmt
}

func (s *WhileStmt) declNode()               {}
func (s *WhileStmt) stmtNode()               {}
func (s *WhileStmt) FirstToken() token.Token { return s.First }

// ReturnStmt returns from the enclosing function; a nil expression is a void
// return.
type ReturnStmt struct {
	returnAnnot
	First token.Token
	Expr  Expr
}

func (s *ReturnStmt) declNode()               {}
func (s *ReturnStmt) stmtNode()               {}
func (s *ReturnStmt) FirstToken() token.Token { return s.First }

// ExprStmt evaluates its expression and discards the result.
type ExprStmt struct {
	returnAnnot
	First token.Token
	Expr  Expr
}

func (s *ExprStmt) declNode()               {}
func (s *ExprStmt) stmtNode()               {}
func (s *ExprStmt) FirstToken() token.Token { return s.First }

// UnaryExpr is a prefix operator expression.
type UnaryExpr struct {
	typeAnnot
	Operator token.Token
	Target   Expr
}

func (e *UnaryExpr) exprNode()               {}
func (e *UnaryExpr) FirstToken() token.Token { return e.Operator }

// BinaryExpr is an infix operator expression. Assignment, logic operators
// and property access all parse as binary expressions; the resolver and
// code generator treat those operators specially.
type BinaryExpr struct {
	typeAnnot
	Operator token.Token
	Left     Expr
	Right    Expr
}

func (e *BinaryExpr) exprNode()               {}
func (e *BinaryExpr) FirstToken() token.Token { return e.Operator }

// CallExpr is a function call.
type CallExpr struct {
	typeAnnot
	Function Expr
	Args     []Expr
}

func (e *CallExpr) exprNode()               {}
func (e *CallExpr) FirstToken() token.Token { return e.Function.FirstToken() }

// IntExpr is an integer literal.
type IntExpr struct {
	typeAnnot
	Tok   token.Token
	Value int32
}

func (e *IntExpr) exprNode()               {}
func (e *IntExpr) FirstToken() token.Token { return e.Tok }

// NumExpr is a floating point literal.
type NumExpr struct {
	typeAnnot
	Tok   token.Token
	Value float64
}

func (e *NumExpr) exprNode()               {}
func (e *NumExpr) FirstToken() token.Token { return e.Tok }

// StrExpr is a string literal.
type StrExpr struct {
	typeAnnot
	Tok   token.Token
	Value string
}

func (e *StrExpr) exprNode()               {}
func (e *StrExpr) FirstToken() token.Token { return e.Tok }

// BoolExpr is a true or false literal.
type BoolExpr struct {
	typeAnnot
	Tok   token.Token
	Value bool
}

func (e *BoolExpr) exprNode()               {}
func (e *BoolExpr) FirstToken() token.Token { return e.Tok }

// IdentExpr is a name reference. Assignable is set by the resolver from the
// binding it finds; the index annotation is set by the code generator.
type IdentExpr struct {
	typeAnnot
	indexAnnot
	Name       token.Token
	Assignable bool
}

func (e *IdentExpr) exprNode()               {}
func (e *IdentExpr) FirstToken() token.Token { return e.Name }

// AtomType is a named type: one of the simple types, void, or a struct name.
type AtomType struct {
	typeAnnot
	Name     token.Token
	Optional bool
}

func (t *AtomType) typeExprNode() {}

// FuncType is a written-out function type.
type FuncType struct {
	typeAnnot
	Params     []TypeExpr
	ReturnType TypeExpr
	Optional   bool
}

func (t *FuncType) typeExprNode() {}
