// Package resolver performs name resolution and type checking. It walks the
// AST depth-first with a stack of scopes, annotating every expression and
// type node with its resolved type. Unlike parsing, resolution is not
// error-tolerant: the first semantic error halts the walk.
package resolver

import (
	"fmt"
	"strings"

	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/pipeline"
	"github.com/clear-lang/clearc/internal/token"
)

// Resolver holds the walk state for one compilation.
type Resolver struct {
	scopes          scopeStack
	structs         map[string]*ast.StructDecl
	expectedReturns []ast.TypeAnnot
	policy          pipeline.RedeclarationPolicy
}

// Resolve type-checks program, returning the struct registry for later
// stages, or the first semantic error found.
func Resolve(program *ast.Ast, policy pipeline.RedeclarationPolicy) (map[string]*ast.StructDecl, *diagnostics.Diagnostic) {
	r := &Resolver{
		scopes:  newScopeStack(),
		structs: map[string]*ast.StructDecl{},
		policy:  policy,
	}
	for _, decl := range program.Decls {
		if err := r.resolveDecl(decl); err != nil {
			return nil, err
		}
	}
	return r.structs, nil
}

func (r *Resolver) resolveDecl(decl ast.Decl) *diagnostics.Diagnostic {
	switch d := decl.(type) {
	case *ast.ValueDecl:
		return r.resolveValueDecl(d)
	case *ast.FuncDecl:
		return r.resolveFuncDecl(d)
	case *ast.StructDecl:
		return r.resolveStructDecl(d)
	case ast.Stmt:
		return r.resolveStmt(d)
	}
	panic("unhandled declaration node")
}

// declareName binds a name at the current scope level. What happens when the
// level already binds the name depends on the redeclaration policy.
func (r *Resolver) declareName(name token.Token, typ ast.TypeAnnot, assignable bool) *diagnostics.Diagnostic {
	// Built-in names can never be bound: calls dispatch on the built-in
	// before any scope lookup, so a binding would be unreachable.
	if _, ok := builtins[name.String()]; ok {
		return diagnostics.NewError(diagnostics.ErrA005, name.Lexeme,
			fmt.Sprintf("cannot declare %q: the name is reserved for a built-in function", name.String()))
	}
	if r.policy == pipeline.RedeclarationError && r.scopes.declaredHere(name.String()) {
		return diagnostics.NewError(diagnostics.ErrA005, name.Lexeme,
			fmt.Sprintf("redeclaration of %q in the same scope", name.String()))
	}
	r.scopes.declare(name.String(), binding{typ: typ, assignable: assignable})
	return nil
}

func (r *Resolver) resolveValueDecl(d *ast.ValueDecl) *diagnostics.Diagnostic {
	if err := r.resolveExpr(d.Init); err != nil {
		return err
	}
	initType := d.Init.Type()
	if initType.Kind == ast.TypeVoid {
		return diagnostics.NewError(diagnostics.ErrA002, d.Name.Lexeme,
			fmt.Sprintf("cannot initialize %q from a void value", d.Name.String()))
	}
	if _, ok := r.structs[d.Name.String()]; ok {
		return diagnostics.NewError(diagnostics.ErrA005, d.Name.Lexeme,
			fmt.Sprintf("cannot declare %q with the same name as a struct constructor", d.Name.String()))
	}
	if d.DeclType != nil {
		if err := r.resolveTypeExpr(d.DeclType); err != nil {
			return err
		}
		declared := d.DeclType.Type()
		if !declared.Equals(initType) {
			return diagnostics.NewError(diagnostics.ErrA002, d.Name.Lexeme,
				fmt.Sprintf("mismatched type for %q: declared %s but initialized with %s",
					d.Name.String(), declared, initType))
		}
	}
	return r.declareName(d.Name, initType, d.Mutable)
}

func (r *Resolver) resolveFuncDecl(d *ast.FuncDecl) *diagnostics.Diagnostic {
	paramTypes := make([]ast.TypeAnnot, len(d.Params))
	for i, param := range d.Params {
		if err := r.resolveTypeExpr(param.Type); err != nil {
			return err
		}
		paramTypes[i] = param.Type.Type()
	}
	if err := r.resolveTypeExpr(d.ReturnType); err != nil {
		return err
	}
	returnType := d.ReturnType.Type()

	if _, ok := r.structs[d.Name.String()]; ok {
		return diagnostics.NewError(diagnostics.ErrA005, d.Name.Lexeme,
			fmt.Sprintf("cannot declare function %q with the same name as a struct constructor", d.Name.String()))
	}

	// The function binds in the enclosing scope before its body opens, so
	// the body can recurse into it.
	if err := r.declareName(d.Name, ast.FunctionType(paramTypes, returnType), false); err != nil {
		return err
	}

	r.scopes.push()
	defer r.scopes.pop()
	for i, param := range d.Params {
		if err := r.declareName(param.Name, paramTypes[i], false); err != nil {
			return err
		}
	}

	r.expectedReturns = append(r.expectedReturns, returnType)
	defer func() {
		r.expectedReturns = r.expectedReturns[:len(r.expectedReturns)-1]
	}()

	return r.resolveStmt(d.Block)
}

func (r *Resolver) resolveStructDecl(d *ast.StructDecl) *diagnostics.Diagnostic {
	name := d.Name.String()
	if _, ok := r.structs[name]; ok {
		return diagnostics.NewError(diagnostics.ErrA005, d.Name.Lexeme,
			fmt.Sprintf("redefinition of struct %q", name))
	}
	fieldTypes := make([]ast.TypeAnnot, len(d.Fields))
	for i, field := range d.Fields {
		if err := r.resolveTypeExpr(field.Type); err != nil {
			return err
		}
		fieldTypes[i] = field.Type.Type()
	}
	r.structs[name] = d
	// Declaring a struct binds a constructor taking the fields in order.
	return r.declareName(d.Name, ast.FunctionType(fieldTypes, ast.StructType(name)), false)
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) *diagnostics.Diagnostic {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		if s.Expr == nil {
			return nil
		}
		return r.resolveExpr(s.Expr)

	case *ast.BlockStmt:
		r.scopes.push()
		defer r.scopes.pop()
		for _, decl := range s.Decls {
			if err := r.resolveDecl(decl); err != nil {
				return err
			}
		}
		return nil

	case *ast.IfStmt:
		for _, pair := range s.Pairs {
			if err := r.resolveExpr(pair.Cond); err != nil {
				return err
			}
			if err := r.resolveStmt(pair.Block); err != nil {
				return err
			}
		}
		if s.Else != nil {
			return r.resolveStmt(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		if s.Cond != nil {
			if err := r.resolveExpr(s.Cond); err != nil {
				return err
			}
		}
		return r.resolveStmt(s.Block)

	case *ast.ReturnStmt:
		if len(r.expectedReturns) == 0 {
			return diagnostics.NewError(diagnostics.ErrA005, s.First.Lexeme,
				"return statement outside of a function")
		}
		returned := ast.VoidType
		if s.Expr != nil {
			if err := r.resolveExpr(s.Expr); err != nil {
				return err
			}
			returned = s.Expr.Type()
		}
		expected := r.expectedReturns[len(r.expectedReturns)-1]
		if !expected.Equals(returned) {
			return diagnostics.NewError(diagnostics.ErrA002, s.First.Lexeme,
				fmt.Sprintf("mismatched return type: expected %s but was given %s", expected, returned))
		}
		return nil

	case *ast.ExprStmt:
		return r.resolveExpr(s.Expr)
	}
	panic("unhandled statement node")
}

// Operand types accepted per binary operator. Operators absent from the
// table accept any operand type, provided both sides match.
var binaryOperands = map[token.Kind][]ast.TypeAnnot{
	token.PLUS:          {ast.NumType, ast.IntType, ast.StrType},
	token.MINUS:         {ast.NumType, ast.IntType},
	token.STAR:          {ast.NumType, ast.IntType},
	token.SLASH:         {ast.NumType},
	token.LESS:          {ast.NumType, ast.IntType},
	token.LESS_EQUAL:    {ast.NumType, ast.IntType},
	token.GREATER:       {ast.NumType, ast.IntType},
	token.GREATER_EQUAL: {ast.NumType, ast.IntType},
}

var unaryOperands = map[token.Kind][]ast.TypeAnnot{
	token.MINUS: {ast.NumType, ast.IntType},
	token.BANG:  {ast.BoolType},
}

func typeIn(t ast.TypeAnnot, allowed []ast.TypeAnnot) bool {
	for _, a := range allowed {
		if t.Equals(a) {
			return true
		}
	}
	return false
}

func (r *Resolver) resolveExpr(expr ast.Expr) *diagnostics.Diagnostic {
	switch e := expr.(type) {
	case *ast.IntExpr:
		e.SetType(ast.IntType)
	case *ast.NumExpr:
		e.SetType(ast.NumType)
	case *ast.StrExpr:
		e.SetType(ast.StrType)
	case *ast.BoolExpr:
		e.SetType(ast.BoolType)

	case *ast.IdentExpr:
		name := e.Name.String()
		if _, ok := builtins[name]; ok {
			return diagnostics.NewError(diagnostics.ErrA001, e.Name.Lexeme,
				fmt.Sprintf("%q is reserved for a built-in function", name))
		}
		b, ok := r.scopes.lookup(name)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrA001, e.Name.Lexeme,
				fmt.Sprintf("reference to undefined name %q", name))
		}
		e.SetType(b.typ)
		e.Assignable = b.assignable

	case *ast.UnaryExpr:
		if err := r.resolveExpr(e.Target); err != nil {
			return err
		}
		targetType := e.Target.Type()
		if !typeIn(targetType, unaryOperands[e.Operator.Kind]) {
			return diagnostics.NewError(diagnostics.ErrA002, e.Operator.Lexeme,
				fmt.Sprintf("incompatible operand type %s for unary %q", targetType, e.Operator.String()))
		}
		e.SetType(targetType)

	case *ast.BinaryExpr:
		return r.resolveBinaryExpr(e)

	case *ast.CallExpr:
		return r.resolveCallExpr(e)

	default:
		panic("unhandled expression node")
	}
	return nil
}

func (r *Resolver) resolveBinaryExpr(e *ast.BinaryExpr) *diagnostics.Diagnostic {
	switch e.Operator.Kind {
	case token.DOT:
		return r.resolvePropertyAccess(e)

	case token.AND, token.OR:
		for _, side := range []ast.Expr{e.Left, e.Right} {
			if err := r.resolveExpr(side); err != nil {
				return err
			}
			if !side.Type().Equals(ast.BoolType) {
				return diagnostics.NewError(diagnostics.ErrA002, e.Operator.Lexeme,
					fmt.Sprintf("incompatible type %s for operand to logical %q",
						side.Type(), e.Operator.String()))
			}
		}
		e.SetType(ast.BoolType)
		return nil
	}

	if err := r.resolveExpr(e.Left); err != nil {
		return err
	}
	if err := r.resolveExpr(e.Right); err != nil {
		return err
	}
	leftType, rightType := e.Left.Type(), e.Right.Type()
	if leftType.Kind == ast.TypeVoid || rightType.Kind == ast.TypeVoid {
		return diagnostics.NewError(diagnostics.ErrA002, e.Operator.Lexeme,
			"cannot use a void value in an expression")
	}
	if !leftType.Equals(rightType) {
		return diagnostics.NewError(diagnostics.ErrA002, e.Operator.Lexeme,
			fmt.Sprintf("incompatible operand types %s and %s for %q",
				leftType, rightType, e.Operator.String()))
	}
	if allowed, ok := binaryOperands[e.Operator.Kind]; ok && !typeIn(leftType, allowed) {
		return diagnostics.NewError(diagnostics.ErrA002, e.Operator.Lexeme,
			fmt.Sprintf("incompatible operand type %s for %q", leftType, e.Operator.String()))
	}

	if e.Operator.Kind == token.EQUALS {
		ident, ok := e.Left.(*ast.IdentExpr)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrA004, e.Operator.Lexeme,
				"expression is not assignable")
		}
		if !ident.Assignable {
			return diagnostics.NewError(diagnostics.ErrA004, e.Operator.Lexeme,
				fmt.Sprintf("cannot assign to immutable name %q", ident.Name.String()))
		}
	}

	e.SetType(leftType)
	return nil
}

// resolvePropertyAccess handles the dot operator. The right side is a field
// name, not a value, and is never resolved as an expression.
func (r *Resolver) resolvePropertyAccess(e *ast.BinaryExpr) *diagnostics.Diagnostic {
	if err := r.resolveExpr(e.Left); err != nil {
		return err
	}
	leftType := e.Left.Type()
	if leftType.Kind != ast.TypeStruct {
		return diagnostics.NewError(diagnostics.ErrA002, e.Operator.Lexeme,
			fmt.Sprintf("type %s has no properties to access", leftType))
	}
	ident, ok := e.Right.(*ast.IdentExpr)
	if !ok {
		return diagnostics.NewError(diagnostics.ErrA002, e.Operator.Lexeme,
			"property accessor must be a name")
	}
	structDecl := r.structs[leftType.Struct]
	fieldType, ok := structDecl.FieldType(ident.Name.String())
	if !ok {
		return diagnostics.NewError(diagnostics.ErrA001, ident.Name.Lexeme,
			fmt.Sprintf("no property %q on struct %q", ident.Name.String(), leftType.Struct))
	}
	e.SetType(fieldType)
	return nil
}

func (r *Resolver) resolveCallExpr(e *ast.CallExpr) *diagnostics.Diagnostic {
	// A call to a built-in name dispatches on the built-in's signature set;
	// the callee is not resolved as an expression.
	if ident, ok := e.Function.(*ast.IdentExpr); ok {
		if b, ok := builtins[ident.Name.String()]; ok {
			argTypes, err := r.resolveArgs(e.Args)
			if err != nil {
				return err
			}
			if !b.matches(argTypes) {
				return diagnostics.NewError(diagnostics.ErrA003, ident.Name.Lexeme,
					fmt.Sprintf("built-in function %q cannot take arguments (%s)",
						ident.Name.String(), joinTypes(argTypes)))
			}
			e.SetType(b.returnType)
			return nil
		}
	}

	if err := r.resolveExpr(e.Function); err != nil {
		return err
	}
	funcType := e.Function.Type()
	if funcType.Kind != ast.TypeFunction {
		return diagnostics.NewError(diagnostics.ErrA003, e.Function.FirstToken().Lexeme,
			fmt.Sprintf("cannot call non-function type %s", funcType))
	}
	argTypes, err := r.resolveArgs(e.Args)
	if err != nil {
		return err
	}
	if !ast.SameTypes(funcType.Params, argTypes) {
		return diagnostics.NewError(diagnostics.ErrA003, e.Function.FirstToken().Lexeme,
			fmt.Sprintf("mismatched arguments (%s) for function of type %s",
				joinTypes(argTypes), funcType))
	}
	e.SetType(*funcType.Return)
	return nil
}

func (r *Resolver) resolveArgs(args []ast.Expr) ([]ast.TypeAnnot, *diagnostics.Diagnostic) {
	argTypes := make([]ast.TypeAnnot, len(args))
	for i, arg := range args {
		if err := r.resolveExpr(arg); err != nil {
			return nil, err
		}
		argTypes[i] = arg.Type()
	}
	return argTypes, nil
}

func joinTypes(types []ast.TypeAnnot) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// resolveTypeExpr resolves a written-out type to its annotation.
func (r *Resolver) resolveTypeExpr(t ast.TypeExpr) *diagnostics.Diagnostic {
	switch n := t.(type) {
	case *ast.AtomType:
		var annot ast.TypeAnnot
		switch n.Name.String() {
		case "int":
			annot = ast.IntType
		case "num":
			annot = ast.NumType
		case "str":
			annot = ast.StrType
		case "bool":
			annot = ast.BoolType
		case "void":
			annot = ast.VoidType
		default:
			if _, ok := r.structs[n.Name.String()]; !ok {
				return diagnostics.NewError(diagnostics.ErrA001, n.Name.Lexeme,
					fmt.Sprintf("reference to undefined type %q", n.Name.String()))
			}
			annot = ast.StructType(n.Name.String())
		}
		annot.Optional = n.Optional
		n.SetType(annot)
		return nil

	case *ast.FuncType:
		paramTypes := make([]ast.TypeAnnot, len(n.Params))
		for i, param := range n.Params {
			if err := r.resolveTypeExpr(param); err != nil {
				return err
			}
			paramTypes[i] = param.Type()
		}
		if err := r.resolveTypeExpr(n.ReturnType); err != nil {
			return err
		}
		annot := ast.FunctionType(paramTypes, n.ReturnType.Type())
		annot.Optional = n.Optional
		n.SetType(annot)
		return nil
	}
	panic("unhandled type node")
}
