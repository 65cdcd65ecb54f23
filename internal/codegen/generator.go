// Package codegen lowers the annotated AST to VM instructions in one linear
// pass. It owns the constant pool, the global table and the local/param/
// upvalue slot assignment, recording every name's storage class and slot as
// an index annotation on the AST.
package codegen

import (
	"fmt"

	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/bytecode"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/token"
)

// builtinOps maps built-in function names to their dedicated opcodes.
var builtinOps = map[string]bytecode.Opcode{
	"int":   bytecode.Int,
	"bool":  bytecode.Bool,
	"num":   bytecode.Num,
	"str":   bytecode.Str,
	"type":  bytecode.Type,
	"clock": bytecode.Clock,
}

// Generate lowers program to bytecode. structs is the resolver's registry,
// consulted for constructor calls and field offsets.
func Generate(program *ast.Ast, structs map[string]*ast.StructDecl) (*bytecode.Program, *diagnostics.Diagnostic) {
	out := bytecode.NewProgram()
	c := &compiler{program: out, structs: structs}
	for _, decl := range program.Decls {
		if err := c.genDecl(decl); err != nil {
			return nil, err
		}
	}
	// The VM stops at a trailing return.
	out.EmitOp(bytecode.Return)
	return out, nil
}

func (c *compiler) genDecl(decl ast.Decl) *diagnostics.Diagnostic {
	switch d := decl.(type) {
	case *ast.ValueDecl:
		return c.genValueDecl(d)
	case *ast.FuncDecl:
		return c.genFuncDecl(d)
	case *ast.StructDecl:
		// Structs have no runtime representation of their own; the
		// constructor lowers at each call site.
		return nil
	case ast.Stmt:
		return c.genStmt(d)
	}
	panic("unhandled declaration node")
}

// defineName binds a freshly computed value, sitting on the stack, to name.
func (c *compiler) defineName(name token.Token) (ast.IndexAnnot, *diagnostics.Diagnostic) {
	if c.atTopLevel() {
		index := c.program.Globals.Define(name.String())
		if index > 255 {
			return ast.IndexAnnot{}, diagnostics.NewError(diagnostics.ErrC001, name.Lexeme,
				"too many global values")
		}
		c.program.EmitArg(bytecode.DefineGlobal, byte(index))
		return ast.IndexAnnot{Kind: ast.IndexGlobal, Value: index}, nil
	}
	slot, err := c.addLocal(name)
	if err != nil {
		return ast.IndexAnnot{}, err
	}
	c.program.EmitArg(bytecode.DefineLocal, byte(slot))
	return ast.IndexAnnot{Kind: ast.IndexLocal, Value: slot}, nil
}

func (c *compiler) genValueDecl(d *ast.ValueDecl) *diagnostics.Diagnostic {
	if err := c.genExpr(d.Init); err != nil {
		return err
	}
	index, err := c.defineName(d.Name)
	if err != nil {
		return err
	}
	d.SetIndex(index)
	return nil
}

func (c *compiler) genFuncDecl(d *ast.FuncDecl) *diagnostics.Diagnostic {
	// The slot is assigned before the body compiles so recursive references
	// inside the body resolve to it.
	var index ast.IndexAnnot
	if c.atTopLevel() {
		gindex := c.program.Globals.Define(d.Name.String())
		if gindex > 255 {
			return diagnostics.NewError(diagnostics.ErrC001, d.Name.Lexeme, "too many global values")
		}
		index = ast.IndexAnnot{Kind: ast.IndexGlobal, Value: gindex}
	} else {
		slot, err := c.addLocal(d.Name)
		if err != nil {
			return err
		}
		index = ast.IndexAnnot{Kind: ast.IndexLocal, Value: slot}
	}
	d.SetIndex(index)

	sub := &compiler{
		program:   c.program,
		structs:   c.structs,
		enclosing: c,
		params:    map[string]int{},
	}
	for i, param := range d.Params {
		sub.params[param.Name.String()] = i
	}
	if len(d.Params) > 255 {
		return diagnostics.NewError(diagnostics.ErrC001, d.Name.Lexeme, "too many parameters")
	}

	// START_FUNCTION pushes the function value and skips its body, which
	// runs only when called.
	body := c.emitJump(bytecode.StartFunction)
	if err := sub.genStmt(d.Block); err != nil {
		return err
	}
	if d.ReturnType.Type().Kind == ast.TypeVoid {
		// Flow checking guarantees a void body has no return statement, so
		// the fall-through exit is the only one.
		c.program.EmitOp(bytecode.ReturnVoid)
	}
	if err := c.patchJump(body, d.Name); err != nil {
		return err
	}

	if len(sub.upvalues) > 0 {
		// Operands: capture count, then a (kind, index) pair per capture.
		operands := []byte{byte(len(sub.upvalues))}
		for _, u := range sub.upvalues {
			var kind byte
			switch u.kind {
			case ast.IndexLocal:
				kind = 0
			case ast.IndexUpvalue:
				kind = 1
			case ast.IndexParam:
				kind = 2
			}
			operands = append(operands, kind, byte(u.index))
		}
		c.program.EmitArg(bytecode.Closure, operands...)
	}

	if index.Kind == ast.IndexGlobal {
		c.program.EmitArg(bytecode.DefineGlobal, byte(index.Value))
	} else {
		c.program.EmitArg(bytecode.DefineLocal, byte(index.Value))
	}
	return nil
}

func (c *compiler) genStmt(stmt ast.Stmt) *diagnostics.Diagnostic {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		if s.Expr == nil {
			c.program.EmitOp(bytecode.PrintBlank)
			return nil
		}
		if err := c.genExpr(s.Expr); err != nil {
			return err
		}
		c.program.EmitOp(bytecode.Print)
		return nil

	case *ast.BlockStmt:
		c.program.EmitOp(bytecode.PushScope)
		c.beginScope()
		for _, decl := range s.Decls {
			if err := c.genDecl(decl); err != nil {
				return err
			}
		}
		c.endScope()
		c.program.EmitOp(bytecode.PopScope)
		return nil

	case *ast.IfStmt:
		return c.genIfStmt(s)

	case *ast.WhileStmt:
		return c.genWhileStmt(s)

	case *ast.ReturnStmt:
		if s.Expr == nil {
			c.program.EmitOp(bytecode.ReturnVoid)
			return nil
		}
		if err := c.genExpr(s.Expr); err != nil {
			return err
		}
		c.program.EmitOp(bytecode.Return)
		return nil

	case *ast.ExprStmt:
		if err := c.genExpr(s.Expr); err != nil {
			return err
		}
		c.program.EmitOp(bytecode.Pop)
		return nil
	}
	panic("unhandled statement node")
}

func (c *compiler) genIfStmt(s *ast.IfStmt) *diagnostics.Diagnostic {
	var endJumps []int
	for _, pair := range s.Pairs {
		if err := c.genExpr(pair.Cond); err != nil {
			return err
		}
		skip := c.emitJump(bytecode.JumpIfNot)
		if err := c.genStmt(pair.Block); err != nil {
			return err
		}
		endJumps = append(endJumps, c.emitJump(bytecode.Jump))
		if err := c.patchJump(skip, s.First); err != nil {
			return err
		}
	}
	if s.Else != nil {
		if err := c.genStmt(s.Else); err != nil {
			return err
		}
	}
	for _, end := range endJumps {
		if err := c.patchJump(end, s.First); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) genWhileStmt(s *ast.WhileStmt) *diagnostics.Diagnostic {
	loopStart := c.program.Position()
	exit := -1
	if s.Cond != nil {
		if err := c.genExpr(s.Cond); err != nil {
			return err
		}
		exit = c.emitJump(bytecode.JumpIfNot)
	}
	if err := c.genStmt(s.Block); err != nil {
		return err
	}
	if err := c.emitLoop(loopStart, s.First); err != nil {
		return err
	}
	if exit != -1 {
		return c.patchJump(exit, s.First)
	}
	return nil
}

func (c *compiler) genExpr(expr ast.Expr) *diagnostics.Diagnostic {
	switch e := expr.(type) {
	case *ast.IntExpr:
		return c.genConstant(bytecode.IntConstant(e.Value), e.Tok)
	case *ast.NumExpr:
		return c.genConstant(bytecode.NumConstant(e.Value), e.Tok)
	case *ast.StrExpr:
		return c.genConstant(bytecode.StrConstant(e.Value), e.Tok)

	case *ast.BoolExpr:
		if e.Value {
			c.program.EmitOp(bytecode.True)
		} else {
			c.program.EmitOp(bytecode.False)
		}
		return nil

	case *ast.IdentExpr:
		return c.genLoad(e)

	case *ast.UnaryExpr:
		if err := c.genExpr(e.Target); err != nil {
			return err
		}
		switch e.Operator.Kind {
		case token.MINUS:
			c.program.EmitOp(bytecode.Negate)
		case token.BANG:
			c.program.EmitOp(bytecode.Not)
		}
		return nil

	case *ast.BinaryExpr:
		return c.genBinaryExpr(e)

	case *ast.CallExpr:
		return c.genCallExpr(e)
	}
	panic("unhandled expression node")
}

func (c *compiler) genConstant(value bytecode.Constant, at token.Token) *diagnostics.Diagnostic {
	index := c.program.Pool.Add(value)
	if index > 255 {
		return diagnostics.NewError(diagnostics.ErrC001, at.Lexeme, "too many constants")
	}
	c.program.EmitArg(bytecode.LoadConst, byte(index))
	return nil
}

// genLoad emits the load for a name reference, trying locals, then params,
// then captured upvalues, then globals.
func (c *compiler) genLoad(e *ast.IdentExpr) *diagnostics.Diagnostic {
	name := e.Name.String()
	if _, ok := c.structs[name]; ok {
		return diagnostics.NewError(diagnostics.ErrC001, e.Name.Lexeme,
			fmt.Sprintf("struct constructor %q is not a first-class value", name))
	}
	if slot := c.resolveLocal(name); slot != -1 {
		e.SetIndex(ast.IndexAnnot{Kind: ast.IndexLocal, Value: slot})
		c.program.EmitArg(bytecode.LoadLocal, byte(slot))
		return nil
	}
	if slot, ok := c.params[name]; ok {
		e.SetIndex(ast.IndexAnnot{Kind: ast.IndexParam, Value: slot})
		c.program.EmitArg(bytecode.LoadParam, byte(slot))
		return nil
	}
	if index := c.resolveUpvalue(name); index != -1 {
		e.SetIndex(ast.IndexAnnot{Kind: ast.IndexUpvalue, Value: index})
		c.program.EmitArg(bytecode.LoadUpvalue, byte(index))
		return nil
	}
	index, err := c.program.Globals.Lookup(name)
	if err != nil {
		return diagnostics.NewError(diagnostics.ErrC001, e.Name.Lexeme, err.Error())
	}
	e.SetIndex(ast.IndexAnnot{Kind: ast.IndexGlobal, Value: index})
	c.program.EmitArg(bytecode.LoadGlobal, byte(index))
	return nil
}

// genStore emits the store for an assignment target and re-loads the stored
// value, since assignment is an expression.
func (c *compiler) genStore(e *ast.IdentExpr) *diagnostics.Diagnostic {
	name := e.Name.String()
	if slot := c.resolveLocal(name); slot != -1 {
		e.SetIndex(ast.IndexAnnot{Kind: ast.IndexLocal, Value: slot})
		c.program.EmitArg(bytecode.DefineLocal, byte(slot))
		c.program.EmitArg(bytecode.LoadLocal, byte(slot))
		return nil
	}
	if index := c.resolveUpvalue(name); index != -1 {
		e.SetIndex(ast.IndexAnnot{Kind: ast.IndexUpvalue, Value: index})
		c.program.EmitArg(bytecode.SetUpvalue, byte(index))
		c.program.EmitArg(bytecode.LoadUpvalue, byte(index))
		return nil
	}
	index, err := c.program.Globals.Lookup(name)
	if err != nil {
		return diagnostics.NewError(diagnostics.ErrC001, e.Name.Lexeme, err.Error())
	}
	e.SetIndex(ast.IndexAnnot{Kind: ast.IndexGlobal, Value: index})
	c.program.EmitArg(bytecode.DefineGlobal, byte(index))
	c.program.EmitArg(bytecode.LoadGlobal, byte(index))
	return nil
}

var binaryOps = map[token.Kind]bytecode.Opcode{
	token.PLUS:          bytecode.Add,
	token.MINUS:         bytecode.Subtract,
	token.STAR:          bytecode.Multiply,
	token.SLASH:         bytecode.Divide,
	token.EQUAL_EQUAL:   bytecode.Equal,
	token.BANG_EQUAL:    bytecode.NEqual,
	token.LESS:          bytecode.Less,
	token.GREATER_EQUAL: bytecode.NLess,
	token.GREATER:       bytecode.Greater,
	token.LESS_EQUAL:    bytecode.NGreater,
}

func (c *compiler) genBinaryExpr(e *ast.BinaryExpr) *diagnostics.Diagnostic {
	switch e.Operator.Kind {
	case token.DOT:
		return c.genPropertyAccess(e)
	case token.AND:
		return c.genAndExpr(e)
	case token.OR:
		return c.genOrExpr(e)

	case token.EQUALS:
		if err := c.genExpr(e.Right); err != nil {
			return err
		}
		// The resolver only lets assignable identifiers through here.
		return c.genStore(e.Left.(*ast.IdentExpr))
	}

	if err := c.genExpr(e.Left); err != nil {
		return err
	}
	if err := c.genExpr(e.Right); err != nil {
		return err
	}
	c.program.EmitOp(binaryOps[e.Operator.Kind])
	return nil
}

func (c *compiler) genPropertyAccess(e *ast.BinaryExpr) *diagnostics.Diagnostic {
	if err := c.genExpr(e.Left); err != nil {
		return err
	}
	structDecl := c.structs[e.Left.Type().Struct]
	field := e.Right.(*ast.IdentExpr)
	c.program.EmitArg(bytecode.GetField, byte(structDecl.FieldIndex(field.Name.String())))
	return nil
}

// genAndExpr lowers a short-circuit conjunction: the right side only runs
// when the left side was true.
func (c *compiler) genAndExpr(e *ast.BinaryExpr) *diagnostics.Diagnostic {
	if err := c.genExpr(e.Left); err != nil {
		return err
	}
	short := c.emitJump(bytecode.JumpIfNot)
	if err := c.genExpr(e.Right); err != nil {
		return err
	}
	end := c.emitJump(bytecode.Jump)
	if err := c.patchJump(short, e.Operator); err != nil {
		return err
	}
	c.program.EmitOp(bytecode.False)
	return c.patchJump(end, e.Operator)
}

// genOrExpr lowers a short-circuit disjunction: the right side only runs
// when the left side was false.
func (c *compiler) genOrExpr(e *ast.BinaryExpr) *diagnostics.Diagnostic {
	if err := c.genExpr(e.Left); err != nil {
		return err
	}
	right := c.emitJump(bytecode.JumpIfNot)
	c.program.EmitOp(bytecode.True)
	end := c.emitJump(bytecode.Jump)
	if err := c.patchJump(right, e.Operator); err != nil {
		return err
	}
	if err := c.genExpr(e.Right); err != nil {
		return err
	}
	return c.patchJump(end, e.Operator)
}

func (c *compiler) genCallExpr(e *ast.CallExpr) *diagnostics.Diagnostic {
	if len(e.Args) > 255 {
		return diagnostics.NewError(diagnostics.ErrC001, e.Function.FirstToken().Lexeme,
			"too many call arguments")
	}

	if ident, ok := e.Function.(*ast.IdentExpr); ok {
		// Built-in calls compile to dedicated opcodes and constructor calls
		// to struct construction; neither loads the callee.
		if op, ok := builtinOps[ident.Name.String()]; ok {
			for _, arg := range e.Args {
				if err := c.genExpr(arg); err != nil {
					return err
				}
			}
			c.program.EmitOp(op)
			return nil
		}
		if _, ok := c.structs[ident.Name.String()]; ok {
			for _, arg := range e.Args {
				if err := c.genExpr(arg); err != nil {
					return err
				}
			}
			c.program.EmitArg(bytecode.Struct, byte(len(e.Args)))
			return nil
		}
	}

	if err := c.genExpr(e.Function); err != nil {
		return err
	}
	for _, arg := range e.Args {
		if err := c.genExpr(arg); err != nil {
			return err
		}
	}
	c.program.EmitArg(bytecode.Call, byte(len(e.Args)))
	return nil
}
