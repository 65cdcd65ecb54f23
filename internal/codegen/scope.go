package codegen

import (
	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/bytecode"
	"github.com/clear-lang/clearc/internal/diagnostics"
	"github.com/clear-lang/clearc/internal/token"
)

// local is a name bound to a function-local slot.
type local struct {
	name  string
	depth int
	slot  int
}

// upvalue describes one captured binding of a closure: where the value lives
// in the enclosing function.
type upvalue struct {
	kind  ast.IndexKind
	index int
}

// compiler emits code for one function body. Nested function declarations
// get their own compiler chained through enclosing; all compilers write into
// the same program.
type compiler struct {
	program   *bytecode.Program
	structs   map[string]*ast.StructDecl
	enclosing *compiler

	params     map[string]int
	locals     []local
	upvalues   []upvalue
	scopeDepth int
}

func (c *compiler) beginScope() {
	c.scopeDepth++
}

// endScope releases the compile-time slots of the scope that is closing. The
// matching runtime cleanup is a single POP_SCOPE.
func (c *compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *compiler) addLocal(name token.Token) (int, *diagnostics.Diagnostic) {
	if len(c.locals) >= 256 {
		return 0, diagnostics.NewError(diagnostics.ErrC001, name.Lexeme,
			"too many local values in one function")
	}
	slot := len(c.locals)
	c.locals = append(c.locals, local{name: name.String(), depth: c.scopeDepth, slot: slot})
	return slot, nil
}

// resolveLocal finds the innermost local slot bound to name, or -1.
func (c *compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i].slot
		}
	}
	return -1
}

// resolveUpvalue finds name in an enclosing function and records a capture
// path down to this compiler, returning the upvalue index or -1.
func (c *compiler) resolveUpvalue(name string) int {
	if c.enclosing == nil {
		return -1
	}
	if slot := c.enclosing.resolveLocal(name); slot != -1 {
		return c.addUpvalue(upvalue{kind: ast.IndexLocal, index: slot})
	}
	if slot, ok := c.enclosing.params[name]; ok {
		return c.addUpvalue(upvalue{kind: ast.IndexParam, index: slot})
	}
	if index := c.enclosing.resolveUpvalue(name); index != -1 {
		return c.addUpvalue(upvalue{kind: ast.IndexUpvalue, index: index})
	}
	return -1
}

func (c *compiler) addUpvalue(u upvalue) int {
	for i, existing := range c.upvalues {
		if existing == u {
			return i
		}
	}
	c.upvalues = append(c.upvalues, u)
	return len(c.upvalues) - 1
}

// atTopLevel reports whether declarations here bind globals.
func (c *compiler) atTopLevel() bool {
	return c.enclosing == nil && c.scopeDepth == 0
}

// emitJump writes op with a placeholder 16-bit offset and returns the
// operand position for patching.
func (c *compiler) emitJump(op bytecode.Opcode) int {
	c.program.EmitArg(op, 0xff, 0xff)
	return c.program.Position() - 2
}

// patchJump back-fills the operand at offset to jump to the current
// position.
func (c *compiler) patchJump(offset int, at token.Token) *diagnostics.Diagnostic {
	jump := c.program.Position() - offset - 2
	if jump > 0xffff {
		return diagnostics.NewError(diagnostics.ErrC001, at.Lexeme, "jump too far")
	}
	c.program.Patch(offset, byte(jump>>8))
	c.program.Patch(offset+1, byte(jump))
	return nil
}

// emitLoop writes a backward jump to loopStart.
func (c *compiler) emitLoop(loopStart int, at token.Token) *diagnostics.Diagnostic {
	offset := c.program.Position() + 3 - loopStart
	if offset > 0xffff {
		return diagnostics.NewError(diagnostics.ErrC001, at.Lexeme, "loop body too large")
	}
	c.program.EmitArg(bytecode.Loop, byte(offset>>8), byte(offset))
	return nil
}
