// Package flow computes return-completeness for every statement: whether
// control flow through it NEVER, SOMETIMES or ALWAYS returns. The annotation
// decides whether each function satisfies its declared return type, and
// flags code after an ALWAYS point as unreachable. Unreachable code is a
// warning; a function that breaks its return contract is fatal.
package flow

import (
	"fmt"

	"github.com/clear-lang/clearc/internal/ast"
	"github.com/clear-lang/clearc/internal/diagnostics"
)

// Checker accumulates warnings during the walk.
type Checker struct {
	warnings []*diagnostics.Diagnostic
}

// Check annotates program with return-completeness. It returns every warning
// produced up to the first fatal error, if any.
func Check(program *ast.Ast) ([]*diagnostics.Diagnostic, *diagnostics.Diagnostic) {
	c := &Checker{}
	for _, decl := range program.Decls {
		if err := c.checkDecl(decl); err != nil {
			return c.warnings, err
		}
	}
	return c.warnings, nil
}

func (c *Checker) checkDecl(decl ast.Decl) *diagnostics.Diagnostic {
	switch d := decl.(type) {
	case *ast.ValueDecl, *ast.StructDecl:
		return nil
	case *ast.FuncDecl:
		return c.checkFuncDecl(d)
	case ast.Stmt:
		return c.checkStmt(d)
	}
	panic("unhandled declaration node")
}

func (c *Checker) checkFuncDecl(d *ast.FuncDecl) *diagnostics.Diagnostic {
	if err := c.checkStmt(d.Block); err != nil {
		return err
	}
	returnType := d.ReturnType.Type()
	bodyKind := d.Block.Return().Kind
	if returnType.Kind != ast.TypeVoid && bodyKind != ast.ReturnAlways {
		return diagnostics.NewError(diagnostics.ErrF001, d.Name.Lexeme,
			fmt.Sprintf("function %q may not always return", d.Name.String()))
	}
	if returnType.Kind == ast.TypeVoid && bodyKind != ast.ReturnNever {
		return diagnostics.NewError(diagnostics.ErrF001, d.Name.Lexeme,
			fmt.Sprintf("void function %q contains return statements", d.Name.String()))
	}
	return nil
}

func (c *Checker) checkStmt(stmt ast.Stmt) *diagnostics.Diagnostic {
	switch s := stmt.(type) {
	case *ast.PrintStmt, *ast.ExprStmt:
		return nil

	case *ast.ReturnStmt:
		annot := ast.ReturnAnnot{Kind: ast.ReturnAlways, Type: ast.VoidType}
		if s.Expr != nil {
			annot.Type = s.Expr.Type()
		}
		s.SetReturn(annot)
		return nil

	case *ast.BlockStmt:
		return c.checkBlock(s)

	case *ast.IfStmt:
		return c.checkIfStmt(s)

	case *ast.WhileStmt:
		if err := c.checkStmt(s.Block); err != nil {
			return err
		}
		// The body may run zero times, so the loop never promises a return.
		if s.Block.Return().Kind != ast.ReturnNever {
			s.SetReturn(ast.ReturnAnnot{Kind: ast.ReturnSometimes, Type: s.Block.Return().Type})
		}
		return nil
	}
	panic("unhandled statement node")
}

// checkBlock folds the declarations' annotations in order. Once a
// declaration ALWAYS returns, everything after it is unreachable.
func (c *Checker) checkBlock(block *ast.BlockStmt) *diagnostics.Diagnostic {
	annot := ast.ReturnAnnot{}
	for _, decl := range block.Decls {
		if err := c.checkDecl(decl); err != nil {
			return err
		}
		if annot.Kind == ast.ReturnAlways {
			c.warnings = append(c.warnings, diagnostics.NewWarning(
				diagnostics.ErrF002, decl.FirstToken().Lexeme, "unreachable code"))
			continue
		}
		if kind := decl.Return().Kind; kind != ast.ReturnNever {
			annot = ast.ReturnAnnot{Kind: kind, Type: decl.Return().Type}
		}
	}
	block.SetReturn(annot)
	return nil
}

func (c *Checker) checkIfStmt(s *ast.IfStmt) *diagnostics.Diagnostic {
	blocks := make([]*ast.BlockStmt, 0, len(s.Pairs)+1)
	for _, pair := range s.Pairs {
		if err := c.checkStmt(pair.Block); err != nil {
			return err
		}
		blocks = append(blocks, pair.Block)
	}
	if s.Else != nil {
		if err := c.checkStmt(s.Else); err != nil {
			return err
		}
		blocks = append(blocks, s.Else)
	}

	all := s.Else != nil
	var annot ast.ReturnAnnot
	for _, block := range blocks {
		kind := block.Return().Kind
		if kind != ast.ReturnAlways {
			all = false
		}
		if kind != ast.ReturnNever {
			annot = ast.ReturnAnnot{Kind: ast.ReturnSometimes, Type: block.Return().Type}
		}
	}
	// A chain without an else branch can never cover every path.
	if all {
		annot.Kind = ast.ReturnAlways
	}
	s.SetReturn(annot)
	return nil
}
