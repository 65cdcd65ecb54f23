package resolver

import "github.com/clear-lang/clearc/internal/ast"

// builtin is a built-in function's accepted signatures and return type.
// Built-ins are not first-class values: they can only be called, never
// referenced, and their names are reserved.
type builtin struct {
	signatures [][]ast.TypeAnnot
	returnType ast.TypeAnnot
}

// matches reports whether args equals any accepted signature.
func (b builtin) matches(args []ast.TypeAnnot) bool {
	for _, sig := range b.signatures {
		if ast.SameTypes(sig, args) {
			return true
		}
	}
	return false
}

var builtins = map[string]builtin{
	"int": {
		signatures: [][]ast.TypeAnnot{{ast.NumType}, {ast.IntType}, {ast.BoolType}},
		returnType: ast.IntType,
	},
	"num": {
		signatures: [][]ast.TypeAnnot{{ast.IntType}, {ast.NumType}},
		returnType: ast.NumType,
	},
	"str": {
		signatures: [][]ast.TypeAnnot{{ast.IntType}, {ast.NumType}, {ast.StrType}, {ast.BoolType}},
		returnType: ast.StrType,
	},
	"bool": {
		signatures: [][]ast.TypeAnnot{{ast.IntType}, {ast.NumType}, {ast.StrType}, {ast.BoolType}},
		returnType: ast.BoolType,
	},
	"type": {
		signatures: [][]ast.TypeAnnot{{ast.IntType}, {ast.NumType}, {ast.StrType}, {ast.BoolType}},
		returnType: ast.StrType,
	},
	"clock": {
		signatures: [][]ast.TypeAnnot{{}},
		returnType: ast.NumType,
	},
}
