package ast

import (
	"fmt"
	"strings"
)

// TypeKind discriminates the variants of a TypeAnnot.
type TypeKind int

const (
	TypeUnresolved TypeKind = iota
	TypeInt
	TypeNum
	TypeStr
	TypeBool
	TypeVoid
	TypeStruct
	TypeFunction
)

// TypeAnnot is the resolved type of an expression or type node. The zero
// value is the unresolved type, which no valid program ever carries past the
// resolver.
type TypeAnnot struct {
	Kind     TypeKind
	Optional bool

	// Struct name, set when Kind is TypeStruct.
	Struct string

	// Signature, set when Kind is TypeFunction.
	Params []TypeAnnot
	Return *TypeAnnot
}

var (
	IntType  = TypeAnnot{Kind: TypeInt}
	NumType  = TypeAnnot{Kind: TypeNum}
	StrType  = TypeAnnot{Kind: TypeStr}
	BoolType = TypeAnnot{Kind: TypeBool}
	VoidType = TypeAnnot{Kind: TypeVoid}
)

// StructType returns the type of instances of the named struct.
func StructType(name string) TypeAnnot {
	return TypeAnnot{Kind: TypeStruct, Struct: name}
}

// FunctionType returns the type of a function with the given signature.
func FunctionType(params []TypeAnnot, ret TypeAnnot) TypeAnnot {
	return TypeAnnot{Kind: TypeFunction, Params: params, Return: &ret}
}

// Equals reports whether two types are identical. Optionality is part of the
// type: (int)? and int are distinct.
func (t TypeAnnot) Equals(other TypeAnnot) bool {
	if t.Kind != other.Kind || t.Optional != other.Optional {
		return false
	}
	switch t.Kind {
	case TypeStruct:
		return t.Struct == other.Struct
	case TypeFunction:
		if !SameTypes(t.Params, other.Params) {
			return false
		}
		return t.Return.Equals(*other.Return)
	default:
		return true
	}
}

// SameTypes reports whether two type lists are elementwise identical.
func SameTypes(a, b []TypeAnnot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func (t TypeAnnot) String() string {
	var base string
	switch t.Kind {
	case TypeInt:
		base = "int"
	case TypeNum:
		base = "num"
	case TypeStr:
		base = "str"
	case TypeBool:
		base = "bool"
	case TypeVoid:
		base = "void"
	case TypeStruct:
		base = t.Struct
	case TypeFunction:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		base = fmt.Sprintf("func(%s) %s", strings.Join(params, ", "), t.Return)
	default:
		base = "<unresolved>"
	}
	if t.Optional {
		return "(" + base + ")?"
	}
	return base
}

// ReturnKind is a point on the return-completeness lattice, ordered
// NEVER < SOMETIMES < ALWAYS.
type ReturnKind int

const (
	ReturnNever ReturnKind = iota
	ReturnSometimes
	ReturnAlways
)

func (k ReturnKind) String() string {
	switch k {
	case ReturnSometimes:
		return "sometimes"
	case ReturnAlways:
		return "always"
	default:
		return "never"
	}
}

// ReturnAnnot records whether control flow through a statement returns, and
// with what type when it does.
type ReturnAnnot struct {
	Kind ReturnKind
	Type TypeAnnot
}

// IndexKind says which storage class a name resolves to.
type IndexKind int

const (
	IndexUnresolved IndexKind = iota
	IndexGlobal
	IndexLocal
	IndexParam
	IndexUpvalue
)

// IndexAnnot is a name's storage class and slot, assigned by the code
// generator.
type IndexAnnot struct {
	Kind  IndexKind
	Value int
}

// typeAnnot holds an expression's resolved type. It is embedded by every
// expression node.
type typeAnnot struct {
	typ TypeAnnot
}

func (a *typeAnnot) Type() TypeAnnot     { return a.typ }
func (a *typeAnnot) SetType(t TypeAnnot) { a.typ = t }

// returnAnnot holds a declaration's return behavior. It is embedded by every
// declaration node.
type returnAnnot struct {
	ret ReturnAnnot
}

func (a *returnAnnot) Return() ReturnAnnot     { return a.ret }
func (a *returnAnnot) SetReturn(r ReturnAnnot) { a.ret = r }

// indexAnnot holds a name's storage index. It is embedded by the nodes that
// bind or reference names.
type indexAnnot struct {
	idx IndexAnnot
}

func (a *indexAnnot) Index() IndexAnnot     { return a.idx }
func (a *indexAnnot) SetIndex(i IndexAnnot) { a.idx = i }
