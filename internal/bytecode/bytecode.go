// Package bytecode defines the instruction set and program representation
// consumed by the assembler. Opcode byte values are the wire contract with
// the virtual machine and must not be reordered.
package bytecode

// Opcode is a single VM instruction.
type Opcode byte

const (
	// Constant storage.
	StoreConst Opcode = iota
	Integer
	Number
	String
	// Constant generation.
	LoadConst
	True
	False
	// Variables.
	DefineGlobal
	LoadGlobal
	DefineLocal
	LoadLocal
	// Built-ins.
	Int
	Bool
	Num
	Str
	Clock
	// Statements.
	Print
	PrintBlank
	Return
	ReturnVoid
	Pop
	// Arithmetic operators.
	Negate
	Add
	Subtract
	Multiply
	Divide
	// Comparison operators.
	Less
	NLess
	Greater
	NGreater
	Equal
	NEqual
	// Boolean operators.
	Not
	// Scoping.
	PushScope
	PopScope
	// Control flow.
	Jump
	JumpIfNot
	Loop
	// Functions.
	LoadParam
	StartFunction
	Call
	// Closures.
	Closure
	LoadUpvalue
	SetUpvalue
	// Structs.
	Struct
	GetField
	SetField
	// Built-ins, continued.
	Type
)

var opcodeNames = map[Opcode]string{
	StoreConst:    "STORE_CONST",
	Integer:       "INTEGER",
	Number:        "NUMBER",
	String:        "STRING",
	LoadConst:     "LOAD_CONST",
	True:          "TRUE",
	False:         "FALSE",
	DefineGlobal:  "DEFINE_GLOBAL",
	LoadGlobal:    "LOAD_GLOBAL",
	DefineLocal:   "DEFINE_LOCAL",
	LoadLocal:     "LOAD_LOCAL",
	Int:           "INT",
	Bool:          "BOOL",
	Num:           "NUM",
	Str:           "STR",
	Clock:         "CLOCK",
	Print:         "PRINT",
	PrintBlank:    "PRINT_BLANK",
	Return:        "RETURN",
	ReturnVoid:    "RETURN_VOID",
	Pop:           "POP",
	Negate:        "NEGATE",
	Add:           "ADD",
	Subtract:      "SUBTRACT",
	Multiply:      "MULTIPLY",
	Divide:        "DIVIDE",
	Less:          "LESS",
	NLess:         "NLESS",
	Greater:       "GREATER",
	NGreater:      "NGREATER",
	Equal:         "EQUAL",
	NEqual:        "NEQUAL",
	Not:           "NOT",
	PushScope:     "PUSH_SCOPE",
	PopScope:      "POP_SCOPE",
	Jump:          "JUMP",
	JumpIfNot:     "JUMP_IF_NOT",
	Loop:          "LOOP",
	LoadParam:     "LOAD_PARAM",
	StartFunction: "START_FUNCTION",
	Call:          "CALL",
	Closure:       "CLOSURE",
	LoadUpvalue:   "LOAD_UPVALUE",
	SetUpvalue:    "SET_UPVALUE",
	Struct:        "STRUCT",
	GetField:      "GET_FIELD",
	SetField:      "SET_FIELD",
	Type:          "TYPE",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return "OP_" + name
	}
	return "OP_UNKNOWN"
}

// Program is one compiled unit: an instruction stream plus the constant pool
// and global table built alongside it.
type Program struct {
	Code    []byte
	Pool    Pool
	Globals Globals
}

func NewProgram() *Program {
	return &Program{Pool: NewPool(), Globals: NewGlobals()}
}

// EmitOp appends an instruction with no operands.
func (p *Program) EmitOp(op Opcode) {
	p.Code = append(p.Code, byte(op))
}

// EmitArg appends an instruction with single-byte operands.
func (p *Program) EmitArg(op Opcode, args ...byte) {
	p.Code = append(p.Code, byte(op))
	p.Code = append(p.Code, args...)
}

// Position returns the offset the next instruction will be written at.
func (p *Program) Position() int {
	return len(p.Code)
}

// Patch overwrites a previously emitted byte.
func (p *Program) Patch(at int, b byte) {
	p.Code[at] = b
}
