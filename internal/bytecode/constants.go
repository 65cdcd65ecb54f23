package bytecode

import (
	"fmt"
	"strconv"
)

// ConstantKind tags a constant pool entry.
type ConstantKind int

const (
	ConstInt ConstantKind = iota
	ConstNum
	ConstStr
)

// Constant is a literal stored in the constant pool. It is a comparable
// value so the pool can deduplicate by content; an int and a num of the same
// magnitude are distinct constants.
type Constant struct {
	Kind ConstantKind
	Int  int32
	Num  float64
	Str  string
}

func IntConstant(v int32) Constant   { return Constant{Kind: ConstInt, Int: v} }
func NumConstant(v float64) Constant { return Constant{Kind: ConstNum, Num: v} }
func StrConstant(v string) Constant  { return Constant{Kind: ConstStr, Str: v} }

func (c Constant) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(int64(c.Int), 10) + "i"
	case ConstNum:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	default:
		return strconv.Quote(c.Str)
	}
}

// Pool is a constant pool with content-based deduplication.
type Pool struct {
	constants []Constant
	indices   map[Constant]int
}

func NewPool() Pool {
	return Pool{indices: map[Constant]int{}}
}

// Add returns the index of c, appending it only if the pool does not already
// hold an identical constant.
func (p *Pool) Add(c Constant) int {
	if index, ok := p.indices[c]; ok {
		return index
	}
	index := len(p.constants)
	p.constants = append(p.constants, c)
	p.indices[c] = index
	return index
}

// Constants returns the pool contents in index order.
func (p *Pool) Constants() []Constant {
	return p.constants
}

func (p *Pool) Len() int {
	return len(p.constants)
}

// Globals assigns global slots strictly in first-definition order.
type Globals struct {
	indices map[string]int
	names   []string
}

func NewGlobals() Globals {
	return Globals{indices: map[string]int{}}
}

// Define returns the slot for name, assigning the next free one on first
// definition. Redefinition keeps the original slot, which is how assignment
// stores back to an existing global.
func (g *Globals) Define(name string) int {
	if index, ok := g.indices[name]; ok {
		return index
	}
	index := len(g.names)
	g.names = append(g.names, name)
	g.indices[name] = index
	return index
}

// Lookup returns the slot for name, failing if it was never defined.
func (g *Globals) Lookup(name string) (int, error) {
	index, ok := g.indices[name]
	if !ok {
		return 0, fmt.Errorf("reference to undefined global %q", name)
	}
	return index, nil
}

func (g *Globals) Len() int {
	return len(g.names)
}
