package resolver

import "github.com/clear-lang/clearc/internal/ast"

// binding is what a name resolves to.
type binding struct {
	typ        ast.TypeAnnot
	assignable bool
}

// scopeStack is a vector of maps. The last map is the innermost scope.
type scopeStack []map[string]binding

func newScopeStack() scopeStack {
	return scopeStack{map[string]binding{}}
}

func (s *scopeStack) push() {
	*s = append(*s, map[string]binding{})
}

func (s *scopeStack) pop() {
	*s = (*s)[:len(*s)-1]
}

// declaredHere reports whether name is already bound at the innermost level.
func (s scopeStack) declaredHere(name string) bool {
	_, ok := s[len(s)-1][name]
	return ok
}

func (s scopeStack) declare(name string, b binding) {
	s[len(s)-1][name] = b
}

// lookup walks from the innermost level outward and stops at the first level
// that binds name.
func (s scopeStack) lookup(name string) (binding, bool) {
	for level := len(s) - 1; level >= 0; level-- {
		if b, ok := s[level][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}
