package builder

import (
	"fmt"
	"sort"

	"github.com/kbukum/restspec/operation"
)

// Registry is the static registration table of compiled functions. It is
// read-only after Compile.
type Registry struct {
	functions  map[string]*Function
	operations []*operation.Compiled
}

// Function returns the named function.
func (r *Registry) Function(name string) (*Function, bool) {
	f, ok := r.functions[name]
	return f, ok
}

// MustFunction returns the named function or panics.
func (r *Registry) MustFunction(name string) *Function {
	f, ok := r.functions[name]
	if !ok {
		panic(fmt.Sprintf("builder: function %q not registered", name))
	}
	return f
}

// Names returns sorted names of all registered functions.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operations returns the compiled operations in document order.
func (r *Registry) Operations() []*operation.Compiled {
	return append([]*operation.Compiled(nil), r.operations...)
}
