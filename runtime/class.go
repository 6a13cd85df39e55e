package runtime

import (
	"fmt"

	"github.com/mrhapile/classkit/class"
)

// Module is the part of a Plugin a class needs: a list of exports and a way
// to call them.
type Module interface {
	Exports() []string
	Call(name string, args ...int) (int, error)
}

// NewClass builds a class whose operations are the exports of m. Objects of
// the class take no constructor arguments and all share m, so state kept
// inside the module is shared too.
//
// Operation arguments must be integers (int, int32 or int64); results are
// returned as int.
func NewClass(name string, m Module) (*class.Class, error) {
	methods := make(class.Methods)
	for _, export := range m.Exports() {
		methods[export] = exportMethod(m, export)
	}
	return class.New(class.Definition{
		Name:    name,
		Methods: methods,
	})
}

func exportMethod(m Module, export string) class.Method {
	return func(_ *class.Object, args ...any) (any, error) {
		ints := make([]int, len(args))
		for i, a := range args {
			switch v := a.(type) {
			case int:
				ints[i] = v
			case int32:
				ints[i] = int(v)
			case int64:
				ints[i] = int(v)
			default:
				return nil, fmt.Errorf("%s: argument %d is %T, want an integer", export, i, a)
			}
		}
		out, err := m.Call(export, ints...)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
