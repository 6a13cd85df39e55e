// Package decorator builds wrapper classes around existing classes.
//
// A decorator class is created once from a base class and a set of override
// methods. Each decorator object owns exactly one component, an object that is
// kind-of the base class, and:
//
//   - is itself kind-of the base class, so it can be passed anywhere the base
//     is expected, including as the component of another decorator;
//   - responds to every operation of the base class;
//   - runs the override for overridden operations;
//   - forwards every other base operation to its component unchanged.
//
// Overrides reach the wrapped object through Component(self):
//
//	headlight, _ := decorator.New(bicycle, class.Methods{
//	    "getPrice": func(self *class.Object, _ ...any) (any, error) {
//	        price, err := decorator.Component(self).Call("getPrice")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return 5 + price.(int), nil
//	    },
//	})
//
// Decorators never lock. If the same component is shared by wrappers used from
// several goroutines, synchronizing access is the caller's job.
package decorator

import (
	"fmt"

	"github.com/mrhapile/classkit/class"
)

// ComponentField is the instance variable holding the wrapped object.
const ComponentField = "component"

// New creates a decorator class for base. Operations named in overrides run
// the supplied implementation; all other operations of base are forwarded to
// the component. Overrides may name operations base does not declare, which
// adds them to the decorator's surface.
//
// The forwarding table is built from base.Operations() once, here.
func New(base *class.Class, overrides class.Methods) (*class.Class, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: decorator needs a base class", class.ErrConstruction)
	}

	ops := base.Operations()
	methods := make(class.Methods, len(ops)+len(overrides))
	for _, op := range ops {
		methods[op] = forward(op)
	}
	for name, m := range overrides {
		if m == nil {
			return nil, fmt.Errorf("%w: override %q for %s is nil", class.ErrConstruction, name, base.Name())
		}
		methods[name] = m
	}

	return class.New(class.Definition{
		Name:       base.Name() + "Decorator",
		Includes:   []*class.Class{base},
		Initialize: initializer(base),
		Methods:    methods,
		ReadOnly:   []string{ComponentField},
	})
}

// MustNew is like New but panics on error.
func MustNew(base *class.Class, overrides class.Methods) *class.Class {
	c, err := New(base, overrides)
	if err != nil {
		panic(err)
	}
	return c
}

// Component returns the object wrapped by the decorator object self, or nil
// when self was not created from a decorator class.
func Component(self *class.Object) *class.Object {
	if self == nil {
		return nil
	}
	v, ok := self.Get(ComponentField)
	if !ok {
		return nil
	}
	c, _ := v.(*class.Object)
	return c
}

func initializer(base *class.Class) class.Initializer {
	return func(self *class.Object, args ...any) error {
		if len(args) != 1 {
			return fmt.Errorf("decorator takes exactly one component, got %d arguments", len(args))
		}
		component, ok := args[0].(*class.Object)
		if !ok || component == nil {
			return fmt.Errorf("component must be a non-nil object, got %T", args[0])
		}
		if !component.IsKindOf(base) {
			return fmt.Errorf("component %s is not a kind of %s", component, base.Name())
		}
		return self.Set(ComponentField, component)
	}
}

func forward(op string) class.Method {
	return func(self *class.Object, args ...any) (any, error) {
		component := Component(self)
		if component == nil {
			return nil, fmt.Errorf("%w: %s has no component", class.ErrConstruction, self)
		}
		return component.Call(op, args...)
	}
}
