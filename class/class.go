// Package class provides a small object model built around named operations.
//
// A Class is a set of named methods plus an initializer. Objects are created
// from a Class and respond to every operation the Class (or one of its
// parents) declares. Classes may declare conformance to other classes through
// Includes, which makes their instances kind-of those classes without
// inheriting any behavior.
//
// Classes are immutable once created and may be shared freely. Objects are
// not safe for concurrent mutation - callers must synchronize access.
package class

import (
	"fmt"
	"sort"
)

// Method is the implementation of a named operation. self is the receiving
// object.
type Method func(self *Object, args ...any) (any, error)

// Methods maps operation names to implementations.
type Methods map[string]Method

// Initializer prepares a freshly allocated object from constructor arguments.
type Initializer func(self *Object, args ...any) error

// Definition describes a class to be created by New.
type Definition struct {
	// Name is used in error messages and String().
	Name string

	// Parent is the superclass. Operations not found on this class are looked
	// up on Parent, and instances are kind-of Parent.
	Parent *Class

	// Includes lists classes this class conforms to. Instances are kind-of
	// every included class (and its ancestors), but no methods are taken from
	// them.
	Includes []*Class

	// Initialize runs on construction. When nil the parent's initializer is
	// used; a class without any initializer accepts no arguments.
	Initialize Initializer

	// Methods are the operations declared by this class.
	Methods Methods

	// ReadOnly names instance variables that may only be assigned while the
	// initializer runs.
	ReadOnly []string
}

// Class is an immutable type descriptor.
type Class struct {
	name       string
	parent     *Class
	includes   []*Class
	initialize Initializer
	methods    Methods
	readOnly   map[string]struct{}
}

// New creates a class from def.
func New(def Definition) (*Class, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: class name is required", ErrInvalidDefinition)
	}

	methods := make(Methods, len(def.Methods))
	for name, m := range def.Methods {
		if name == "" {
			return nil, fmt.Errorf("%w: %s declares an unnamed method", ErrInvalidDefinition, def.Name)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %s.%s has no implementation", ErrInvalidDefinition, def.Name, name)
		}
		methods[name] = m
	}

	includes := make([]*Class, 0, len(def.Includes))
	for _, inc := range def.Includes {
		if inc == nil {
			return nil, fmt.Errorf("%w: %s includes a nil class", ErrInvalidDefinition, def.Name)
		}
		includes = append(includes, inc)
	}

	c := &Class{
		name:       def.Name,
		parent:     def.Parent,
		includes:   includes,
		initialize: def.Initialize,
		methods:    methods,
		readOnly:   make(map[string]struct{}, len(def.ReadOnly)),
	}
	for _, field := range def.ReadOnly {
		c.readOnly[field] = struct{}{}
	}
	if c.initialize == nil && c.parent != nil {
		c.initialize = c.parent.initializer()
	}
	return c, nil
}

// MustNew is like New but panics on an invalid definition. Intended for
// package-level class declarations.
func MustNew(def Definition) *Class {
	c, err := New(def)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// String implements fmt.Stringer.
func (c *Class) String() string { return c.name }

// Parent returns the superclass, or nil.
func (c *Class) Parent() *Class { return c.parent }

// Declares reports whether instances of c respond to the named operation,
// either through c itself or one of its parents.
func (c *Class) Declares(name string) bool {
	return c.lookup(name) != nil
}

// Operations returns every operation name instances of c respond to, sorted.
func (c *Class) Operations() []string {
	seen := make(map[string]struct{})
	for k := c; k != nil; k = k.parent {
		for name := range k.methods {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ancestors returns c followed by every class its instances are kind-of,
// depth first: the parent chain and all included classes, without duplicates.
func (c *Class) Ancestors() []*Class {
	var out []*Class
	seen := make(map[*Class]bool)
	var walk func(k *Class)
	walk = func(k *Class) {
		if k == nil || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, k)
		for _, inc := range k.includes {
			walk(inc)
		}
		walk(k.parent)
	}
	walk(c)
	return out
}

// IsA reports whether c is other or conforms to it.
func (c *Class) IsA(other *Class) bool {
	if other == nil {
		return false
	}
	for _, k := range c.Ancestors() {
		if k == other {
			return true
		}
	}
	return false
}

// New allocates an object of class c and runs its initializer with args.
func (c *Class) New(args ...any) (*Object, error) {
	obj := &Object{
		class: c,
		ivars: make(map[string]any),
	}

	initialize := c.initializer()
	if initialize == nil {
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: %s takes no arguments, got %d", ErrConstruction, c.name, len(args))
		}
		obj.initialized = true
		return obj, nil
	}

	if err := initialize(obj, args...); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConstruction, c.name, err)
	}
	obj.initialized = true
	return obj, nil
}

func (c *Class) initializer() Initializer {
	return c.initialize
}

func (c *Class) lookup(name string) Method {
	for k := c; k != nil; k = k.parent {
		if m, ok := k.methods[name]; ok {
			return m
		}
	}
	return nil
}

func (c *Class) isReadOnly(field string) bool {
	for k := c; k != nil; k = k.parent {
		if _, ok := k.readOnly[field]; ok {
			return true
		}
	}
	return false
}
