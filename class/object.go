package class

import (
	"fmt"
)

// Object is an instance of a Class.
type Object struct {
	class       *Class
	ivars       map[string]any
	initialized bool
}

// Class returns the class the object was created from.
func (o *Object) Class() *Class { return o.class }

// IsKindOf reports whether o is an instance of c, of a subclass of c, or of a
// class that conforms to c.
func (o *Object) IsKindOf(c *Class) bool {
	return o.class.IsA(c)
}

// RespondTo reports whether o has an operation with the given name.
func (o *Object) RespondTo(name string) bool {
	return o.class.Declares(name)
}

// Call invokes the named operation with args. Calling an operation the
// object does not respond to fails with ErrUndefinedOperation.
func (o *Object) Call(name string, args ...any) (any, error) {
	m := o.class.lookup(name)
	if m == nil {
		return nil, fmt.Errorf("%w: %s#%s", ErrUndefinedOperation, o.class.name, name)
	}
	return m(o, args...)
}

// Get returns the instance variable stored under name.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.ivars[name]
	return v, ok
}

// Set assigns an instance variable. Read-only variables can only be set
// while the object is being initialized.
func (o *Object) Set(name string, value any) error {
	if o.initialized && o.class.isReadOnly(name) {
		return fmt.Errorf("%w: %s.%s", ErrReadOnlyField, o.class.name, name)
	}
	o.ivars[name] = value
	return nil
}

// String implements fmt.Stringer.
func (o *Object) String() string {
	return fmt.Sprintf("#<%s>", o.class.name)
}
