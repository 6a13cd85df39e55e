package decorator

import (
	"fmt"

	"github.com/mrhapile/classkit/class"
)

// Chain wraps component with each decorator class in turn. The first class
// ends up innermost, the last one outermost.
func Chain(component *class.Object, decorators ...*class.Class) (*class.Object, error) {
	obj := component
	for _, d := range decorators {
		wrapped, err := d.New(obj)
		if err != nil {
			return nil, err
		}
		obj = wrapped
	}
	return obj, nil
}

// Offset returns a decorator class for base whose op adds amount to the
// component's integer result.
func Offset(base *class.Class, op string, amount int) (*class.Class, error) {
	return New(base, class.Methods{
		op: func(self *class.Object, args ...any) (any, error) {
			v, err := Component(self).Call(op, args...)
			if err != nil {
				return nil, err
			}
			n, ok := v.(int)
			if !ok {
				return nil, fmt.Errorf("%s returned %T, want int", op, v)
			}
			return amount + n, nil
		},
	})
}
