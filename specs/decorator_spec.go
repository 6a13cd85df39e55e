// Package specs holds behavior specs run by the classkit auto-runner. Each
// file registers one test case with testunit from an init function.
package specs

import (
	"fmt"

	"github.com/onsi/gomega"

	"github.com/mrhapile/classkit/class"
	"github.com/mrhapile/classkit/decorator"
	"github.com/mrhapile/classkit/testunit"
)

// Bicycle has a model and a number of gears; its price is 10 per gear.
var Bicycle = class.MustNew(class.Definition{
	Name: "Bicycle",
	Initialize: func(self *class.Object, args ...any) error {
		if len(args) != 2 {
			return fmt.Errorf("want model and gears, got %d arguments", len(args))
		}
		if _, ok := args[1].(int); !ok {
			return fmt.Errorf("gears must be an int, got %T", args[1])
		}
		if err := self.Set("model", args[0]); err != nil {
			return err
		}
		return self.Set("gears", args[1])
	},
	Methods: class.Methods{
		"getModel": func(self *class.Object, _ ...any) (any, error) {
			v, _ := self.Get("model")
			return v, nil
		},
		"getPrice": func(self *class.Object, _ ...any) (any, error) {
			v, _ := self.Get("gears")
			return 10 * v.(int), nil
		},
	},
})

// HeadlightDecorator adds 5 to the price.
var HeadlightDecorator = decorator.MustNew(Bicycle, class.Methods{
	"getPrice": surcharge(5),
})

// PedalsDecorator adds 24 to the price and lets the pedals turn.
var PedalsDecorator = decorator.MustNew(Bicycle, class.Methods{
	"getPrice": surcharge(24),
	"rotatePedals": func(_ *class.Object, _ ...any) (any, error) {
		return "Turning the pedals", nil
	},
})

func surcharge(amount int) class.Method {
	return func(self *class.Object, _ ...any) (any, error) {
		price, err := decorator.Component(self).Call("getPrice")
		if err != nil {
			return nil, err
		}
		return amount + price.(int), nil
	}
}

// DecoratorSpec describes decorator classes using the bicycle example.
var DecoratorSpec = testunit.NewDescribe("Decorator", func(s *testunit.Suite) {
	var bicycle, withHeadlights, withPedals, withBoth *class.Object

	must := func(obj *class.Object, err error) *class.Object {
		if err != nil {
			panic(err)
		}
		return obj
	}
	call := func(g gomega.Gomega, obj *class.Object, op string) any {
		v, err := obj.Call(op)
		g.Expect(err).NotTo(gomega.HaveOccurred())
		return v
	}

	s.Before(func() {
		bicycle = must(Bicycle.New("Trek", 24))
		withHeadlights = must(HeadlightDecorator.New(bicycle))
		withPedals = must(PedalsDecorator.New(bicycle))
		withBoth = must(HeadlightDecorator.New(withPedals))
	})

	s.It("creates classes", func(g gomega.Gomega) {
		g.Expect(HeadlightDecorator).To(gomega.BeAssignableToTypeOf(&class.Class{}))
	})

	s.It("generates objects of the decorated type", func(g gomega.Gomega) {
		g.Expect(withHeadlights.IsKindOf(Bicycle)).To(gomega.BeTrue())
		g.Expect(withBoth.IsKindOf(Bicycle)).To(gomega.BeTrue())
	})

	s.It("generates the same API of the decorated class", func(g gomega.Gomega) {
		g.Expect(withHeadlights.RespondTo("getModel")).To(gomega.BeTrue())
		g.Expect(withHeadlights.RespondTo("getPrice")).To(gomega.BeTrue())
	})

	s.It("adds methods specified in the decorating class", func(g gomega.Gomega) {
		g.Expect(withPedals.RespondTo("rotatePedals")).To(gomega.BeTrue())
		g.Expect(call(g, withPedals, "rotatePedals")).To(gomega.Equal("Turning the pedals"))
	})

	s.It("passes undefined method calls down to the component", func(g gomega.Gomega) {
		g.Expect(call(g, withHeadlights, "getModel")).To(gomega.Equal("Trek"))
		g.Expect(call(g, withPedals, "getModel")).To(gomega.Equal("Trek"))
	})

	s.It("allows decorators to call down to the decoree using the component", func(g gomega.Gomega) {
		g.Expect(call(g, bicycle, "getPrice")).To(gomega.Equal(240))
		g.Expect(call(g, withHeadlights, "getPrice")).To(gomega.Equal(245))
		g.Expect(call(g, withPedals, "getPrice")).To(gomega.Equal(264))
	})

	s.It("allows decorators to be composed", func(g gomega.Gomega) {
		g.Expect(call(g, withBoth, "getPrice")).To(gomega.Equal(269))
	})

	s.It("fails operations declared nowhere", func(g gomega.Gomega) {
		_, err := withHeadlights.Call("ringBell")
		g.Expect(err).To(gomega.MatchError(class.ErrUndefinedOperation))
	})
})

func init() {
	testunit.Register(DecoratorSpec)
}
