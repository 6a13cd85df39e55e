package decorator_test

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhapile/classkit/class"
	"github.com/mrhapile/classkit/decorator"
)

var bicycle = class.MustNew(class.Definition{
	Name: "Bicycle",
	Initialize: func(self *class.Object, args ...any) error {
		if len(args) != 2 {
			return fmt.Errorf("want model and gears, got %d arguments", len(args))
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
		"setGears": func(self *class.Object, args ...any) (any, error) {
			return nil, self.Set("gears", args[0])
		},
		"describe": func(self *class.Object, args ...any) (any, error) {
			model, _ := self.Get("model")
			return fmt.Sprintf("%v%v", model, args), nil
		},
	},
})

func priceOf(obj *class.Object) int {
	GinkgoHelper()
	v, err := obj.Call("getPrice")
	Expect(err).NotTo(HaveOccurred())
	return v.(int)
}

var _ = Describe("Decorator", func() {
	var (
		headlight *class.Class
		pedals    *class.Class

		bike           *class.Object
		withHeadlights *class.Object
		withPedals     *class.Object
		withBoth       *class.Object
	)

	BeforeEach(func() {
		headlight = decorator.MustNew(bicycle, class.Methods{
			"getPrice": func(self *class.Object, _ ...any) (any, error) {
				v, err := decorator.Component(self).Call("getPrice")
				if err != nil {
					return nil, err
				}
				return 5 + v.(int), nil
			},
		})
		pedals = decorator.MustNew(bicycle, class.Methods{
			"getPrice": func(self *class.Object, _ ...any) (any, error) {
				v, err := decorator.Component(self).Call("getPrice")
				if err != nil {
					return nil, err
				}
				return 24 + v.(int), nil
			},
			"rotatePedals": func(_ *class.Object, _ ...any) (any, error) {
				return "Turning the pedals", nil
			},
		})

		var err error
		bike, err = bicycle.New("Trek", 24)
		Expect(err).NotTo(HaveOccurred())
		withHeadlights, err = headlight.New(bike)
		Expect(err).NotTo(HaveOccurred())
		withPedals, err = pedals.New(bike)
		Expect(err).NotTo(HaveOccurred())
		withBoth, err = headlight.New(withPedals)
		Expect(err).NotTo(HaveOccurred())
	})

	// =========================================================================
	// TEST: Kind checks
	// Why: A decorator must be usable anywhere its base class is expected.
	// =========================================================================
	Describe("kind checks", func() {
		It("should create classes", func() {
			Expect(headlight).NotTo(BeNil())
			Expect(headlight.Name()).To(Equal("BicycleDecorator"))
		})

		It("should generate objects of the decorated type", func() {
			Expect(withHeadlights.IsKindOf(bicycle)).To(BeTrue())
			Expect(withBoth.IsKindOf(bicycle)).To(BeTrue())
			Expect(withBoth.IsKindOf(headlight)).To(BeTrue())
		})

		It("should not make the component kind-of the decorator", func() {
			Expect(bike.IsKindOf(headlight)).To(BeFalse())
		})
	})

	// =========================================================================
	// TEST: Operation surface
	// Why: Every base operation must be reachable, plus any added by overrides.
	// =========================================================================
	Describe("surface", func() {
		It("should generate the same API as the decorated class", func() {
			Expect(withHeadlights.RespondTo("getModel")).To(BeTrue())
			Expect(withHeadlights.RespondTo("getPrice")).To(BeTrue())

			if diff := cmp.Diff(bicycle.Operations(), headlight.Operations()); diff != "" {
				Fail("operations mismatch (-base +decorator):\n" + diff)
			}
		})

		It("should add methods specified in the decorating class", func() {
			Expect(withPedals.RespondTo("rotatePedals")).To(BeTrue())
			v, err := withPedals.Call("rotatePedals")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("Turning the pedals"))
		})

		It("should not leak added methods to the base class", func() {
			Expect(bike.RespondTo("rotatePedals")).To(BeFalse())
			Expect(withHeadlights.RespondTo("rotatePedals")).To(BeFalse())
		})

		It("should fail operations declared nowhere with ErrUndefinedOperation", func() {
			_, err := withHeadlights.Call("ringBell")
			Expect(errors.Is(err, class.ErrUndefinedOperation)).To(BeTrue())
		})

		It("should forward inherited operations", func() {
			mountain := class.MustNew(class.Definition{
				Name:   "MountainBike",
				Parent: bicycle,
				Methods: class.Methods{
					"suspension": func(_ *class.Object, _ ...any) (any, error) { return "full", nil },
				},
			})
			mtb, err := mountain.New("Scott", 12)
			Expect(err).NotTo(HaveOccurred())
			wrapped, err := decorator.MustNew(mountain, nil).New(mtb)
			Expect(err).NotTo(HaveOccurred())

			Expect(priceOf(wrapped)).To(Equal(120))
			v, err := wrapped.Call("suspension")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("full"))
			Expect(wrapped.IsKindOf(bicycle)).To(BeTrue())
			Expect(wrapped.IsKindOf(mountain)).To(BeTrue())
		})

		// =====================================================================
		// TEST: Conformance comes from the decorated class, not the component
		// Why: Kind-of is declared when the decorator class is built, so a
		//      Bicycle decorator around a subclass instance is only a Bicycle.
		// =====================================================================
		It("should conform to the base class it was built from", func() {
			mountain := class.MustNew(class.Definition{Name: "MountainBike", Parent: bicycle})
			mtb, err := mountain.New("Scott", 12)
			Expect(err).NotTo(HaveOccurred())

			wrapped, err := headlight.New(mtb)
			Expect(err).NotTo(HaveOccurred())

			Expect(wrapped.IsKindOf(bicycle)).To(BeTrue())
			Expect(wrapped.IsKindOf(mountain)).To(BeFalse())
			Expect(priceOf(wrapped)).To(Equal(125))
		})
	})

	// =========================================================================
	// TEST: Forwarding
	// Why: Non-overridden calls must reach the component with the same
	//      arguments and come back unchanged, including errors.
	// =========================================================================
	Describe("forwarding", func() {
		It("should pass undefined method calls down to the component", func() {
			for _, obj := range []*class.Object{withHeadlights, withPedals, withBoth} {
				v, err := obj.Call("getModel")
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(Equal("Trek"))
			}
		})

		It("should preserve arguments and results", func() {
			direct, err := bike.Call("describe", 1, "x")
			require.NoError(GinkgoT(), err)
			forwarded, err := withBoth.Call("describe", 1, "x")
			require.NoError(GinkgoT(), err)
			assert.Equal(GinkgoT(), direct, forwarded)
		})

		It("should propagate component errors unchanged", func() {
			boom := errors.New("boom")
			fragile := class.MustNew(class.Definition{
				Name: "Fragile",
				Methods: class.Methods{
					"run": func(_ *class.Object, _ ...any) (any, error) { return nil, boom },
				},
			})
			obj, _ := fragile.New()
			wrapped, err := decorator.MustNew(fragile, nil).New(obj)
			Expect(err).NotTo(HaveOccurred())

			_, err = wrapped.Call("run")
			Expect(err).To(BeIdenticalTo(boom))
		})
	})

	// =========================================================================
	// TEST: Reserved accessor and composition
	// Why: Overrides call down through Component(self); layering must add up
	//      in wrap order.
	// =========================================================================
	Describe("composition", func() {
		It("should allow decorators to call down to the component", func() {
			Expect(priceOf(bike)).To(Equal(240))
			Expect(priceOf(withHeadlights)).To(Equal(245))
			Expect(priceOf(withPedals)).To(Equal(264))
		})

		It("should allow decorators to be composed", func() {
			Expect(priceOf(withBoth)).To(Equal(269))
		})

		It("should resolve the accessor to the wrapped object", func() {
			Expect(decorator.Component(withHeadlights)).To(BeIdenticalTo(bike))
			Expect(decorator.Component(withBoth)).To(BeIdenticalTo(withPedals))
			Expect(decorator.Component(bike)).To(BeNil())
			Expect(decorator.Component(nil)).To(BeNil())
		})

		It("should keep the component read-only", func() {
			err := withHeadlights.Set(decorator.ComponentField, withPedals)
			Expect(errors.Is(err, class.ErrReadOnlyField)).To(BeTrue())
			Expect(decorator.Component(withHeadlights)).To(BeIdenticalTo(bike))
		})

		It("should chain decorators innermost first", func() {
			obj, err := decorator.Chain(bike, pedals, headlight)
			Expect(err).NotTo(HaveOccurred())
			Expect(priceOf(obj)).To(Equal(269))

			same, err := decorator.Chain(bike)
			Expect(err).NotTo(HaveOccurred())
			Expect(same).To(BeIdenticalTo(bike))
		})
	})

	// =========================================================================
	// TEST: Shared components
	// Why: Wrappers must not copy or mutate their component; state changes
	//      made through the component are visible through every wrapper.
	// =========================================================================
	Describe("shared components", func() {
		It("should observe the component's own state changes", func() {
			_, err := withPedals.Call("setGears", 10)
			Expect(err).NotTo(HaveOccurred())

			Expect(priceOf(bike)).To(Equal(100))
			Expect(priceOf(withHeadlights)).To(Equal(105))
			Expect(priceOf(withBoth)).To(Equal(129))
		})

		It("should leave the component untouched on construction", func() {
			_, err := headlight.New(bike)
			Expect(err).NotTo(HaveOccurred())
			_, ok := bike.Get(decorator.ComponentField)
			Expect(ok).To(BeFalse())
			Expect(priceOf(bike)).To(Equal(240))
		})
	})

	// =========================================================================
	// TEST: Construction errors
	// Why: A decorator object can never exist without a compatible component.
	// =========================================================================
	Describe("construction", func() {
		DescribeTable("should fail with ErrConstruction",
			func(args func() []any) {
				obj, err := headlight.New(args()...)
				Expect(obj).To(BeNil())
				Expect(errors.Is(err, class.ErrConstruction)).To(BeTrue())
			},
			Entry("with no component", func() []any { return nil }),
			Entry("with two components", func() []any { return []any{bike, bike} }),
			Entry("with a non-object", func() []any { return []any{"Trek"} }),
			Entry("with a nil object", func() []any { return []any{(*class.Object)(nil)} }),
			Entry("with an incompatible object", func() []any {
				other := class.MustNew(class.Definition{Name: "Unicycle"})
				obj, _ := other.New()
				return []any{obj}
			}),
		)

		It("should reject a nil base class", func() {
			_, err := decorator.New(nil, nil)
			Expect(errors.Is(err, class.ErrConstruction)).To(BeTrue())
		})

		It("should reject a nil override", func() {
			_, err := decorator.New(bicycle, class.Methods{"getPrice": nil})
			Expect(errors.Is(err, class.ErrConstruction)).To(BeTrue())
		})

		// =====================================================================
		// TEST: Subclass that skips the component
		// Why: A subclass with its own initializer may never store a
		//      component; forwarding must fail with an error, not panic.
		// =====================================================================
		It("should fail forwarded calls when no component was stored", func() {
			sub := class.MustNew(class.Definition{
				Name:       "BareHeadlight",
				Parent:     headlight,
				Initialize: func(*class.Object, ...any) error { return nil },
			})
			obj, err := sub.New()
			Expect(err).NotTo(HaveOccurred())

			var out any
			Expect(func() { out, err = obj.Call("getModel") }).NotTo(Panic())
			Expect(out).To(BeNil())
			Expect(errors.Is(err, class.ErrConstruction)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("#<BareHeadlight> has no component"))
		})

		It("should build independent classes from equal inputs", func() {
			a := decorator.MustNew(bicycle, nil)
			b := decorator.MustNew(bicycle, nil)
			Expect(a).NotTo(BeIdenticalTo(b))

			obj, err := a.New(bike)
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.IsKindOf(b)).To(BeFalse())
			Expect(priceOf(obj)).To(Equal(240))
		})
	})

	Describe("Offset", func() {
		It("should add to the component's result", func() {
			plus5, err := decorator.Offset(bicycle, "getPrice", 5)
			Expect(err).NotTo(HaveOccurred())
			plus24, err := decorator.Offset(bicycle, "getPrice", 24)
			Expect(err).NotTo(HaveOccurred())

			obj, err := decorator.Chain(bike, plus24, plus5)
			Expect(err).NotTo(HaveOccurred())
			Expect(priceOf(obj)).To(Equal(269))
		})

		It("should reject non-integer results", func() {
			bad, err := decorator.Offset(bicycle, "getModel", 1)
			Expect(err).NotTo(HaveOccurred())
			obj, err := bad.New(bike)
			Expect(err).NotTo(HaveOccurred())

			_, err = obj.Call("getModel")
			Expect(err).To(MatchError(ContainSubstring("want int")))
		})
	})
})
