package specs_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mrhapile/classkit/specs"
	"github.com/mrhapile/classkit/testunit"
)

var _ = Describe("DecoratorSpec", func() {
	// =========================================================================
	// TEST: The registered spec passes under the auto-runner
	// Why: This is what `classkit test` runs; a regression here is a
	//      regression in decorator forwarding.
	// =========================================================================
	It("should pass every test", func() {
		registry := testunit.NewRegistry()
		registry.Register(specs.DecoratorSpec)

		out := &bytes.Buffer{}
		res := registry.AutoRun(out, testunit.Verbose)

		Expect(res.Faults).To(BeEmpty(), out.String())
		Expect(res.Run).To(Equal(8))
		Expect(res.Assertions).To(Equal(21)) // call() checks its error too
		Expect(out.String()).To(ContainSubstring("allows decorators to be composed(Decorator): ."))
	})

	It("should be registered globally", func() {
		out := &bytes.Buffer{}
		res := testunit.AutoRun(out, testunit.Silent)

		Expect(res.Passed()).To(BeTrue())
		Expect(res.Run).To(BeNumerically(">=", 8))
		Expect(out.Len()).To(BeZero())
	})
})
