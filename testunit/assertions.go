package testunit

import (
	"github.com/onsi/gomega/types"
)

// countingGomega counts every Should/To/NotTo evaluated through it.
type countingGomega struct {
	types.Gomega
	count *int
}

func (g countingGomega) Ω(actual any, extra ...any) types.Assertion {
	return countingAssertion{g.Gomega.Ω(actual, extra...), g.count}
}

func (g countingGomega) Expect(actual any, extra ...any) types.Assertion {
	return countingAssertion{g.Gomega.Expect(actual, extra...), g.count}
}

func (g countingGomega) ExpectWithOffset(offset int, actual any, extra ...any) types.Assertion {
	return countingAssertion{g.Gomega.ExpectWithOffset(offset+1, actual, extra...), g.count}
}

type countingAssertion struct {
	types.Assertion
	count *int
}

func (a countingAssertion) Should(matcher types.GomegaMatcher, optionalDescription ...any) bool {
	*a.count++
	return a.Assertion.Should(matcher, optionalDescription...)
}

func (a countingAssertion) ShouldNot(matcher types.GomegaMatcher, optionalDescription ...any) bool {
	*a.count++
	return a.Assertion.ShouldNot(matcher, optionalDescription...)
}

func (a countingAssertion) To(matcher types.GomegaMatcher, optionalDescription ...any) bool {
	*a.count++
	return a.Assertion.To(matcher, optionalDescription...)
}

func (a countingAssertion) ToNot(matcher types.GomegaMatcher, optionalDescription ...any) bool {
	*a.count++
	return a.Assertion.ToNot(matcher, optionalDescription...)
}

func (a countingAssertion) NotTo(matcher types.GomegaMatcher, optionalDescription ...any) bool {
	*a.count++
	return a.Assertion.NotTo(matcher, optionalDescription...)
}

func (a countingAssertion) WithOffset(offset int) types.Assertion {
	return countingAssertion{a.Assertion.WithOffset(offset), a.count}
}

func (a countingAssertion) Error() types.Assertion {
	return countingAssertion{a.Assertion.Error(), a.count}
}
