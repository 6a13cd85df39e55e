// Package testunit aggregates registered test cases into a single suite and
// runs it through a console runner.
//
// Assertions inside tests use a gomega.Gomega bound to the running test: a
// failed expectation ends the test and is reported as a failure, any other
// panic is reported as an error.
package testunit

import (
	"github.com/onsi/gomega"
)

// Func is the body of a single test.
type Func func(g gomega.Gomega)

// Test is a named test body.
type Test struct {
	Name string
	Fn   Func
}

// Suite is a named group of tests and nested suites. Before hooks run ahead
// of every test in the suite, including tests of nested suites, outermost
// first.
type Suite struct {
	Name   string
	before []func()
	tests  []Test
	suites []*Suite
}

// NewSuite creates an empty suite.
func NewSuite(name string) *Suite {
	return &Suite{Name: name}
}

// Before registers a hook that runs before each test.
func (s *Suite) Before(fn func()) *Suite {
	s.before = append(s.before, fn)
	return s
}

// It adds a test.
func (s *Suite) It(name string, fn Func) *Suite {
	s.tests = append(s.tests, Test{Name: name, Fn: fn})
	return s
}

// Push nests child under s.
func (s *Suite) Push(child *Suite) *Suite {
	s.suites = append(s.suites, child)
	return s
}

// Size returns the number of tests in s and all nested suites.
func (s *Suite) Size() int {
	n := len(s.tests)
	for _, c := range s.suites {
		n += c.Size()
	}
	return n
}
