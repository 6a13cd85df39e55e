package testunit

import (
	"io"
	"strings"
	"sync"
)

// TestCase is a registered source of tests.
type TestCase interface {
	DisplayName() string
	Suite() *Suite
}

// Registry holds test cases in registration order.
type Registry struct {
	mu    sync.Mutex
	cases []TestCase
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds tc to the registry.
func (r *Registry) Register(tc TestCase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases = append(r.cases, tc)
}

// ForEach calls fn for every registered case in registration order.
func (r *Registry) ForEach(fn func(TestCase)) {
	r.mu.Lock()
	cases := append([]TestCase(nil), r.cases...)
	r.mu.Unlock()

	for _, tc := range cases {
		fn(tc)
	}
}

// Aggregate collects every registered case into one suite named after the
// cases' display names.
func (r *Registry) Aggregate() *Suite {
	var (
		names  []string
		suites []*Suite
	)
	r.ForEach(func(tc TestCase) {
		names = append(names, tc.DisplayName())
		suites = append(suites, tc.Suite())
	})

	suite := NewSuite(strings.Join(names, ", "))
	for _, s := range suites {
		suite.Push(s)
	}
	return suite
}

// AutoRun aggregates every registered case and runs it on the console.
func (r *Registry) AutoRun(out io.Writer, level OutputLevel) Result {
	return NewConsoleRunner(out, level).Run(r.Aggregate())
}

var global = NewRegistry()

// Register adds tc to the global registry, typically from an init function.
func Register(tc TestCase) { global.Register(tc) }

// AutoRun runs every case in the global registry.
func AutoRun(out io.Writer, level OutputLevel) Result {
	return global.AutoRun(out, level)
}

// Describe is a TestCase built from a suite.
type Describe struct {
	suite *Suite
}

// NewDescribe creates a test case whose suite is named name and filled in by
// body.
func NewDescribe(name string, body func(s *Suite)) *Describe {
	s := NewSuite(name)
	body(s)
	return &Describe{suite: s}
}

// DisplayName implements TestCase.
func (d *Describe) DisplayName() string { return d.suite.Name }

// Suite implements TestCase.
func (d *Describe) Suite() *Suite { return d.suite }
