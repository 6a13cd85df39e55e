package testunit

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/onsi/gomega"
)

// OutputLevel controls how much the console runner prints.
type OutputLevel int

const (
	Silent OutputLevel = iota
	ProgressOnly
	Normal
	Verbose
)

// String makes OutputLevel satisfy the fmt.Stringer interface.
func (l OutputLevel) String() string {
	switch l {
	case Silent:
		return "silent"
	case ProgressOnly:
		return "progress"
	case Normal:
		return "normal"
	case Verbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseOutputLevel maps a level name to an OutputLevel. The empty string
// means Normal.
func ParseOutputLevel(name string) (OutputLevel, error) {
	switch strings.ToLower(name) {
	case "silent":
		return Silent, nil
	case "progress":
		return ProgressOnly, nil
	case "normal", "":
		return Normal, nil
	case "verbose":
		return Verbose, nil
	default:
		return Normal, fmt.Errorf("unknown output level %q (want silent, progress, normal or verbose)", name)
	}
}

// FaultKind tells failed expectations apart from unexpected panics.
type FaultKind string

const (
	Failure FaultKind = "Failure"
	Error   FaultKind = "Error"
)

// Fault describes one test that did not pass.
type Fault struct {
	Kind    FaultKind
	Test    string
	Message string
}

// Result summarizes a run.
type Result struct {
	Run        int
	Assertions int
	Failures   int
	Errors     int
	Faults     []Fault
	Elapsed    time.Duration
}

// Passed reports whether every test passed.
func (r Result) Passed() bool {
	return r.Failures == 0 && r.Errors == 0
}

// ConsoleRunner runs suites and reports to a writer.
type ConsoleRunner struct {
	out   io.Writer
	level OutputLevel

	pass lipgloss.Style
	fail lipgloss.Style
}

// NewConsoleRunner creates a runner writing to out. Colors are only used
// when out is a terminal.
func NewConsoleRunner(out io.Writer, level OutputLevel) *ConsoleRunner {
	r := lipgloss.NewRenderer(out)
	return &ConsoleRunner{
		out:   out,
		level: level,
		pass:  r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Run executes every test in suite, depth first in declaration order.
func (c *ConsoleRunner) Run(suite *Suite) Result {
	c.printf(Normal, "Loaded suite %s\nStarted\n", suite.Name)

	start := time.Now()
	var res Result
	c.runSuite(suite, nil, &res)
	res.Elapsed = time.Since(start)

	c.printf(ProgressOnly, "\n")
	for i, f := range res.Faults {
		c.printf(Normal, "\n%3d) %s:\n%s\n%s\n", i+1, c.fail.Render(string(f.Kind)), f.Test, f.Message)
	}

	summary := fmt.Sprintf("%d tests, %d assertions, %d failures, %d errors",
		res.Run, res.Assertions, res.Failures, res.Errors)
	if res.Passed() {
		summary = c.pass.Render(summary)
	} else {
		summary = c.fail.Render(summary)
	}
	c.printf(Normal, "\nFinished in %.3f seconds.\n%s\n", res.Elapsed.Seconds(), summary)
	return res
}

func (c *ConsoleRunner) runSuite(s *Suite, before []func(), res *Result) {
	hooks := append(append([]func(){}, before...), s.before...)
	for _, t := range s.tests {
		name := fmt.Sprintf("%s(%s)", t.Name, s.Name)
		fault := runTest(t, hooks, &res.Assertions)
		res.Run++

		mark := "."
		if fault != nil {
			fault.Test = name
			res.Faults = append(res.Faults, *fault)
			if fault.Kind == Failure {
				res.Failures++
				mark = "F"
			} else {
				res.Errors++
				mark = "E"
			}
		}

		if c.level >= Verbose {
			c.printf(Verbose, "%s: %s\n", name, mark)
		} else {
			c.printf(ProgressOnly, "%s", mark)
		}
	}
	for _, child := range s.suites {
		c.runSuite(child, hooks, res)
	}
}

// failed carries a gomega failure message out of the test body.
type failed struct {
	message string
}

func runTest(t Test, hooks []func(), assertions *int) (fault *Fault) {
	defer func() {
		r := recover()
		switch r := r.(type) {
		case nil:
		case failed:
			fault = &Fault{Kind: Failure, Message: r.message}
		default:
			fault = &Fault{Kind: Error, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	g := countingGomega{
		Gomega: gomega.NewGomega(func(message string, _ ...int) {
			panic(failed{message: message})
		}),
		count: assertions,
	}
	for _, h := range hooks {
		h()
	}
	t.Fn(g)
	return nil
}

func (c *ConsoleRunner) printf(at OutputLevel, format string, args ...any) {
	if c.level < at {
		return
	}
	fmt.Fprintf(c.out, format, args...)
}
