// Package invoke runs a single call against a stored plugin, optionally
// wrapped in offset decorators. It is shared by the classkit CLI and the
// HTTP server.
package invoke

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/mrhapile/classkit/class"
	"github.com/mrhapile/classkit/decorator"
	"github.com/mrhapile/classkit/fluid"
	"github.com/mrhapile/classkit/runtime"
)

// DefaultFunction is called when a request names no function.
const DefaultFunction = "process"

// Offset adds Amount to the result of Op. Offsets apply in order, the first
// one innermost.
type Offset struct {
	Op     string `json:"op"`
	Amount int    `json:"amount"`
}

// ParseOffset parses "op=amount", e.g. "process=5".
func ParseOffset(s string) (Offset, error) {
	op, amount, ok := strings.Cut(s, "=")
	if !ok || op == "" {
		return Offset{}, fmt.Errorf("invalid offset %q, want op=amount", s)
	}
	n, err := strconv.Atoi(amount)
	if err != nil {
		return Offset{}, fmt.Errorf("invalid offset amount in %q: %w", s, err)
	}
	return Offset{Op: op, Amount: n}, nil
}

// Request describes one call.
type Request struct {
	Plugin   string
	Function string
	Args     []int
	Offsets  []Offset
}

// Plugin is a loaded plugin with its lifecycle.
type Plugin interface {
	runtime.Module
	Init() error
	Cleanup() error
	Close()
}

// Invoker resolves, loads and calls plugins.
type Invoker struct {
	store  fluid.Store
	load   func(path string) (Plugin, error)
	logger *slog.Logger
}

// New returns an Invoker loading WebAssembly plugins from store.
func New(store fluid.Store, logger *slog.Logger) *Invoker {
	return NewWithLoader(store, logger, func(path string) (Plugin, error) {
		return runtime.LoadPlugin(path)
	})
}

// NewWithLoader is New with a custom plugin loader.
func NewWithLoader(store fluid.Store, logger *slog.Logger, load func(path string) (Plugin, error)) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{store: store, load: load, logger: logger}
}

// Run executes req and returns the integer result.
//
// Lifecycle per call: resolve, load, init (when exported), call through the
// decorator chain, cleanup (when exported), close. Cleanup and close run even
// if the call fails.
func (iv *Invoker) Run(req Request) (int, error) {
	fn := req.Function
	if fn == "" {
		fn = DefaultFunction
	}
	log := iv.logger.With("plugin", req.Plugin, "function", fn)

	path, err := iv.store.Resolve(req.Plugin)
	if err != nil {
		return 0, err
	}

	plugin, err := iv.load(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load plugin: %w", err)
	}
	defer plugin.Close()

	exports := plugin.Exports()
	if slices.Contains(exports, "init") {
		if err := plugin.Init(); err != nil {
			return 0, fmt.Errorf("failed to initialize plugin: %w", err)
		}
	}
	if slices.Contains(exports, "cleanup") {
		defer func() {
			if err := plugin.Cleanup(); err != nil {
				log.Warn("plugin cleanup failed", "error", err)
			}
		}()
	}

	cls, err := runtime.NewClass(req.Plugin, plugin)
	if err != nil {
		return 0, err
	}
	obj, err := cls.New()
	if err != nil {
		return 0, err
	}
	wrapped, err := Decorate(cls, obj, req.Offsets)
	if err != nil {
		return 0, err
	}

	args := make([]any, len(req.Args))
	for i, a := range req.Args {
		args[i] = a
	}
	out, err := wrapped.Call(fn, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to call %s: %w", fn, err)
	}

	log.Debug("plugin call finished", "args", req.Args, "offsets", len(req.Offsets), "output", out)
	n, ok := out.(int)
	if !ok {
		return 0, fmt.Errorf("%s returned %T, want int", fn, out)
	}
	return n, nil
}

// Decorate wraps obj, an instance of base, with one offset decorator per
// entry in offsets.
func Decorate(base *class.Class, obj *class.Object, offsets []Offset) (*class.Object, error) {
	layers := make([]*class.Class, 0, len(offsets))
	for _, o := range offsets {
		d, err := decorator.Offset(base, o.Op, o.Amount)
		if err != nil {
			return nil, err
		}
		layers = append(layers, d)
	}
	return decorator.Chain(obj, layers...)
}
