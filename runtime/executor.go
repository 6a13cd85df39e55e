package runtime

import (
	"errors"
	"fmt"
)

// ABI error codes returned by plugin lifecycle functions
const (
	ABISuccess                 = 0  // Operation completed successfully
	ABIErrorNotInitialized     = -1 // Plugin not initialized (init not called)
	ABIErrorAlreadyInitialized = -2 // Plugin already initialized (init called twice)
	ABIErrorInvalidInput       = -3 // Invalid input parameter
	ABIErrorInternal           = -4 // Internal plugin error
)

var (
	// ErrPluginClosed is returned by every call on a closed plugin.
	ErrPluginClosed = errors.New("plugin is closed")

	// ErrExportNotFound is returned when calling a function the plugin does
	// not export.
	ErrExportNotFound = errors.New("export not found")
)

// Call invokes the exported function name with i32 arguments and returns its
// first i32 result. Functions without results return 0.
func (p *Plugin) Call(name string, args ...int) (int, error) {
	if p.vm == nil {
		return 0, ErrPluginClosed
	}

	arity, ok := p.exports[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s in %s", ErrExportNotFound, name, p.path)
	}
	if uint(len(args)) != arity {
		return 0, fmt.Errorf("%s() takes %d arguments, got %d", name, arity, len(args))
	}

	params := make([]interface{}, len(args))
	for i, a := range args {
		params[i] = int32(a)
	}

	result, err := p.vm.Execute(name, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute %s%v for %s: %w", name, args, p.path, err)
	}
	if len(result) == 0 {
		return 0, nil
	}

	v, ok := result[0].(int32)
	if !ok {
		return 0, fmt.Errorf("%s() returned %T for %s, want i32", name, result[0], p.path)
	}
	return int(v), nil
}

// Init calls the plugin's "init" export. It must succeed before Execute.
func (p *Plugin) Init() error {
	return p.lifecycle("init")
}

// Execute calls the plugin's "process" export with input. Negative results
// are ABI error codes.
func (p *Plugin) Execute(input int) (int, error) {
	out, err := p.Call("process", input)
	if err != nil {
		return 0, err
	}
	if out < 0 {
		return 0, fmt.Errorf("process() returned error code %d for %s: %s",
			out, p.path, abiErrorString(int32(out)))
	}
	return out, nil
}

// Cleanup calls the plugin's "cleanup" export. It is safe to call even if
// Init was never called or failed.
func (p *Plugin) Cleanup() error {
	return p.lifecycle("cleanup")
}

func (p *Plugin) lifecycle(name string) error {
	code, err := p.Call(name)
	if err != nil {
		return err
	}
	if code != ABISuccess {
		return fmt.Errorf("%s() returned error code %d for %s: %s",
			name, code, p.path, abiErrorString(int32(code)))
	}
	return nil
}

// abiErrorString converts ABI error codes to human-readable strings.
func abiErrorString(code int32) string {
	switch code {
	case ABISuccess:
		return "success"
	case ABIErrorNotInitialized:
		return "ABI_ERROR_NOT_INITIALIZED"
	case ABIErrorAlreadyInitialized:
		return "ABI_ERROR_ALREADY_INITIALIZED"
	case ABIErrorInvalidInput:
		return "ABI_ERROR_INVALID_INPUT"
	case ABIErrorInternal:
		return "ABI_ERROR_INTERNAL"
	default:
		return fmt.Sprintf("unknown error code %d", code)
	}
}
