// Package runtime loads WebAssembly plugins and exposes their exported
// functions as named operations.
//
// A loaded Plugin can be called directly (Call, or the Init/Execute/Cleanup
// lifecycle helpers) or turned into a class.Class with NewClass so that its
// exports can be wrapped by decorators like any other class.
package runtime

import (
	"fmt"
	"os"
	"sort"

	"github.com/second-state/WasmEdge-go/wasmedge"
)

// Plugin is a loaded WebAssembly module with its own isolated VM instance.
// Plugins are not safe for concurrent use - caller must synchronize access.
type Plugin struct {
	path    string              // Original file path for error reporting
	vm      *wasmedge.VM        // Owns module execution
	config  *wasmedge.Configure // WASI-enabled VM configuration
	exports map[string]uint     // Export name -> parameter count
}

// LoadPlugin loads a WebAssembly module from disk, instantiates it in a fresh
// WASI-enabled VM and records its exported functions.
//
// If any step fails, all resources are released before returning the error.
// The returned Plugin must be closed with Close() when no longer needed.
func LoadPlugin(path string) (*Plugin, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("plugin file not found: %w", err)
	}

	config := wasmedge.NewConfigure(wasmedge.WASI)
	if config == nil {
		return nil, fmt.Errorf("failed to create WasmEdge configuration")
	}

	vm := wasmedge.NewVMWithConfig(config)
	if vm == nil {
		config.Release()
		return nil, fmt.Errorf("failed to create WasmEdge VM")
	}

	release := func() {
		vm.Release()
		config.Release()
	}

	wasi := vm.GetImportModule(wasmedge.WASI)
	if wasi == nil {
		release()
		return nil, fmt.Errorf("failed to get WASI module")
	}
	// No args, host environment, no pre-opened directories.
	wasi.InitWasi([]string{}, os.Environ(), []string{})

	if err := vm.LoadWasmFile(path); err != nil {
		release()
		return nil, fmt.Errorf("failed to load WASM file %s: %w", path, err)
	}
	if err := vm.Validate(); err != nil {
		release()
		return nil, fmt.Errorf("WASM module validation failed for %s: %w", path, err)
	}
	if err := vm.Instantiate(); err != nil {
		release()
		return nil, fmt.Errorf("WASM module instantiation failed for %s: %w", path, err)
	}

	names, types := vm.GetFunctionList()
	exports := make(map[string]uint, len(names))
	for i, name := range names {
		exports[name] = types[i].GetParametersLength()
	}

	return &Plugin{
		path:    path,
		vm:      vm,
		config:  config,
		exports: exports,
	}, nil
}

// Close releases all VM resources owned by this plugin. Calling it more than
// once is a no-op. After Close, every call on the plugin fails.
func (p *Plugin) Close() {
	if p.vm != nil {
		p.vm.Release()
		p.vm = nil
	}
	if p.config != nil {
		p.config.Release()
		p.config = nil
	}
}

// Path returns the original file path of the loaded plugin.
func (p *Plugin) Path() string {
	return p.path
}

// Exports returns the names of the plugin's exported functions, sorted.
func (p *Plugin) Exports() []string {
	names := make([]string, 0, len(p.exports))
	for name := range p.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
