// Package fluid resolves plugin names to .wasm files.
//
// Two stores are provided: a local directory (development) and a Fluid
// dataset mount (production). Fluid (https://github.com/fluid-cloudnative/fluid)
// exposes a Dataset backed by S3, HDFS, etc. as a plain POSIX path through
// FUSE, so both stores read an ordinary directory laid out as:
//
//	<root>/
//	├── hello/
//	│   └── hello.wasm
//	└── pricing/
//	    └── pricing.wasm
//
// No Kubernetes client or Fluid SDK is involved; the caller picks the store.
package fluid

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrPluginNotFound is returned when a plugin cannot be resolved.
var ErrPluginNotFound = errors.New("plugin not found")

// ErrUnknownStore is returned by NewStore for an unsupported kind.
var ErrUnknownStore = errors.New("unknown plugin store")

// Store kinds accepted by NewStore.
const (
	KindLocal = "local"
	KindFluid = "fluid"
)

// Store resolves plugin names to filesystem paths.
//
// Implementations must not modify or cache plugin files.
type Store interface {
	// Resolve returns the path of the named plugin's .wasm file, or
	// ErrPluginNotFound.
	Resolve(pluginName string) (string, error)

	// List returns the names of every resolvable plugin, sorted.
	List() ([]string, error)
}

// NewStore returns the store of the given kind rooted at path.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case KindLocal, "":
		return NewLocalPluginStore(path), nil
	case KindFluid:
		return NewFluidPluginStore(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, kind)
	}
}

// dirStore is the directory layout shared by both stores.
type dirStore struct {
	root  string
	label string // used in access error messages
}

func (s dirStore) pluginPath(name string) string {
	return filepath.Join(s.root, name, name+".wasm")
}

func (s dirStore) Resolve(pluginName string) (string, error) {
	if pluginName == "" {
		return "", fmt.Errorf("%w: empty name", ErrPluginNotFound)
	}
	wasmPath := s.pluginPath(pluginName)

	if _, err := os.Stat(wasmPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrPluginNotFound, pluginName)
		}
		return "", fmt.Errorf("failed to access plugin%s: %w", s.label, err)
	}
	return wasmPath, nil
}

func (s dirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list plugins%s: %w", s.label, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.pluginPath(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LocalPluginStore resolves plugins from a local directory such as
// "./plugins".
type LocalPluginStore struct {
	dirStore
}

// NewLocalPluginStore creates a LocalPluginStore rooted at basePath.
//
//	store := NewLocalPluginStore("./plugins")
//	path, err := store.Resolve("hello") // "./plugins/hello/hello.wasm"
func NewLocalPluginStore(basePath string) *LocalPluginStore {
	return &LocalPluginStore{dirStore{root: basePath}}
}

// FluidPluginStore resolves plugins from a Fluid dataset mount, e.g. a PVC
// mounted at /mnt/fluid/plugins. Fetching from remote storage and caching are
// handled by the Fluid runtime behind the mount.
type FluidPluginStore struct {
	dirStore
}

// NewFluidPluginStore creates a FluidPluginStore for the given mount path.
func NewFluidPluginStore(mountPath string) *FluidPluginStore {
	return &FluidPluginStore{dirStore{root: mountPath, label: " on Fluid mount"}}
}
