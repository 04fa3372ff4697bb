package rdf

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Storage is a backend holding quads. Storage implementations need not be
// safe for concurrent use; Store serializes access to them.
//
// Callers pass only complete statements to the mutating methods.
type Storage interface {
	// Add inserts q and reports whether it was not already present.
	Add(q Quad) (bool, error)
	// Remove deletes q and reports whether it was present.
	Remove(q Quad) (bool, error)
	// RemoveContext deletes every quad in the context ctx (the absent node
	// selects the default context) and returns how many were deleted.
	RemoveContext(ctx Node) (int, error)
	// Contains reports whether st is stored in any context.
	Contains(st Statement) (bool, error)
	// ContainsQuad reports whether st is stored in the context q.G.
	ContainsQuad(q Quad) (bool, error)
	// ContainsContext reports whether any quad carries the named context ctx.
	ContainsContext(ctx Node) (bool, error)
	// Contexts returns the named contexts in first-use order.
	Contexts() ([]Node, error)
	// Find returns the quads matching pattern in insertion order. An absent
	// ctx searches every context.
	Find(pattern Statement, ctx Node) ([]Quad, error)
	// Size returns the number of quads, or a negative value if unknown.
	Size() int
	// Sync flushes buffered changes to the backing medium.
	Sync() error
	// Close releases the storage.
	Close() error
}

// StorageConfig selects and configures a storage backend.
type StorageConfig struct {
	// Name is the registered factory name, e.g. "memory" or "sqlite".
	Name string `yaml:"name" json:"name"`
	// Identifier names the storage instance, e.g. a database file.
	Identifier string `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	// Options holds factory specific settings.
	Options map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

// StorageFactory creates a Storage from a configuration.
type StorageFactory func(cfg StorageConfig) (Storage, error)

var (
	storageMu        sync.RWMutex
	storageFactories = map[string]StorageFactory{}
)

func init() {
	memory := func(StorageConfig) (Storage, error) { return NewMemoryStorage(), nil }
	RegisterStorage("memory", memory)
	RegisterStorage("hashes", memory)
}

// RegisterStorage makes a storage factory available under name.
// Registering the same name twice replaces the earlier factory.
func RegisterStorage(name string, factory StorageFactory) {
	if name == "" || factory == nil {
		panic("rdf: RegisterStorage requires a name and a factory")
	}
	storageMu.Lock()
	defer storageMu.Unlock()
	storageFactories[name] = factory
}

// StorageNames returns the registered factory names, sorted.
func StorageNames() []string {
	storageMu.RLock()
	defer storageMu.RUnlock()
	names := make([]string, 0, len(storageFactories))
	for name := range storageFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStorage creates a storage backend from cfg. An empty name selects "memory".
func NewStorage(cfg StorageConfig) (Storage, error) {
	name := cfg.Name
	if name == "" {
		name = "memory"
	}
	storageMu.RLock()
	factory, ok := storageFactories[name]
	storageMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, name)
	}
	storage, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("rdf: open %s storage: %w", name, err)
	}
	return storage, nil
}

// ParseStorageOptions parses an option string of the form
// "new='yes',hash-type='memory'". Values may be single-quoted, double-quoted
// or bare; quoted values may contain commas.
func ParseStorageOptions(s string) (map[string]string, error) {
	opts := map[string]string{}
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == ',') {
			i++
		}
		if i >= len(s) {
			return opts, nil
		}
		eq := strings.IndexByte(s[i:], '=')
		if eq < 0 {
			return nil, fmt.Errorf("%w: option %q has no value", ErrInvalidArgument, s[i:])
		}
		key := strings.TrimSpace(s[i : i+eq])
		if key == "" {
			return nil, fmt.Errorf("%w: empty option name in %q", ErrInvalidArgument, s)
		}
		i += eq + 1
		for i < len(s) && s[i] == ' ' {
			i++
		}
		var value string
		if i < len(s) && (s[i] == '\'' || s[i] == '"') {
			quote := s[i]
			end := strings.IndexByte(s[i+1:], quote)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated value for option %q", ErrInvalidArgument, key)
			}
			value = s[i+1 : i+1+end]
			i += end + 2
		} else {
			end := strings.IndexByte(s[i:], ',')
			if end < 0 {
				end = len(s) - i
			}
			value = strings.TrimSpace(s[i : i+end])
			i += end
		}
		opts[key] = value
	}
}
