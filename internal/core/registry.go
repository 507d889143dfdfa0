package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/tseload/internal/source"
)

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered, or if the
// definition names a source column the export does not carry.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}
	if def.Build == nil {
		panic(fmt.Sprintf("table %s has no build function", def.Info.Key))
	}

	for _, col := range def.Info.DedupKey {
		if !source.HasColumn(col) {
			panic(fmt.Sprintf("table %s: unknown dedup column %s", def.Info.Key, col))
		}
	}
	for _, spec := range def.FieldSpecs {
		if !source.HasColumn(spec.Name) {
			panic(fmt.Sprintf("table %s: unknown field column %s", def.Info.Key, spec.Name))
		}
	}

	registry[def.Info.Key] = def
}

// Get returns a table definition by key.
// Returns false if not found.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered table definitions, sorted by key.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TableDefinition)
}

// Plan resolves order against the registry and checks that every table
// is loaded after the tables it references.
func Plan(order []string) ([]TableDefinition, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	plan := make([]TableDefinition, 0, len(order))
	loaded := make(map[string]bool, len(order))

	for _, key := range order {
		def, ok := registry[key]
		if !ok {
			return nil, fmt.Errorf("unknown table %s", key)
		}
		if loaded[key] {
			return nil, fmt.Errorf("table %s listed twice", key)
		}

		var missing []string
		for _, ref := range def.References() {
			if !loaded[ref] {
				missing = append(missing, ref)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("table %s references %s, which must be loaded first",
				key, strings.Join(missing, ", "))
		}

		loaded[key] = true
		plan = append(plan, def)
	}

	return plan, nil
}
