// Package registry provides contract registration, discovery,
// and embed-ordered retrieval.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"digital.vasic.conformance/pkg/contract"
)

// Registry defines the interface for managing contracts and
// their definitions.
type Registry interface {
	// Register adds a compiled contract.
	Register(c contract.Contract) error

	// RegisterDefinition adds a declarative definition.
	RegisterDefinition(def *contract.Definition) error

	// Get retrieves a contract by name.
	Get(name contract.Name) (contract.Contract, error)

	// GetDefinition retrieves a definition by name.
	GetDefinition(
		name contract.Name,
	) (*contract.Definition, error)

	// List returns all registered contracts sorted by name.
	List() []contract.Contract

	// ListDefinitions returns all registered definitions
	// sorted by name.
	ListDefinitions() []*contract.Definition

	// ListByCategory returns contracts whose definition
	// matches the given category.
	ListByCategory(category string) []contract.Contract

	// ResolveOrder returns contracts in topological (embed)
	// order.
	ResolveOrder() ([]contract.Contract, error)

	// ValidateEmbeds checks that every embed referenced by a
	// registered definition is also registered.
	ValidateEmbeds() error

	// Clear removes all contracts and definitions.
	Clear()

	// Count returns the number of registered contracts.
	Count() int
}

// DefaultRegistry is the standard Registry implementation.
// It is safe for concurrent use.
type DefaultRegistry struct {
	mu          sync.RWMutex
	contracts   map[contract.Name]contract.Contract
	definitions map[contract.Name]*contract.Definition
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		contracts:   make(map[contract.Name]contract.Contract),
		definitions: make(map[contract.Name]*contract.Definition),
	}
}

// Default is the package-level default registry instance.
var Default = NewRegistry()

// Register adds a contract to the registry. Zero-value
// contracts are rejected, as is a second registration under a
// name already taken.
func (r *DefaultRegistry) Register(
	c contract.Contract,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !c.Valid() {
		return fmt.Errorf(
			"cannot register invalid contract %q", c.Name(),
		)
	}

	name := c.Name()
	if _, exists := r.contracts[name]; exists {
		return fmt.Errorf(
			"contract already registered: %s", name,
		)
	}

	r.contracts[name] = c
	return nil
}

// RegisterDefinition adds a declarative contract definition.
// Returns an error if a definition with the same name already
// exists.
func (r *DefaultRegistry) RegisterDefinition(
	def *contract.Definition,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if def.Name == "" {
		return fmt.Errorf("contract definition has no name")
	}

	if _, exists := r.definitions[def.Name]; exists {
		return fmt.Errorf(
			"contract definition already registered: %s",
			def.Name,
		)
	}

	r.definitions[def.Name] = def
	return nil
}

// Get retrieves a contract by name.
func (r *DefaultRegistry) Get(
	name contract.Name,
) (contract.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.contracts[name]
	if !exists {
		return contract.Contract{}, fmt.Errorf(
			"contract not found: %s", name,
		)
	}
	return c, nil
}

// GetDefinition retrieves a definition by name.
func (r *DefaultRegistry) GetDefinition(
	name contract.Name,
) (*contract.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.definitions[name]
	if !exists {
		return nil, fmt.Errorf(
			"contract definition not found: %s", name,
		)
	}
	return def, nil
}

// List returns all registered contracts sorted by name.
func (r *DefaultRegistry) List() []contract.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(
		[]contract.Contract, 0, len(r.contracts),
	)
	for _, c := range r.contracts {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// ListDefinitions returns all registered definitions sorted
// by name.
func (r *DefaultRegistry) ListDefinitions() []*contract.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(
		[]*contract.Definition, 0, len(r.definitions),
	)
	for _, d := range r.definitions {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// ListByCategory returns contracts whose definition matches
// the given category. Contracts without a corresponding
// definition are excluded.
func (r *DefaultRegistry) ListByCategory(
	category string,
) []contract.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []contract.Contract
	for name, c := range r.contracts {
		if def, ok := r.definitions[name]; ok {
			if def.Category == category {
				out = append(out, c)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// ResolveOrder returns contracts in topological order using
// Kahn's algorithm, so every embedded contract precedes the
// contracts built on it. Returns an error if an embed cycle is
// detected.
func (r *DefaultRegistry) ResolveOrder() (
	[]contract.Contract, error,
) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return topologicalSort(r.contracts, r.embedsOf)
}

// embedsOf returns the sorted embed names for a contract,
// restricted to embeds that are themselves registered. Callers
// hold r.mu. Dangling embeds are ValidateEmbeds' concern, not
// an ordering edge.
func (r *DefaultRegistry) embedsOf(
	name contract.Name,
) []contract.Name {
	def, ok := r.definitions[name]
	if !ok {
		return nil
	}

	var deps []contract.Name
	for _, embed := range def.Embeds {
		if _, registered := r.contracts[embed]; registered {
			deps = append(deps, embed)
		}
	}
	sort.Slice(deps, func(i, j int) bool {
		return deps[i] < deps[j]
	})
	return deps
}

// ValidateEmbeds checks that every embed referenced by a
// registered definition resolves to a registered contract.
// Returns the first dangling embed found.
func (r *DefaultRegistry) ValidateEmbeds() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, def := range r.definitions {
		for _, embed := range def.Embeds {
			if _, exists := r.contracts[embed]; !exists {
				return fmt.Errorf(
					"contract %s has unregistered "+
						"embed: %s",
					name, embed,
				)
			}
		}
	}
	return nil
}

// Clear removes all contracts and definitions.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contracts = make(
		map[contract.Name]contract.Contract,
	)
	r.definitions = make(
		map[contract.Name]*contract.Definition,
	)
}

// Count returns the number of registered contracts.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contracts)
}
