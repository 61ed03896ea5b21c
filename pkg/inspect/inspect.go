// Package inspect answers the structural question underneath
// conformance checking: does this candidate expose a member
// with a given name, and is that member callable? Resolution
// is purely reflective and per call; nothing about a candidate
// is cached between lookups.
package inspect

import (
	"fmt"
	"sync"
)

// Member kind labels reported in Lookup.Kind.
const (
	KindMethod   = "method"
	KindMapEntry = "map entry"
	KindField    = "field"
	KindNil      = "nil"
)

// Lookup is the outcome of resolving one operation name on a
// candidate.
type Lookup struct {
	// Found reports whether any member with the operation's
	// name exists on the candidate.
	Found bool

	// Callable reports whether the found member can be invoked.
	// Always false when Found is false.
	Callable bool

	// Kind names the class of member that was found ("method",
	// "map entry", "field"), or "nil" for a nil candidate.
	Kind string

	// Detail describes what was found, typically the member's
	// type. For a present but non-callable member this is the
	// offending value's type.
	Detail string
}

// Resolver is a single resolution strategy. It reports the
// lookup outcome and whether it located a member at all; when
// the second return is false the next resolver in the chain is
// consulted.
type Resolver func(candidate any, operation string) (Lookup, bool)

// Inspector resolves operation names against candidates.
type Inspector interface {
	// Resolve walks the resolver chain and returns the first
	// located member, or a not-found Lookup when no resolver
	// locates one.
	Resolve(candidate any, operation string) Lookup

	// Register appends a custom resolver to the end of the
	// chain. Returns an error if the name is already taken.
	Register(name string, resolver Resolver) error

	// ResolverNames returns the chain's resolver names in
	// consultation order.
	ResolverNames() []string
}

type namedResolver struct {
	name    string
	resolve Resolver
}

// DefaultInspector is the standard Inspector implementation.
// Its built-in chain understands Go method sets, string-keyed
// maps, and exported struct fields, in that order. It is safe
// for concurrent use.
type DefaultInspector struct {
	mu    sync.RWMutex
	chain []namedResolver
}

// NewInspector creates a DefaultInspector with the three
// built-in resolvers pre-registered.
func NewInspector() *DefaultInspector {
	ins := &DefaultInspector{}
	ins.chain = []namedResolver{
		{name: "method", resolve: resolveMethod},
		{name: "mapentry", resolve: resolveMapEntry},
		{name: "funcfield", resolve: resolveFuncField},
	}
	return ins
}

// Register appends a custom resolver to the end of the chain.
// Returns an error if the name is already taken.
func (ins *DefaultInspector) Register(
	name string,
	resolver Resolver,
) error {
	ins.mu.Lock()
	defer ins.mu.Unlock()

	for _, nr := range ins.chain {
		if nr.name == name {
			return fmt.Errorf(
				"resolver already registered: %s", name,
			)
		}
	}

	ins.chain = append(ins.chain, namedResolver{
		name:    name,
		resolve: resolver,
	})
	return nil
}

// Resolve walks the resolver chain in order and returns the
// first located member. A nil candidate is never resolvable.
func (ins *DefaultInspector) Resolve(
	candidate any,
	operation string,
) Lookup {
	if candidate == nil {
		return Lookup{Kind: KindNil}
	}

	ins.mu.RLock()
	chain := ins.chain
	ins.mu.RUnlock()

	for _, nr := range chain {
		if lookup, ok := nr.resolve(candidate, operation); ok {
			return lookup
		}
	}
	return Lookup{}
}

// ResolverNames returns the chain's resolver names in
// consultation order.
func (ins *DefaultInspector) ResolverNames() []string {
	ins.mu.RLock()
	defer ins.mu.RUnlock()

	names := make([]string, len(ins.chain))
	for i, nr := range ins.chain {
		names[i] = nr.name
	}
	return names
}
