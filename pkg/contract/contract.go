// Package contract defines capability contracts: named,
// immutable sets of operation names a candidate object must
// expose as callable members to be treated as a given
// capability. Contracts are plain values, defined once, usually
// at composition time, and passed explicitly to the verify
// package; no global registration is required.
package contract

import (
	"fmt"
	"strings"
)

// Name identifies a contract. It appears in every diagnostic,
// so it should be short and human-readable (e.g. "Movable",
// "ResultFormatter").
type Name string

// Contract is an immutable capability description: a name plus
// an ordered list of required operation names. The order is
// preserved for deterministic diagnostics but carries no
// semantic weight. A Contract can only be obtained through
// New, MustNew, Extend, or Definition.Compile; the zero value
// is invalid and rejected by the checker.
type Contract struct {
	name        Name
	description string
	operations  []string
	valid       bool
}

// Option configures contract construction.
type Option func(*settings)

type settings struct {
	description string
	embedded    []Contract
}

// WithDescription attaches a human-readable description to the
// contract. It is carried into reports and has no effect on
// checking.
func WithDescription(desc string) Option {
	return func(s *settings) { s.description = desc }
}

// WithEmbedded prepends the required operations of the given
// contracts, in the order given, before the contract's own
// operations. Operations already required by an earlier
// embedded contract are kept at their first position rather
// than duplicated.
func WithEmbedded(contracts ...Contract) Option {
	return func(s *settings) {
		s.embedded = append(s.embedded, contracts...)
	}
}

// New constructs a Contract from a name and an ordered list of
// required operation names.
//
// Construction fails with a *DefinitionError when the name is
// blank, when operations is empty, when any operation name is
// blank, or when the same operation name (case-sensitive)
// appears twice. Catching a malformed contract here turns a
// confusing later check failure into an immediate, localized
// one.
func New(
	name Name,
	operations []string,
	opts ...Option,
) (Contract, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	if strings.TrimSpace(string(name)) == "" {
		return Contract{}, &DefinitionError{
			Contract: name,
			Field:    "name",
			Index:    -1,
			Message:  "contract name must not be blank",
		}
	}

	if len(operations) == 0 && len(cfg.embedded) == 0 {
		return Contract{}, &DefinitionError{
			Contract: name,
			Field:    "operations",
			Index:    -1,
			Message:  "contract must require at least one operation",
		}
	}

	merged := make([]string, 0, len(operations))
	seen := make(map[string]struct{}, len(operations))

	for i, emb := range cfg.embedded {
		if !emb.valid {
			return Contract{}, &DefinitionError{
				Contract: name,
				Field:    "embeds",
				Index:    i,
				Message:  "embedded contract is not a valid Contract value",
			}
		}
		for _, op := range emb.operations {
			if _, dup := seen[op]; dup {
				continue
			}
			seen[op] = struct{}{}
			merged = append(merged, op)
		}
	}

	for i, op := range operations {
		if strings.TrimSpace(op) == "" {
			return Contract{}, &DefinitionError{
				Contract: name,
				Field:    "operations",
				Index:    i,
				Message:  "operation name must not be blank",
			}
		}
		if _, dup := seen[op]; dup {
			// A repeat of an embedded operation is already
			// required and adds nothing; a repeat within the
			// contract's own list is a definition mistake.
			if containsBefore(operations, op, i) {
				return Contract{}, &DefinitionError{
					Contract: name,
					Field:    "operations",
					Index:    i,
					Message: fmt.Sprintf(
						"duplicate operation %q", op,
					),
				}
			}
			continue
		}
		seen[op] = struct{}{}
		merged = append(merged, op)
	}

	return Contract{
		name:        name,
		description: cfg.description,
		operations:  merged,
		valid:       true,
	}, nil
}

// MustNew is like New but panics on a definition error. It is
// intended for package-level contract variables where a
// malformed definition is a programming bug.
func MustNew(
	name Name,
	operations []string,
	opts ...Option,
) Contract {
	c, err := New(name, operations, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Extend builds a new contract that requires everything base
// requires plus the given additional operations. Restating one
// of base's operations is allowed and adds nothing.
func Extend(
	base Contract,
	name Name,
	operations []string,
	opts ...Option,
) (Contract, error) {
	opts = append(
		[]Option{WithEmbedded(base)}, opts...,
	)
	return New(name, operations, opts...)
}

// Name returns the contract's identifier.
func (c Contract) Name() Name { return c.name }

// Description returns the optional human-readable description.
func (c Contract) Description() string {
	return c.description
}

// Operations returns the required operation names in declared
// order. The returned slice is a copy; mutating it does not
// affect the contract.
func (c Contract) Operations() []string {
	out := make([]string, len(c.operations))
	copy(out, c.operations)
	return out
}

// Len returns the number of required operations.
func (c Contract) Len() int { return len(c.operations) }

// Requires reports whether op is one of the contract's required
// operation names.
func (c Contract) Requires(op string) bool {
	for _, o := range c.operations {
		if o == op {
			return true
		}
	}
	return false
}

// Valid reports whether the contract was produced by New (or a
// wrapper around it). The zero Contract is invalid.
func (c Contract) Valid() bool { return c.valid }

// String renders the contract as "Name[op1, op2, ...]".
func (c Contract) String() string {
	return fmt.Sprintf(
		"%s[%s]",
		c.name,
		strings.Join(c.operations, ", "),
	)
}

// containsBefore reports whether ops contains op at an index
// strictly lower than limit.
func containsBefore(
	ops []string, op string, limit int,
) bool {
	for i := 0; i < limit; i++ {
		if ops[i] == op {
			return true
		}
	}
	return false
}
