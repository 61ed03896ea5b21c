package contract

import "fmt"

// Definition describes a contract declaratively. It captures
// everything needed to register and compile a contract without
// requiring Go code, so catalogs of contracts can be loaded
// from JSON or YAML files.
type Definition struct {
	Name        Name            `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	Embeds      []Name          `json:"embeds,omitempty" yaml:"embeds,omitempty"`
	Operations  []OperationSpec `json:"operations" yaml:"operations"`
	Tags        []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OperationSpec documents a single required operation. Only the
// name participates in conformance checking; params and returns
// are advisory and surface in reports and generated docs.
type OperationSpec struct {
	// Name is the member the candidate must expose as callable.
	Name string `json:"name" yaml:"name"`

	// Params documents the expected parameters (advisory).
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`

	// Returns documents the expected return values (advisory).
	Returns []string `json:"returns,omitempty" yaml:"returns,omitempty"`

	// Description explains what the operation does.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// OperationNames returns just the operation names, in declaration
// order.
func (d *Definition) OperationNames() []string {
	names := make([]string, len(d.Operations))
	for i, op := range d.Operations {
		names[i] = op.Name
	}
	return names
}

// Validate checks the definition for structural problems and
// returns all of them rather than stopping at the first. Every
// returned error is a *DefinitionError.
func (d *Definition) Validate() []error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, &DefinitionError{
			Field:   "name",
			Index:   -1,
			Message: "contract name is required",
		})
	}

	if len(d.Operations) == 0 && len(d.Embeds) == 0 {
		errs = append(errs, &DefinitionError{
			Contract: d.Name,
			Field:    "operations",
			Index:    -1,
			Message:  "at least one operation or embed is required",
		})
	}

	seen := make(map[string]bool)
	for i, op := range d.Operations {
		if op.Name == "" {
			errs = append(errs, &DefinitionError{
				Contract: d.Name,
				Field:    "operations",
				Index:    i,
				Message:  "operation name is required",
			})
			continue
		}
		if seen[op.Name] {
			errs = append(errs, &DefinitionError{
				Contract: d.Name,
				Field:    "operations",
				Index:    i,
				Message:  fmt.Sprintf("duplicate operation: %s", op.Name),
			})
			continue
		}
		seen[op.Name] = true
	}

	embedSeen := make(map[Name]bool)
	for i, embed := range d.Embeds {
		if embed == "" {
			errs = append(errs, &DefinitionError{
				Contract: d.Name,
				Field:    "embeds",
				Index:    i,
				Message:  "embedded contract name is required",
			})
			continue
		}
		if embed == d.Name {
			errs = append(errs, &DefinitionError{
				Contract: d.Name,
				Field:    "embeds",
				Index:    i,
				Message:  "contract cannot embed itself",
			})
			continue
		}
		if embedSeen[embed] {
			errs = append(errs, &DefinitionError{
				Contract: d.Name,
				Field:    "embeds",
				Index:    i,
				Message:  fmt.Sprintf("duplicate embed: %s", embed),
			})
			continue
		}
		embedSeen[embed] = true
	}

	return errs
}

// Compile turns the definition into a Contract. Embedded
// contracts are looked up through resolve; a missing embed is a
// definition error. The compiled contract lists embedded
// operations first, then the definition's own, with duplicates
// across the two collapsed to their first occurrence.
func (d *Definition) Compile(
	resolve func(Name) (Contract, bool),
) (Contract, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return Contract{}, errs[0]
	}

	var embedded []Contract
	for i, embed := range d.Embeds {
		if resolve == nil {
			return Contract{}, &DefinitionError{
				Contract: d.Name,
				Field:    "embeds",
				Index:    i,
				Message:  "no resolver available for embedded contracts",
			}
		}
		base, ok := resolve(embed)
		if !ok {
			return Contract{}, &DefinitionError{
				Contract: d.Name,
				Field:    "embeds",
				Index:    i,
				Message:  fmt.Sprintf("embedded contract not found: %s", embed),
			}
		}
		embedded = append(embedded, base)
	}

	opts := []Option{WithDescription(d.Description)}
	if len(embedded) > 0 {
		opts = append(opts, WithEmbedded(embedded...))
	}
	return New(d.Name, d.OperationNames(), opts...)
}
