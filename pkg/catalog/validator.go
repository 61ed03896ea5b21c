package catalog

import (
	"fmt"
	"os"

	"digital.vasic.conformance/pkg/contract"
)

// ValidationError represents a problem found in a catalog file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf(
			"contracts[%d].%s: %s", e.Index, e.Field, e.Message,
		)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a parsed catalog file and returns every
// problem found rather than stopping at the first.
func Validate(file *File) []ValidationError {
	var errors []ValidationError

	if file.Version == "" {
		errors = append(errors, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}

	names := make(map[contract.Name]bool)
	for i := range file.Contracts {
		def := &file.Contracts[i]

		if def.Name != "" {
			if names[def.Name] {
				errors = append(errors, ValidationError{
					Field:   "name",
					Message: fmt.Sprintf("duplicate name: %s", def.Name),
					Index:   i,
				})
			}
			names[def.Name] = true
		}

		for _, err := range def.Validate() {
			de, ok := contract.AsDefinitionError(err)
			if !ok {
				continue
			}
			msg := de.Message
			if de.Index >= 0 {
				msg = fmt.Sprintf(
					"%s[%d]: %s", de.Field, de.Index, de.Message,
				)
			}
			errors = append(errors, ValidationError{
				Field:   de.Field,
				Message: msg,
				Index:   i,
			})
		}
	}

	return errors
}

// ValidateFile reads, parses, and validates a catalog file,
// returning all errors found.
func ValidateFile(path string) []ValidationError {
	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{
			{Field: "file", Message: err.Error(), Index: -1},
		}
	}

	file, err := parseForPath(data, path)
	if err != nil {
		return []ValidationError{
			{Field: "syntax", Message: err.Error(), Index: -1},
		}
	}

	return Validate(file)
}
