package contract

import (
	"errors"
	"fmt"
)

// DefinitionError reports a malformed contract at definition
// time: a blank name, an empty operation list, a blank
// operation name, or a duplicate operation. Definition should
// not proceed past one of these.
type DefinitionError struct {
	// Contract is the name the definition was attempting to use.
	Contract Name

	// Field is the part of the definition at fault
	// (e.g. "name", "operations", "embeds").
	Field string

	// Index is the position within Field when applicable,
	// -1 otherwise.
	Index int

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf(
			"contract %q: %s[%d]: %s",
			e.Contract, e.Field, e.Index, e.Message,
		)
	}
	return fmt.Sprintf(
		"contract %q: %s: %s",
		e.Contract, e.Field, e.Message,
	)
}

// UsageError reports a misuse of the checking surface itself:
// calling it with no contracts, with a zero-value Contract, or
// with a nil candidate. These are programmer errors at the call
// site, surfaced immediately and never retried.
type UsageError struct {
	// Op is the entry point that was misused
	// (e.g. "EnsureImplements").
	Op string

	// Message describes the misuse.
	Message string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ConformanceError reports that a candidate fails a required
// contract. It always names both the contract and the specific
// operation so the failure can be traced without guessing;
// a generic "invalid object" is never produced.
type ConformanceError struct {
	// Contract is the violated contract's name.
	Contract Name

	// Operation is the first required operation the candidate
	// does not expose as a callable member.
	Operation string

	// Subject labels the candidate for diagnostics.
	Subject string

	// Reason distinguishes an absent member from a present but
	// non-callable one.
	Reason ReasonCode
}

// Error implements the error interface.
func (e *ConformanceError) Error() string {
	if e.Reason == ReasonNotCallable {
		return fmt.Sprintf(
			"%s does not implement the %s contract: operation %q is present but not callable",
			e.Subject, e.Contract, e.Operation,
		)
	}
	return fmt.Sprintf(
		"%s does not implement the %s contract: operation %q was not found",
		e.Subject, e.Contract, e.Operation,
	)
}

// AsDefinitionError unwraps err as a *DefinitionError.
func AsDefinitionError(err error) (*DefinitionError, bool) {
	var de *DefinitionError
	ok := errors.As(err, &de)
	return de, ok
}

// AsUsageError unwraps err as a *UsageError.
func AsUsageError(err error) (*UsageError, bool) {
	var ue *UsageError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsConformanceError unwraps err as a *ConformanceError.
func AsConformanceError(err error) (*ConformanceError, bool) {
	var ce *ConformanceError
	ok := errors.As(err, &ce)
	return ce, ok
}
