package verify

import "digital.vasic.conformance/pkg/contract"

// Default is the package-level checker used by the convenience
// functions. It runs with the built-in inspector and no
// logging, metrics, or event output.
var Default = NewChecker()

// EnsureImplements checks candidate against the contracts
// using the Default checker.
func EnsureImplements(
	candidate any,
	contracts ...contract.Contract,
) error {
	return Default.EnsureImplements(candidate, contracts...)
}

// EnsureSubject checks a labeled subject using the Default
// checker.
func EnsureSubject(
	s contract.Subject,
	contracts ...contract.Contract,
) error {
	return Default.EnsureSubject(s, contracts...)
}

// Audit runs an aggregate check using the Default checker.
func Audit(
	candidate any,
	contracts ...contract.Contract,
) (*contract.Report, error) {
	return Default.Audit(candidate, contracts...)
}
