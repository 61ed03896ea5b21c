package probe

import (
	"errors"
	"fmt"
	"strings"

	"digital.vasic.conformance/pkg/contract"
)

// Rejection records why one candidate was passed over.
type Rejection struct {
	// Subject labels the rejected candidate.
	Subject string

	// Err is the conformance or health failure that caused the
	// rejection.
	Err error
}

// ErrNoCandidate reports that every candidate a source offered
// was rejected. It carries the per-candidate reasons so callers
// can see why each fallback was unusable instead of guessing.
type ErrNoCandidate struct {
	// Contracts are the names the candidates were probed
	// against.
	Contracts []contract.Name

	// Rejections lists the candidates in probe order with the
	// failure that disqualified each.
	Rejections []Rejection
}

// Error implements the error interface.
func (e *ErrNoCandidate) Error() string {
	var b strings.Builder
	fmt.Fprintf(
		&b, "no candidate satisfies %v", e.Contracts,
	)
	if len(e.Rejections) == 0 {
		b.WriteString(": source offered no candidates")
		return b.String()
	}
	b.WriteString(": ")
	for i, r := range e.Rejections {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %v", r.Subject, r.Err)
	}
	return b.String()
}

// AsErrNoCandidate unwraps err as a *ErrNoCandidate.
func AsErrNoCandidate(err error) (*ErrNoCandidate, bool) {
	var ne *ErrNoCandidate
	ok := errors.As(err, &ne)
	return ne, ok
}
