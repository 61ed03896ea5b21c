package contract

import "fmt"

// Subject pairs a candidate with a diagnostic label and,
// optionally, the names of the contracts it claims to satisfy.
// The checker never inspects a candidate beyond its externally
// observable members; the Subject wrapper exists so error
// messages and reports can say which object failed.
type Subject struct {
	// Label identifies the candidate in diagnostics. When
	// empty, a label is derived from the candidate's dynamic
	// type.
	Label string `json:"label"`

	// Candidate is the object to be checked. It is borrowed
	// for the duration of a check and never mutated.
	Candidate any `json:"-"`

	// Claims names the contracts this subject is expected to
	// satisfy. Used by the audit engine; the direct checking
	// surface takes contracts explicitly instead.
	Claims []Name `json:"claims,omitempty"`
}

// NewSubject creates a labeled subject. An empty label is
// replaced with one derived from the candidate's type.
func NewSubject(
	label string,
	candidate any,
	claims ...Name,
) Subject {
	if label == "" {
		label = DeriveLabel(candidate)
	}
	return Subject{
		Label:     label,
		Candidate: candidate,
		Claims:    claims,
	}
}

// DeriveLabel builds a diagnostic label from the candidate's
// dynamic type. A nil candidate is labeled "<nil>".
func DeriveLabel(candidate any) string {
	if candidate == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", candidate)
}

// DisplayLabel returns the subject's label, deriving one from
// the candidate when the label is empty.
func (s Subject) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return DeriveLabel(s.Candidate)
}
