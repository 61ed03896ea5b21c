package contract

import "time"

// Status constants for conformance check outcomes.
const (
	StatusConformant = "conformant"
	StatusViolating  = "violating"
	StatusError      = "error"
	StatusSkipped    = "skipped"
)

// ReasonCode classifies why a required operation is considered
// unimplemented.
type ReasonCode string

const (
	// ReasonMissing means no member with the operation's name
	// could be found on the candidate.
	ReasonMissing ReasonCode = "missing"

	// ReasonNotCallable means a member with the operation's
	// name exists but is not an invocable value.
	ReasonNotCallable ReasonCode = "not_callable"
)

// Violation records a single broken requirement: one operation
// of one contract that the candidate does not expose as a
// callable member.
type Violation struct {
	// Contract is the violated contract's name.
	Contract Name `json:"contract"`

	// Operation is the required operation name.
	Operation string `json:"operation"`

	// Reason distinguishes absence from non-callability.
	Reason ReasonCode `json:"reason"`

	// Detail carries optional inspector diagnostics, such as
	// the kind of the non-callable value that was found.
	Detail string `json:"detail,omitempty"`
}

// String renders the violation for log lines and summaries.
func (v Violation) String() string {
	if v.Reason == ReasonNotCallable {
		return string(v.Contract) + "." + v.Operation +
			" (present but not callable)"
	}
	return string(v.Contract) + "." + v.Operation +
		" (missing)"
}

// Report captures the complete outcome of checking one
// candidate against one or more contracts, including timing
// and every violation found. A Report is produced by the
// aggregate Audit path; the fail-fast path returns a
// *ConformanceError carrying only the first violation.
type Report struct {
	// RunID ties the report to an audit run, when there is one.
	RunID string `json:"run_id,omitempty"`

	// Subject labels the candidate that was checked.
	Subject string `json:"subject"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// Contracts lists the checked contract names in the order
	// they were supplied.
	Contracts []Name `json:"contracts"`

	// Violations holds every broken requirement, in
	// contract-then-operation order. Empty when conformant.
	Violations []Violation `json:"violations,omitempty"`

	// OperationsChecked counts the member lookups performed.
	OperationsChecked int `json:"operations_checked"`

	// StartTime is when the check began.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the check finished.
	EndTime time.Time `json:"end_time"`

	// Duration is the wall-clock checking time.
	Duration time.Duration `json:"duration"`

	// Error holds a failure outside checking itself (for
	// example an unknown claimed contract during an audit).
	Error string `json:"error,omitempty"`
}

// Conforms reports whether the candidate satisfied every
// checked contract.
func (r *Report) Conforms() bool {
	return r.Status == StatusConformant
}

// ViolationsFor returns the violations recorded against the
// named contract, preserving order.
func (r *Report) ViolationsFor(name Name) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Contract == name {
			out = append(out, v)
		}
	}
	return out
}

// FirstViolation returns the first recorded violation, or a
// zero Violation and false when there is none.
func (r *Report) FirstViolation() (Violation, bool) {
	if len(r.Violations) == 0 {
		return Violation{}, false
	}
	return r.Violations[0], true
}
