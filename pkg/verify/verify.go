// Package verify implements the conformance checker. It scans
// a candidate object for the callable members a contract
// requires and reports the first gap (EnsureImplements) or
// every gap (Audit). Checking is structural and external: an
// operation counts as implemented when a member with its name
// exists and is invocable, nothing further is asserted about
// behavior.
package verify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"digital.vasic.conformance/pkg/contract"
	"digital.vasic.conformance/pkg/inspect"
	"digital.vasic.conformance/pkg/logging"
	"digital.vasic.conformance/pkg/metrics"
	"digital.vasic.conformance/pkg/monitor"
)

// Checker performs conformance checks. A zero-config Checker
// from NewChecker works standalone; options attach a custom
// inspector, logger, metrics recorder, or event collector.
// Checkers hold no per-check state and are safe for concurrent
// use.
type Checker struct {
	inspector inspect.Inspector
	logger    logging.Logger
	recorder  metrics.Recorder
	collector *monitor.EventCollector
}

// NewChecker creates a Checker with the supplied options.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		inspector: inspect.NewInspector(),
		logger:    logging.NullLogger{},
		recorder:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureImplements verifies that candidate exposes a callable
// member for every operation of every supplied contract. It
// fails fast: the first operation that is absent or present
// but not callable aborts the scan and is returned as a
// *contract.ConformanceError naming the contract, the
// operation, and the candidate. Calling it with no contracts,
// with an invalid contract value, or with a nil candidate
// returns a *contract.UsageError instead. A nil return means
// every requirement was met. The candidate is never mutated.
func (c *Checker) EnsureImplements(
	candidate any,
	contracts ...contract.Contract,
) error {
	return c.ensure(
		"EnsureImplements",
		contract.NewSubject("", candidate),
		contracts,
	)
}

// EnsureSubject is EnsureImplements for a labeled subject. The
// subject's label appears in diagnostics instead of the
// candidate's type name.
func (c *Checker) EnsureSubject(
	s contract.Subject,
	contracts ...contract.Contract,
) error {
	return c.ensure("EnsureSubject", s, contracts)
}

// ensure is the fail-fast scanning core. Contracts are scanned
// in argument order and operations in declared order, so the
// reported violation is deterministic for identical inputs.
func (c *Checker) ensure(
	op string,
	subject contract.Subject,
	contracts []contract.Contract,
) error {
	if err := usageCheck(op, subject.Candidate, contracts); err != nil {
		return err
	}

	label := subject.DisplayLabel()
	checkID := uuid.NewString()
	start := time.Now()
	if c.collector != nil {
		c.collector.EmitCheckStarted(label)
	}

	checked := 0
	for _, ct := range contracts {
		contractStart := time.Now()
		for _, operation := range ct.Operations() {
			lookup := c.inspector.Resolve(subject.Candidate, operation)
			checked++
			c.logLookup(label, ct.Name(), operation, lookup)
			if lookup.Found && lookup.Callable {
				continue
			}

			v := violationFor(ct.Name(), operation, lookup)
			c.recorder.RecordCheck(
				string(ct.Name()),
				contract.StatusViolating,
				time.Since(contractStart),
			)
			c.recorder.RecordViolation(
				string(ct.Name()), operation, string(v.Reason),
			)
			c.logCheck(
				checkID, label, contracts,
				contract.StatusViolating, v.String(),
				checked, start,
			)
			if c.collector != nil {
				c.collector.EmitCheckFailed(label, ct.Name(), v.String())
			}
			return &contract.ConformanceError{
				Contract:  ct.Name(),
				Operation: operation,
				Subject:   label,
				Reason:    v.Reason,
			}
		}
		c.recorder.RecordCheck(
			string(ct.Name()),
			contract.StatusConformant,
			time.Since(contractStart),
		)
	}

	c.logCheck(
		checkID, label, contracts,
		contract.StatusConformant, "", checked, start,
	)
	if c.collector != nil {
		c.collector.EmitCheckPassed(label, time.Since(start))
	}
	return nil
}

// usageCheck validates the call itself before any member
// lookup happens. Misuse is reported as *contract.UsageError,
// never as a conformance failure.
func usageCheck(
	op string,
	candidate any,
	contracts []contract.Contract,
) error {
	if len(contracts) == 0 {
		return &contract.UsageError{
			Op:      op,
			Message: "at least one contract is required",
		}
	}
	for i, ct := range contracts {
		if !ct.Valid() {
			return &contract.UsageError{
				Op: op,
				Message: fmt.Sprintf(
					"contract at position %d is invalid", i,
				),
			}
		}
	}
	if candidate == nil {
		return &contract.UsageError{
			Op:      op,
			Message: "candidate is nil",
		}
	}
	return nil
}

// violationFor classifies a failed lookup. A member that was
// located but is not invocable is reported as not callable,
// anything else as missing.
func violationFor(
	name contract.Name,
	operation string,
	lookup inspect.Lookup,
) contract.Violation {
	reason := contract.ReasonMissing
	if lookup.Found {
		reason = contract.ReasonNotCallable
	}
	return contract.Violation{
		Contract:  name,
		Operation: operation,
		Reason:    reason,
		Detail:    lookup.Detail,
	}
}

func (c *Checker) logLookup(
	label string,
	name contract.Name,
	operation string,
	lookup inspect.Lookup,
) {
	c.logger.Debug("operation lookup",
		logging.StringField("subject", label),
		logging.StringField("contract", string(name)),
		logging.StringField("operation", operation),
		logging.BoolField("found", lookup.Found),
		logging.BoolField("callable", lookup.Callable),
		logging.StringField("kind", lookup.Kind),
	)
}

// logCheck writes the structured per-check record.
func (c *Checker) logCheck(
	checkID, label string,
	contracts []contract.Contract,
	status, firstViolation string,
	checked int,
	start time.Time,
) {
	names := make([]string, len(contracts))
	for i, ct := range contracts {
		names[i] = string(ct.Name())
	}
	c.logger.LogCheck(logging.CheckLog{
		CheckID:           checkID,
		Subject:           label,
		Contracts:         names,
		Status:            status,
		FirstViolation:    firstViolation,
		OperationsChecked: checked,
		DurationMs:        time.Since(start).Milliseconds(),
	})
}
