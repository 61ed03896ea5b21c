package verify

import (
	"time"

	"github.com/google/uuid"

	"digital.vasic.conformance/pkg/contract"
)

// Audit verifies the candidate against every supplied contract
// and keeps going past failures, so the returned report lists
// every violation rather than just the first. The error return
// covers call misuse only (no contracts, invalid contract, nil
// candidate); a violating candidate is a valid report, not an
// error.
func (c *Checker) Audit(
	candidate any,
	contracts ...contract.Contract,
) (*contract.Report, error) {
	return c.audit(
		"Audit",
		contract.NewSubject("", candidate),
		contracts,
	)
}

// AuditSubject is Audit for a labeled subject.
func (c *Checker) AuditSubject(
	s contract.Subject,
	contracts ...contract.Contract,
) (*contract.Report, error) {
	return c.audit("AuditSubject", s, contracts)
}

// audit is the aggregate scanning core. It shares lookup and
// classification with ensure but records every violation in
// contract-then-operation order.
func (c *Checker) audit(
	op string,
	subject contract.Subject,
	contracts []contract.Contract,
) (*contract.Report, error) {
	if err := usageCheck(op, subject.Candidate, contracts); err != nil {
		return nil, err
	}

	label := subject.DisplayLabel()
	checkID := uuid.NewString()
	start := time.Now()
	if c.collector != nil {
		c.collector.EmitCheckStarted(label)
	}

	names := make([]contract.Name, len(contracts))
	for i, ct := range contracts {
		names[i] = ct.Name()
	}
	report := &contract.Report{
		Subject:   label,
		Status:    contract.StatusConformant,
		Contracts: names,
		StartTime: start,
	}

	for _, ct := range contracts {
		contractStart := time.Now()
		before := len(report.Violations)
		for _, operation := range ct.Operations() {
			lookup := c.inspector.Resolve(subject.Candidate, operation)
			report.OperationsChecked++
			c.logLookup(label, ct.Name(), operation, lookup)
			if lookup.Found && lookup.Callable {
				continue
			}
			v := violationFor(ct.Name(), operation, lookup)
			report.Violations = append(report.Violations, v)
			c.recorder.RecordViolation(
				string(ct.Name()), operation, string(v.Reason),
			)
		}

		outcome := contract.StatusConformant
		if len(report.Violations) > before {
			outcome = contract.StatusViolating
		}
		c.recorder.RecordCheck(
			string(ct.Name()), outcome, time.Since(contractStart),
		)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(start)

	var firstViolation string
	if v, ok := report.FirstViolation(); ok {
		report.Status = contract.StatusViolating
		firstViolation = v.String()
	}

	c.logCheck(
		checkID, label, contracts,
		report.Status, firstViolation,
		report.OperationsChecked, start,
	)
	if c.collector != nil {
		if report.Conforms() {
			c.collector.EmitCheckPassed(label, report.Duration)
		} else {
			v := report.Violations[0]
			c.collector.EmitCheckFailed(label, v.Contract, v.String())
		}
	}
	return report, nil
}
