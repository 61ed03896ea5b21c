// Package audit provides the batch verification engine. It
// checks many subjects against their claimed contracts with
// sequential and parallel execution modes, lifecycle hooks,
// and optional report persistence.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"digital.vasic.conformance/pkg/contract"
	"digital.vasic.conformance/pkg/logging"
	"digital.vasic.conformance/pkg/metrics"
	"digital.vasic.conformance/pkg/monitor"
	"digital.vasic.conformance/pkg/registry"
	"digital.vasic.conformance/pkg/report"
	"digital.vasic.conformance/pkg/verify"
)

// Auditor defines the interface for batch conformance
// verification.
type Auditor interface {
	// Run checks a single subject against its claimed
	// contracts.
	Run(
		ctx context.Context,
		subject contract.Subject,
	) (*contract.Report, error)

	// RunAll checks all subjects sequentially, in the given
	// order.
	RunAll(
		ctx context.Context,
		subjects []contract.Subject,
	) ([]*contract.Report, error)

	// RunParallel checks subjects concurrently with the given
	// concurrency limit.
	RunParallel(
		ctx context.Context,
		subjects []contract.Subject,
		maxConcurrency int,
	) ([]*contract.Report, error)
}

// AuditHook allows testing of error paths in auditSubject. It
// is called after auditSubject completes and can override the
// returned report and error. This is only intended for testing.
type AuditHook func(
	subject contract.Subject,
	rep *contract.Report,
	err error,
) (*contract.Report, error)

// Hook is a function invoked before or after a subject is
// checked. Pre-hooks receive the report shell that will carry
// the outcome; post-hooks receive the finished report.
type Hook func(
	ctx context.Context,
	subject contract.Subject,
	rep *contract.Report,
) error

// DefaultAuditor is the standard Auditor implementation.
type DefaultAuditor struct {
	registry    registry.Registry
	checker     *verify.Checker
	logger      logging.Logger
	collector   *monitor.EventCollector
	recorder    metrics.Recorder
	reporter    *report.JSONReporter
	reportDir   string
	historyPath string
	preHooks    []Hook
	postHooks   []Hook
	auditHook   AuditHook // test hook for auditSubject errors
}

// NewAuditor creates a DefaultAuditor with the supplied
// options. When no checker is given, one is built sharing the
// auditor's logger, recorder, and collector.
func NewAuditor(opts ...AuditorOption) *DefaultAuditor {
	a := &DefaultAuditor{
		registry: registry.Default,
		logger:   logging.NullLogger{},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.checker == nil {
		copts := []verify.CheckerOption{
			verify.WithLogger(a.logger),
			verify.WithRecorder(a.recorder),
		}
		if a.collector != nil {
			copts = append(
				copts, verify.WithCollector(a.collector),
			)
		}
		a.checker = verify.NewChecker(copts...)
	}

	if a.reportDir != "" {
		a.reporter = report.NewJSONReporter(a.reportDir, true)
	}

	return a
}

// Run checks a single subject against its claimed contracts.
func (a *DefaultAuditor) Run(
	ctx context.Context,
	subject contract.Subject,
) (*contract.Report, error) {
	runID := uuid.NewString()
	a.recorder.IncRunTotal()
	a.emitAuditStarted(runID, 1)

	rep, err := a.auditSubject(ctx, subject, runID)
	if err != nil {
		return rep, err
	}

	a.emitAuditCompleted(runID, []*contract.Report{rep})
	return rep, nil
}

// RunAll checks all subjects sequentially, in the given order.
// Context cancellation is honored between subjects; a check in
// flight always finishes.
func (a *DefaultAuditor) RunAll(
	ctx context.Context,
	subjects []contract.Subject,
) ([]*contract.Report, error) {
	runID := uuid.NewString()
	a.recorder.IncRunTotal()
	a.recorder.SetActiveAudits(1)
	defer a.recorder.SetActiveAudits(0)

	a.emitAuditStarted(runID, len(subjects))

	var reports []*contract.Report
	for _, s := range subjects {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		rep, execErr := a.auditSubject(ctx, s, runID)
		if execErr != nil {
			return reports, fmt.Errorf(
				"subject %s failed: %w",
				s.DisplayLabel(), execErr,
			)
		}

		reports = append(reports, rep)
	}

	a.saveSummary(reports)
	a.emitAuditCompleted(runID, reports)
	return reports, nil
}

// RunParallel checks the given subjects concurrently using at
// most maxConcurrency goroutines. It delegates to the parallel
// audit implementation.
func (a *DefaultAuditor) RunParallel(
	ctx context.Context,
	subjects []contract.Subject,
	maxConcurrency int,
) ([]*contract.Report, error) {
	runID := uuid.NewString()
	a.recorder.IncRunTotal()
	a.emitAuditStarted(runID, len(subjects))

	reports, err := runParallel(
		ctx, a, subjects, runID, maxConcurrency,
	)
	if err != nil {
		return reports, err
	}

	a.saveSummary(reports)
	a.emitAuditCompleted(runID, reports)
	return reports, nil
}

// auditSubject checks a single subject through its full
// lifecycle: resolve claims -> pre-hooks -> aggregate check ->
// post-hooks -> persistence. Failures along the way are mapped
// into the report's status, not returned as Go errors.
func (a *DefaultAuditor) auditSubject(
	ctx context.Context,
	subject contract.Subject,
	runID string,
) (*contract.Report, error) {
	label := subject.DisplayLabel()
	rep := &contract.Report{
		RunID:     runID,
		Subject:   label,
		Contracts: subject.Claims,
		StartTime: time.Now(),
	}

	a.logEvent("audit_subject_started",
		logging.StringField("subject", label),
		logging.IntField("claims", len(subject.Claims)),
	)

	// Resolve claimed contracts from the registry.
	if len(subject.Claims) == 0 {
		return a.failSubject(
			rep, "subject claims no contracts",
		)
	}

	contracts := make(
		[]contract.Contract, 0, len(subject.Claims),
	)
	for _, name := range subject.Claims {
		ct, err := a.registry.Get(name)
		if err != nil {
			return a.failSubject(rep, fmt.Sprintf(
				"failed to resolve claim %s: %v", name, err,
			))
		}
		contracts = append(contracts, ct)
	}

	// Pre-hooks.
	for _, hook := range a.preHooks {
		if err := hook(ctx, subject, rep); err != nil {
			return a.failSubject(rep, fmt.Sprintf(
				"pre-hook failed: %v", err,
			))
		}
	}

	// Aggregate check. A misuse error (nil candidate) is
	// mapped into the report status like any other failure.
	checked, checkErr := a.checker.AuditSubject(
		subject, contracts...,
	)
	if checkErr != nil {
		return a.failSubject(rep, checkErr.Error())
	}

	checked.RunID = runID
	rep = checked

	// Post-hooks.
	for _, hook := range a.postHooks {
		if err := hook(ctx, subject, rep); err != nil {
			a.logEvent("post_hook_warning",
				logging.StringField("subject", label),
				logging.StringField("warning", err.Error()),
			)
		}
	}

	a.logEvent("audit_subject_completed",
		logging.StringField("subject", label),
		logging.StringField("status", rep.Status),
		logging.DurationField("duration", rep.Duration),
	)

	a.persist(rep)

	// Apply test hook if set.
	if a.auditHook != nil {
		return a.auditHook(subject, rep, nil)
	}

	return rep, nil
}

// failSubject finalizes a report for a failure that happened
// outside checking itself.
func (a *DefaultAuditor) failSubject(
	rep *contract.Report,
	msg string,
) (*contract.Report, error) {
	rep.Status = contract.StatusError
	rep.Error = msg
	rep.EndTime = time.Now()
	rep.Duration = rep.EndTime.Sub(rep.StartTime)

	a.logEvent("audit_subject_error",
		logging.StringField("subject", rep.Subject),
		logging.StringField("error", msg),
	)
	a.persist(rep)
	return rep, nil
}

// persist writes the report file and history entry when the
// auditor is configured for them. Persistence failures are
// logged as warnings, never surfaced as audit failures.
func (a *DefaultAuditor) persist(rep *contract.Report) {
	var reportPath string

	if a.reporter != nil {
		path, err := a.reporter.SaveReport(rep)
		if err != nil {
			a.logEvent("report_write_warning",
				logging.StringField("subject", rep.Subject),
				logging.StringField("warning", err.Error()),
			)
		} else {
			reportPath = path
		}
	}

	if a.historyPath != "" {
		err := report.AppendToHistory(
			a.historyPath, rep, reportPath,
		)
		if err != nil {
			a.logEvent("history_write_warning",
				logging.StringField("subject", rep.Subject),
				logging.StringField("warning", err.Error()),
			)
		}
	}
}

// saveSummary writes a master summary next to the per-subject
// reports after a multi-subject run.
func (a *DefaultAuditor) saveSummary(
	reports []*contract.Report,
) {
	if a.reportDir == "" || len(reports) == 0 {
		return
	}

	summary := report.BuildMasterSummary(reports)
	if err := report.SaveMasterSummary(
		summary, a.reportDir,
	); err != nil {
		a.logEvent("summary_write_warning",
			logging.StringField("warning", err.Error()),
		)
	}
}

func (a *DefaultAuditor) emitAuditStarted(
	runID string,
	subjects int,
) {
	if a.collector == nil {
		return
	}
	a.collector.Emit(monitor.Event{
		Type:    monitor.EventAuditStarted,
		RunID:   runID,
		Message: fmt.Sprintf("%d subjects", subjects),
	})
}

func (a *DefaultAuditor) emitAuditCompleted(
	runID string,
	reports []*contract.Report,
) {
	if a.collector == nil {
		return
	}

	status := contract.StatusConformant
	var total time.Duration
	for _, rep := range reports {
		total += rep.Duration
		switch rep.Status {
		case contract.StatusError:
			status = contract.StatusError
		case contract.StatusViolating:
			if status != contract.StatusError {
				status = contract.StatusViolating
			}
		}
	}

	a.collector.Emit(monitor.Event{
		Type:     monitor.EventAuditCompleted,
		RunID:    runID,
		Status:   status,
		Duration: total,
		Message: fmt.Sprintf(
			"%d subjects checked", len(reports),
		),
	})
}

// logEvent emits a structured log entry.
func (a *DefaultAuditor) logEvent(
	event string,
	fields ...logging.Field,
) {
	if a.logger == nil {
		return
	}
	a.logger.Info(event, fields...)
}
