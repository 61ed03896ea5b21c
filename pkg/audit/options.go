package audit

import (
	"digital.vasic.conformance/pkg/logging"
	"digital.vasic.conformance/pkg/metrics"
	"digital.vasic.conformance/pkg/monitor"
	"digital.vasic.conformance/pkg/registry"
	"digital.vasic.conformance/pkg/verify"
)

// AuditorOption configures a DefaultAuditor.
type AuditorOption func(*DefaultAuditor)

// WithRegistry sets the contract registry used to resolve
// subject claims.
func WithRegistry(reg registry.Registry) AuditorOption {
	return func(a *DefaultAuditor) {
		a.registry = reg
	}
}

// WithChecker sets the checker performing the aggregate scans.
func WithChecker(c *verify.Checker) AuditorOption {
	return func(a *DefaultAuditor) {
		a.checker = c
	}
}

// WithLogger sets the logger used by the auditor.
func WithLogger(logger logging.Logger) AuditorOption {
	return func(a *DefaultAuditor) {
		a.logger = logger
	}
}

// WithCollector sets the event collector that receives audit
// lifecycle events.
func WithCollector(col *monitor.EventCollector) AuditorOption {
	return func(a *DefaultAuditor) {
		a.collector = col
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) AuditorOption {
	return func(a *DefaultAuditor) {
		a.recorder = rec
	}
}

// WithReportDir sets the directory where per-subject reports
// and run summaries are written. Leaving it empty disables
// report persistence.
func WithReportDir(dir string) AuditorOption {
	return func(a *DefaultAuditor) {
		a.reportDir = dir
	}
}

// WithHistoryPath sets the JSONL file that accumulates one
// entry per checked subject across runs. Leaving it empty
// disables history.
func WithHistoryPath(path string) AuditorOption {
	return func(a *DefaultAuditor) {
		a.historyPath = path
	}
}

// WithPreHook adds a hook invoked before each subject is
// checked.
func WithPreHook(h Hook) AuditorOption {
	return func(a *DefaultAuditor) {
		a.preHooks = append(a.preHooks, h)
	}
}

// WithPostHook adds a hook invoked after each subject is
// checked.
func WithPostHook(h Hook) AuditorOption {
	return func(a *DefaultAuditor) {
		a.postHooks = append(a.postHooks, h)
	}
}

// WithAuditHook sets a test hook that is called after a
// subject's check completes. It can override the report and
// error for testing error handling paths.
// This is intended for testing only.
func WithAuditHook(h AuditHook) AuditorOption {
	return func(a *DefaultAuditor) {
		a.auditHook = h
	}
}
