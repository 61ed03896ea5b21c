package verify

import (
	"digital.vasic.conformance/pkg/inspect"
	"digital.vasic.conformance/pkg/logging"
	"digital.vasic.conformance/pkg/metrics"
	"digital.vasic.conformance/pkg/monitor"
)

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithInspector sets the member inspector used for lookups.
func WithInspector(ins inspect.Inspector) CheckerOption {
	return func(c *Checker) {
		c.inspector = ins
	}
}

// WithLogger sets the logger used by the checker.
func WithLogger(logger logging.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithRecorder sets the metrics recorder used by the checker.
func WithRecorder(rec metrics.Recorder) CheckerOption {
	return func(c *Checker) {
		c.recorder = rec
	}
}

// WithCollector sets the event collector that receives check
// lifecycle events.
func WithCollector(col *monitor.EventCollector) CheckerOption {
	return func(c *Checker) {
		c.collector = col
	}
}
