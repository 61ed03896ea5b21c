// Package logging provides structured logging for the
// conformance framework with JSON, console, and
// multi-destination output.
package logging

// Logger defines the interface for structured conformance
// logging.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning message.
	Warn(msg string, fields ...Field)

	// Error logs an error message.
	Error(msg string, fields ...Field)

	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// WithFields returns a Logger with additional default
	// fields attached to every subsequent log entry.
	WithFields(fields ...Field) Logger

	// LogCheck writes one structured record per conformance
	// check to the dedicated check log.
	LogCheck(check CheckLog)

	// Close flushes any buffers and releases resources.
	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// CheckLog captures the outcome of a single conformance check.
type CheckLog struct {
	Timestamp         string   `json:"timestamp"`
	CheckID           string   `json:"check_id,omitempty"`
	Subject           string   `json:"subject"`
	Contracts         []string `json:"contracts"`
	Status            string   `json:"status"`
	FirstViolation    string   `json:"first_violation,omitempty"`
	OperationsChecked int      `json:"operations_checked"`
	DurationMs        int64    `json:"duration_ms"`
}

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn indicates potential issues.
	LevelWarn
	// LevelError indicates failures.
	LevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
