package env

import (
	"strconv"
	"strings"
)

// Environment variables understood by FrameworkConfigFromEnv.
const (
	EnvReportDir       = "CONFORMANCE_REPORT_DIR"
	EnvHistoryPath     = "CONFORMANCE_HISTORY_PATH"
	EnvMonitorAddr     = "CONFORMANCE_MONITOR_ADDR"
	EnvLogLevel        = "CONFORMANCE_LOG_LEVEL"
	EnvLogPath         = "CONFORMANCE_LOG_PATH"
	EnvVerbose         = "CONFORMANCE_VERBOSE"
	EnvDefinitionPaths = "CONFORMANCE_DEFINITION_PATHS"
)

// FrameworkConfig is the ambient configuration shared by the
// auditor, reporters, and live monitor.
type FrameworkConfig struct {
	// ReportDir is where reporters write their output.
	ReportDir string

	// HistoryPath is the JSONL audit history file. Empty
	// disables history.
	HistoryPath string

	// MonitorAddr is the live monitor's listen address.
	MonitorAddr string

	// LogLevel is the minimum level name ("debug".."error").
	LogLevel string

	// LogPath is the log file path. Empty logs to stdout.
	LogPath string

	// Verbose enables per-lookup debug logging.
	Verbose bool

	// DefinitionPaths are contract definition files or
	// directories to load at startup, comma separated in the
	// environment.
	DefinitionPaths []string
}

// FrameworkConfigFromEnv reads the CONFORMANCE_* variables
// through the given loader.
func FrameworkConfigFromEnv(l Loader) FrameworkConfig {
	return FrameworkConfig{
		ReportDir:       l.GetWithDefault(EnvReportDir, "reports"),
		HistoryPath:     l.Get(EnvHistoryPath),
		MonitorAddr:     l.GetWithDefault(EnvMonitorAddr, ":8080"),
		LogLevel:        l.GetWithDefault(EnvLogLevel, "info"),
		LogPath:         l.Get(EnvLogPath),
		Verbose:         parseBool(l.Get(EnvVerbose)),
		DefinitionPaths: splitPaths(l.Get(EnvDefinitionPaths)),
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func splitPaths(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}
	return paths
}
