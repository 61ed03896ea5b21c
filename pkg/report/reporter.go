// Package report provides report generation for conformance
// results.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"digital.vasic.conformance/pkg/contract"
)

// Reporter defines the interface for rendering conformance
// reports.
type Reporter interface {
	// GenerateReport renders a report for a single checked
	// subject.
	GenerateReport(report *contract.Report) ([]byte, error)

	// GenerateMasterSummary renders a summary of a whole
	// audit run.
	GenerateMasterSummary(
		reports []*contract.Report,
	) ([]byte, error)

	// WriteReport writes a rendered report to the specified
	// writer.
	WriteReport(w io.Writer, report *contract.Report) error
}

// safeFileName converts a subject label into a filesystem-safe
// file name fragment.
func safeFileName(label string) string {
	var sb strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "subject"
	}
	return sb.String()
}

// saveReportFile writes rendered report data into dir under a
// subject-derived name and returns the written path.
func saveReportFile(
	dir string,
	report *contract.Report,
	data []byte,
	ext string,
) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	name := fmt.Sprintf(
		"%s_%s.%s",
		safeFileName(report.Subject),
		report.EndTime.Format("20060102_150405"),
		ext,
	)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf(
			"failed to write report: %w", err,
		)
	}
	return path, nil
}
