package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.conformance/pkg/contract"
)

// MarkdownReporter generates Markdown reports from conformance
// results.
type MarkdownReporter struct {
	outputDir string
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(outputDir string) *MarkdownReporter {
	return &MarkdownReporter{outputDir: outputDir}
}

// GenerateReport creates a Markdown report for a single
// subject.
func (r *MarkdownReporter) GenerateReport(
	report *contract.Report,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a Markdown report to the specified
// writer.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	report *contract.Report,
) error {
	fmt.Fprintf(
		w,
		"# Conformance Report: %s\n\n",
		report.Subject,
	)
	if report.RunID != "" {
		fmt.Fprintf(
			w, "**Run ID:** %s\n\n", report.RunID,
		)
	}
	fmt.Fprintf(
		w,
		"**Status:** %s\n\n",
		strings.ToUpper(report.Status),
	)
	fmt.Fprintf(
		w,
		"**Generated:** %s\n\n",
		report.EndTime.Format(time.RFC3339),
	)

	if len(report.Contracts) > 0 {
		fmt.Fprintf(w, "## Contracts\n\n")
		fmt.Fprintf(w, "| Contract | Violations |\n")
		fmt.Fprintf(w, "|----------|------------|\n")
		for _, name := range report.Contracts {
			fmt.Fprintf(
				w,
				"| %s | %d |\n",
				name, len(report.ViolationsFor(name)),
			)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(report.Violations) > 0 {
		fmt.Fprintf(w, "## Violations\n\n")
		fmt.Fprintf(
			w,
			"| Contract | Operation | Reason | Detail |\n",
		)
		fmt.Fprintf(
			w,
			"|----------|-----------|--------|--------|\n",
		)
		for _, v := range report.Violations {
			detail := v.Detail
			if detail == "" {
				detail = "-"
			}
			fmt.Fprintf(
				w,
				"| %s | `%s` | %s | %s |\n",
				v.Contract, v.Operation,
				v.Reason, detail,
			)
		}
		fmt.Fprintf(w, "\n")
	}

	if report.Error != "" {
		fmt.Fprintf(
			w, "**Error:** %s\n\n", report.Error,
		)
	}

	fmt.Fprintf(
		w,
		"**Operations Checked:** %d\n\n",
		report.OperationsChecked,
	)
	fmt.Fprintf(
		w, "**Duration:** %v\n", report.Duration,
	)
	return nil
}

// GenerateMasterSummary creates a Markdown summary of all
// checked subjects.
func (r *MarkdownReporter) GenerateMasterSummary(
	reports []*contract.Report,
) ([]byte, error) {
	summary := BuildMasterSummary(reports)
	return []byte(generateSummaryMarkdown(summary)), nil
}

// SaveReport writes the report into the reporter's output
// directory and returns the written path.
func (r *MarkdownReporter) SaveReport(
	report *contract.Report,
) (string, error) {
	data, err := r.GenerateReport(report)
	if err != nil {
		return "", err
	}
	return saveReportFile(r.outputDir, report, data, "md")
}
