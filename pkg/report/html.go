package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"digital.vasic.conformance/pkg/contract"
)

// HTMLReporter generates HTML reports from conformance
// results.
type HTMLReporter struct {
	outputDir string
}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter(outputDir string) *HTMLReporter {
	return &HTMLReporter{outputDir: outputDir}
}

// GenerateReport creates an HTML report for a single subject.
func (r *HTMLReporter) GenerateReport(
	report *contract.Report,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	report *contract.Report,
) error {
	r.writeHeader(w, "Conformance Report: "+report.Subject)

	fmt.Fprintf(
		w,
		"<h1>Conformance Report: %s</h1>\n",
		html.EscapeString(report.Subject),
	)
	if report.RunID != "" {
		fmt.Fprintf(
			w,
			"<p><strong>Run ID:</strong> %s</p>\n",
			html.EscapeString(report.RunID),
		)
	}
	fmt.Fprintf(
		w,
		"<p><strong>Generated:</strong> %s</p>\n",
		report.EndTime.Format(time.RFC3339),
	)

	r.writeSummaryTable(w, report)
	r.writeContractsSection(w, report)
	r.writeViolationsSection(w, report)

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeSummaryTable(
	w io.Writer,
	report *contract.Report,
) {
	statusClass := "status-conformant"
	if !report.Conforms() {
		statusClass = "status-violating"
	}

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Status</td><td class=\"%s\">"+
			"<strong>%s</strong></td></tr>\n",
		statusClass, strings.ToUpper(report.Status),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Start Time</td><td>%s</td></tr>\n",
		report.StartTime.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"<tr><td>End Time</td><td>%s</td></tr>\n",
		report.EndTime.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Duration</td><td>%v</td></tr>\n",
		report.Duration,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Operations Checked</td><td>%d</td></tr>\n",
		report.OperationsChecked,
	)

	if report.Error != "" {
		fmt.Fprintf(
			w,
			"<tr><td>Error</td>"+
				"<td class=\"status-violating\">%s</td></tr>\n",
			html.EscapeString(report.Error),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeContractsSection(
	w io.Writer,
	report *contract.Report,
) {
	if len(report.Contracts) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Contracts</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Contract</th><th>Result</th>"+
			"<th>Violations</th></tr>",
	)

	for _, name := range report.Contracts {
		violations := report.ViolationsFor(name)
		resultStr := "Conformant"
		cls := "status-conformant"
		if len(violations) > 0 {
			resultStr = "Violating"
			cls = "status-violating"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%d</td></tr>\n",
			html.EscapeString(string(name)),
			cls, resultStr,
			len(violations),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeViolationsSection(
	w io.Writer,
	report *contract.Report,
) {
	if len(report.Violations) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Violations</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Contract</th><th>Operation</th>"+
			"<th>Reason</th><th>Detail</th></tr>",
	)

	for _, v := range report.Violations {
		detail := v.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td>"+
				"<td><code>%s</code></td>"+
				"<td class=\"status-violating\">%s</td>"+
				"<td>%s</td></tr>\n",
			html.EscapeString(string(v.Contract)),
			html.EscapeString(v.Operation),
			html.EscapeString(string(v.Reason)),
			html.EscapeString(detail),
		)
	}

	fmt.Fprintln(w, "</table>")
}

// GenerateMasterSummary creates an HTML summary of all checked
// subjects.
func (r *HTMLReporter) GenerateMasterSummary(
	reports []*contract.Report,
) ([]byte, error) {
	var buf bytes.Buffer

	r.writeHeader(
		&buf, "Conformance Audit - Master Summary",
	)

	fmt.Fprintln(
		&buf,
		"<h1>Conformance Audit - Master Summary</h1>",
	)
	fmt.Fprintf(
		&buf,
		"<p><strong>Generated:</strong> %s</p>\n",
		time.Now().Format(time.RFC3339),
	)

	r.writeMasterOverview(&buf, reports)
	r.writeMasterStats(&buf, reports)
	r.writeMasterDetails(&buf, reports)
	r.writeFooter(&buf)

	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeMasterOverview(
	w io.Writer,
	reports []*contract.Report,
) {
	fmt.Fprintln(w, "<h2>Overview</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Subject</th><th>Status</th>"+
			"<th>Duration</th><th>Violations</th>"+
			"<th>Checked At</th></tr>",
	)

	for _, report := range reports {
		cls := "status-conformant"
		if !report.Conforms() {
			cls = "status-violating"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%v</td><td>%d</td><td>%s</td></tr>\n",
			html.EscapeString(report.Subject),
			cls, strings.ToUpper(report.Status),
			report.Duration,
			len(report.Violations),
			report.EndTime.Format("2006-01-02 15:04:05"),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeMasterStats(
	w io.Writer,
	reports []*contract.Report,
) {
	conformant := 0
	violating := 0
	errored := 0
	totalViolations := 0
	totalDuration := time.Duration(0)
	for _, rep := range reports {
		switch rep.Status {
		case contract.StatusConformant:
			conformant++
		case contract.StatusViolating:
			violating++
		default:
			errored++
		}
		totalViolations += len(rep.Violations)
		totalDuration += rep.Duration
	}

	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Total Subjects</td>"+
			"<td>%d</td></tr>\n",
		len(reports),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Conformant</td><td>%d</td></tr>\n",
		conformant,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Violating</td><td>%d</td></tr>\n",
		violating,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Errors</td><td>%d</td></tr>\n",
		errored,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Total Violations</td>"+
			"<td>%d</td></tr>\n",
		totalViolations,
	)

	if len(reports) > 0 {
		pct := float64(conformant) /
			float64(len(reports)) * 100
		fmt.Fprintf(
			w,
			"<tr><td>Conformance Rate</td>"+
				"<td>%.0f%%</td></tr>\n",
			pct,
		)
	}

	fmt.Fprintf(
		w,
		"<tr><td>Total Duration</td>"+
			"<td>%v</td></tr>\n",
		totalDuration,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeMasterDetails(
	w io.Writer,
	reports []*contract.Report,
) {
	fmt.Fprintln(w, "<h2>Subject Details</h2>")

	for _, report := range reports {
		fmt.Fprintf(
			w,
			"<h3>%s</h3>\n",
			html.EscapeString(report.Subject),
		)
		fmt.Fprintf(
			w,
			"<p><strong>Status:</strong> %s</p>\n",
			strings.ToUpper(report.Status),
		)
		fmt.Fprintf(
			w,
			"<p><strong>Duration:</strong> %v</p>\n",
			report.Duration,
		)

		if v, ok := report.FirstViolation(); ok {
			fmt.Fprintf(
				w,
				"<p><strong>First Violation:</strong>"+
					" <code>%s</code></p>\n",
				html.EscapeString(v.String()),
			)
		}

		if report.Error != "" {
			fmt.Fprintf(
				w,
				"<p><strong>Error:</strong> %s</p>\n",
				html.EscapeString(report.Error),
			)
		}
	}
}

// SaveReport writes the report into the reporter's output
// directory and returns the written path.
func (r *HTMLReporter) SaveReport(
	report *contract.Report,
) (string, error) {
	data, err := r.GenerateReport(report)
	if err != nil {
		return "", err
	}
	return saveReportFile(r.outputDir, report, data, "html")
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
h3 { color: #34495e; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-conformant { color: #27ae60; font-weight: bold; }
.status-violating { color: #e74c3c; font-weight: bold; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(
		w, "<p>Generated by Conformance Framework</p>",
	)
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
