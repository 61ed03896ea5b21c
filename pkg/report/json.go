package report

import (
	"encoding/json"
	"io"
	"time"

	"digital.vasic.conformance/pkg/contract"
)

// Marshal hooks are variables for testing purposes.
var (
	jsonReportMarshal       = json.Marshal
	jsonReportMarshalIndent = json.MarshalIndent
)

// JSONReporter generates JSON reports from conformance
// results.
type JSONReporter struct {
	outputDir string
	pretty    bool
}

// NewJSONReporter creates a new JSON reporter writing into
// outputDir. When pretty is true, output is indented for
// readability.
func NewJSONReporter(
	outputDir string,
	pretty bool,
) *JSONReporter {
	return &JSONReporter{
		outputDir: outputDir,
		pretty:    pretty,
	}
}

// GenerateReport creates a JSON report for a single subject.
func (r *JSONReporter) GenerateReport(
	report *contract.Report,
) ([]byte, error) {
	if r.pretty {
		return jsonReportMarshalIndent(report, "", "  ")
	}
	return jsonReportMarshal(report)
}

// jsonMasterSummary is the JSON shape of a whole-run summary.
type jsonMasterSummary struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	TotalSubjects int                `json:"total_subjects"`
	Conformant    int                `json:"conformant"`
	Violating     int                `json:"violating"`
	Errors        int                `json:"errors"`
	TotalDuration time.Duration      `json:"total_duration"`
	Reports       []*contract.Report `json:"reports"`
}

// GenerateMasterSummary creates a JSON summary of all checked
// subjects.
func (r *JSONReporter) GenerateMasterSummary(
	reports []*contract.Report,
) ([]byte, error) {
	summary := jsonMasterSummary{
		GeneratedAt:   time.Now(),
		TotalSubjects: len(reports),
		Reports:       reports,
	}

	for _, rep := range reports {
		switch rep.Status {
		case contract.StatusConformant:
			summary.Conformant++
		case contract.StatusViolating:
			summary.Violating++
		default:
			summary.Errors++
		}
		summary.TotalDuration += rep.Duration
	}

	if r.pretty {
		return jsonReportMarshalIndent(summary, "", "  ")
	}
	return jsonReportMarshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	report *contract.Report,
) error {
	data, err := r.GenerateReport(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveReport writes the report into the reporter's output
// directory and returns the written path.
func (r *JSONReporter) SaveReport(
	report *contract.Report,
) (string, error) {
	data, err := r.GenerateReport(report)
	if err != nil {
		return "", err
	}
	return saveReportFile(r.outputDir, report, data, "json")
}
