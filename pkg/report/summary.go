package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"digital.vasic.conformance/pkg/contract"
)

var jsonMarshalIndent = json.MarshalIndent

// MasterSummary represents an aggregated summary of all
// subjects checked in one audit run.
type MasterSummary struct {
	ID              string           `json:"id"`
	RunID           string           `json:"run_id,omitempty"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Subjects        []SubjectSummary `json:"subjects"`
	TotalSubjects   int              `json:"total_subjects"`
	Conformant      int              `json:"conformant"`
	Violating       int              `json:"violating"`
	Errors          int              `json:"errors"`
	TotalViolations int              `json:"total_violations"`
	TotalDuration   time.Duration    `json:"total_duration"`
	ConformanceRate float64          `json:"conformance_rate"`
}

// SubjectSummary represents a summary of a single checked
// subject.
type SubjectSummary struct {
	Subject           string          `json:"subject"`
	Status            string          `json:"status"`
	Contracts         []contract.Name `json:"contracts,omitempty"`
	Violations        int             `json:"violations"`
	OperationsChecked int             `json:"operations_checked"`
	Duration          time.Duration   `json:"duration"`
	FirstViolation    string          `json:"first_violation,omitempty"`
	ReportPath        string          `json:"report_path,omitempty"`
}

// BuildMasterSummary creates a master summary from conformance
// reports. The summary carries the run ID of the first report
// that has one.
func BuildMasterSummary(
	reports []*contract.Report,
) *MasterSummary {
	summary := &MasterSummary{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		Subjects: make(
			[]SubjectSummary, 0, len(reports),
		),
	}

	for _, r := range reports {
		ss := SubjectSummary{
			Subject:           r.Subject,
			Status:            r.Status,
			Contracts:         r.Contracts,
			Violations:        len(r.Violations),
			OperationsChecked: r.OperationsChecked,
			Duration:          r.Duration,
		}
		if v, ok := r.FirstViolation(); ok {
			ss.FirstViolation = v.String()
		}

		summary.Subjects = append(summary.Subjects, ss)
		summary.TotalSubjects++
		summary.TotalViolations += len(r.Violations)
		summary.TotalDuration += r.Duration

		if summary.RunID == "" && r.RunID != "" {
			summary.RunID = r.RunID
		}

		switch r.Status {
		case contract.StatusConformant:
			summary.Conformant++
		case contract.StatusViolating:
			summary.Violating++
		default:
			summary.Errors++
		}
	}

	if summary.TotalSubjects > 0 {
		summary.ConformanceRate =
			float64(summary.Conformant) /
				float64(summary.TotalSubjects)
	}

	return summary
}

// SaveMasterSummary saves the master summary to both JSON and
// Markdown files in the given output directory.
func SaveMasterSummary(
	summary *MasterSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.json", ts),
	)
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf(
			"failed to marshal summary: %w", err,
		)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.md", ts),
	)
	mdContent := generateSummaryMarkdown(summary)
	if err := os.WriteFile(
		mdPath, []byte(mdContent), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// generateSummaryMarkdown creates markdown from a master
// summary.
func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString(
		"# Conformance Audit - Master Summary\n\n",
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Summary ID:** %s\n\n", summary.ID,
		),
	)
	if summary.RunID != "" {
		sb.WriteString(
			fmt.Sprintf(
				"**Run ID:** %s\n\n", summary.RunID,
			),
		)
	}
	sb.WriteString(
		fmt.Sprintf(
			"**Generated:** %s\n\n",
			summary.GeneratedAt.Format(time.RFC3339),
		),
	)

	sb.WriteString("## Overview\n\n")
	sb.WriteString(
		"| Subject | Status | Duration " +
			"| Violations |\n",
	)
	sb.WriteString(
		"|---------|--------|----------" +
			"|------------|\n",
	)

	for _, s := range summary.Subjects {
		status := strings.ToUpper(s.Status)
		sb.WriteString(
			fmt.Sprintf(
				"| %s | %s | %v | %d |\n",
				s.Subject, status,
				s.Duration, s.Violations,
			),
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(
		fmt.Sprintf(
			"| Total Subjects | %d |\n",
			summary.TotalSubjects,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Conformant | %d |\n", summary.Conformant,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Violating | %d |\n", summary.Violating,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Errors | %d |\n", summary.Errors,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Total Violations | %d |\n",
			summary.TotalViolations,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Conformance Rate | %.0f%% |\n",
			summary.ConformanceRate*100,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Total Duration | %v |\n",
			summary.TotalDuration,
		),
	)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by Conformance Framework*\n")

	return sb.String()
}
