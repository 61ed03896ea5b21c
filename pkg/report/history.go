package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"digital.vasic.conformance/pkg/contract"
)

var jsonMarshal = json.Marshal

// HistoricalEntry represents a single conformance check in the
// historical log.
type HistoricalEntry struct {
	Timestamp         time.Time `json:"timestamp"`
	RunID             string    `json:"run_id,omitempty"`
	Subject           string    `json:"subject"`
	Status            string    `json:"status"`
	Duration          string    `json:"duration"`
	Contracts         int       `json:"contracts"`
	Violations        int       `json:"violations"`
	OperationsChecked int       `json:"operations_checked"`
	ReportPath        string    `json:"report_path,omitempty"`
}

// AppendToHistory adds an entry to the historical log stored
// at historyPath. Each entry is a single JSON line.
func AppendToHistory(
	historyPath string,
	report *contract.Report,
	reportPath string,
) error {
	entry := HistoricalEntry{
		Timestamp:         report.EndTime,
		RunID:             report.RunID,
		Subject:           report.Subject,
		Status:            report.Status,
		Duration:          report.Duration.String(),
		Contracts:         len(report.Contracts),
		Violations:        len(report.Violations),
		OperationsChecked: report.OperationsChecked,
		ReportPath:        reportPath,
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf(
			"failed to marshal history entry: %w", err,
		)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}

// ReadHistory loads all entries from the historical log. A
// missing file yields an empty history.
func ReadHistory(historyPath string) ([]HistoricalEntry, error) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(
			"failed to read history file: %w", err,
		)
	}

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var entry HistoricalEntry
		if err := json.Unmarshal([]byte(text), &entry); err != nil {
			return nil, fmt.Errorf(
				"failed to parse history line %d: %w",
				line, err,
			)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(
			"failed to scan history file: %w", err,
		)
	}
	return entries, nil
}
