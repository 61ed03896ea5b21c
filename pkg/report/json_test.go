package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.conformance/pkg/contract"
)

func TestJSONReporter_GenerateReport_Pretty(t *testing.T) {
	r := NewJSONReporter(t.TempDir(), true)
	report := makeTestReport()

	data, err := r.GenerateReport(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  ")
	assert.True(t, json.Valid(data))
}

func TestJSONReporter_GenerateReport_Compact(t *testing.T) {
	r := NewJSONReporter(t.TempDir(), false)
	report := makeTestReport()

	data, err := r.GenerateReport(report)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.NotContains(t, string(data), "\n  ")
}

func TestJSONReporter_GenerateReport_RoundTrip(t *testing.T) {
	r := NewJSONReporter(t.TempDir(), false)
	report := makeTestReport()

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	var decoded contract.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Subject, decoded.Subject)
	assert.Equal(t, report.Status, decoded.Status)
	assert.Len(t, decoded.Violations, 2)
	assert.Equal(
		t, contract.ReasonMissing, decoded.Violations[0].Reason,
	)
}

func TestJSONReporter_GenerateMasterSummary(t *testing.T) {
	r := NewJSONReporter(t.TempDir(), true)
	reports := makeTestReports()

	data, err := r.GenerateMasterSummary(reports)
	require.NoError(t, err)

	var summary jsonMasterSummary
	err = json.Unmarshal(data, &summary)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalSubjects)
	assert.Equal(t, 1, summary.Conformant)
	assert.Equal(t, 1, summary.Violating)
	assert.Equal(t, 1, summary.Errors)
	assert.Len(t, summary.Reports, 3)
}

func TestJSONReporter_WriteReport(t *testing.T) {
	r := NewJSONReporter(t.TempDir(), false)
	report := makeTestReport()

	var buf bytes.Buffer
	err := r.WriteReport(&buf, report)
	require.NoError(t, err)
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestJSONReporter_GenerateMasterSummary_Empty(
	t *testing.T,
) {
	r := NewJSONReporter(t.TempDir(), true)
	var reports []*contract.Report

	data, err := r.GenerateMasterSummary(reports)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestJSONReporter_GenerateMasterSummary_Compact(t *testing.T) {
	r := NewJSONReporter(t.TempDir(), false)
	reports := makeTestReports()

	data, err := r.GenerateMasterSummary(reports)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	// Compact format should not have newlines with indentation
	assert.NotContains(t, string(data), "\n  ")
}

func TestJSONReporter_SaveReport(t *testing.T) {
	dir := t.TempDir()
	r := NewJSONReporter(dir, true)
	report := makeTestReport()

	path, err := r.SaveReport(report)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".json"))
	assert.Contains(t, filepath.Base(path), "vehicle.Car")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestJSONReporter_SaveReport_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	r := NewJSONReporter(dir, false)

	path, err := r.SaveReport(makeTestReport())
	require.NoError(t, err)
	assert.FileExists(t, path)
}
