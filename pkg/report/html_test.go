package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.conformance/pkg/contract"
)

func TestHTMLReporter_GenerateReport_Content(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>")
	assert.Contains(t, content, "vehicle.Car")
	assert.Contains(t, content, "VIOLATING")
	assert.Contains(t, content, "status-violating")
	assert.Contains(t, content, "Movable")
	assert.Contains(t, content, "not_callable")
	assert.Contains(t, content, "</html>")
	assert.Contains(t, content, "Conformance Framework")
}

func TestHTMLReporter_GenerateReport_Conformant(
	t *testing.T,
) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()
	report.Status = contract.StatusConformant
	report.Violations = nil

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "CONFORMANT")
	assert.NotContains(t, content, "<h2>Violations</h2>")
}

func TestHTMLReporter_GenerateReport_Error(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()
	report.Status = contract.StatusError
	report.Error = "contract not found: Phantom"

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "status-violating")
	assert.Contains(t, content, "contract not found: Phantom")
}

func TestHTMLReporter_WriteReport(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()

	var buf bytes.Buffer
	err := r.WriteReport(&buf, report)
	require.NoError(t, err)
	assert.True(
		t, strings.HasPrefix(buf.String(), "<!DOCTYPE"),
	)
}

func TestHTMLReporter_GenerateMasterSummary(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	reports := makeTestReports()

	data, err := r.GenerateMasterSummary(reports)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "Master Summary")
	assert.Contains(t, content, "vehicle.Car")
	assert.Contains(t, content, "vehicle.Bicycle")
	assert.Contains(t, content, "vehicle.Ghost")
	assert.Contains(t, content, "Statistics")
	assert.Contains(t, content, "33%")
}

func TestHTMLReporter_EscapesHTML(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()
	report.Subject = "<script>alert('xss')</script>"

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "<script>")
	assert.Contains(t, content, "&lt;script&gt;")
}

func TestHTMLReporter_NoContracts(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()
	report.Contracts = nil

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "<h2>Contracts</h2>")
}

func TestHTMLReporter_NoViolations(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()
	report.Violations = nil

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "<h2>Violations</h2>")
}

func TestHTMLReporter_ViolationWithEmptyDetail(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())
	report := makeTestReport()
	// The first fixture violation carries no detail text.

	data, err := r.GenerateReport(report)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "<td>-</td>")
}

func TestHTMLReporter_SaveReport(t *testing.T) {
	r := NewHTMLReporter(t.TempDir())

	path, err := r.SaveReport(makeTestReport())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".html"))
	assert.FileExists(t, path)
}
