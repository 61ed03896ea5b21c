package monitor

import (
	"sync"
	"time"

	"digital.vasic.conformance/pkg/contract"
)

// DashboardData provides a real-time snapshot of conformance
// checking state, keyed by subject label.
type DashboardData struct {
	mu        sync.RWMutex
	RunID     string                  `json:"run_id"`
	StartTime time.Time               `json:"start_time"`
	Status    string                  `json:"status"` // running, completed, failed
	Subjects  map[string]SubjectState `json:"subjects"`
	Summary   DashboardSummary        `json:"summary"`
}

// SubjectState represents the current state of one checked
// subject in the dashboard.
type SubjectState struct {
	Subject   string        `json:"subject"`
	Contract  contract.Name `json:"contract,omitempty"`
	Status    string        `json:"status"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Violation string        `json:"violation,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Running  int     `json:"running"`
	Pending  int     `json:"pending"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// NewDashboardData creates a new dashboard data instance.
func NewDashboardData(runID string) *DashboardData {
	return &DashboardData{
		RunID:     runID,
		StartTime: time.Now(),
		Status:    "running",
		Subjects:  make(map[string]SubjectState),
	}
}

// UpdateFromEvent updates dashboard state from a conformance
// event. Events without a subject (audit lifecycle, contract
// registration, logs) leave the per-subject map untouched.
func (d *DashboardData) UpdateFromEvent(event Event) {
	if event.Subject == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	state, exists := d.Subjects[event.Subject]
	if !exists {
		state = SubjectState{
			Subject: event.Subject,
		}
	}
	if event.Contract != "" {
		state.Contract = event.Contract
	}

	switch event.Type {
	case EventCheckStarted:
		state.Status = "running"
		state.StartTime = &now
	case EventCheckPassed:
		state.Status = "passed"
		state.EndTime = &now
		state.Duration = event.Duration
	case EventCheckFailed:
		state.Status = "failed"
		state.EndTime = &now
		state.Violation = event.Violation
	}

	d.Subjects[event.Subject] = state
	d.recalcSummary()
}

func (d *DashboardData) recalcSummary() {
	s := DashboardSummary{}
	for _, sub := range d.Subjects {
		s.Total++
		switch sub.Status {
		case "passed":
			s.Passed++
		case "failed":
			s.Failed++
		case "running":
			s.Running++
		default:
			s.Pending++
		}
	}
	if completed := s.Passed + s.Failed; completed > 0 {
		s.PassRate = float64(s.Passed) / float64(completed) * 100
	}
	s.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
	d.Summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() DashboardData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := DashboardData{
		RunID:     d.RunID,
		StartTime: d.StartTime,
		Status:    d.Status,
		Summary:   d.Summary,
	}
	snap.Subjects = make(map[string]SubjectState, len(d.Subjects))
	for k, v := range d.Subjects {
		snap.Subjects[k] = v
	}
	return snap
}

// SetStatus sets the overall run status.
func (d *DashboardData) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Status = status
}

// BuildDashboardData creates a DashboardData snapshot from an
// EventCollector by replaying all collected events.
func BuildDashboardData(
	collector *EventCollector,
) *DashboardData {
	data := NewDashboardData("snapshot")
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
