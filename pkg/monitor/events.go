package monitor

import (
	"time"

	"digital.vasic.conformance/pkg/contract"
)

// EventType represents the type of conformance event.
type EventType string

const (
	EventCheckStarted       EventType = "check_started"
	EventCheckPassed        EventType = "check_passed"
	EventCheckFailed        EventType = "check_failed"
	EventAuditStarted       EventType = "audit_started"
	EventAuditCompleted     EventType = "audit_completed"
	EventContractRegistered EventType = "contract_registered"
	EventLog                EventType = "log"
)

// Event represents a lifecycle event during conformance
// checking or an audit run.
type Event struct {
	Type      EventType     `json:"type"`
	Subject   string        `json:"subject,omitempty"`
	Contract  contract.Name `json:"contract,omitempty"`
	RunID     string        `json:"run_id,omitempty"`
	Status    string        `json:"status,omitempty"`
	Message   string        `json:"message,omitempty"`
	Violation string        `json:"violation,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
