// Package metrics provides instrumentation for the conformance
// framework. The Recorder interface decouples the checker from
// the backend; in-memory and Prometheus implementations are
// provided.
package metrics

import (
	"sync"
	"time"
)

// Recorder defines the interface for recording conformance
// metrics.
type Recorder interface {
	// RecordCheck records a completed conformance check.
	RecordCheck(contract, outcome string, duration time.Duration)
	// RecordViolation records a single broken requirement.
	RecordViolation(contract, operation, reason string)
	// IncRunTotal increments the audit run counter.
	IncRunTotal()
	// SetRegisteredContracts sets the registered contracts gauge.
	SetRegisteredContracts(count int)
	// SetActiveAudits sets the gauge of in-flight audits.
	SetActiveAudits(count int)
}

// NoopRecorder is a no-op implementation of Recorder useful for
// testing or when metrics collection is disabled.
type NoopRecorder struct{}

func (NoopRecorder) RecordCheck(_, _ string, _ time.Duration) {}
func (NoopRecorder) RecordViolation(_, _, _ string)           {}
func (NoopRecorder) IncRunTotal()                             {}
func (NoopRecorder) SetRegisteredContracts(_ int)             {}
func (NoopRecorder) SetActiveAudits(_ int)                    {}

// MemoryRecorder implements Recorder with in-memory counters.
// It is safe for concurrent use and exposes accessors so tests
// and reports can read the recorded values back.
type MemoryRecorder struct {
	mu         sync.Mutex
	checks     map[string]int
	violations map[string]int
	durations  map[string][]time.Duration
	runTotal   int
	registered int
	active     int
}

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		checks:     make(map[string]int),
		violations: make(map[string]int),
		durations:  make(map[string][]time.Duration),
	}
}

func (m *MemoryRecorder) RecordCheck(
	contract, outcome string, duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[contract+":"+outcome]++
	m.durations[contract] = append(m.durations[contract], duration)
}

func (m *MemoryRecorder) RecordViolation(
	contract, operation, reason string,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.violations[contract+":"+operation+":"+reason]++
}

func (m *MemoryRecorder) IncRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runTotal++
}

func (m *MemoryRecorder) SetRegisteredContracts(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = count
}

func (m *MemoryRecorder) SetActiveAudits(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// CheckCount returns the count for a contract+outcome
// combination.
func (m *MemoryRecorder) CheckCount(contract, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks[contract+":"+outcome]
}

// ViolationCount returns the count for a
// contract+operation+reason combination.
func (m *MemoryRecorder) ViolationCount(
	contract, operation, reason string,
) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.violations[contract+":"+operation+":"+reason]
}

// Durations returns the recorded check durations for a contract.
func (m *MemoryRecorder) Durations(contract string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.durations[contract]))
	copy(out, m.durations[contract])
	return out
}

// RunTotal returns the total number of audit runs.
func (m *MemoryRecorder) RunTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runTotal
}

// RegisteredContracts returns the registered contracts gauge.
func (m *MemoryRecorder) RegisteredContracts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered
}

// ActiveAudits returns the current in-flight audits gauge.
func (m *MemoryRecorder) ActiveAudits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
