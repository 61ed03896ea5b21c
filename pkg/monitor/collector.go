package monitor

import (
	"sync"
	"time"

	"digital.vasic.conformance/pkg/contract"
)

// EventCollector captures conformance events and timing data.
type EventCollector struct {
	mu       sync.RWMutex
	events   []Event
	handlers []func(Event)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Audits    int           `json:"audits"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]Event, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.stats.Total++
	switch event.Type {
	case EventCheckPassed:
		c.stats.Passed++
	case EventCheckFailed:
		c.stats.Failed++
	case EventAuditCompleted:
		c.stats.Audits++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitCheckStarted emits a check started event.
func (c *EventCollector) EmitCheckStarted(subject string) {
	c.Emit(Event{
		Type:      EventCheckStarted,
		Subject:   subject,
		Timestamp: time.Now(),
	})
}

// EmitCheckPassed emits a check passed event.
func (c *EventCollector) EmitCheckPassed(
	subject string, duration time.Duration,
) {
	c.Emit(Event{
		Type:      EventCheckPassed,
		Subject:   subject,
		Status:    "conformant",
		Duration:  duration,
		Timestamp: time.Now(),
	})
}

// EmitCheckFailed emits a check failed event carrying the first
// violation.
func (c *EventCollector) EmitCheckFailed(
	subject string, name contract.Name, violation string,
) {
	c.Emit(Event{
		Type:      EventCheckFailed,
		Subject:   subject,
		Contract:  name,
		Status:    "violating",
		Violation: violation,
		Timestamp: time.Now(),
	})
}

// EmitContractRegistered emits a contract registered event.
func (c *EventCollector) EmitContractRegistered(name contract.Name) {
	c.Emit(Event{
		Type:      EventContractRegistered,
		Contract:  name,
		Timestamp: time.Now(),
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
