// Package event defines the asynchronous boundary between the supervision
// engine and any presentation layer. The supervisor and stream pumps publish
// events through a Sink; the TUI (or any other consumer) subscribes through
// the Bus. Delivery is fire-and-forget: a dropped event never blocks or
// fails a supervision operation.
package event

import "time"

// Topics published by the supervision engine.
const (
	TopicStatusChanged = "status-changed"
	TopicLogAppended   = "log-appended"
	TopicCrashed       = "crashed"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns the topic identifier for this event.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Sink is the abstract publish capability consumed by the supervisor and
// stream pumps. Implementations must be safe for concurrent use and must
// never block the caller for long; delivery is best-effort.
type Sink interface {
	Publish(Event)
}

// NopSink discards all events. It is the default sink when no presentation
// layer is attached, so the hot path never nil-checks its publisher.
type NopSink struct{}

// Publish discards the event.
func (NopSink) Publish(Event) {}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// StatusChangedEvent is emitted whenever a supervised process transitions
// between states, in the order the transitions occur.
type StatusChangedEvent struct {
	baseEvent
	ProjectID string // Project whose process changed state
	Status    string // New status, lowercase ("stopped", "running", ...)
}

// NewStatusChangedEvent creates a StatusChangedEvent.
func NewStatusChangedEvent(projectID, status string) StatusChangedEvent {
	return StatusChangedEvent{
		baseEvent: newBaseEvent(TopicStatusChanged),
		ProjectID: projectID,
		Status:    status,
	}
}

// LogAppendedEvent is emitted for every line added to a process's
// scrollback: child output, echoed input, and supervisor notices alike.
type LogAppendedEvent struct {
	baseEvent
	ProjectID string // Project the line belongs to
	Line      string // Timestamped log line as stored in the buffer
}

// NewLogAppendedEvent creates a LogAppendedEvent.
func NewLogAppendedEvent(projectID, line string) LogAppendedEvent {
	return LogAppendedEvent{
		baseEvent: newBaseEvent(TopicLogAppended),
		ProjectID: projectID,
		Line:      line,
	}
}

// CrashedEvent is emitted when a supervised process exits with a nonzero
// code while Running. RestartCount is the crash ordinal (previous respawn
// count plus one); WillRestart reports the restart-policy decision.
type CrashedEvent struct {
	baseEvent
	ProjectID    string
	RestartCount uint32
	WillRestart  bool
}

// NewCrashedEvent creates a CrashedEvent.
func NewCrashedEvent(projectID string, restartCount uint32, willRestart bool) CrashedEvent {
	return CrashedEvent{
		baseEvent:    newBaseEvent(TopicCrashed),
		ProjectID:    projectID,
		RestartCount: restartCount,
		WillRestart:  willRestart,
	}
}
