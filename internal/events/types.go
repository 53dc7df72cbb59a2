// Package events defines the events applyform emits while an application is
// filled in, together with the router that fans them out to the terminal UI
// and the activity log.
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

// Event types.
const (
	// Notification events are the user-visible toasts.
	EventNotification EventType = "notification"

	// Navigation events
	EventStepChanged EventType = "step.changed"

	// Validation and lockout events
	EventValidationFailed EventType = "validation.failed"
	EventLockoutStart     EventType = "lockout.start"
	EventLockoutEnd       EventType = "lockout.end"

	// Submission events
	EventSubmissionStart EventType = "submission.start"
	EventSubmissionEnd   EventType = "submission.end"

	// Persistence events
	EventStateRestored EventType = "state.restored"
	EventStateCleared  EventType = "state.cleared"
)

// Source constants identify the origin of events.
const (
	SourceController = "controller"
	SourceCLI        = "cli"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// Level is the tone of a notification.
type Level string

// Notification levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is the payload accepted by the notification sink.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       Level  `json:"level"`
}

// NotificationEvent carries a fire-and-forget notification.
type NotificationEvent struct {
	BaseEvent
	Notification
}

// StepChangedEvent is emitted whenever the active step changes.
type StepChangedEvent struct {
	BaseEvent
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label"`
	// Via is "advance", "retreat", "goto" or "reset".
	Via string `json:"via"`
}

// ValidationFailedEvent is emitted when an advance is rejected by validation.
type ValidationFailedEvent struct {
	BaseEvent
	Step    int               `json:"step"`
	Attempt int               `json:"attempt"`
	Limit   int               `json:"limit"`
	Fields  map[string]string `json:"fields"`
}

// LockoutStartEvent is emitted when repeated failures lock the form.
type LockoutStartEvent struct {
	BaseEvent
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
	Until    time.Time     `json:"until"`
}

// LockoutEndEvent is emitted when the lockout timer releases the form.
type LockoutEndEvent struct {
	BaseEvent
}

// SubmissionStartEvent is emitted when the busy flag is raised.
type SubmissionStartEvent struct {
	BaseEvent
}

// SubmissionEndEvent is emitted after the submission settles, before the
// busy flag is cleared.
type SubmissionEndEvent struct {
	BaseEvent
	Success    bool   `json:"success"`
	ReceiptID  string `json:"receipt_id,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// StateRestoredEvent is emitted when saved data seeds a new controller.
type StateRestoredEvent struct {
	BaseEvent
	Key string `json:"key"`
}

// StateClearedEvent is emitted when the saved application is discarded.
type StateClearedEvent struct {
	BaseEvent
	Key string `json:"key"`
}

// NewEvent creates a BaseEvent with the given type and source, timestamped now.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewControllerEvent creates a BaseEvent originating from the form controller.
func NewControllerEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceController)
}

// NewNotification creates a notification event from the controller.
func NewNotification(level Level, title, description string) *NotificationEvent {
	return &NotificationEvent{
		BaseEvent: NewControllerEvent(EventNotification),
		Notification: Notification{
			Title:       title,
			Description: description,
			Level:       level,
		},
	}
}
