package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/npratt/applyform/internal/events"
)

// Recorder is an events.Emitter that keeps every event for inspection.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit records event.
func (r *Recorder) Emit(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns recorded events of the given type, in order.
func (r *Recorder) OfType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range r.Events() {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// Notifications returns recorded notifications, in order.
func (r *Recorder) Notifications() []events.Notification {
	var out []events.Notification
	for _, e := range r.Events() {
		if n, ok := e.(*events.NotificationEvent); ok {
			out = append(out, n.Notification)
		}
	}
	return out
}

// NotificationsTitled returns recorded notifications with the given title.
func (r *Recorder) NotificationsTitled(title string) []events.Notification {
	var out []events.Notification
	for _, n := range r.Notifications() {
		if n.Title == title {
			out = append(out, n)
		}
	}
	return out
}

// Reset discards everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// WaitFor polls cond until it returns true or timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
