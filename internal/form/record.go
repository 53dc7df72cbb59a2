// Package form provides the observable record that binds the section views to
// the canonical application state.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/npratt/applyform/internal/application"
	"github.com/npratt/applyform/internal/schema"
)

var (
	// ErrUnknownField is returned for a path that names no field.
	ErrUnknownField = errors.New("unknown field")
	// ErrNotInteger is returned when a numeric field receives non-numeric input.
	ErrNotInteger = errors.New("value is not an integer")
)

// Listener is called with a copy of the state after every change.
type Listener func(application.State)

// Record is a mutable application state with change subscribers.
// It is safe for concurrent use; listeners run outside the lock in the
// goroutine that made the change.
type Record struct {
	mu        sync.RWMutex
	state     application.State
	listeners map[int]Listener
	nextID    int
}

// NewRecord creates a record seeded with the given state.
func NewRecord(initial application.State) *Record {
	return &Record{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the full state.
func (r *Record) Snapshot() application.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

// PersonalInfo returns the personal information section.
func (r *Record) PersonalInfo() application.PersonalInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.PersonalInfo
}

// Experience returns a copy of the experience section.
func (r *Record) Experience() application.Experience {
	return r.Snapshot().Experience
}

// Get returns the editable text of a field.
func (r *Record) Get(path application.FieldPath) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, e := &r.state.PersonalInfo, &r.state.Experience
	switch path {
	case application.FieldFullName:
		return p.FullName, nil
	case application.FieldEmail:
		return p.Email, nil
	case application.FieldPhone:
		return p.Phone, nil
	case application.FieldPortfolioURL:
		return p.PortfolioURL, nil
	case application.FieldCurrentRole:
		return e.CurrentRole, nil
	case application.FieldYearsOfExperience:
		if e.YearsOfExperience == nil {
			return "", nil
		}
		return strconv.Itoa(*e.YearsOfExperience), nil
	case application.FieldSkills:
		return application.FormatSkills(e.Skills), nil
	case application.FieldCompany:
		return e.Company, nil
	}
	return "", fmt.Errorf("get %q: %w", path, ErrUnknownField)
}

// Set writes one field from its text form, leaving every other field intact.
// Listeners are notified only when the stored value actually changes.
func (r *Record) Set(path application.FieldPath, value string) error {
	r.mu.Lock()
	before := r.state.Clone()

	p, e := &r.state.PersonalInfo, &r.state.Experience
	switch path {
	case application.FieldFullName:
		p.FullName = value
	case application.FieldEmail:
		p.Email = value
	case application.FieldPhone:
		p.Phone = value
	case application.FieldPortfolioURL:
		p.PortfolioURL = value
	case application.FieldCurrentRole:
		e.CurrentRole = value
	case application.FieldYearsOfExperience:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			e.YearsOfExperience = nil
			break
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			r.mu.Unlock()
			return fmt.Errorf("set %q to %q: %w", path, value, ErrNotInteger)
		}
		e.YearsOfExperience = application.Years(n)
	case application.FieldSkills:
		e.Skills = application.ParseSkills(value)
	case application.FieldCompany:
		e.Company = value
	default:
		r.mu.Unlock()
		return fmt.Errorf("set %q: %w", path, ErrUnknownField)
	}

	changed := !reflect.DeepEqual(before, r.state)
	after := r.state.Clone()
	listeners := r.listenersLocked()
	r.mu.Unlock()

	if changed {
		notify(listeners, after)
	}
	return nil
}

// Replace swaps the whole state, as when restoring saved data.
func (r *Record) Replace(s application.State) {
	r.mu.Lock()
	r.state = s.Clone()
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, s.Clone())
}

// Validate validates one section of the current state.
func (r *Record) Validate(section application.Section) schema.Errors {
	return schema.ValidateSection(r.Snapshot(), section)
}

// ValidateField validates a single field of the current state.
func (r *Record) ValidateField(path application.FieldPath) string {
	return schema.ValidateField(r.Snapshot(), path)
}

// Subscribe registers a listener and returns a function that removes it.
func (r *Record) Subscribe(fn Listener) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

func (r *Record) listenersLocked() []Listener {
	out := make([]Listener, 0, len(r.listeners))
	for _, fn := range r.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []Listener, s application.State) {
	for _, fn := range listeners {
		fn(s.Clone())
	}
}
