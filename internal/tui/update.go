package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/applyform/internal/application"
	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/schema"
	"github.com/npratt/applyform/internal/submit"
)

// tickInterval refreshes the lock countdown and expires toasts.
const tickInterval = time.Second

// channelClosedMsg signals that the event channel was closed.
type channelClosedMsg struct{}

// tickMsg signals a periodic tick.
type tickMsg time.Time

// submitResultMsg carries the outcome of a submission command.
type submitResultMsg struct {
	receipt submit.Receipt
	err     error
}

// waitForEvent creates a command that waits for the next event from the channel.
// Returns channelClosedMsg if the channel is closed and nil if there is none.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(event)
	}
}

// doTick creates a command that waits for the tick interval and sends a tickMsg.
func doTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// submitCmd runs the submission off the update loop.
func submitCmd(ctx context.Context, ctrl FormController) tea.Cmd {
	return func() tea.Msg {
		receipt, err := ctrl.Submit(ctx)
		return submitResultMsg{receipt: receipt, err: err}
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.eventChan)

	case channelClosedMsg:
		slog.Info("event channel closed, exiting TUI")
		return m, tea.Quit

	case tickMsg:
		m.expireToasts()
		return m, doTick()

	case submitResultMsg:
		m.submitting = false
		if msg.err == nil {
			m.lastReceipt = msg.receipt.ID
		} else if !errors.Is(msg.err, context.Canceled) {
			slog.Debug("submission not completed", "error", msg.err)
		}
		m.syncStep()
		if m.ctrl.Record().Snapshot().IsZero() {
			m.loadValues()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m.updateFocused(msg)
	}
}

// handleKey processes keyboard input.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit
	}

	// The form is inert while a submission is in flight.
	if m.busy() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Step1):
		return m.goTo(application.StepPersonalInfo)
	case key.Matches(msg, m.keys.Step2):
		return m.goTo(application.StepExperience)
	case key.Matches(msg, m.keys.Step3):
		return m.goTo(application.StepReview)

	case key.Matches(msg, m.keys.Back):
		m.blurValidate()
		_ = m.ctrl.Retreat()
		m.syncStep()
		return m, nil
	}

	if m.onReview() {
		if key.Matches(msg, m.keys.Confirm) {
			return m.startSubmit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Advance):
		return m.advance()

	case key.Matches(msg, m.keys.Confirm):
		if m.focus == len(m.current())-1 {
			return m.advance()
		}
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.moveFocus(-1)
		return m, nil
	}

	if m.focusedPath() == application.FieldYearsOfExperience && !digitsOnly(msg) {
		return m, nil
	}
	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and writes any change back
// to the record.
func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	fs := m.current()
	if len(fs) == 0 {
		return m, nil
	}
	f := &fs[m.focus]

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	after := f.input.Value()
	if after == before {
		return m, cmd
	}

	if err := m.ctrl.Record().Set(f.path, after); err != nil {
		slog.Warn("field update rejected", "field", f.path, "error", err)
		return m, cmd
	}
	if f.err != "" {
		f.err = m.ctrl.Record().ValidateField(f.path)
	}
	return m, cmd
}

// moveFocus validates the field being left and focuses its neighbour.
func (m *model) moveFocus(delta int) {
	m.blurValidate()
	m.focusField(m.focus + delta)
}

// blurValidate refreshes the inline error of the focused field.
func (m *model) blurValidate() {
	fs := m.current()
	if len(fs) == 0 {
		return
	}
	fs[m.focus].err = m.ctrl.Record().ValidateField(fs[m.focus].path)
}

func (m model) advance() (tea.Model, tea.Cmd) {
	errs, err := m.ctrl.Advance()
	if errs != nil {
		m.showErrors(errs)
	}
	if err == nil {
		m.syncStep()
	}
	return m, nil
}

// showErrors replaces the inline errors of the active section.
func (m *model) showErrors(errs schema.Errors) {
	fs := m.current()
	for i := range fs {
		fs[i].err = errs[fs[i].path]
	}
}

func (m model) goTo(step int) (tea.Model, tea.Cmd) {
	m.blurValidate()
	_ = m.ctrl.GoToStep(step)
	m.syncStep()
	return m, nil
}

func (m model) startSubmit() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}
	m.submitting = true
	m.lastReceipt = ""
	return m, tea.Batch(m.spinner.Tick, submitCmd(m.ctx, m.ctrl))
}

// handleEvent turns notifications into toasts and reacts to state changes
// made outside the key handlers.
func (m *model) handleEvent(event events.Event) {
	switch e := event.(type) {
	case *events.NotificationEvent:
		m.toasts = append(m.toasts, toast{
			note:    e.Notification,
			expires: m.now().Add(m.toastDuration),
		})
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
	case *events.StateClearedEvent:
		m.loadValues()
		m.syncStep()
	case *events.StepChangedEvent:
		m.syncStep()
	}
}

// expireToasts drops toasts whose time is up.
func (m *model) expireToasts() {
	now := m.now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m model) focusedPath() application.FieldPath {
	fs := m.current()
	if len(fs) == 0 {
		return ""
	}
	return fs[m.focus].path
}

// digitsOnly reports whether a key press may reach the years input.
func digitsOnly(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return true
	}
	for _, r := range msg.Runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
