// Package tui runs the application form in the terminal using bubbletea, with
// a line-by-line prompt mode for non-interactive input.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/form"
	"github.com/npratt/applyform/internal/schema"
	"github.com/npratt/applyform/internal/submit"
)

// FormController is the part of the form controller the terminal drives.
type FormController interface {
	Record() *form.Record
	Step() int
	StepLabels() []string
	Locked() bool
	LockRemaining() time.Duration
	FailedAttempts() int
	ErrorLimit() int
	Submitting() bool

	GoToStep(n int) error
	Advance() (schema.Errors, error)
	Retreat() error
	Submit(ctx context.Context) (submit.Receipt, error)
}

// DefaultToastDuration is how long a notification stays on screen.
const DefaultToastDuration = 4 * time.Second

// TUI is the terminal front end of the application form.
type TUI struct {
	ctrl          FormController
	eventChan     <-chan events.Event
	onQuit        func()
	toastDuration time.Duration
	altScreen     bool

	// Line mode is used when set, or when stdin/stdout is not a terminal.
	lineIn  io.Reader
	lineOut io.Writer
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI driving ctrl.
func New(ctrl FormController, opts ...Option) *TUI {
	t := &TUI{
		ctrl:          ctrl,
		toastDuration: DefaultToastDuration,
		altScreen:     true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithEvents sets the channel notifications and state changes arrive on.
func WithEvents(ch <-chan events.Event) Option {
	return func(t *TUI) {
		t.eventChan = ch
	}
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// WithToastDuration sets how long notifications stay visible.
func WithToastDuration(d time.Duration) Option {
	return func(t *TUI) {
		if d > 0 {
			t.toastDuration = d
		}
	}
}

// WithAltScreen chooses whether the program takes over the alternate screen.
func WithAltScreen(on bool) Option {
	return func(t *TUI) {
		t.altScreen = on
	}
}

// WithLineMode forces the line prompt mode on the given streams.
func WithLineMode(in io.Reader, out io.Writer) Option {
	return func(t *TUI) {
		t.lineIn = in
		t.lineOut = out
	}
}

// Run starts the form and blocks until the user quits, submits in line mode,
// or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	if t.lineIn != nil {
		return t.runLine(ctx, t.lineIn, t.lineOut)
	}
	if !isTerminal() {
		return t.runLine(ctx, os.Stdin, os.Stdout)
	}

	m := newModel(ctx, t.ctrl, t.eventChan, t.onQuit, t.toastDuration)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
