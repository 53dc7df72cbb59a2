package tui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/applyform/internal/config"
	"github.com/npratt/applyform/internal/controller"
	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Form.LockoutDuration = 200 * time.Millisecond
	cfg.Submission.Delay = 10 * time.Millisecond
	return cfg
}

// newTestController returns a controller wired to a router, plus a
// subscription on that router.
func newTestController(t *testing.T, cfg *config.Config) (*controller.Controller, <-chan events.Event) {
	t.Helper()
	router := events.NewRouter(100)
	ch := router.Subscribe()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := controller.New(cfg, storage.NewMemoryStore(), nil, router, logger)
	t.Cleanup(func() {
		ctrl.Close()
		router.Close()
	})
	return ctrl, ch
}

// newTestModel returns a sized model over a fresh controller.
func newTestModel(t *testing.T) (model, *controller.Controller) {
	t.Helper()
	ctrl, _ := newTestController(t, testConfig())
	m := newModel(t.Context(), ctrl, nil, nil, time.Second)
	m.width, m.height = 80, 40
	return m, ctrl
}

func press(m model, msg tea.KeyMsg) model {
	next, _ := m.handleKey(msg)
	return next.(model)
}

func typeText(m model, s string) model {
	for _, r := range s {
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyAdvance  = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyBack     = tea.KeyMsg{Type: tea.KeyCtrlB}
	keyF1       = tea.KeyMsg{Type: tea.KeyF1}
	keyF2       = tea.KeyMsg{Type: tea.KeyF2}
	keyF3       = tea.KeyMsg{Type: tea.KeyF3}
	keyCtrlC    = tea.KeyMsg{Type: tea.KeyCtrlC}
)

// fillSection types values into the fields of the active step, tabbing
// between them.
func fillSection(m model, values ...string) model {
	for i, v := range values {
		m = typeText(m, v)
		if i < len(values)-1 {
			m = press(m, keyTab)
		}
	}
	return m
}
