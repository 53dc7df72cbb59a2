package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/applyform/internal/application"
	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/review"
)

const (
	minWidth  = 60
	minHeight = 20

	// maxToasts is how many notifications are stacked at once.
	maxToasts = 3
	// inputWidth is the visible width of a text field.
	inputWidth = 36
)

// field is one editable input bound to a record path.
type field struct {
	path  application.FieldPath
	label string
	input textinput.Model
	// err is the inline error currently displayed, empty when none.
	err string
}

// toast is a notification shown until it expires.
type toast struct {
	note    events.Notification
	expires time.Time
}

// model is the bubbletea model for the form.
type model struct {
	ctx       context.Context
	ctrl      FormController
	eventChan <-chan events.Event
	onQuit    func()

	// step is the step the fields were last synced for.
	step   int
	fields map[application.Section][]field
	focus  int

	toasts        []toast
	toastDuration time.Duration

	// submitting is raised when a submission is dispatched, before the
	// controller's own flag is visible from the command goroutine.
	submitting  bool
	lastReceipt string

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width  int
	height int

	now func() time.Time
}

// eventMsg wraps an event for the bubbletea message system.
type eventMsg events.Event

func newModel(ctx context.Context, ctrl FormController, eventChan <-chan events.Event, onQuit func(), toastDuration time.Duration) model {
	if ctx == nil {
		ctx = context.Background()
	}
	if toastDuration <= 0 {
		toastDuration = DefaultToastDuration
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := model{
		ctx:           ctx,
		ctrl:          ctrl,
		eventChan:     eventChan,
		onQuit:        onQuit,
		step:          ctrl.Step(),
		fields:        make(map[application.Section][]field),
		toastDuration: toastDuration,
		keys:          defaultKeyMap(),
		help:          help.New(),
		spinner:       sp,
		now:           time.Now,
	}
	for _, section := range []application.Section{application.SectionPersonalInfo, application.SectionExperience} {
		for _, path := range application.SectionFields[section] {
			m.fields[section] = append(m.fields[section], newField(path))
		}
	}
	m.loadValues()
	m.focusField(0)
	return m
}

func newField(path application.FieldPath) field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Width = inputWidth
	ti.CharLimit = 256
	ti.Placeholder = placeholders[path]
	if path == application.FieldYearsOfExperience {
		ti.CharLimit = 3
	}
	return field{
		path:  path,
		label: review.Labels[path],
		input: ti,
	}
}

// placeholders hint at the expected input of each field.
var placeholders = map[application.FieldPath]string{
	application.FieldFullName:          "Nombre y apellidos",
	application.FieldEmail:             "correo@ejemplo.com",
	application.FieldPhone:             "+34 600 000 000",
	application.FieldPortfolioURL:      "https://... (opcional)",
	application.FieldCurrentRole:       "Desarrollador",
	application.FieldYearsOfExperience: "0",
	application.FieldSkills:            "React, Go, SQL",
	application.FieldCompany:           "Nombre de la compañía",
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.eventChan),
		doTick(),
		textinput.Blink,
	)
}

// loadValues copies the record into every input and clears inline errors.
func (m *model) loadValues() {
	rec := m.ctrl.Record()
	for section, fs := range m.fields {
		for i := range fs {
			v, err := rec.Get(fs[i].path)
			if err != nil {
				continue
			}
			fs[i].input.SetValue(v)
			fs[i].err = ""
		}
		m.fields[section] = fs
	}
}

// current returns the fields of the active step, nil on review.
func (m model) current() []field {
	section, ok := application.StepSection(m.step)
	if !ok {
		return nil
	}
	return m.fields[section]
}

// focusField moves focus to field i of the active step.
func (m *model) focusField(i int) {
	section, ok := application.StepSection(m.step)
	if !ok {
		return
	}
	fs := m.fields[section]
	if len(fs) == 0 {
		return
	}
	if i < 0 {
		i = len(fs) - 1
	}
	if i >= len(fs) {
		i = 0
	}
	for j := range fs {
		if j == i {
			fs[j].input.Focus()
		} else {
			fs[j].input.Blur()
		}
	}
	m.focus = i
}

// syncStep picks up a step change made by the controller.
func (m *model) syncStep() {
	step := m.ctrl.Step()
	if step == m.step {
		return
	}
	m.blurAll()
	m.step = step
	m.focusField(0)
}

func (m *model) blurAll() {
	for _, fs := range m.fields {
		for i := range fs {
			fs[i].input.Blur()
		}
	}
}

// busy reports whether a submission is in flight.
func (m model) busy() bool {
	return m.submitting || m.ctrl.Submitting()
}

// onReview reports whether the review step is active.
func (m model) onReview() bool {
	return m.step == application.StepReview
}
