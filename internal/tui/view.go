package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/review"
)

// Button captions.
const (
	captionBack       = "Anterior"
	captionNext       = "Siguiente"
	captionSubmit     = "Enviar"
	captionSubmitting = "Enviando..."
)

// segmentWidth is the width of one progress indicator segment.
const segmentWidth = 16

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Cargando..."
	}
	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	sections := []string{
		m.renderProgress(),
		m.renderTitle(),
	}
	if banner := m.renderLockBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, "", m.renderBody(), "", m.renderButtons())
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, "", toasts)
	}
	sections = append(sections, "", m.renderFooter())

	content := strings.Join(sections, "\n")
	rendered := styles.Container.
		Width(safeWidth(m.width - 2)).
		Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, rendered)
}

// renderProgress draws one segment per step, filled up to the active one.
func (m model) renderProgress() string {
	labels := m.ctrl.StepLabels()
	segments := make([]string, len(labels))
	for i := range labels {
		style := styles.SegmentPending
		if i <= m.step {
			style = styles.SegmentDone
		}
		segments[i] = style.Render(strings.Repeat("━", segmentWidth))
	}
	return strings.Join(segments, " ")
}

func (m model) renderTitle() string {
	labels := m.ctrl.StepLabels()
	count := styles.StepCount.Render(fmt.Sprintf("Paso %d de %d", m.step+1, len(labels)))
	return styles.Title.Render(labels[m.step]) + "  " + count
}

// renderLockBanner shows the lockout countdown, empty when unlocked.
func (m model) renderLockBanner() string {
	if !m.ctrl.Locked() {
		return ""
	}
	secs := int(math.Ceil(m.ctrl.LockRemaining().Seconds()))
	return styles.LockBanner.Render(fmt.Sprintf(
		"Formulario bloqueado: %d/%d intentos fallidos. Espera %ds.",
		m.ctrl.FailedAttempts(), m.ctrl.ErrorLimit(), secs))
}

func (m model) renderBody() string {
	if m.onReview() {
		return m.renderReview()
	}
	return m.renderFields()
}

func (m model) renderFields() string {
	var lines []string
	for i, f := range m.current() {
		label := styles.Label
		marker := "  "
		if i == m.focus {
			label = styles.LabelFocused
			marker = "› "
		}
		lines = append(lines, marker+label.Render(f.label)+": "+f.input.View())
		if f.err != "" {
			lines = append(lines, "    "+styles.FieldError.Render(f.err))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderReview() string {
	r := review.Build(m.ctrl.Record().Snapshot())
	var lines []string
	for i, s := range r.Sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.Section.Render(s.Title))
		for _, row := range s.Rows {
			value := styles.Value.Render(row.Value)
			if row.Missing {
				value = styles.Placeholder.Render(row.Value)
			}
			lines = append(lines, "  "+styles.Label.Render(row.Label)+": "+value)
		}
	}
	if m.lastReceipt != "" {
		lines = append(lines, "", styles.Receipt.Render("Recibo: "+m.lastReceipt))
	}
	return strings.Join(lines, "\n")
}

// renderButtons draws the navigation controls; they render disabled while
// the form is locked or a submission is in flight.
func (m model) renderButtons() string {
	locked, busy := m.ctrl.Locked(), m.busy()
	disabled := locked || busy

	var parts []string
	if m.step > 0 {
		parts = append(parts, button(captionBack, styles.Button, disabled))
	}
	if m.onReview() {
		if busy {
			parts = append(parts, m.spinner.View()+" "+styles.ButtonDisabled.Render(captionSubmitting))
		} else {
			parts = append(parts, button(captionSubmit, styles.ButtonSubmit, false))
		}
	} else {
		parts = append(parts, button(captionNext, styles.ButtonPrimary, disabled))
	}
	return strings.Join(parts, "  ")
}

func button(caption string, style lipgloss.Style, disabled bool) string {
	if disabled {
		return styles.ButtonDisabled.Render(caption)
	}
	return style.Render(caption)
}

func (m model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	var out []string
	for _, t := range m.toasts {
		style := styles.Toast.Inherit(toastStyle(t.note.Level))
		body := styles.ToastTitle.Render(t.note.Title)
		if t.note.Description != "" {
			body += "\n" + t.note.Description
		}
		out = append(out, style.Render(body))
	}
	return strings.Join(out, "\n")
}

func toastStyle(level events.Level) lipgloss.Style {
	switch level {
	case events.LevelSuccess:
		return styles.ToastSuccess
	case events.LevelWarning:
		return styles.ToastWarning
	case events.LevelError:
		return styles.ToastError
	default:
		return styles.ToastInfo
	}
}

func (m model) renderFooter() string {
	k := m.keys
	k.forStep(m.step, m.onReview(), m.ctrl.Locked(), m.busy())
	return styles.Footer.Render(m.help.View(k))
}

func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal demasiado pequeña (%dx%d).\nMínimo: %dx%d", m.width, m.height, minWidth, minHeight)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// safeWidth ensures width is non-negative.
func safeWidth(w int) int {
	if w < 0 {
		return 0
	}
	return w
}
