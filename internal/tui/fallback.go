package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/npratt/applyform/internal/application"
	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/form"
	"github.com/npratt/applyform/internal/review"
)

// clearToken entered at a line prompt empties the field.
const clearToken = "-"

// isTerminal returns true if both stdout and stdin are TTYs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// terminalSize returns the current terminal width and height.
// Returns 0, 0 if the terminal size cannot be determined.
func terminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return width, height
}

// TerminalTooSmall reports whether the terminal is below the size the form
// needs. It is false when the size is unknown.
func TerminalTooSmall() bool {
	width, height := terminalSize()
	if width == 0 && height == 0 {
		return false
	}
	return width < minWidth || height < minHeight
}

// lineRunner walks the form one prompt per line.
type lineRunner struct {
	ctrl      FormController
	eventChan <-chan events.Event
	scanner   *bufio.Scanner
	out       io.Writer
}

// runLine drives the same controller as the full-screen form from plain
// line input. Empty input keeps a field's value and "-" clears it. Returns
// nil on end of input, after a successful submission, or on cancellation.
func (t *TUI) runLine(ctx context.Context, in io.Reader, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	lr := &lineRunner{
		ctrl:      t.ctrl,
		eventChan: t.eventChan,
		scanner:   bufio.NewScanner(in),
		out:       out,
	}
	lr.flush()

	for ctx.Err() == nil {
		step := lr.ctrl.Step()
		labels := lr.ctrl.StepLabels()
		fmt.Fprintf(lr.out, "\n== %s (%d/%d) ==\n", labels[step], step+1, len(labels))

		section, editing := application.StepSection(step)
		if !editing {
			done, err := lr.reviewStep(ctx)
			if done || err != nil {
				return err
			}
			continue
		}

		if !lr.editSection(section) {
			return nil
		}
		if _, err := lr.ctrl.Advance(); err != nil {
			lr.flush()
			if lr.ctrl.Locked() {
				if err := lr.waitUnlock(ctx); err != nil {
					return nil
				}
			}
			continue
		}
		lr.flush()
	}
	return nil
}

// editSection prompts for every field of section. Returns false at end of input.
func (lr *lineRunner) editSection(section application.Section) bool {
	rec := lr.ctrl.Record()
	for _, path := range application.SectionFields[section] {
		current, _ := rec.Get(path)
		prompt := review.Labels[path]
		if current != "" {
			prompt += " [" + current + "]"
		}
		for {
			answer, ok := lr.prompt(prompt + ": ")
			if !ok {
				return false
			}
			if applied := lr.apply(rec, path, answer); applied {
				break
			}
		}
		if msg := rec.ValidateField(path); msg != "" {
			fmt.Fprintf(lr.out, "  ! %s\n", msg)
		}
	}
	return true
}

// apply writes one answer to the record. Returns false when the answer must
// be asked again.
func (lr *lineRunner) apply(rec *form.Record, path application.FieldPath, answer string) bool {
	switch answer {
	case "":
		return true
	case clearToken:
		answer = ""
	}
	if err := rec.Set(path, answer); err != nil {
		if errors.Is(err, form.ErrNotInteger) {
			fmt.Fprintln(lr.out, "  ! Introduce un número entero")
			return false
		}
		fmt.Fprintf(lr.out, "  ! %v\n", err)
	}
	return true
}

// reviewStep shows the summary and asks what to do. done is true once the
// session should end.
func (lr *lineRunner) reviewStep(ctx context.Context) (done bool, err error) {
	fmt.Fprint(lr.out, review.Build(lr.ctrl.Record().Snapshot()).Text())

	answer, ok := lr.prompt("[e]nviar, [a]nterior, [s]alir: ")
	if !ok {
		return true, nil
	}
	switch strings.ToLower(answer) {
	case "e", "enviar":
		fmt.Fprintln(lr.out, captionSubmitting)
		receipt, err := lr.ctrl.Submit(ctx)
		lr.flush()
		if err != nil {
			return ctx.Err() != nil, nil
		}
		fmt.Fprintf(lr.out, "Recibo: %s\n", receipt.ID)
		return true, nil
	case "a", "anterior":
		if err := lr.ctrl.Retreat(); err != nil {
			lr.flush()
		}
	case "s", "salir":
		return true, nil
	}
	return false, nil
}

// waitUnlock blocks until the lockout ends or ctx is done.
func (lr *lineRunner) waitUnlock(ctx context.Context) error {
	remaining := lr.ctrl.LockRemaining()
	fmt.Fprintf(lr.out, "Esperando %s...\n", remaining.Round(time.Second))

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for lr.ctrl.Locked() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	lr.flush()
	return nil
}

func (lr *lineRunner) prompt(text string) (string, bool) {
	fmt.Fprint(lr.out, text)
	if !lr.scanner.Scan() {
		fmt.Fprintln(lr.out)
		return "", false
	}
	return strings.TrimSpace(lr.scanner.Text()), true
}

// flush prints the notifications waiting on the event channel.
func (lr *lineRunner) flush() {
	if lr.eventChan == nil {
		return
	}
	for {
		select {
		case event, ok := <-lr.eventChan:
			if !ok {
				lr.eventChan = nil
				return
			}
			if n, isNote := event.(*events.NotificationEvent); isNote {
				fmt.Fprintf(lr.out, "» %s\n", events.Format(n))
			}
		default:
			return
		}
	}
}
