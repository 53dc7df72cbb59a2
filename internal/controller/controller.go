// Package controller owns the application's navigation, validation lockout
// and submission state, and mirrors every change of the form into storage.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/npratt/applyform/internal/application"
	"github.com/npratt/applyform/internal/config"
	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/form"
	"github.com/npratt/applyform/internal/schema"
	"github.com/npratt/applyform/internal/storage"
	"github.com/npratt/applyform/internal/submit"
)

// Errors returned by controller transitions.
var (
	ErrLocked             = errors.New("form is locked")
	ErrValidation         = errors.New("section has invalid fields")
	ErrNoNextStep         = errors.New("already on the last step")
	ErrInvalidStep        = errors.New("step out of range")
	ErrNotOnReview        = errors.New("submission is only available on the review step")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrIncomplete         = errors.New("application is incomplete")
	ErrClosed             = errors.New("controller is closed")
)

// Notification titles.
const (
	TitleValidation = "Error de validación"
	TitleLocked     = "Formulario bloqueado"
	TitleSuccess    = "Éxito"
	TitleFailure    = "Error"
	TitleIncomplete = "Formulario incompleto"
)

// Notification descriptions that carry no values.
const (
	DescSuccess = "El formulario se envió correctamente."
	DescFailure = "Hubo un problema al enviar el formulario."
)

// Controller drives the three-step application. It is safe for concurrent
// use; the lockout release runs on its own timer goroutine.
type Controller struct {
	form      config.FormConfig
	key       string
	record    *form.Record
	store     storage.Store
	submitter submit.Submitter
	emitter   events.Emitter
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	step        int
	failed      int
	locked      bool
	lockUntil   time.Time
	lockTimer   *time.Timer
	submitting  bool
	closed      bool
	unsubscribe func()

	// pending holds events queued under mu; they are emitted by unlock.
	pending []events.Event
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for lockout deadlines.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a Controller. A non-empty saved application in store seeds the
// record. Nil dependencies fall back to an in-memory store, the simulated
// submitter, a discarding emitter and the default logger.
func New(cfg *config.Config, store storage.Store, submitter submit.Submitter, emitter events.Emitter, logger *slog.Logger, opts ...Option) *Controller {
	if cfg == nil {
		cfg = config.Default()
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if submitter == nil {
		submitter = submit.NewSimulated(cfg.Submission.Delay)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		form:      cfg.Form,
		key:       cfg.Storage.Key,
		store:     store,
		submitter: submitter,
		emitter:   emitter,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	initial, restored := store.Load()
	c.record = form.NewRecord(initial)
	if restored {
		c.logger.Info("restored saved application", "key", c.key)
		c.emit(&events.StateRestoredEvent{
			BaseEvent: events.NewControllerEvent(events.EventStateRestored),
			Key:       c.key,
		})
	}
	c.unsubscribe = c.record.Subscribe(c.persist)
	return c
}

// Record returns the form record the section views bind to.
func (c *Controller) Record() *form.Record {
	return c.record
}

// Step returns the active step index.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// StepLabels returns the display label of each step.
func (c *Controller) StepLabels() []string {
	return application.StepLabels[:]
}

// Locked reports whether navigation is currently rejected.
func (c *Controller) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked
}

// LockRemaining returns how long the current lockout has left, or zero.
func (c *Controller) LockRemaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked()
}

// FailedAttempts returns the number of consecutive failed advances.
func (c *Controller) FailedAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// ErrorLimit returns how many failed advances trigger a lockout.
func (c *Controller) ErrorLimit() int {
	return c.form.ErrorLimit
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// GoToStep jumps to step n without validating. The step is frozen while a
// submission is in flight.
func (c *Controller) GoToStep(n int) error {
	if n < 0 || n >= application.StepCount {
		return fmt.Errorf("%w: %d", ErrInvalidStep, n)
	}

	c.mu.Lock()
	defer c.unlock()

	if c.closed {
		return ErrClosed
	}
	if c.submitting {
		return ErrSubmissionInFlight
	}
	if c.locked {
		c.notifyBlocked()
		return ErrLocked
	}
	c.setStep(n, "goto")
	return nil
}

// Advance validates the active section and moves to the next step when it
// passes. On failure the failed-attempt counter grows; reaching the error
// limit locks the form for the configured duration. The section's field
// errors are returned in both cases.
func (c *Controller) Advance() (schema.Errors, error) {
	c.mu.Lock()
	defer c.unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.locked {
		c.notifyBlocked()
		return nil, ErrLocked
	}
	section, ok := application.StepSection(c.step)
	if !ok {
		return nil, ErrNoNextStep
	}

	errs := c.record.Validate(section)
	if errs.Valid() {
		c.failed = 0
		c.setStep(c.step+1, "advance")
		return errs, nil
	}

	c.failed++
	limit := c.form.ErrorLimit
	c.queue(&events.ValidationFailedEvent{
		BaseEvent: events.NewControllerEvent(events.EventValidationFailed),
		Step:      c.step,
		Attempt:   c.failed,
		Limit:     limit,
		Fields:    fieldMap(errs),
	})
	c.logger.Info("advance rejected", "step", c.step, "attempt", c.failed, "limit", limit, "fields", len(errs))

	if c.failed < limit {
		c.notify(events.LevelWarning, TitleValidation,
			fmt.Sprintf("Revisa los campos marcados (intento %d/%d).", c.failed, limit))
		return errs, ErrValidation
	}

	c.startLockout()
	return errs, ErrValidation
}

// Retreat moves back one step. It is rejected while locked or submitting
// and otherwise a no-op on the first step.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.unlock()

	if c.closed {
		return ErrClosed
	}
	if c.submitting {
		return ErrSubmissionInFlight
	}
	if c.locked {
		c.notifyBlocked()
		return ErrLocked
	}
	if c.step == application.StepPersonalInfo {
		return nil
	}
	c.setStep(c.step-1, "retreat")
	return nil
}

// ValidateCurrent validates the active section without touching the
// failed-attempt counter. The review step is always valid.
func (c *Controller) ValidateCurrent() (bool, schema.Errors) {
	section, ok := application.StepSection(c.Step())
	if !ok {
		return true, schema.Errors{}
	}
	errs := c.record.Validate(section)
	return errs.Valid(), errs
}

// Submit hands the complete application to the submitter. It is only
// available on the review step and never runs twice concurrently. The busy
// flag is raised before the submitter is called and cleared when it returns.
func (c *Controller) Submit(ctx context.Context) (submit.Receipt, error) {
	c.mu.Lock()
	if c.closed {
		c.unlock()
		return submit.Receipt{}, ErrClosed
	}
	if c.step != application.StepReview {
		c.unlock()
		return submit.Receipt{}, ErrNotOnReview
	}
	if c.submitting {
		c.unlock()
		return submit.Receipt{}, ErrSubmissionInFlight
	}

	state := c.record.Snapshot()
	if errs := schema.ValidateAll(state); !errs.Valid() {
		c.notify(events.LevelWarning, TitleIncomplete,
			fmt.Sprintf("Faltan %d campos obligatorios. Revisa los pasos anteriores.", len(errs)))
		c.unlock()
		return submit.Receipt{}, fmt.Errorf("%w: %d invalid fields", ErrIncomplete, len(errs))
	}

	c.submitting = true
	c.queue(&events.SubmissionStartEvent{
		BaseEvent: events.NewControllerEvent(events.EventSubmissionStart),
	})
	c.unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	start := time.Now()
	receipt, err := c.submitter.Submit(ctx, state)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("submission failed", "error", err, "duration", elapsed)
		c.emit(&events.SubmissionEndEvent{
			BaseEvent:  events.NewControllerEvent(events.EventSubmissionEnd),
			Success:    false,
			Error:      err.Error(),
			DurationMs: elapsed.Milliseconds(),
		})
		c.emit(events.NewNotification(events.LevelError, TitleFailure, DescFailure))
		return submit.Receipt{}, fmt.Errorf("submit application: %w", err)
	}

	c.logger.Info("application submitted", "receipt", receipt.ID, "duration", elapsed)
	c.emit(&events.SubmissionEndEvent{
		BaseEvent:  events.NewControllerEvent(events.EventSubmissionEnd),
		Success:    true,
		ReceiptID:  receipt.ID,
		DurationMs: elapsed.Milliseconds(),
	})
	c.emit(events.NewNotification(events.LevelSuccess, TitleSuccess, DescSuccess))

	if c.form.ResetOnSubmit {
		if err := c.reset(); err != nil {
			c.logger.Warn("reset after submit failed", "error", err)
		}
	}
	return receipt, nil
}

// Reset discards the saved application, empties the record and returns to
// the first step. An active lockout is left to expire on its own.
func (c *Controller) Reset() error {
	c.mu.Lock()
	closed, busy := c.closed, c.submitting
	c.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if busy {
		return ErrSubmissionInFlight
	}
	return c.reset()
}

func (c *Controller) reset() error {
	c.record.Replace(application.State{})
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("clear saved application: %w", err)
	}

	c.mu.Lock()
	defer c.unlock()
	c.queue(&events.StateClearedEvent{
		BaseEvent: events.NewControllerEvent(events.EventStateCleared),
		Key:       c.key,
	})
	c.setStep(application.StepPersonalInfo, "reset")
	return nil
}

// Close stops the lockout timer and detaches persistence. A closed
// controller rejects every transition.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.lockTimer != nil {
		c.lockTimer.Stop()
		c.lockTimer = nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// startLockout locks the form and schedules the release. Caller holds mu.
func (c *Controller) startLockout() {
	d := c.form.LockoutDuration
	c.locked = true
	c.lockUntil = c.now().Add(d)
	c.lockTimer = time.AfterFunc(d, c.releaseLock)

	c.logger.Warn("form locked", "attempts", c.failed, "duration", d)
	c.queue(&events.LockoutStartEvent{
		BaseEvent: events.NewControllerEvent(events.EventLockoutStart),
		Attempts:  c.failed,
		Duration:  d,
		Until:     c.lockUntil,
	})
	c.notify(events.LevelError, TitleLocked,
		fmt.Sprintf("Demasiados intentos fallidos. Inténtalo de nuevo en %d segundos.", seconds(d)))
}

// releaseLock runs on the timer goroutine. It unlocks and zeroes the
// counter whatever happened since the lockout started.
func (c *Controller) releaseLock() {
	c.mu.Lock()
	defer c.unlock()

	if c.closed {
		return
	}
	c.locked = false
	c.failed = 0
	c.lockTimer = nil
	c.lockUntil = time.Time{}

	c.logger.Info("form unlocked")
	c.queue(&events.LockoutEndEvent{
		BaseEvent: events.NewControllerEvent(events.EventLockoutEnd),
	})
}

// notifyBlocked reports an interaction rejected by the lockout. Caller holds mu.
func (c *Controller) notifyBlocked() {
	c.notify(events.LevelWarning, TitleLocked,
		fmt.Sprintf("Espera %d segundos antes de continuar.", seconds(c.remainingLocked())))
}

func (c *Controller) remainingLocked() time.Duration {
	if !c.locked {
		return 0
	}
	if d := c.lockUntil.Sub(c.now()); d > 0 {
		return d
	}
	return 0
}

// setStep changes the active step. Caller holds mu.
func (c *Controller) setStep(to int, via string) {
	from := c.step
	if from == to {
		return
	}
	c.step = to
	c.logger.Debug("step changed", "from", from, "to", to, "via", via)
	c.queue(&events.StepChangedEvent{
		BaseEvent: events.NewControllerEvent(events.EventStepChanged),
		From:      from,
		To:        to,
		Label:     application.StepLabels[to],
		Via:       via,
	})
}

// persist mirrors every record change into storage. Write failures are
// logged and otherwise ignored.
func (c *Controller) persist(s application.State) {
	if err := c.store.Save(s); err != nil {
		c.logger.Warn("failed to save application", "key", c.key, "error", err)
	}
}

func (c *Controller) notify(level events.Level, title, description string) {
	c.queue(events.NewNotification(level, title, description))
}

// queue defers an event until mu is released. Caller holds mu.
func (c *Controller) queue(e events.Event) {
	c.pending = append(c.pending, e)
}

// unlock releases mu and emits the events queued while it was held.
func (c *Controller) unlock() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, e := range pending {
		c.emit(e)
	}
}

// emit sends an event to the emitter if available.
func (c *Controller) emit(e events.Event) {
	if c.emitter != nil {
		c.emitter.Emit(e)
	}
}

func fieldMap(errs schema.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for path, msg := range errs {
		out[string(path)] = msg
	}
	return out
}

// seconds rounds d up to whole seconds for display.
func seconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 && d > 0 {
		return 1
	}
	return s
}
