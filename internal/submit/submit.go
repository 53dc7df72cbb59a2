// Package submit delivers a completed application.
package submit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/npratt/applyform/internal/application"
)

// DefaultDelay is how long the simulated submitter takes.
const DefaultDelay = 1500 * time.Millisecond

// Receipt acknowledges a delivered application.
type Receipt struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submitter is the submission sink.
type Submitter interface {
	Submit(ctx context.Context, state application.State) (Receipt, error)
}

// Func adapts a plain function to Submitter.
type Func func(ctx context.Context, state application.State) (Receipt, error)

// Submit calls f.
func (f Func) Submit(ctx context.Context, state application.State) (Receipt, error) {
	return f(ctx, state)
}

// Simulated waits for Delay and then accepts the application. No data leaves
// the process.
type Simulated struct {
	Delay time.Duration
	// Now is used for receipt timestamps; time.Now when nil.
	Now func() time.Time
}

// NewSimulated returns a Simulated submitter with the given delay.
// A negative delay is treated as zero.
func NewSimulated(delay time.Duration) *Simulated {
	if delay < 0 {
		delay = 0
	}
	return &Simulated{Delay: delay}
}

// Submit blocks for the configured delay or until ctx is done.
func (s *Simulated) Submit(ctx context.Context, _ application.State) (Receipt, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Receipt{
		ID:          uuid.New().String(),
		SubmittedAt: now(),
	}, nil
}
