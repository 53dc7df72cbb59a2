package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink consumes events from the router.
type Sink interface {
	Start(ctx context.Context, events <-chan Event) error
	Stop() error
}

// LogSink appends every event to a JSON lines activity log. A non-empty log
// from a previous run is moved aside to "<path>.<timestamp>.bak" on start so
// `applyform events --follow` always tails the current session.
type LogSink struct {
	path    string
	rotate  bool
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
	done    chan struct{}
	written int
}

// LogSinkOption configures a LogSink.
type LogSinkOption func(*LogSink)

// WithAppend keeps an existing log in place and appends to it. One-shot
// commands use it so they extend the session log instead of rotating it.
func WithAppend() LogSinkOption {
	return func(s *LogSink) { s.rotate = false }
}

// NewLogSink creates a LogSink writing to path.
func NewLogSink(path string, opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		path:   path,
		rotate: true,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the log and consumes events until ctx is done or the channel closes.
func (s *LogSink) Start(ctx context.Context, events <-chan Event) error {
	if err := s.open(); err != nil {
		return err
	}
	go s.run(ctx, events)
	return nil
}

func (s *LogSink) open() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	if s.rotate {
		if err := s.rotatePrevious(); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	s.mu.Lock()
	s.file = file
	s.encoder = json.NewEncoder(file)
	s.mu.Unlock()
	return nil
}

func (s *LogSink) rotatePrevious() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	bak := fmt.Sprintf("%s.%s.bak", s.path, time.Now().Format("2006-01-02T15-04-05"))
	if err := os.Rename(s.path, bak); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}

func (s *LogSink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.write(event)
		}
	}
}

func (s *LogSink) write(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return
	}
	if err := s.encoder.Encode(event); err != nil {
		fmt.Fprintf(os.Stderr, "log sink: failed to write event: %v\n", err)
		return
	}
	s.written++
}

// Stop waits for the consumer goroutine and closes the file.
func (s *LogSink) Stop() error {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.encoder = nil
	return err
}

// Written returns how many events have been written.
func (s *LogSink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Path returns the log file path.
func (s *LogSink) Path() string {
	return s.path
}
