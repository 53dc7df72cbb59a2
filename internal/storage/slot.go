package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/spf13/afero"

	"github.com/npratt/applyform/internal/application"
)

// BackupSuffix is appended to a slot file that could not be parsed.
const BackupSuffix = ".backup"

// SlotStore keeps the application under one key of a key-value file. The
// file is a JSON object whose values are JSON-encoded strings, mirroring
// browser local storage. Other keys in the file are preserved.
type SlotStore struct {
	fs     afero.Fs
	path   string
	key    string
	logger *slog.Logger
	mu     sync.Mutex
}

// SlotOption configures a SlotStore.
type SlotOption func(*SlotStore)

// WithLogger sets the logger used for degraded reads and failed writes.
func WithLogger(l *slog.Logger) SlotOption {
	return func(s *SlotStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSlotStore creates a store for key inside the file at path.
func NewSlotStore(fsys afero.Fs, path, key string, opts ...SlotOption) *SlotStore {
	s := &SlotStore{
		fs:     fsys,
		path:   path,
		key:    key,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the slot file path.
func (s *SlotStore) Path() string { return s.path }

// Key returns the slot key.
func (s *SlotStore) Key() string { return s.key }

// Load reads and decodes the slot. A missing file or key, a malformed file
// or a value of the wrong shape all yield (zero, false).
func (s *SlotStore) Load() (application.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.readSlots()
	if err != nil {
		s.logger.Warn("storage unreadable, starting empty", "path", s.path, "error", err)
		return application.State{}, false
	}

	raw, ok := slots[s.key]
	if !ok {
		return application.State{}, false
	}

	if err := checkShape(raw); err != nil {
		s.logger.Warn("ignoring saved application", "path", s.path, "key", s.key, "error", err)
		return application.State{}, false
	}

	var state application.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("ignoring saved application", "path", s.path, "key", s.key, "error", err)
		return application.State{}, false
	}
	return state, true
}

// Save writes the state under the slot key.
func (s *SlotStore) Save(state application.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.readSlots()
	if err != nil {
		s.logger.Warn("overwriting unreadable storage", "path", s.path, "error", err)
		slots = map[string]string{}
	}
	slots[s.key] = string(data)
	return s.writeSlots(slots)
}

// Clear removes the slot key. Other keys are kept.
func (s *SlotStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.readSlots()
	if err != nil {
		return nil
	}
	if _, ok := slots[s.key]; !ok {
		return nil
	}
	delete(slots, s.key)
	return s.writeSlots(slots)
}

// readSlots returns the decoded file. A missing file is an empty map. A file
// that is not a JSON object of strings is renamed to path+BackupSuffix and
// reported as an error.
func (s *SlotStore) readSlots() (map[string]string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}

	slots := map[string]string{}
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		if rerr := s.fs.Rename(s.path, s.path+BackupSuffix); rerr != nil {
			s.logger.Error("backup corrupt storage", "path", s.path, "error", rerr)
		} else {
			s.logger.Warn("corrupt storage backed up", "path", s.path, "backup", s.path+BackupSuffix)
		}
		return nil, fmt.Errorf("parse storage: %w", err)
	}
	return slots, nil
}

func (s *SlotStore) writeSlots(slots map[string]string) error {
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}
	if err := writeFileAtomic(s.fs, s.path, data); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}
