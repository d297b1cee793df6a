// Package registry persists the cross-invocation recording handshake.
// Two toggle launches are separate processes, so "is a recorder running"
// is answered from a small keyed record on disk, not in-process memory.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// State is the persisted session record. Cleared at the start and at the
// successful end of every session.
type State struct {
	RecorderPID  int    `json:"recorder_pid"`
	ArtifactPath string `json:"artifact_path"`
	// Daemon marks a record owned by a long-running interactive
	// instance. The recorder there is in-process, so a toggle
	// invocation must not signal that pid.
	Daemon bool `json:"daemon,omitempty"`
}

// Store is a keyed mapping on disk behind an interface so the session
// machine can be tested against an in-memory fake.
type Store interface {
	Save(State) error
	Load() (State, bool, error)
	Clear() error
}

type fileStore struct {
	path string
}

// DefaultPath places the session record under the user state directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "typr", "session.json"), nil
}

func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Load() (State, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, false, nil
		}
		return State{}, false, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt record is treated as absent; the next session
		// overwrites it.
		return State{}, false, nil
	}
	if st.RecorderPID == 0 {
		return State{}, false, nil
	}
	return st, true, nil
}

func (s *fileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemStore is the in-memory fake used by tests.
type MemStore struct {
	state State
	set   bool
}

func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Save(st State) error {
	m.state = st
	m.set = true
	return nil
}

func (m *MemStore) Load() (State, bool, error) {
	return m.state, m.set, nil
}

func (m *MemStore) Clear() error {
	m.state = State{}
	m.set = false
	return nil
}
