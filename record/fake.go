package record

import (
	"context"
	"sync"
	"time"
)

// FakeRecorder hands out scripted sessions for tests.
type FakeRecorder struct {
	// Artifact returned by Stop on every session.
	Artifact Artifact
	// StartErr, when set, makes Start fail.
	StartErr error
	// StopErr, when set, makes Stop fail.
	StopErr error

	mu       sync.Mutex
	sessions []*FakeSession
}

func (f *FakeRecorder) Start(_ context.Context) (Session, error) {
	if f.StartErr != nil {
		return nil, f.StartErr
	}
	s := &FakeSession{artifact: f.Artifact, stopErr: f.StopErr, started: time.Now()}
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return s, nil
}

// Sessions returns every session started so far.
func (f *FakeRecorder) Sessions() []*FakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeSession{}, f.sessions...)
}

type FakeSession struct {
	artifact Artifact
	stopErr  error
	started  time.Time

	mu      sync.Mutex
	stopped bool
	aborted bool
}

func (s *FakeSession) Pid() int { return 12345 }

func (s *FakeSession) Stop() (Artifact, error) {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	if s.stopErr != nil {
		return Artifact{}, s.stopErr
	}
	a := s.artifact
	if a.Duration == 0 {
		a.Duration = time.Since(s.started)
	}
	return a, nil
}

func (s *FakeSession) Abort() {
	s.mu.Lock()
	s.aborted = true
	s.mu.Unlock()
}

func (s *FakeSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *FakeSession) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}
