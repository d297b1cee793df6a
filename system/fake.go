package system

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jcarrus/typr/record"
)

// Fake records every call so tests can assert on ordering and check
// that failure paths never reach InjectText.
type Fake struct {
	// Artifact returned by StopRecorder.
	Artifact record.Artifact
	// StartErr, StopErr, InjectErr make the respective call fail.
	StartErr  error
	StopErr   error
	InjectErr error
	// StopDelay makes StopRecorder block, to widen race windows in
	// cancellation tests.
	StopDelay time.Duration

	mu        sync.Mutex
	calls     []string
	injected  []string
	notified  []string
	recording bool
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *Fake) StartRecorder(_ context.Context) error {
	f.record("StartRecorder")
	if f.StartErr != nil {
		return f.StartErr
	}
	f.mu.Lock()
	f.recording = true
	f.mu.Unlock()
	return nil
}

func (f *Fake) StopRecorder() (record.Artifact, error) {
	f.record("StopRecorder")
	if f.StopDelay > 0 {
		time.Sleep(f.StopDelay)
	}
	f.mu.Lock()
	if !f.recording {
		f.mu.Unlock()
		return record.Artifact{}, errors.New("no recording in progress")
	}
	f.recording = false
	f.mu.Unlock()
	if f.StopErr != nil {
		return record.Artifact{}, f.StopErr
	}
	return f.Artifact, nil
}

func (f *Fake) AbortRecorder() {
	f.record("AbortRecorder")
	f.mu.Lock()
	f.recording = false
	f.mu.Unlock()
}

func (f *Fake) RecorderPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recording {
		return 12345
	}
	return 0
}

func (f *Fake) Mute() error {
	f.record("Mute")
	return nil
}

func (f *Fake) Unmute() error {
	f.record("Unmute")
	return nil
}

func (f *Fake) Notify(msg string, urgency Urgency) {
	f.record("Notify")
	f.mu.Lock()
	f.notified = append(f.notified, urgency.String()+": "+msg)
	f.mu.Unlock()
}

func (f *Fake) Beep() {
	f.record("Beep")
}

func (f *Fake) DoubleBeep() {
	f.record("DoubleBeep")
}

func (f *Fake) InjectText(text string) error {
	f.record("InjectText")
	if f.InjectErr != nil {
		return f.InjectErr
	}
	f.mu.Lock()
	f.injected = append(f.injected, text)
	f.mu.Unlock()
	return nil
}

// Calls returns the call names in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// Injected returns every text passed to InjectText.
func (f *Fake) Injected() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.injected...)
}

// Notifications returns "urgency: message" strings in order.
func (f *Fake) Notifications() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.notified...)
}

// Recording reports whether a fake recording is live.
func (f *Fake) Recording() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recording
}
