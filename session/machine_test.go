package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jcarrus/typr/gesture"
	"github.com/jcarrus/typr/record"
	"github.com/jcarrus/typr/registry"
	"github.com/jcarrus/typr/rewrite"
	"github.com/jcarrus/typr/rules"
	"github.com/jcarrus/typr/system"
	"github.com/jcarrus/typr/transcriber"
)

// chanSink exposes every state change on a channel so tests can wait
// for the machine to reach a state without polling.
type chanSink struct {
	states chan State

	mu   sync.Mutex
	errs []error
}

func newChanSink() *chanSink {
	return &chanSink{states: make(chan State, 64)}
}

func (s *chanSink) StateChanged(st State)  { s.states <- st }
func (s *chanSink) TranscriptReady(string) {}

func (s *chanSink) SessionError(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *chanSink) waitFor(t *testing.T, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-s.states:
			if st == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %v", want)
		}
	}
}

type fixture struct {
	machine *Machine
	runner  *system.Fake
	trans   *transcriber.Fake
	rw      *rewrite.Fake
	engine  *rules.Engine
	store   *registry.MemStore
	sink    *chanSink
}

func newFixture(t *testing.T, mutate func(*fixture)) *fixture {
	t.Helper()
	f := &fixture{
		runner: &system.Fake{Artifact: record.Artifact{Duration: 2 * time.Second}},
		trans:  &transcriber.Fake{Text: "a transcript long enough to pass"},
		rw:     &rewrite.Fake{},
		store:  registry.NewMemStore(),
		sink:   newChanSink(),
	}
	if mutate != nil {
		mutate(f)
	}
	var rw rewrite.Rewriter
	if f.rw != nil {
		rw = f.rw
	}
	f.machine = New(f.runner, f.trans, rw, f.engine, f.store, f.sink, Config{
		MinRecording: time.Second,
	})
	f.machine.Start()
	t.Cleanup(f.machine.Close)
	return f
}

func TestFullCycleTypesTranscript(t *testing.T) {
	f := newFixture(t, nil)

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Idle)

	injected := f.runner.Injected()
	if len(injected) != 1 || injected[0] != "a transcript long enough to pass" {
		t.Errorf("injected = %v", injected)
	}
	if f.trans.Calls() != 1 || f.rw.Calls() != 1 {
		t.Errorf("transcribe=%d rewrite=%d", f.trans.Calls(), f.rw.Calls())
	}
	if _, ok, _ := f.store.Load(); ok {
		t.Error("registry should be cleared after a successful session")
	}
}

func TestSubstitutionBeforeTyping(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.trans = &transcriber.Fake{Text: "hello slap world"}
		f.rw = nil // isolate the substitution path
		f.engine = rules.NewEngine(map[string]string{"slap": "\n"})
	})

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Idle)

	injected := f.runner.Injected()
	if len(injected) != 1 || injected[0] != "hello\nworld" {
		t.Errorf("injected = %q, want %q", injected, "hello\nworld")
	}
}

func TestShortRecordingDiscarded(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.runner = &system.Fake{Artifact: record.Artifact{Duration: 500 * time.Millisecond}}
	})

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Idle)

	if f.trans.Calls() != 0 {
		t.Error("short recording must not reach the transcriber")
	}
	if f.rw.Calls() != 0 {
		t.Error("short recording must not reach the rewriter")
	}
	if len(f.runner.Injected()) != 0 {
		t.Error("short recording must not be typed")
	}
	// Discard is quiet: low urgency only.
	for _, n := range f.runner.Notifications() {
		if strings.HasPrefix(n, "critical") {
			t.Errorf("unexpected critical notification: %q", n)
		}
	}
}

func TestEmptyTranscriptionFailsWithCriticalNotification(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.trans = &transcriber.Fake{Err: transcriber.ErrEmpty}
	})

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Failed)
	f.sink.waitFor(t, Idle)

	if len(f.runner.Injected()) != 0 {
		t.Error("empty transcription must not be typed")
	}
	var critical bool
	for _, n := range f.runner.Notifications() {
		if strings.HasPrefix(n, "critical") {
			critical = true
		}
	}
	if !critical {
		t.Errorf("expected a critical notification, got %v", f.runner.Notifications())
	}
}

func TestRewriteNeverRunsBeforeTranscriptionSucceeds(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.trans = &transcriber.Fake{Err: transcriber.ErrFailed}
	})

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Idle)

	if f.rw.Calls() != 0 {
		t.Error("rewrite must not run when transcription fails")
	}
	if len(f.runner.Injected()) != 0 {
		t.Error("failed transcription must not be typed")
	}
}

func TestCancelDuringTranscribingNeverTypes(t *testing.T) {
	block := make(chan struct{})
	f := newFixture(t, func(f *fixture) {
		f.trans = &transcriber.Fake{Text: "would have been typed if not cancelled", Block: block}
	})

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Transcribing)

	f.machine.HandleIntent(gesture.Cancel)
	f.sink.waitFor(t, Cancelled)
	f.sink.waitFor(t, Idle)
	close(block)

	if len(f.runner.Injected()) != 0 {
		t.Error("cancelled session must not type")
	}
	if f.rw.Calls() != 0 {
		t.Error("cancelled session must not rewrite")
	}
}

func TestCancelWhileRecordingAborts(t *testing.T) {
	f := newFixture(t, nil)

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.Cancel)
	f.sink.waitFor(t, Cancelled)
	f.sink.waitFor(t, Idle)

	if f.trans.Calls() != 0 {
		t.Error("aborted recording must not be transcribed")
	}
	var aborted bool
	for _, c := range f.runner.Calls() {
		if c == "AbortRecorder" {
			aborted = true
		}
	}
	if !aborted {
		t.Error("recorder should be aborted")
	}
}

func TestStartWhileActiveIgnored(t *testing.T) {
	f := newFixture(t, nil)

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StartRecording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Idle)

	var starts int
	for _, c := range f.runner.Calls() {
		if c == "StartRecorder" {
			starts++
		}
	}
	if starts != 1 {
		t.Errorf("StartRecorder called %d times, want 1", starts)
	}
}

func TestStopWhileIdleIgnored(t *testing.T) {
	f := newFixture(t, nil)

	f.machine.HandleIntent(gesture.StopRecording)
	// Nothing should happen; give the loop a moment to drain.
	time.Sleep(50 * time.Millisecond)

	if len(f.runner.Calls()) != 0 {
		t.Errorf("unexpected calls: %v", f.runner.Calls())
	}
	if f.machine.State() != Idle {
		t.Errorf("state = %v", f.machine.State())
	}
}

func TestInjectFailureIsSessionFatal(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.runner = &system.Fake{
			Artifact:  record.Artifact{Duration: 2 * time.Second},
			InjectErr: errors.New("no input device"),
		}
	})

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Failed)
	f.sink.waitFor(t, Idle)

	var doubleBeeps int
	for _, c := range f.runner.Calls() {
		if c == "DoubleBeep" {
			doubleBeeps++
		}
	}
	if doubleBeeps != 1 {
		t.Errorf("DoubleBeep called %d times, want 1", doubleBeeps)
	}
}

func TestCancelledScenarioEndsIdle(t *testing.T) {
	// start, stop, cancel while transcribing: never types, ends Idle.
	block := make(chan struct{})
	f := newFixture(t, func(f *fixture) {
		f.trans = &transcriber.Fake{Text: "some long enough transcript", Block: block}
	})

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)
	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Transcribing)
	f.machine.HandleIntent(gesture.Cancel)
	f.sink.waitFor(t, Idle)
	close(block)

	if len(f.runner.Injected()) != 0 {
		t.Error("injectText must never be called")
	}
	if f.machine.State() != Idle {
		t.Errorf("final state = %v, want Idle", f.machine.State())
	}
}

func TestRegistryRecordIsDaemonOwned(t *testing.T) {
	f := newFixture(t, nil)

	f.machine.HandleIntent(gesture.StartRecording)
	f.sink.waitFor(t, Recording)

	st, ok, _ := f.store.Load()
	if !ok || !st.Daemon {
		t.Errorf("record = %+v ok=%v, want a daemon-owned record while recording", st, ok)
	}

	f.machine.HandleIntent(gesture.StopRecording)
	f.sink.waitFor(t, Idle)
}

// failingClearStore simulates an unwritable state directory.
type failingClearStore struct {
	registry.MemStore
}

func (s *failingClearStore) Clear() error { return errors.New("read-only state dir") }

func TestStoreClearFailureDoesNotBlockSession(t *testing.T) {
	runner := &system.Fake{Artifact: record.Artifact{Duration: 2 * time.Second}}
	trans := &transcriber.Fake{Text: "a transcript long enough to pass"}
	sink := newChanSink()
	m := New(runner, trans, nil, nil, &failingClearStore{}, sink, Config{
		MinRecording: time.Second,
	})
	m.Start()
	t.Cleanup(m.Close)

	m.HandleIntent(gesture.StartRecording)
	sink.waitFor(t, Recording)
	m.HandleIntent(gesture.StopRecording)
	sink.waitFor(t, Idle)

	injected := runner.Injected()
	if len(injected) != 1 {
		t.Errorf("injected = %v, want the transcript despite the clear failure", injected)
	}
}

func TestMuteWhileRecording(t *testing.T) {
	runner := &system.Fake{Artifact: record.Artifact{Duration: 2 * time.Second}}
	trans := &transcriber.Fake{Text: "a transcript long enough to pass"}
	sink := newChanSink()
	m := New(runner, trans, nil, nil, registry.NewMemStore(), sink, Config{
		MinRecording:       time.Second,
		MuteWhileRecording: true,
	})
	m.Start()
	t.Cleanup(m.Close)

	m.HandleIntent(gesture.StartRecording)
	sink.waitFor(t, Recording)
	m.HandleIntent(gesture.StopRecording)
	sink.waitFor(t, Idle)

	calls := runner.Calls()
	mutedAt, unmutedAt, stoppedAt := -1, -1, -1
	for i, c := range calls {
		switch c {
		case "Mute":
			mutedAt = i
		case "Unmute":
			unmutedAt = i
		case "StopRecorder":
			stoppedAt = i
		}
	}
	if mutedAt == -1 || unmutedAt == -1 {
		t.Fatalf("mute/unmute missing: %v", calls)
	}
	if !(mutedAt < stoppedAt && stoppedAt < unmutedAt) {
		t.Errorf("order = %v", calls)
	}
}
