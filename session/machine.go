package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jcarrus/typr/gesture"
	"github.com/jcarrus/typr/log"
	"github.com/jcarrus/typr/registry"
	"github.com/jcarrus/typr/rewrite"
	"github.com/jcarrus/typr/rules"
	"github.com/jcarrus/typr/system"
	"github.com/jcarrus/typr/transcriber"
)

type Config struct {
	// MinRecording discards anything shorter as an accidental
	// double-fire of the gesture.
	MinRecording time.Duration
	// Mode names the active detector mode, for the session log.
	Mode                string
	TranscriptionPrompt string
	RewriteInstruction  string
	MuteWhileRecording  bool
}

// Machine drains intents strictly in order. The record/transcribe/type
// pipeline runs on its own goroutine so a cancel intent can be
// processed while an adapter call is in flight; the cancel flag is
// checked at every suspension point.
type Machine struct {
	runner   system.Runner
	trans    transcriber.Transcriber
	rewriter rewrite.Rewriter // nil disables the rewrite pass
	engine   *rules.Engine
	store    registry.Store
	sink     EventSink
	cfg      Config

	intents chan gesture.Intent
	quit    chan struct{}
	done    chan struct{}

	cancelled atomic.Bool

	mu            sync.Mutex
	state         State
	startedAt     time.Time
	muted         bool
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	pipelineDone  chan struct{}
}

func New(runner system.Runner, trans transcriber.Transcriber, rewriter rewrite.Rewriter,
	engine *rules.Engine, store registry.Store, sink EventSink, cfg Config) *Machine {
	if sink == nil {
		sink = NopSink{}
	}
	if cfg.MinRecording == 0 {
		cfg.MinRecording = time.Second
	}
	return &Machine{
		runner:   runner,
		trans:    trans,
		rewriter: rewriter,
		engine:   engine,
		store:    store,
		sink:     sink,
		cfg:      cfg,
		intents:  make(chan gesture.Intent, 16),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		state:    Idle,
	}
}

// Start launches the intent loop.
func (m *Machine) Start() {
	go m.run()
}

// Close stops the intent loop and waits for a running pipeline.
func (m *Machine) Close() {
	close(m.quit)
	<-m.done
	m.mu.Lock()
	pipeline := m.pipelineDone
	m.mu.Unlock()
	if pipeline != nil {
		<-pipeline
	}
}

// HandleIntent queues an intent; never blocks the detector for long.
func (m *Machine) HandleIntent(intent gesture.Intent) {
	select {
	case m.intents <- intent:
	case <-m.quit:
	}
}

// State returns the current session state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) run() {
	defer close(m.done)
	for {
		select {
		case <-m.quit:
			return
		case intent := <-m.intents:
			log.Intent(intent.String())
			switch intent {
			case gesture.StartRecording:
				m.onStart()
			case gesture.StopRecording:
				m.onStop()
			case gesture.Cancel:
				m.onCancel()
			}
		}
	}
}

func (m *Machine) setState(to State) {
	m.mu.Lock()
	from := m.state
	m.state = to
	m.mu.Unlock()
	log.Transition(from.String(), to.String())
	m.sink.StateChanged(to)
}

func (m *Machine) onStart() {
	if m.State() != Idle {
		log.Warn("start ignored: session active")
		return
	}
	m.cancelled.Store(false)
	m.clearStore()

	ctx, cancel := context.WithCancel(context.Background())
	if err := m.runner.StartRecorder(ctx); err != nil {
		cancel()
		m.fail(fmt.Errorf("recorder start: %w", err))
		return
	}

	m.mu.Lock()
	m.sessionCtx = ctx
	m.sessionCancel = cancel
	m.startedAt = time.Now()
	m.muted = false
	m.mu.Unlock()

	if m.cfg.MuteWhileRecording {
		if err := m.runner.Mute(); err != nil {
			log.Warnf("mute: %v", err)
		} else {
			m.mu.Lock()
			m.muted = true
			m.mu.Unlock()
		}
	}

	if err := m.store.Save(registry.State{RecorderPID: m.runner.RecorderPID(), Daemon: true}); err != nil {
		log.Warnf("registry save: %v", err)
	}

	log.SessionStart(m.trans.Name(), m.cfg.Mode)
	m.setState(Recording)
	m.runner.Notify("Recording", system.UrgencyLow)
}

func (m *Machine) onStop() {
	if m.State() != Recording {
		log.Warn("stop ignored: not recording")
		return
	}
	m.setState(Stopping)

	m.mu.Lock()
	ctx := m.sessionCtx
	started := m.startedAt
	pipeline := make(chan struct{})
	m.pipelineDone = pipeline
	m.mu.Unlock()

	go func() {
		defer close(pipeline)
		m.pipeline(ctx, started)
	}()
}

func (m *Machine) onCancel() {
	switch m.State() {
	case Idle:
		return
	case Recording:
		// No pipeline yet; tear the recording down right here.
		m.runner.AbortRecorder()
		m.unmuteIfNeeded()
		m.releaseSession()
		m.finishCancelled()
	default:
		// The pipeline observes the flag at its next suspension point.
		m.cancelled.Store(true)
		m.mu.Lock()
		cancel := m.sessionCancel
		m.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	}
}

// clearStore drops the registry record; a failure never blocks the
// session, it only risks one stale-record cleanup on the next toggle.
func (m *Machine) clearStore() {
	if err := m.store.Clear(); err != nil {
		log.Warnf("registry clear: %v", err)
	}
}

// releaseSession cancels the session context so nothing outlives it.
func (m *Machine) releaseSession() {
	m.mu.Lock()
	cancel := m.sessionCancel
	m.sessionCancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Machine) unmuteIfNeeded() {
	m.mu.Lock()
	muted := m.muted
	m.muted = false
	m.mu.Unlock()
	if muted {
		if err := m.runner.Unmute(); err != nil {
			log.Warnf("unmute: %v", err)
		}
	}
}

// pipeline runs stop → transcribe → rewrite → type. It is the only
// goroutine that advances the session past Stopping.
func (m *Machine) pipeline(ctx context.Context, started time.Time) {
	defer m.releaseSession()

	artifact, err := m.runner.StopRecorder()
	m.unmuteIfNeeded()
	m.runner.Beep()

	if err != nil {
		m.fail(fmt.Errorf("recorder stop: %w", err))
		return
	}
	if m.cancelled.Load() {
		artifact.Remove()
		m.finishCancelled()
		return
	}

	duration := artifact.Duration
	if duration == 0 {
		duration = time.Since(started)
	}
	if duration < m.cfg.MinRecording {
		log.Infof("discarding %v recording, below %v", duration, m.cfg.MinRecording)
		artifact.Remove()
		m.clearStore()
		m.runner.Notify("Recording too short, discarded", system.UrgencyLow)
		m.setState(Idle)
		return
	}

	m.setState(Transcribing)
	text, err := m.trans.Transcribe(ctx, transcriber.Audio{
		Path:   artifact.Path,
		Format: artifact.Format,
	}, m.cfg.TranscriptionPrompt)
	artifact.Remove()

	if m.cancelled.Load() {
		m.finishCancelled()
		return
	}
	if err != nil {
		if errors.Is(err, transcriber.ErrEmpty) {
			m.fail(errors.New("nothing to transcribe"))
		} else {
			m.fail(fmt.Errorf("transcription: %w", err))
		}
		return
	}

	log.TranscriptionText(text)
	m.sink.TranscriptReady(text)

	if m.rewriter != nil {
		m.setState(Rewriting)
		// Fails open; the transcript comes back unchanged on error.
		text, _ = m.rewriter.Rewrite(ctx, text, m.cfg.RewriteInstruction)
		if m.cancelled.Load() {
			m.finishCancelled()
			return
		}
	}

	m.setState(Typing)
	final := rules.Clean(m.engine, text)
	if final == "" {
		m.fail(errors.New("nothing left to type after cleanup"))
		return
	}
	if err := m.runner.InjectText(final); err != nil {
		m.fail(fmt.Errorf("typing: %w", err))
		return
	}

	m.clearStore()
	log.SessionEnd(len(final))
	m.runner.Notify(fmt.Sprintf("Typed %d characters", len(final)), system.UrgencyLow)
	m.setState(Idle)
}

func (m *Machine) finishCancelled() {
	m.clearStore()
	m.setState(Cancelled)
	log.Info("session cancelled")
	m.runner.Notify("Cancelled", system.UrgencyLow)
	m.setState(Idle)
}

func (m *Machine) fail(err error) {
	m.clearStore()
	m.setState(Failed)
	log.Errorf("session failed: %v", err)
	m.sink.SessionError(err)
	m.runner.DoubleBeep()
	m.runner.Notify(err.Error(), system.UrgencyCritical)
	m.setState(Idle)
}
