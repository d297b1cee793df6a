// Package session owns the lifecycle of one dictation cycle: record,
// transcribe, optionally rewrite, type. Intents arrive from the gesture
// detector and are drained strictly in order; a cancel can land in any
// non-idle state and stops the cycle before the next suspension point.
package session

type State int

const (
	Idle State = iota
	Recording
	Stopping
	Transcribing
	Rewriting
	Typing
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Stopping:
		return "stopping"
	case Transcribing:
		return "transcribing"
	case Rewriting:
		return "rewriting"
	case Typing:
		return "typing"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// EventSink receives machine progress, for the status TUI. Calls arrive
// from machine goroutines; implementations must be safe for that.
type EventSink interface {
	StateChanged(State)
	TranscriptReady(text string)
	SessionError(err error)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) StateChanged(State)     {}
func (NopSink) TranscriptReady(string) {}
func (NopSink) SessionError(error)     {}
