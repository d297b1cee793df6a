// Package gesture turns raw keyboard events into recording intents.
//
// Two detector modes exist: the double-tap-and-hold shift gesture fed by
// a raw key-event stream, and a chord toggle bound to a global hotkey
// for platforms without raw key access.
package gesture

// Intent is a high-level command emitted by a detector and consumed by
// the session machine.
type Intent int

const (
	StartRecording Intent = iota
	StopRecording
	Cancel
)

func (i Intent) String() string {
	switch i {
	case StartRecording:
		return "start_recording"
	case StopRecording:
		return "stop_recording"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Mode selects which detector drives the session.
type Mode string

const (
	ModeDoubleTap Mode = "doubletap"
	ModeChord     Mode = "chord"
)
