package keys

import "time"

// Key identifies the keys the gesture detector cares about. Everything
// else collapses to KeyOther.
type Key int

const (
	KeyOther Key = iota
	KeyShiftLeft
	KeyShiftRight
	KeyEscape
)

func (k Key) IsShift() bool {
	return k == KeyShiftLeft || k == KeyShiftRight
}

func (k Key) String() string {
	switch k {
	case KeyShiftLeft:
		return "shift_l"
	case KeyShiftRight:
		return "shift_r"
	case KeyEscape:
		return "escape"
	default:
		return "other"
	}
}

type Transition int

const (
	Down Transition = iota
	Up
)

// Event is one raw keyboard transition. Produced by a Source, consumed
// once by the gesture detector.
type Event struct {
	Key        Key
	Transition Transition
	Time       time.Time
}

// Source delivers raw keyboard events as a typed stream so the detector
// can be driven by a scripted fake in tests.
type Source interface {
	Start() error
	Events() <-chan Event
	Close()
}
