package gesture

import (
	"time"

	"github.com/jcarrus/typr/keys"
)

// DefaultTapWindow is how close a second shift press must follow a shift
// release to count as a double-tap.
const DefaultTapWindow = 300 * time.Millisecond

// Detector recognizes the double-tap-and-hold shift gesture:
//
//	tap shift, then press shift again within the tap window and hold —
//	recording runs until that second press is released.
//
// Escape, pressed while not holding, cancels whatever the session is
// still doing from the previous cycle. Escape during a hold is
// deliberately ignored; the recording ends on shift release.
//
// ProcessEvent must be called serially from the goroutine that owns the
// key-event stream. The detector is the only writer of its own state.
type Detector struct {
	window time.Duration

	lastShiftUpAt       time.Time
	holding             bool
	lastReleaseWasShift bool
}

func NewDetector(window time.Duration) *Detector {
	if window <= 0 {
		window = DefaultTapWindow
	}
	return &Detector{window: window}
}

// Holding reports whether a hold is in progress, i.e. a StartRecording
// has been emitted with no StopRecording yet.
func (d *Detector) Holding() bool { return d.holding }

// reset clears tap-timing state so a stale first tap can never bleed
// into the next cycle.
func (d *Detector) reset() {
	d.lastShiftUpAt = time.Time{}
	d.lastReleaseWasShift = false
}

// ProcessEvent consumes one raw key event and reports the intent it
// implies, if any.
func (d *Detector) ProcessEvent(ev keys.Event) (Intent, bool) {
	switch {
	case ev.Key.IsShift() && ev.Transition == keys.Down:
		return d.shiftDown(ev.Time)
	case ev.Key.IsShift() && ev.Transition == keys.Up:
		return d.shiftUp(ev.Time)
	case ev.Key == keys.KeyEscape && ev.Transition == keys.Down:
		if d.holding {
			// Recording continues until the shift release.
			return 0, false
		}
		d.reset()
		return Cancel, true
	case ev.Key == keys.KeyEscape:
		return 0, false
	default:
		// Unrelated typing between the release and the second press
		// invalidates the pending double-tap.
		d.lastReleaseWasShift = false
		return 0, false
	}
}

func (d *Detector) shiftDown(at time.Time) (Intent, bool) {
	if d.holding {
		return 0, false
	}
	if d.lastReleaseWasShift && !d.lastShiftUpAt.IsZero() && at.Sub(d.lastShiftUpAt) <= d.window {
		d.holding = true
		d.reset()
		return StartRecording, true
	}
	// First tap of a potential double-tap, or a stray press.
	d.lastReleaseWasShift = false
	return 0, false
}

func (d *Detector) shiftUp(at time.Time) (Intent, bool) {
	if d.holding {
		d.holding = false
		// This release ended a hold; it is not the first tap of a new
		// double-tap.
		d.reset()
		return StopRecording, true
	}
	d.lastShiftUpAt = at
	d.lastReleaseWasShift = true
	return 0, false
}
