package gesture

import (
	"sync"

	"github.com/jcarrus/typr/hotkey"
)

// Chord is the toggle-mode detector: the first chord press emits
// StartRecording, the next emits StopRecording. Releases are ignored.
type Chord struct {
	intents   chan Intent
	stop      chan struct{}
	once      sync.Once
	recording bool
}

func NewChord(hk hotkey.Hotkey) *Chord {
	c := &Chord{
		intents: make(chan Intent, 1),
		stop:    make(chan struct{}),
	}
	go c.run(hk)
	return c
}

// Intents returns the stream of toggle intents.
func (c *Chord) Intents() <-chan Intent { return c.intents }

func (c *Chord) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Chord) run(hk hotkey.Hotkey) {
	for {
		select {
		case <-hk.Keydown():
		case <-hk.Keyup():
			// Releases carry no meaning in toggle mode.
			continue
		case <-c.stop:
			return
		}

		intent := StartRecording
		if c.recording {
			intent = StopRecording
		}
		c.recording = !c.recording

		select {
		case c.intents <- intent:
		case <-c.stop:
			return
		}
	}
}
