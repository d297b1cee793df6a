// Package beep plays short synthesized cues: a high tick when recording
// starts, a lower tick when it stops, and a low double-beep on failure.
package beep

var disabled bool

// Disable turns all cues off, used by scripted test runs.
func Disable() { disabled = true }

const (
	sampleRate = 44100

	startFreq   = 1200
	startVolume = 0.5
	startDecay  = 60

	stopFreq   = 900
	stopVolume = 0.5
	stopDecay  = 40

	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)
