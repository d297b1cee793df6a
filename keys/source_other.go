//go:build !linux

package keys

import "fmt"

type unsupportedSource struct {
	events chan Event
}

// NewSource is not available off Linux; the chord detector mode covers
// those platforms via the global hotkey registration instead.
func NewSource() Source {
	return &unsupportedSource{events: make(chan Event)}
}

func (s *unsupportedSource) Start() error {
	return fmt.Errorf("raw key events are only supported on Linux; use detector_mode = \"chord\"")
}

func (s *unsupportedSource) Events() <-chan Event { return s.events }

func (s *unsupportedSource) Close() {}

func Diagnose() (string, error) {
	return "", fmt.Errorf("raw key monitoring unavailable on this platform")
}
