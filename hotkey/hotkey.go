// Package hotkey provides global shortcut registration with press and
// release events, used by the chord-toggle detector mode.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
