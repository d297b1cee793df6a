package keys

import "time"

// FakeSource is a scripted event source for tests and the headless
// test mode.
type FakeSource struct {
	events chan Event
}

func NewFake() *FakeSource {
	return &FakeSource{events: make(chan Event, 64)}
}

func (f *FakeSource) Start() error         { return nil }
func (f *FakeSource) Events() <-chan Event { return f.events }
func (f *FakeSource) Close()               {}

// Push injects one event with an explicit timestamp.
func (f *FakeSource) Push(key Key, transition Transition, at time.Time) {
	f.events <- Event{Key: key, Transition: transition, Time: at}
}
