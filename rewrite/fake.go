package rewrite

import (
	"context"
	"sync"
)

// Fake returns a scripted rewrite and records calls.
type Fake struct {
	// Out is returned verbatim; when empty the transcript passes through.
	Out string
	// Fail simulates a backend failure, which still passes the
	// transcript through.
	Fail bool

	mu           sync.Mutex
	calls        int
	instructions []string
}

func (f *Fake) Rewrite(_ context.Context, transcript, instruction string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.instructions = append(f.instructions, instruction)
	f.mu.Unlock()
	if f.Fail || f.Out == "" {
		return transcript, nil
	}
	return f.Out, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) Instructions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.instructions...)
}
