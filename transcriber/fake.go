package transcriber

import (
	"context"
	"sync"
)

// Fake returns a scripted result and records calls.
type Fake struct {
	Text string
	Err  error
	// Block, when non-nil, is closed upon to release a pending call, so
	// tests can cancel mid-transcription.
	Block chan struct{}

	mu      sync.Mutex
	calls   int
	prompts []string
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Transcribe(ctx context.Context, _ Audio, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.prompts...)
}
