// Package transcriber turns recorded audio artifacts into text, via the
// OpenAI API or a local whisper.cpp binary.
package transcriber

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// Audio references a finished recording on disk.
type Audio struct {
	Path   string
	Format string // "wav" or "flac"
}

var (
	// ErrFailed marks engine or transport failures.
	ErrFailed = errors.New("transcription failed")
	// ErrEmpty marks a result too short to be worth typing.
	ErrEmpty = errors.New("transcription empty")
)

// Results shorter than this after trimming are treated as silence.
const minChars = 10

type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio Audio, prompt string) (string, error)
}

// validate trims the engine output and enforces the minimum length.
func validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minChars {
		return "", ErrEmpty
	}
	return trimmed, nil
}

// Fallback tries the primary engine and falls back on engine failure.
// An ErrEmpty result is final: silence is silence on any engine.
type Fallback struct {
	Primary  Transcriber
	Fallback Transcriber
}

func (f *Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Fallback.Name()
}

func (f *Fallback) Transcribe(ctx context.Context, audio Audio, prompt string) (string, error) {
	text, err := f.Primary.Transcribe(ctx, audio, prompt)
	if err == nil || errors.Is(err, ErrEmpty) {
		return text, err
	}
	if ctx.Err() != nil {
		return "", err
	}
	return f.Fallback.Transcribe(ctx, audio, prompt)
}
