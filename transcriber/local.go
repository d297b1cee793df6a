package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// LocalWhisper shells out to a whisper.cpp CLI. flac artifacts are not
// supported; the capture recorder stays on wav when this engine is
// selected.
type LocalWhisper struct {
	// Bin is the CLI binary, "whisper-cli" when empty.
	Bin       string
	ModelPath string
}

func (l *LocalWhisper) Name() string { return "local" }

func (l *LocalWhisper) bin() string {
	if l.Bin != "" {
		return l.Bin
	}
	return "whisper-cli"
}

func (l *LocalWhisper) Transcribe(ctx context.Context, audio Audio, _ string) (string, error) {
	if audio.Format != "wav" {
		return "", fmt.Errorf("%w: local engine needs wav, got %s", ErrFailed, audio.Format)
	}
	cmd := exec.CommandContext(ctx, l.bin(),
		"-m", l.ModelPath,
		"-f", audio.Path,
		"--no-timestamps",
		"--no-prints",
	)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s: %v: %s", ErrFailed, l.bin(), err, errOut.String())
	}
	return validate(out.String())
}
