package record

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/jcarrus/typr/log"
)

// Per-platform recorder command, artifact path appended as the last
// argument. Both produce 16 kHz mono 16-bit WAV.
var recorderArgs = map[string][]string{
	"linux":  {"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1"},
	"darwin": {"sox", "-d", "-q", "-r", "16000", "-c", "1", "-b", "16"},
}

func recorderCommand(ctx context.Context, path string) (*exec.Cmd, error) {
	args, ok := recorderArgs[runtime.GOOS]
	if !ok {
		return nil, fmt.Errorf("no recorder binary for %s", runtime.GOOS)
	}
	args = append(append([]string{}, args[1:]...), path)
	return exec.CommandContext(ctx, recorderArgs[runtime.GOOS][0], args...), nil
}

// ProcessRecorder records by spawning the platform recorder binary and
// stopping it with a signal, which lets the process finalize the WAV
// header before exiting.
type ProcessRecorder struct{}

func NewProcess() *ProcessRecorder { return &ProcessRecorder{} }

func (r *ProcessRecorder) Start(ctx context.Context) (Session, error) {
	path := tempArtifactPath("wav")
	cmd, err := recorderCommand(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting recorder: %w", err)
	}
	log.Infof("recorder started pid=%d path=%s", cmd.Process.Pid, path)
	return &processSession{
		cmd:     cmd,
		path:    path,
		started: time.Now(),
	}, nil
}

type processSession struct {
	cmd     *exec.Cmd
	path    string
	started time.Time
}

func (s *processSession) Pid() int { return s.cmd.Process.Pid }

func (s *processSession) Stop() (Artifact, error) {
	if err := signalStop(s.cmd.Process); err != nil {
		s.cmd.Process.Kill()
	}
	// Exit status is the signal, not a failure.
	s.cmd.Wait()
	if _, err := os.Stat(s.path); err != nil {
		return Artifact{}, fmt.Errorf("recorder produced no artifact: %w", err)
	}
	return Artifact{
		Path:     s.path,
		Format:   "wav",
		Duration: time.Since(s.started),
	}, nil
}

func (s *processSession) Abort() {
	s.cmd.Process.Kill()
	s.cmd.Wait()
	os.Remove(s.path)
}

// StartDetached spawns the recorder so it survives this process, for
// the two-invocation toggle flow. The caller persists pid and path.
func StartDetached() (pid int, path string, err error) {
	path = tempArtifactPath("wav")
	cmd, err := recorderCommand(context.Background(), path)
	if err != nil {
		return 0, "", err
	}
	if err := cmd.Start(); err != nil {
		return 0, "", fmt.Errorf("starting recorder: %w", err)
	}
	pid = cmd.Process.Pid
	cmd.Process.Release()
	return pid, path, nil
}
