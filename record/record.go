// Package record produces audio artifacts for transcription, either by
// spawning the platform recorder binary or by capturing in-process.
package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact is a finished recording on disk.
type Artifact struct {
	Path     string
	Format   string // "wav" or "flac"
	Duration time.Duration
}

// Remove deletes the artifact file. Missing files are not an error.
func (a Artifact) Remove() {
	if a.Path != "" {
		os.Remove(a.Path)
	}
}

// Session is a recording in progress.
type Session interface {
	// Pid identifies the process owning the recording, for the
	// cross-invocation registry.
	Pid() int
	// Stop ends the recording gracefully and returns the artifact.
	Stop() (Artifact, error)
	// Abort ends the recording and discards the artifact.
	Abort()
}

// Recorder starts recording sessions.
type Recorder interface {
	Start(ctx context.Context) (Session, error)
}

// tempArtifactPath returns a fresh artifact path in the temp dir.
func tempArtifactPath(format string) string {
	name := fmt.Sprintf("typr-%d.%s", time.Now().UnixNano(), format)
	return filepath.Join(os.TempDir(), name)
}
