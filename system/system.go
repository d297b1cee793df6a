// Package system groups the desktop-facing capabilities a session
// needs: recorder lifecycle, mute, notifications, audio cues, and text
// injection. Cosmetic operations log failures and carry on; recorder
// and injection failures are returned to the caller.
package system

import (
	"context"

	"github.com/jcarrus/typr/record"
)

type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Runner is the capability surface the session machine drives. One
// recording at a time; StartRecorder while one is live is a caller bug.
type Runner interface {
	StartRecorder(ctx context.Context) error
	// StopRecorder ends the live recording and returns its artifact.
	StopRecorder() (record.Artifact, error)
	// AbortRecorder ends the live recording and discards everything.
	AbortRecorder()
	// RecorderPID identifies the live recording's owner, 0 when idle.
	RecorderPID() int

	Mute() error
	Unmute() error
	Notify(msg string, urgency Urgency)
	Beep()
	DoubleBeep()
	InjectText(text string) error
}
