package system

import (
	"context"
	"errors"
	"sync"

	"github.com/jcarrus/typr/beep"
	"github.com/jcarrus/typr/log"
	"github.com/jcarrus/typr/record"
	"github.com/jcarrus/typr/typing"
)

// Desktop is the real Runner: the configured recorder backend plus the
// platform command table for mute and notifications.
type Desktop struct {
	recorder record.Recorder

	mu      sync.Mutex
	session record.Session
}

func NewDesktop(recorder record.Recorder) *Desktop {
	beep.Init()
	return &Desktop{recorder: recorder}
}

func (d *Desktop) StartRecorder(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session != nil {
		return errors.New("recorder already running")
	}
	session, err := d.recorder.Start(ctx)
	if err != nil {
		return err
	}
	d.session = session
	beep.PlayStart()
	return nil
}

func (d *Desktop) StopRecorder() (record.Artifact, error) {
	d.mu.Lock()
	session := d.session
	d.session = nil
	d.mu.Unlock()
	if session == nil {
		return record.Artifact{}, errors.New("no recording in progress")
	}
	return session.Stop()
}

func (d *Desktop) AbortRecorder() {
	d.mu.Lock()
	session := d.session
	d.session = nil
	d.mu.Unlock()
	if session != nil {
		session.Abort()
	}
}

func (d *Desktop) RecorderPID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return 0
	}
	return d.session.Pid()
}

func (d *Desktop) Mute() error {
	return setMute(true)
}

func (d *Desktop) Unmute() error {
	return setMute(false)
}

// Notify is cosmetic: failures are logged and swallowed.
func (d *Desktop) Notify(msg string, urgency Urgency) {
	if err := notify(msg, urgency); err != nil {
		log.Warnf("notify: %v", err)
	}
}

func (d *Desktop) Beep() {
	beep.PlayStop()
}

func (d *Desktop) DoubleBeep() {
	beep.PlayError()
}

func (d *Desktop) InjectText(text string) error {
	return typing.Type(text)
}
