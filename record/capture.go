package record

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/jcarrus/typr/audio"
	"github.com/jcarrus/typr/encoder"
	"github.com/jcarrus/typr/log"
)

// CaptureRecorder records in-process through the audio capture backend,
// encoding as it goes. No child process to babysit, and it can produce
// flac for smaller uploads.
type CaptureRecorder struct {
	ctx    audio.Context
	device *audio.DeviceInfo
	format string
	gain   int
}

// NewCapture builds an in-process recorder. gain is the software
// amplification factor for quiet microphones; values <= 1 disable it.
func NewCapture(ctx audio.Context, device *audio.DeviceInfo, format string, gain int) *CaptureRecorder {
	return &CaptureRecorder{ctx: ctx, device: device, format: format, gain: gain}
}

func (r *CaptureRecorder) Start(_ context.Context) (Session, error) {
	var enc encoder.Encoder
	var err error
	switch r.format {
	case "flac":
		enc, err = encoder.NewFlac()
		if err != nil {
			return nil, err
		}
	case "wav":
		enc = encoder.NewWav()
	default:
		return nil, fmt.Errorf("unknown artifact format %q", r.format)
	}

	capture, err := r.ctx.NewCapture(r.device, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
		Gain:       int32(r.gain),
	})
	if err != nil {
		return nil, fmt.Errorf("opening capture device: %w", err)
	}

	s := &captureSession{
		capture: capture,
		enc:     enc,
		format:  r.format,
	}
	capture.SetCallback(s.onData)
	if err := capture.Start(); err != nil {
		capture.Close()
		return nil, fmt.Errorf("starting capture: %w", err)
	}
	log.Infof("capture started format=%s", r.format)
	return s, nil
}

type captureSession struct {
	capture audio.CaptureDevice
	enc     encoder.Encoder
	format  string

	mu      sync.Mutex
	pending []int16
	stopped bool
}

// onData converts the raw PCM into samples and feeds the encoder in
// fixed blocks; flac frames must match the declared block size.
func (s *captureSession) onData(data []byte, _ uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	for i := 0; i+1 < len(data); i += 2 {
		s.pending = append(s.pending, int16(binary.LittleEndian.Uint16(data[i:])))
	}
	for len(s.pending) >= encoder.BlockSize {
		if err := s.enc.EncodeBlock(s.pending[:encoder.BlockSize]); err != nil {
			log.Errorf("encode: %v", err)
		}
		s.pending = s.pending[encoder.BlockSize:]
	}
}

func (s *captureSession) Pid() int { return os.Getpid() }

func (s *captureSession) Stop() (Artifact, error) {
	s.capture.Stop()
	s.capture.ClearCallback()
	s.capture.Close()

	s.mu.Lock()
	s.stopped = true
	if len(s.pending) > 0 {
		if err := s.enc.EncodeBlock(s.pending); err != nil {
			log.Errorf("encode tail: %v", err)
		}
		s.pending = nil
	}
	s.mu.Unlock()

	if err := s.enc.Close(); err != nil {
		return Artifact{}, fmt.Errorf("finalizing %s: %w", s.format, err)
	}

	path := tempArtifactPath(s.format)
	if err := os.WriteFile(path, s.enc.Bytes(), 0600); err != nil {
		return Artifact{}, fmt.Errorf("writing artifact: %w", err)
	}

	return Artifact{Path: path, Format: s.format, Duration: s.enc.Duration()}, nil
}

func (s *captureSession) Abort() {
	s.capture.Stop()
	s.capture.ClearCallback()
	s.capture.Close()
	s.mu.Lock()
	s.stopped = true
	s.pending = nil
	s.mu.Unlock()
}
