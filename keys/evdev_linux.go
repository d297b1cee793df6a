//go:build linux

package keys

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	evKey        = 1
	keyPress     = 1
	keyRelease   = 0
	keyAutoRept  = 2
	codeEscape   = 1
	codeLShift   = 42
	codeRShift   = 54
)

const (
	devInputDir = "/dev/input"
	sysInputDir = "/sys/class/input"
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

type evdevSource struct {
	events chan Event
	files  []*os.File
	stop   chan struct{}
	once   sync.Once
}

// NewSource reads raw key events from evdev (/dev/input directly).
// Requires the user to be in the 'input' group.
func NewSource() Source {
	return &evdevSource{
		events: make(chan Event, 256),
	}
}

func (s *evdevSource) Start() error {
	keyboards, err := findKeyboards(devInputDir, sysInputDir)
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	s.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		s.files = append(s.files, f)
		go s.readEvents(f)
	}

	if len(s.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	return nil
}

func (s *evdevSource) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey || evValue == keyAutoRept {
				continue
			}

			var key Key
			switch evCode {
			case codeLShift:
				key = KeyShiftLeft
			case codeRShift:
				key = KeyShiftRight
			case codeEscape:
				key = KeyEscape
			default:
				key = KeyOther
			}

			transition := Down
			if evValue == keyRelease {
				transition = Up
			}

			select {
			case s.events <- Event{Key: key, Transition: transition, Time: time.Now()}:
			case <-s.stop:
				return
			}
		}
	}
}

func (s *evdevSource) Events() <-chan Event {
	return s.events
}

func (s *evdevSource) Close() {
	s.once.Do(func() {
		if s.stop != nil {
			close(s.stop)
		}
		for _, f := range s.files {
			f.Close()
		}
	})
}

func findKeyboards(devDir, sysDir string) ([]string, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(sysDir, e.Name()) {
			keyboards = append(keyboards, filepath.Join(devDir, e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(sysDir, eventName string) bool {
	capsPath := filepath.Join(sysDir, eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	return diagnose(devInputDir, sysInputDir)
}

func diagnose(devDir, sysDir string) (string, error) {
	keyboards, err := findKeyboards(devDir, sysDir)
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
