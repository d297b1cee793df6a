//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Wayland compositors do not expose X11 global shortcuts, so the Linux
// binding reads evdev directly and matches the chord itself. Requires
// membership in the 'input' group.
const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
	keyLCtrl   = 29
	keyRCtrl   = 97
	keyLShift  = 42
	keyRShift  = 54
	keySpace   = 57
)

// timeval (16 bytes) + type (2) + code (2) + value (4) on 64-bit Linux.
const inputEventSize = 24

type chordHotkey struct {
	keydown chan struct{}
	keyup   chan struct{}
	files   []*os.File
	stop    chan struct{}
	once    sync.Once
}

// New binds Ctrl+Shift+Space as the toggle chord.
func New() Hotkey {
	return &chordHotkey{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (h *chordHotkey) Register() error {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return fmt.Errorf("scanning input devices: %w", err)
	}

	h.stop = make(chan struct{})

	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") || !looksLikeKeyboard(e.Name()) {
			continue
		}
		f, err := os.Open(filepath.Join("/dev/input", e.Name()))
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.watch(f)
	}

	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	return nil
}

func (h *chordHotkey) watch(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	var ctrlHeld, shiftHeld, chordHeld bool

	for {
		select {
		case <-h.stop:
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

			if evType != evKey {
				continue
			}

			pressed := evValue == keyPress
			released := evValue == keyRelease

			switch evCode {
			case keyLCtrl, keyRCtrl:
				ctrlHeld = pressed || (!released && ctrlHeld)
			case keyLShift, keyRShift:
				shiftHeld = pressed || (!released && shiftHeld)
			case keySpace:
				if pressed && !chordHeld && ctrlHeld && shiftHeld {
					chordHeld = true
					select {
					case h.keydown <- struct{}{}:
					default:
					}
				} else if released && chordHeld {
					chordHeld = false
					select {
					case h.keyup <- struct{}{}:
					default:
					}
				}
			}
		}
	}
}

func (h *chordHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *chordHotkey) Keydown() <-chan struct{} { return h.keydown }
func (h *chordHotkey) Keyup() <-chan struct{}   { return h.keyup }

func looksLikeKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(data))) > 10
}
