package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrSelectionAborted is returned when the user backs out of the picker.
var ErrSelectionAborted = errors.New("device selection aborted")

// SelectDevice lets the user pick a capture device. A single available
// device is returned without prompting; Ctrl+C exits like an
// interrupted shell command.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no capture devices found")
	}
	if len(devices) == 1 {
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	idx, err := pickDevice(devices, os.Stdin, os.Stdout)
	term.Restore(fd, oldState)
	fmt.Print("\r\n")
	if errors.Is(err, ErrSelectionAborted) {
		os.Exit(130)
	}
	if err != nil {
		return nil, err
	}
	return &devices[idx], nil
}

// pickDevice runs the arrow-key menu over raw terminal input. Digits
// jump straight to an entry, j/k and the arrow keys move, Enter
// confirms, Esc or Ctrl+C aborts.
func pickDevice(devices []DeviceInfo, in io.Reader, out io.Writer) (int, error) {
	cursor := 0
	render := func(rewind bool) {
		var b strings.Builder
		if rewind {
			fmt.Fprintf(&b, "\x1b[%dA", len(devices)+2)
		}
		b.WriteString("\r\x1b[J")
		b.WriteString("Select input device (↑/↓ or 1-9, Enter to confirm):\r\n\r\n")
		for i, d := range devices {
			marker, reset := "    ", ""
			if i == cursor {
				marker, reset = "  \x1b[1;36m▶ ", "\x1b[0m"
			}
			warn := ""
			if IsBluetooth(d.Name) {
				warn = " \x1b[33m[⚠ Lower audio quality]\x1b[0m"
			}
			fmt.Fprintf(&b, "%s%s%s%s\r\n", marker, d.Name, reset, warn)
		}
		io.WriteString(out, b.String())
	}

	render(false)
	buf := make([]byte, 3)
	for {
		n, err := in.Read(buf)
		if err != nil {
			return 0, fmt.Errorf("reading input: %w", err)
		}

		switch {
		case n == 1 && buf[0] == '\r':
			return cursor, nil
		case n == 1 && (buf[0] == 3 || buf[0] == 0x1b): // Ctrl+C, bare Esc
			return 0, ErrSelectionAborted
		case n == 1 && buf[0] >= '1' && buf[0] <= '9':
			if i := int(buf[0] - '1'); i < len(devices) {
				cursor = i
			}
		case n == 1 && buf[0] == 'j':
			if cursor < len(devices)-1 {
				cursor++
			}
		case n == 1 && buf[0] == 'k':
			if cursor > 0 {
				cursor--
			}
		case n == 3 && buf[0] == 0x1b && buf[1] == '[':
			switch buf[2] {
			case 'A':
				if cursor > 0 {
					cursor--
				}
			case 'B':
				if cursor < len(devices)-1 {
					cursor++
				}
			}
		}
		render(true)
	}
}
