//go:build linux

package typing

import (
	"os/exec"

	cb "github.com/atotto/clipboard"
)

// Type injects text into the focused window. Plain ASCII is typed
// character by character through the virtual keyboard; anything else
// goes through the clipboard and a synthesized Ctrl+V. Without uinput
// access xdotool does the typing instead.
func Type(text string) error {
	if err := Init(); err != nil {
		return typeViaXdotool(text)
	}
	if !typeable(text) {
		return pasteViaClipboard(text)
	}
	for i := 0; i < len(text); i++ {
		code, shift, _ := charToKey(text[i])
		if err := keyTap(code, shift); err != nil {
			return err
		}
	}
	return nil
}

func pasteViaClipboard(text string) error {
	if err := cb.WriteAll(text); err != nil {
		return err
	}
	return sendPaste()
}

func typeViaXdotool(text string) error {
	return exec.Command("xdotool", "type", "--clearmodifiers", "--delay", "5", text).Run()
}
