//go:build darwin

package typing

import (
	"fmt"
	"os/exec"

	cb "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// Type injects text via System Events. Requires accessibility
// permission for the terminal running the process; falls back to a
// clipboard paste when osascript fails.
func Type(text string) error {
	script := fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escapeOSAScript(text))
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return pasteViaClipboard(text)
	}
	return nil
}

func pasteViaClipboard(text string) error {
	if err := cb.WriteAll(text); err != nil {
		return err
	}
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasSuper(true) // Cmd+V
	return kb.Launching()
}
