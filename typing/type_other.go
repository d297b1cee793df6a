//go:build !linux && !darwin

package typing

import (
	cb "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// Type puts text on the clipboard and sends Ctrl+V.
func Type(text string) error {
	if err := cb.WriteAll(text); err != nil {
		return err
	}
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}
