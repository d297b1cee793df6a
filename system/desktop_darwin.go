//go:build darwin

package system

import (
	"fmt"
	"os/exec"
	"strings"
)

func setMute(muted bool) error {
	script := fmt.Sprintf("set volume output muted %t", muted)
	return exec.Command("osascript", "-e", script).Run()
}

func notify(msg string, _ Urgency) error {
	escaped := strings.ReplaceAll(msg, `"`, `\"`)
	script := fmt.Sprintf(`display notification "%s" with title "typr"`, escaped)
	return exec.Command("osascript", "-e", script).Run()
}
