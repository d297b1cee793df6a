//go:build linux

package system

import "os/exec"

func setMute(muted bool) error {
	arg := "0"
	if muted {
		arg = "1"
	}
	return exec.Command("pactl", "set-sink-mute", "@DEFAULT_SINK@", arg).Run()
}

func notify(msg string, urgency Urgency) error {
	return exec.Command("notify-send", "-u", urgency.String(), "-a", "typr", "typr", msg).Run()
}
