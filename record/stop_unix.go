//go:build !windows

package record

import (
	"os"
	"syscall"
)

func signalStop(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

// SignalPid asks a recorder started by a previous invocation to stop.
func SignalPid(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Signal(syscall.SIGTERM)
}
