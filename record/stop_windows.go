//go:build windows

package record

import "os"

func signalStop(p *os.Process) error {
	return p.Kill()
}

func SignalPid(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
