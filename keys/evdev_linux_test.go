//go:build linux

package keys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeInputTree lays out /dev/input and /sys/class/input lookalikes
// under a temp dir: event0 is a keyboard, event1 a mouse.
func fakeInputTree(t *testing.T) (devDir, sysDir string) {
	t.Helper()
	root := t.TempDir()
	devDir = filepath.Join(root, "dev")
	sysDir = filepath.Join(root, "sys")
	if err := os.MkdirAll(devDir, 0755); err != nil {
		t.Fatal(err)
	}

	caps := map[string]string{
		"event0": "402000000 3803078f800d001 feffffdfffefffff fffffffffffffffe",
		"event1": "1f0000",
	}
	for name, keyCaps := range caps {
		if err := os.WriteFile(filepath.Join(devDir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
		capDir := filepath.Join(sysDir, name, "device", "capabilities")
		if err := os.MkdirAll(capDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(capDir, "key"), []byte(keyCaps+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return devDir, sysDir
}

func TestFindKeyboardsFiltersByCapabilities(t *testing.T) {
	devDir, sysDir := fakeInputTree(t)
	keyboards, err := findKeyboards(devDir, sysDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(keyboards) != 1 || filepath.Base(keyboards[0]) != "event0" {
		t.Errorf("keyboards = %v, want only event0", keyboards)
	}
}

func TestDiagnoseReportsOpenableKeyboard(t *testing.T) {
	devDir, sysDir := fakeInputTree(t)
	msg, err := diagnose(devDir, sysDir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg, "1 keyboard(s) found") || !strings.Contains(msg, "event0") {
		t.Errorf("msg = %q", msg)
	}
}

func TestDiagnoseNoKeyboards(t *testing.T) {
	root := t.TempDir()
	if _, err := diagnose(root, root); err == nil {
		t.Error("expected error with no keyboard devices")
	}
}
