//go:build linux

package typing

import "testing"

func TestCharToKeyCoversASCII(t *testing.T) {
	printable := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
		" \n\t.,;:'\"[]{}()<>!@#$%^&*-_=+\\|/?`~"
	for i := 0; i < len(printable); i++ {
		if _, _, ok := charToKey(printable[i]); !ok {
			t.Errorf("no key for %q", printable[i])
		}
	}
}

func TestCharToKeyShift(t *testing.T) {
	if _, shift, _ := charToKey('a'); shift {
		t.Error("'a' should not need shift")
	}
	if _, shift, _ := charToKey('A'); !shift {
		t.Error("'A' needs shift")
	}
	codeLower, _, _ := charToKey('a')
	codeUpper, _, _ := charToKey('A')
	if codeLower != codeUpper {
		t.Error("case should share a key code")
	}
}

func TestTypeable(t *testing.T) {
	if !typeable("hello, world!\n") {
		t.Error("ASCII text should be typeable")
	}
	if typeable("héllo") {
		t.Error("non-ASCII goes through the clipboard")
	}
}
