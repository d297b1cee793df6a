// Package typing injects text into the focused application as if the
// user had typed it. Linux synthesizes keystrokes through a uinput
// device, macOS drives System Events, and both fall back to a
// clipboard paste when direct typing cannot represent the text.
package typing

import "strings"

// escapeOSAScript escapes text for embedding in an AppleScript string
// literal.
func escapeOSAScript(text string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\t", "\\t",
	)
	return r.Replace(text)
}
