//go:build windows

package beep

// No audio cues on Windows.

func Init()      {}
func PlayStart() {}
func PlayStop()  {}
func PlayError() {}
