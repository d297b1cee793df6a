// Package audio abstracts microphone capture behind a small interface so
// the in-process recorder can run on pulse (linux), malgo (everywhere
// else), or a fake in tests.
package audio

import (
	"encoding/binary"
	"strings"
)

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"jabra", "galaxy buds", "pixel buds",
	"bluetooth", " bt ", " bt)",
}

// IsBluetooth guesses whether a device name is a bluetooth headset, which
// usually means a low-quality telephony capture profile.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DataCallback receives little-endian 16-bit mono PCM.
type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
	// Gain is a software amplification factor applied to every sample.
	// Values <= 1 leave the signal untouched. Quiet laptop microphones
	// need this; the backends clamp at the int16 range.
	Gain int32
}

func amplify(s int16, gain int32) int16 {
	v := int32(s) * gain
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// amplifyPCM applies the gain to a little-endian 16-bit PCM buffer,
// returning a new buffer so callers never mutate backend-owned memory.
func amplifyPCM(data []byte, gain int32) []byte {
	if gain <= 1 {
		return data
	}
	out := make([]byte, len(data))
	for i := 0; i+1 < len(data); i += 2 {
		s := amplify(int16(binary.LittleEndian.Uint16(data[i:])), gain)
		binary.LittleEndian.PutUint16(out[i:], uint16(s))
	}
	return out
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
}
