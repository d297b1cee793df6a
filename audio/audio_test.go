package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestAmplifyClamps(t *testing.T) {
	cases := []struct {
		in   int16
		gain int32
		want int16
	}{
		{100, 8, 800},
		{-100, 8, -800},
		{1000, 1, 1000},
		{30000, 8, 32767},
		{-30000, 8, -32768},
		{0, 8, 0},
	}
	for _, c := range cases {
		if got := amplify(c.in, c.gain); got != c.want {
			t.Errorf("amplify(%d, %d) = %d, want %d", c.in, c.gain, got, c.want)
		}
	}
}

func TestAmplifyPCM(t *testing.T) {
	data := make([]byte, 4)
	s0, s1 := int16(100), int16(-30000)
	binary.LittleEndian.PutUint16(data[0:], uint16(s0))
	binary.LittleEndian.PutUint16(data[2:], uint16(s1))

	out := amplifyPCM(data, 4)
	if &out[0] == &data[0] {
		t.Fatal("amplified buffer must not alias the input")
	}
	if got := int16(binary.LittleEndian.Uint16(out[0:])); got != 400 {
		t.Errorf("sample 0 = %d, want 400", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != -32768 {
		t.Errorf("sample 1 = %d, want clamped -32768", got)
	}
}

func TestAmplifyPCMUnityGainPassthrough(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	if out := amplifyPCM(data, 1); &out[0] != &data[0] {
		t.Error("gain 1 should not copy the buffer")
	}
}

func TestIsBluetooth(t *testing.T) {
	if !IsBluetooth("AirPods Pro") {
		t.Error("AirPods should be detected")
	}
	if IsBluetooth("Built-in Microphone") {
		t.Error("built-in mic is not bluetooth")
	}
}

// chunkReader delivers each chunk as a separate Read, the way a raw
// terminal delivers single keys and whole escape sequences.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

func pickerDevices() []DeviceInfo {
	return []DeviceInfo{
		{ID: "0", Name: "Built-in Microphone"},
		{ID: "1", Name: "USB Condenser"},
		{ID: "2", Name: "Jabra Elite"},
	}
}

func TestPickDeviceEnterSelectsFirst(t *testing.T) {
	in := &chunkReader{chunks: [][]byte{{'\r'}}}
	idx, err := pickDevice(pickerDevices(), in, io.Discard)
	if err != nil || idx != 0 {
		t.Fatalf("got idx=%d err=%v, want 0", idx, err)
	}
}

func TestPickDeviceArrowNavigation(t *testing.T) {
	in := &chunkReader{chunks: [][]byte{
		{0x1b, '[', 'B'},
		{0x1b, '[', 'B'},
		{0x1b, '[', 'A'},
		{'\r'},
	}}
	idx, err := pickDevice(pickerDevices(), in, io.Discard)
	if err != nil || idx != 1 {
		t.Fatalf("got idx=%d err=%v, want 1", idx, err)
	}
}

func TestPickDeviceVimKeysAndBounds(t *testing.T) {
	in := &chunkReader{chunks: [][]byte{
		{'k'}, // already at the top, stays
		{'j'}, {'j'}, {'j'}, // clamped at the last entry
		{'\r'},
	}}
	idx, err := pickDevice(pickerDevices(), in, io.Discard)
	if err != nil || idx != 2 {
		t.Fatalf("got idx=%d err=%v, want 2", idx, err)
	}
}

func TestPickDeviceDigitJump(t *testing.T) {
	in := &chunkReader{chunks: [][]byte{{'3'}, {'\r'}}}
	idx, err := pickDevice(pickerDevices(), in, io.Discard)
	if err != nil || idx != 2 {
		t.Fatalf("got idx=%d err=%v, want 2", idx, err)
	}

	// Out-of-range digit is ignored.
	in = &chunkReader{chunks: [][]byte{{'9'}, {'\r'}}}
	idx, err = pickDevice(pickerDevices(), in, io.Discard)
	if err != nil || idx != 0 {
		t.Fatalf("got idx=%d err=%v, want 0", idx, err)
	}
}

func TestPickDeviceAbort(t *testing.T) {
	for _, key := range []byte{3, 0x1b} {
		in := &chunkReader{chunks: [][]byte{{key}}}
		if _, err := pickDevice(pickerDevices(), in, io.Discard); !errors.Is(err, ErrSelectionAborted) {
			t.Errorf("key %d: got %v, want ErrSelectionAborted", key, err)
		}
	}
}
