package encoder

import (
	"bytes"
	"encoding/binary"
	"sync"
	"time"
)

// WavEncoder buffers raw PCM and prepends a RIFF header on Close. The
// header needs the final data length, so Bytes is only valid after Close.
type WavEncoder struct {
	data        bytes.Buffer
	out         []byte
	totalFrames uint64
	mu          sync.Mutex
}

func NewWav() *WavEncoder {
	return &WavEncoder{}
}

func (e *WavEncoder) EncodeBlock(block []int16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range block {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(s))
		e.data.Write(b[:])
	}
	e.totalFrames += uint64(len(block))
	return nil
}

func (e *WavEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	dataLen := e.data.Len()
	var out bytes.Buffer
	out.Grow(44 + dataLen)

	blockAlign := Channels * BitsPerSample / 8
	byteRate := SampleRate * blockAlign

	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36+dataLen))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&out, binary.LittleEndian, uint16(Channels))
	binary.Write(&out, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&out, binary.LittleEndian, uint32(byteRate))
	binary.Write(&out, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&out, binary.LittleEndian, uint16(BitsPerSample))
	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(dataLen))
	out.Write(e.data.Bytes())

	e.out = out.Bytes()
	return nil
}

func (e *WavEncoder) Bytes() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.out
}

func (e *WavEncoder) TotalFrames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalFrames
}

// Duration is the encoded audio length at the fixed sample rate.
func (e *WavEncoder) Duration() time.Duration {
	return time.Duration(e.TotalFrames()) * time.Second / SampleRate
}
