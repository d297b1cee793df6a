package encoder

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestWavHeader(t *testing.T) {
	e := NewWav()
	block := make([]int16, BlockSize)
	for i := range block {
		block[i] = int16(i % 1000)
	}
	if err := e.EncodeBlock(block); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	out := e.Bytes()
	wantLen := 44 + BlockSize*2
	if len(out) != wantLen {
		t.Fatalf("len = %d, want %d", len(out), wantLen)
	}
	if !bytes.Equal(out[:4], []byte("RIFF")) || !bytes.Equal(out[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != SampleRate {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(out[22:24]); got != Channels {
		t.Errorf("channels = %d", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(BlockSize*2) {
		t.Errorf("data length = %d", got)
	}
	if e.TotalFrames() != BlockSize {
		t.Errorf("TotalFrames = %d", e.TotalFrames())
	}
}

func TestWavSampleRoundTrip(t *testing.T) {
	e := NewWav()
	if err := e.EncodeBlock([]int16{-1, 0, 1, 32767, -32768}); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	data := e.Bytes()[44:]
	want := []int16{-1, 0, 1, 32767, -32768}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(data[i*2:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestFlacProducesStream(t *testing.T) {
	e, err := NewFlac()
	if err != nil {
		t.Fatal(err)
	}
	block := make([]int16, BlockSize)
	if err := e.EncodeBlock(block); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	out := e.Bytes()
	if !bytes.HasPrefix(out, []byte("fLaC")) {
		t.Error("missing fLaC magic")
	}
	if e.TotalFrames() != BlockSize {
		t.Errorf("TotalFrames = %d", e.TotalFrames())
	}
}

func TestFlacShortTailAndDuration(t *testing.T) {
	e, err := NewFlac()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.EncodeBlock(make([]int16, BlockSize)); err != nil {
		t.Fatal(err)
	}
	// A short final block flushes the capture tail.
	if err := e.EncodeBlock(make([]int16, 100)); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	wantFrames := uint64(BlockSize + 100)
	if e.TotalFrames() != wantFrames {
		t.Errorf("TotalFrames = %d, want %d", e.TotalFrames(), wantFrames)
	}
	want := time.Duration(wantFrames) * time.Second / SampleRate
	if e.Duration() != want {
		t.Errorf("Duration = %v, want %v", e.Duration(), want)
	}
}

func TestFlacRejectsOversizeBlock(t *testing.T) {
	e, err := NewFlac()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.EncodeBlock(make([]int16, BlockSize+1)); err == nil {
		t.Error("oversize block should be rejected")
	}
}

func TestFlacClosedGuards(t *testing.T) {
	e, err := NewFlac()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := e.EncodeBlock(make([]int16, 10)); err == nil {
		t.Error("encoding after Close should fail")
	}
}

func TestWavDuration(t *testing.T) {
	e := NewWav()
	if err := e.EncodeBlock(make([]int16, SampleRate)); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if e.Duration() != time.Second {
		t.Errorf("Duration = %v, want 1s", e.Duration())
	}
}
