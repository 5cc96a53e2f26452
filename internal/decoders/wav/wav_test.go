package wav

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeTestWAV(t *testing.T, path string, samples []int16) {
	t.Helper()

	var pcm bytes.Buffer
	for _, s := range samples {
		binary.Write(&pcm, binary.LittleEndian, s)
	}
	dataBytes := pcm.Bytes()

	const channels = 1
	const rate = 44100
	const bps = 16
	blockAlign := channels * bps / 8
	byteRate := rate * blockAlign

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(dataBytes)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bps))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(dataBytes)))
	buf.Write(dataBytes)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write test wav: %v", err)
	}
}

func TestOpenAndDecodePCMWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wav")
	writeTestWAV(t, path, []int16{100, -100, 200, -200})

	d := NewDecoder()
	if err := d.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	rate, channels, bps := d.GetFormat()
	if rate != 44100 || channels != 1 || bps != 16 {
		t.Fatalf("unexpected format: rate=%d channels=%d bps=%d", rate, channels, bps)
	}

	out := make([]byte, 4*2)
	n, err := d.DecodeSamples(4, out)
	if err != nil {
		t.Fatalf("DecodeSamples: %v", err)
	}
	if n != 4 {
		t.Fatalf("got %d samples, want 4", n)
	}
}

func TestDecodeSamplesWithoutOpenErrors(t *testing.T) {
	d := NewDecoder()
	buf := make([]byte, 16)
	if _, err := d.DecodeSamples(8, buf); err == nil {
		t.Error("expected error decoding without an open file")
	}
}
