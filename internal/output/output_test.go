package output

import (
	"math"
	"testing"
)

func TestVolumeGainClampsAndScales(t *testing.T) {
	tests := []struct {
		percent int32
		want    float32
	}{
		{-5, 0},
		{0, 0},
		{50, 0.5},
		{100, 1},
		{150, 1},
	}
	for _, tt := range tests {
		if got := volumeGain(tt.percent); got != tt.want {
			t.Errorf("volumeGain(%d) = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestFloat32sToBytesRoundTrips(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 1, -1}
	out := float32sToBytes(in)
	if len(out) != len(in)*4 {
		t.Fatalf("got %d bytes, want %d", len(out), len(in)*4)
	}

	for i, want := range in {
		bits := uint32(out[i*4]) | uint32(out[i*4+1])<<8 | uint32(out[i*4+2])<<16 | uint32(out[i*4+3])<<24
		got := math.Float32frombits(bits)
		if got != want {
			t.Errorf("sample %d: got %v, want %v", i, got, want)
		}
	}
}

func TestSignalSpecFrameBytes(t *testing.T) {
	s := SignalSpec{Channels: 2, SampleRate: 44100}
	if got := s.frameBytes(); got != 8 {
		t.Errorf("frameBytes() = %d, want 8", got)
	}
}
