package flac

import "testing"

func TestNewDecoder(t *testing.T) {
	if NewDecoder() == nil {
		t.Fatal("NewDecoder returned nil")
	}
}

func TestDecoderGetFormatBeforeOpen(t *testing.T) {
	decoder := NewDecoder()
	rate, channels, bps := decoder.GetFormat()
	if rate != 0 || channels != 0 || bps != 0 {
		t.Errorf("expected zero values before Open, got rate=%d channels=%d bps=%d", rate, channels, bps)
	}
}

func TestDecoderCloseWithoutOpenIsSafe(t *testing.T) {
	decoder := NewDecoder()
	if err := decoder.Close(); err != nil {
		t.Errorf("Close on unopened decoder failed: %v", err)
	}
	if err := decoder.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestDecodeSamplesWithoutOpenErrors(t *testing.T) {
	decoder := NewDecoder()
	buf := make([]byte, 1024)
	if _, err := decoder.DecodeSamples(len(buf), buf); err == nil {
		t.Error("expected error decoding without an open file")
	}
}
