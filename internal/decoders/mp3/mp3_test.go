package mp3

import "testing"

func TestNewDecoder(t *testing.T) {
	if NewDecoder() == nil {
		t.Fatal("NewDecoder returned nil")
	}
}

func TestDecoderCloseWithoutOpenIsSafe(t *testing.T) {
	decoder := NewDecoder()
	if err := decoder.Close(); err != nil {
		t.Errorf("Close on unopened decoder failed: %v", err)
	}
}

func TestDecodeSamplesWithoutOpenErrors(t *testing.T) {
	decoder := NewDecoder()
	buf := make([]byte, 1024)
	if _, err := decoder.DecodeSamples(len(buf), buf); err == nil {
		t.Error("expected error decoding without an open file")
	}
}
