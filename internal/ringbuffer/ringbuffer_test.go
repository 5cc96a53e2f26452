package ringbuffer

import (
	"sync"
	"testing"
)

func TestNewRoundsToPowerOf2(t *testing.T) {
	tests := []struct {
		input    uint64
		expected uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{100, 128},
		{1000, 1024},
		{1024, 1024},
	}

	for _, tt := range tests {
		rb := New(tt.input)
		if rb.Size() != tt.expected {
			t.Errorf("New(%d): got size %d, want %d", tt.input, rb.Size(), tt.expected)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	rb := New(16)
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	n, err := rb.Write(data)
	if err != nil || n != len(data) {
		t.Fatalf("Write: n=%d err=%v", n, err)
	}

	out := make([]byte, len(data))
	n, err = rb.Read(out)
	if err != nil || n != len(data) {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("byte %d: got %d want %d", i, out[i], data[i])
		}
	}
}

func TestWriteWrapsAroundBuffer(t *testing.T) {
	rb := New(8)

	// Advance positions near the wrap boundary, then write across it.
	if _, err := rb.Write([]byte{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	consumed := make([]byte, 6)
	if _, err := rb.Read(consumed); err != nil {
		t.Fatal(err)
	}

	data := []byte{10, 11, 12, 13, 14}
	if _, err := rb.Write(data); err != nil {
		t.Fatalf("wrapping write failed: %v", err)
	}

	out := make([]byte, len(data))
	if _, err := rb.Read(out); err != nil {
		t.Fatal(err)
	}
	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("wrap byte %d: got %d want %d", i, out[i], data[i])
		}
	}
}

func TestWriteFailsWhenFull(t *testing.T) {
	rb := New(4)
	if _, err := rb.Write([]byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := rb.Write([]byte{5}); err != ErrInsufficientSpace {
		t.Fatalf("got %v, want ErrInsufficientSpace", err)
	}
}

func TestReadFailsWhenEmpty(t *testing.T) {
	rb := New(4)
	out := make([]byte, 4)
	if _, err := rb.Read(out); err != ErrInsufficientData {
		t.Fatalf("got %v, want ErrInsufficientData", err)
	}
}

func TestReadShortReadWhenPartiallyFilled(t *testing.T) {
	rb := New(16)
	if _, err := rb.Write([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	out := make([]byte, 8)
	n, err := rb.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("got n=%d, want 3", n)
	}
}

func TestPeekContiguousAndConsume(t *testing.T) {
	rb := New(16)
	data := []byte{1, 2, 3, 4}
	if _, err := rb.Write(data); err != nil {
		t.Fatal(err)
	}

	chunk := rb.PeekContiguous()
	if len(chunk) != len(data) {
		t.Fatalf("got %d bytes, want %d", len(chunk), len(data))
	}
	if err := rb.Consume(uint64(len(chunk))); err != nil {
		t.Fatal(err)
	}
	if rb.AvailableRead() != 0 {
		t.Fatalf("expected buffer drained, got %d available", rb.AvailableRead())
	}
}

func TestResetClearsPositions(t *testing.T) {
	rb := New(8)
	if _, err := rb.Write([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	rb.Reset()
	if rb.AvailableRead() != 0 {
		t.Fatalf("expected 0 available after reset, got %d", rb.AvailableRead())
	}
	if rb.AvailableWrite() != rb.Size() {
		t.Fatalf("expected full space after reset, got %d", rb.AvailableWrite())
	}
}

// TestConcurrentProducerConsumer exercises the buffer under its intended
// SPSC usage: one writer goroutine, one reader goroutine, no external lock.
func TestConcurrentProducerConsumer(t *testing.T) {
	rb := New(256)
	const total = 10000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		buf := []byte{0}
		for i := 0; i < total; i++ {
			buf[0] = byte(i)
			for {
				if _, err := rb.Write(buf); err == nil {
					break
				}
			}
		}
	}()

	go func() {
		defer wg.Done()
		buf := []byte{0}
		for i := 0; i < total; i++ {
			for {
				n, err := rb.Read(buf)
				if err == nil && n == 1 {
					break
				}
			}
			if buf[0] != byte(i) {
				t.Errorf("read %d: got %d, want %d", i, buf[0], byte(i))
			}
		}
	}()

	wg.Wait()
}
