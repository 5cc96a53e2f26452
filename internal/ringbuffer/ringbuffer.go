// Package ringbuffer provides a lock-free single-producer single-consumer
// byte ring buffer used by internal/output to hand interleaved f32 PCM
// from the Audio Engine goroutine to Output's Run goroutine, which copies
// it into the platform stream; neither side takes a lock (spec §3 "Output state ... a
// single-producer/single-consumer ring buffer sized to ≈50 ms of audio").
package ringbuffer

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrInsufficientSpace is returned by Write when data would not fit
	// without overwriting unread bytes.
	ErrInsufficientSpace = errors.New("ringbuffer: insufficient space for write")
	// ErrInsufficientData is returned by Read when the buffer is empty.
	ErrInsufficientData = errors.New("ringbuffer: insufficient data for read")
)

// RingBuffer is a lock-free SPSC ring buffer.
//
//   - Write must only be called by the producer (the Audio Engine's decode
//     loop, implementing io.Writer).
//   - Read, ReadSlices, PeekContiguous, and Consume must only be called by
//     the consumer (the Output component's Run goroutine, implementing
//     io.Reader).
type RingBuffer struct {
	buffer   []byte
	size     uint64 // power of 2
	mask     uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// New creates a ring buffer of at least size bytes, rounded up to the next
// power of 2 so index wraparound reduces to a mask.
func New(size uint64) *RingBuffer {
	size = nextPowerOf2(size)
	return &RingBuffer{
		buffer: make([]byte, size),
		size:   size,
		mask:   size - 1,
	}
}

// Write copies all of data into the buffer, or fails without writing any
// of it if there isn't enough free space.
func (rb *RingBuffer) Write(data []byte) (int, error) {
	dataLen := uint64(len(data))
	if dataLen == 0 {
		return 0, nil
	}

	if dataLen > rb.AvailableWrite() {
		return 0, ErrInsufficientSpace
	}

	writePos := rb.writePos.Load()
	start := writePos & rb.mask
	end := (writePos + dataLen) & rb.mask

	if end > start {
		copy(rb.buffer[start:end], data)
	} else {
		firstChunk := rb.size - start
		copy(rb.buffer[start:], data[:firstChunk])
		copy(rb.buffer[:end], data[firstChunk:])
	}

	rb.writePos.Store(writePos + dataLen)
	return int(dataLen), nil
}

// Read fills data with up to len(data) bytes of available audio, returning
// the count actually read. Returns ErrInsufficientData only when nothing
// at all is available, matching io.Reader's "short reads are fine" norm.
func (rb *RingBuffer) Read(data []byte) (int, error) {
	dataLen := uint64(len(data))
	if dataLen == 0 {
		return 0, nil
	}

	available := rb.AvailableRead()
	if available == 0 {
		return 0, ErrInsufficientData
	}

	toRead := min(dataLen, available)
	readPos := rb.readPos.Load()
	start := readPos & rb.mask
	end := (readPos + toRead) & rb.mask

	if end > start {
		copy(data[:toRead], rb.buffer[start:end])
	} else {
		firstChunk := rb.size - start
		copy(data[:firstChunk], rb.buffer[start:])
		copy(data[firstChunk:toRead], rb.buffer[:end])
	}

	rb.readPos.Store(readPos + toRead)
	return int(toRead), nil
}

// AvailableWrite returns the number of bytes that can currently be written
// without overwriting unread data.
func (rb *RingBuffer) AvailableWrite() uint64 {
	return rb.size - (rb.writePos.Load() - rb.readPos.Load())
}

// AvailableRead returns the number of unread bytes currently buffered.
func (rb *RingBuffer) AvailableRead() uint64 {
	return rb.writePos.Load() - rb.readPos.Load()
}

// Size returns the buffer's total capacity in bytes.
func (rb *RingBuffer) Size() uint64 {
	return rb.size
}

// ReadSlices gives zero-copy access to the available data as one or two
// slices (two when the data wraps the end of the backing array). Callers
// must follow up with Consume once the data has been processed.
func (rb *RingBuffer) ReadSlices() (first, second []byte, total uint64) {
	available := rb.AvailableRead()
	if available == 0 {
		return nil, nil, 0
	}

	readPos := rb.readPos.Load()
	start := readPos & rb.mask
	end := (readPos + available) & rb.mask

	if end > start {
		return rb.buffer[start:end], nil, available
	}
	return rb.buffer[start:], rb.buffer[:end], available
}

// PeekContiguous returns just the first contiguous chunk of available
// data, useful when the caller can process less than the full available
// amount per call (for example one period at a time).
func (rb *RingBuffer) PeekContiguous() []byte {
	first, _, _ := rb.ReadSlices()
	return first
}

// Consume advances the read cursor by n bytes without copying, for use
// after ReadSlices/PeekContiguous.
func (rb *RingBuffer) Consume(n uint64) error {
	if n == 0 {
		return nil
	}
	if n > rb.AvailableRead() {
		return ErrInsufficientData
	}
	rb.readPos.Store(rb.readPos.Load() + n)
	return nil
}

// Reset drops all buffered data. Output does not call it: its Reopen and
// SetDevice build a fresh ring with New instead.
func (rb *RingBuffer) Reset() {
	rb.readPos.Store(0)
	rb.writePos.Store(0)
}

func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
