// Package vorbis wraps github.com/jfreymuth/oggvorbis (itself built on
// github.com/jfreymuth/vorbis) to satisfy decoders.AudioDecoder. Unlike the
// C-backed codecs in sibling packages, oggvorbis is a pure-Go decoder that
// yields interleaved float32 samples directly; this package converts them
// to 16-bit PCM so callers see the same byte-buffer contract regardless of
// format.
package vorbis

import (
	"fmt"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// Decoder wraps an oggvorbis.Reader.
type Decoder struct {
	file     *os.File
	reader   *oggvorbis.Reader
	rate     int
	channels int
	scratch  []float32
}

// NewDecoder returns an unopened Vorbis decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens fileName for decoding.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("vorbis: open %s: %w", fileName, err)
	}

	reader, err := oggvorbis.NewReader(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("vorbis: read header: %w", err)
	}

	d.file = file
	d.reader = reader
	d.rate = reader.SampleRate()
	d.channels = reader.Channels()
	return nil
}

// Close closes the underlying file.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// GetFormat returns the format of the currently open stream. Samples are
// always presented as 16-bit PCM regardless of the decoder's internal
// float32 representation.
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, 16
}

// DecodeSamples decodes up to samples frames into audio as interleaved
// 16-bit little-endian PCM.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("vorbis: decoder not open")
	}

	need := samples * d.channels
	if cap(d.scratch) < need {
		d.scratch = make([]float32, need)
	}
	buf := d.scratch[:need]

	n, err := d.reader.Read(buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("vorbis: decode: %w", err)
	}

	decodedFrames := n / d.channels
	for i := 0; i < n; i++ {
		v := buf[i]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		sample := int16(v * 32767)
		offset := i * 2
		if offset+2 > len(audio) {
			break
		}
		audio[offset] = byte(sample)
		audio[offset+1] = byte(sample >> 8)
	}

	return decodedFrames, nil
}
