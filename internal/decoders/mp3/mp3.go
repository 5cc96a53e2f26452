// Package mp3 wraps github.com/drgolem/go-mpg123 to satisfy decoders.AudioDecoder.
package mp3

import (
	"fmt"

	"github.com/drgolem/go-mpg123/mpg123"
)

// Decoder wraps an mpg123 decoder instance.
type Decoder struct {
	decoder  *mpg123.Decoder
	rate     int
	channels int
	encoding int
}

// NewDecoder returns an unopened MP3 decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// GetFormat returns the format of the currently open stream.
func (d *Decoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, d.encoding
}

// DecodeSamples decodes up to samples frames into audio. mpg123 handles
// mono/stereo and 16/24/32-bit output internally.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("mp3: decoder not open")
	}
	return d.decoder.DecodeSamples(samples, audio)
}

// Open opens fileName for decoding.
func (d *Decoder) Open(fileName string) error {
	decoder, err := mpg123.NewDecoder("")
	if err != nil {
		return fmt.Errorf("mp3: create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("mp3: open %s: %w", fileName, err)
	}

	rate, channels, encoding := decoder.GetFormat()
	d.decoder = decoder
	d.rate = rate
	d.channels = channels
	d.encoding = encoding
	return nil
}

// Close releases the underlying decoder.
func (d *Decoder) Close() error {
	if d.decoder != nil {
		d.decoder.Close()
		d.decoder.Delete()
		d.decoder = nil
	}
	return nil
}
