// Package opus wraps github.com/drgolem/go-opus to satisfy
// decoders.AudioDecoder. Modeled on the sibling flac package from the same
// author: both expose Open/GetFormat/DecodeSamples over a C-backed codec
// handle that must be explicitly deleted.
package opus

import (
	"fmt"

	goopus "github.com/drgolem/go-opus/opus"
)

// Decoder wraps a go-opus file decoder.
type Decoder struct {
	decoder  *goopus.OpusFileDecoder
	rate     int
	channels int
}

// NewDecoder returns an unopened Opus decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// GetFormat returns the format of the currently open stream. Opus audio is
// always decoded to 16-bit PCM.
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, 16
}

// DecodeSamples decodes up to samples frames into audio.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("opus: decoder not open")
	}
	return d.decoder.DecodeSamples(samples, audio)
}

// Open opens fileName for decoding.
func (d *Decoder) Open(fileName string) error {
	decoder, err := goopus.NewOpusFileDecoder()
	if err != nil {
		return fmt.Errorf("opus: create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("opus: open %s: %w", fileName, err)
	}

	rate, channels := decoder.GetFormat()
	d.decoder = decoder
	d.rate = rate
	d.channels = channels
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
