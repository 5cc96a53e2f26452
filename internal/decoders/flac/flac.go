// Package flac wraps github.com/drgolem/go-flac to satisfy decoders.AudioDecoder.
package flac

import (
	"fmt"

	goflac "github.com/drgolem/go-flac/flac"
)

// Decoder wraps the go-flac frame decoder.
type Decoder struct {
	decoder  *goflac.FlacDecoder
	rate     int
	channels int
	bps      int
}

// NewDecoder returns an unopened FLAC decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// GetFormat returns the format of the currently open stream.
func (d *Decoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, d.bps
}

// DecodeSamples decodes up to samples frames into audio.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("flac: decoder not open")
	}
	return d.decoder.DecodeSamples(samples, audio)
}

// Open opens fileName, decoding to 16-bit PCM output.
func (d *Decoder) Open(fileName string) error {
	decoder, err := goflac.NewFlacFrameDecoder(16)
	if err != nil {
		return fmt.Errorf("flac: create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("flac: open %s: %w", fileName, err)
	}

	rate, channels, bps := decoder.GetFormat()
	d.decoder = decoder
	d.rate = rate
	d.channels = channels
	d.bps = bps
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
