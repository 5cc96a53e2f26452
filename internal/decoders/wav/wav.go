// Package wav wraps github.com/youpy/go-wav to satisfy decoders.AudioDecoder.
package wav

import (
	"fmt"
	"os"

	"github.com/youpy/go-wav"
)

// Decoder reads a PCM WAV file sample by sample.
type Decoder struct {
	file     *os.File
	reader   *wav.Reader
	rate     int
	channels int
	bps      int
}

// NewDecoder returns an unopened WAV decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens fileName, rejecting any non-PCM WAV.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("wav: open %s: %w", fileName, err)
	}

	reader := wav.NewReader(file)
	format, err := reader.Format()
	if err != nil {
		file.Close()
		return fmt.Errorf("wav: read format: %w", err)
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		file.Close()
		return fmt.Errorf("wav: unsupported format %d (only PCM)", format.AudioFormat)
	}

	d.file = file
	d.reader = reader
	d.rate = int(format.SampleRate)
	d.channels = int(format.NumChannels)
	d.bps = int(format.BitsPerSample)
	return nil
}

// Close closes the underlying file.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// GetFormat returns the format of the currently open stream.
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, d.bps
}

// DecodeSamples decodes up to samples frames into audio, little-endian.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("wav: decoder not open")
	}

	bytesPerSample := d.bps / 8
	decoded := 0

	for i := 0; i < samples; i++ {
		frame, err := d.reader.ReadSamples(1)
		if err != nil {
			return decoded, err
		}
		if len(frame) == 0 {
			return decoded, nil
		}

		for ch := 0; ch < d.channels; ch++ {
			if ch >= len(frame[0].Values) {
				break
			}
			value := frame[0].Values[ch]
			offset := (decoded*d.channels + ch) * bytesPerSample
			if offset+bytesPerSample > len(audio) {
				return decoded, nil
			}

			switch d.bps {
			case 8:
				audio[offset] = byte(value)
			case 16:
				audio[offset] = byte(value)
				audio[offset+1] = byte(value >> 8)
			case 24:
				audio[offset] = byte(value)
				audio[offset+1] = byte(value >> 8)
				audio[offset+2] = byte(value >> 16)
			case 32:
				audio[offset] = byte(value)
				audio[offset+1] = byte(value >> 8)
				audio[offset+2] = byte(value >> 16)
				audio[offset+3] = byte(value >> 24)
			default:
				return decoded, fmt.Errorf("wav: unsupported bits per sample: %d", d.bps)
			}
		}
		decoded++
	}
	return decoded, nil
}
