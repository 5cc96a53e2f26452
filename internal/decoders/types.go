// Package decoders defines the common AudioDecoder contract every codec
// backend implements, and a factory that picks one by file extension
// (spec §3 "AudioReader": "decoder: a codec decoder consuming [demuxed]
// packets and producing PCM frames").
package decoders

// AudioDecoder is the interface the Audio Engine's AudioReader decodes
// through, regardless of the underlying codec.
type AudioDecoder interface {
	// Open opens fileName for decoding, reading the format header.
	Open(fileName string) error

	// Close releases any codec and file handles.
	Close() error

	// GetFormat returns sample rate (Hz), channel count, and bits per
	// sample for the stream now open.
	GetFormat() (rate, channels, bitsPerSample int)

	// DecodeSamples decodes up to samples frames into audio, which must be
	// at least samples * channels * (bitsPerSample/8) bytes. Returns the
	// number of samples actually decoded; fewer than requested signals
	// approaching end of stream, zero with a nil error signals end of
	// stream cleanly.
	DecodeSamples(samples int, audio []byte) (int, error)
}
