package audioengine

import (
	"github.com/nocturne-player/nocturne/internal/catalog"
	"github.com/nocturne-player/nocturne/internal/decoders"
)

// reader is the Audio Engine's per-song decode handle (spec §3
// "AudioReader"). The decoders.AudioDecoder implementations in this tree
// fuse demuxing and decoding behind a single DecodeSamples call, so unlike
// the Rust original's separate reader/decoder/timebase trio, reader here
// only needs to track the decoder and the frame→seconds conversion.
type reader struct {
	song    catalog.SongKey
	path    string
	decoder decoders.AudioDecoder

	sampleRate int // timebase denominator: elapsed = framesDecoded / sampleRate
	channels   int
	bps        int

	framesDecoded int64
	lastElapsed   int
}

func newReader(song catalog.SongKey, decoder decoders.AudioDecoder) *reader {
	rate, channels, bps := decoder.GetFormat()
	return &reader{
		song:       song,
		decoder:    decoder,
		sampleRate: rate,
		channels:   channels,
		bps:        bps,
	}
}

func (r *reader) close() {
	if r != nil && r.decoder != nil {
		r.decoder.Close()
	}
}

// elapsedSeconds converts frames decoded so far to whole seconds via the
// timebase, mirroring spec §4.2 step 7's "Convert the packet timestamp via
// timebase to whole seconds".
func (r *reader) elapsedSeconds() int {
	if r.sampleRate == 0 {
		return 0
	}
	return int(r.framesDecoded / int64(r.sampleRate))
}
