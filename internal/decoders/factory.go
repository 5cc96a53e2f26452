package decoders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nocturne-player/nocturne/internal/decoders/flac"
	"github.com/nocturne-player/nocturne/internal/decoders/mp3"
	"github.com/nocturne-player/nocturne/internal/decoders/opus"
	"github.com/nocturne-player/nocturne/internal/decoders/vorbis"
	"github.com/nocturne-player/nocturne/internal/decoders/wav"
	"github.com/nocturne-player/nocturne/internal/nocturneerr"
)

// New opens fileName with the decoder appropriate to its extension,
// matching catalog.supportedExtensions.
func New(fileName string) (AudioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var decoder AudioDecoder
	switch ext {
	case ".mp3":
		decoder = mp3.NewDecoder()
	case ".flac", ".fla":
		decoder = flac.NewDecoder()
	case ".wav":
		decoder = wav.NewDecoder()
	case ".opus":
		decoder = opus.NewDecoder()
	case ".ogg":
		decoder = vorbis.NewDecoder()
	default:
		return nil, nocturneerr.New(nocturneerr.KindDecodeError,
			fmt.Errorf("unsupported file format: %s", ext))
	}

	if err := decoder.Open(fileName); err != nil {
		return nil, nocturneerr.New(nocturneerr.KindDecodeError,
			fmt.Errorf("open %s: %w", fileName, err))
	}
	return decoder, nil
}
