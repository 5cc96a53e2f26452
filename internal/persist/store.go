// Package persist implements the versioned, atomically written binary
// state files the Kernel reads at boot and writes at shutdown:
// audio.bin and playlists.bin (spec.md §6 "Persisted state layout").
//
// Each file carries a 4-byte magic plus a 1-byte version, tightly packed
// the way the teacher's pkg/audioframe.AudioFrame.Marshal header is
// (magic+version here standing in for audioframe's sample-rate/channels/
// bits-per-sample fields), followed by a gob-encoded body — gob instead of
// audioframe's hand-rolled little-endian fields because the payload here
// is a variable, evolving Go struct rather than a fixed PCM frame shape
// (SPEC_FULL.md §13 records this choice).
package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
	"github.com/nocturne-player/nocturne/internal/nocturneerr"
)

var magic = [4]byte{'N', 'C', 'T', 'N'}

const (
	audioVersion    byte = 1
	playlistVersion byte = 1
)

// SaveAudioState atomically writes d to <dataDir>/audio.bin.
func SaveAudioState(dataDir string, d audiostate.Description) error {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(d); err != nil {
		return nocturneerr.New(nocturneerr.KindSaveError, fmt.Errorf("persist: encode audio state: %w", err))
	}
	return writeAtomic(filepath.Join(dataDir, "audio.bin"), audioVersion, body.Bytes())
}

// LoadAudioState reads <dataDir>/audio.bin, returning the zero Description
// if no file exists yet, and an error only for read/version/decode
// failures on a file that does exist.
func LoadAudioState(dataDir string) (audiostate.Description, error) {
	var d audiostate.Description

	body, version, err := readVersioned(filepath.Join(dataDir, "audio.bin"))
	if err != nil {
		if os.IsNotExist(err) {
			return audiostate.Description{}, nil
		}
		return d, nocturneerr.New(nocturneerr.KindLoadError, err)
	}
	if version != audioVersion {
		return d, nocturneerr.New(nocturneerr.KindVersionError,
			fmt.Errorf("persist: audio.bin version %d unsupported (want %d)", version, audioVersion))
	}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&d); err != nil {
		return d, nocturneerr.New(nocturneerr.KindLoadError, fmt.Errorf("persist: decode audio state: %w", err))
	}
	return d, nil
}

// SavePlaylists atomically writes p to <dataDir>/playlists.bin.
func SavePlaylists(dataDir string, p catalog.Playlists) error {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(p); err != nil {
		return nocturneerr.New(nocturneerr.KindSaveError, fmt.Errorf("persist: encode playlists: %w", err))
	}
	return writeAtomic(filepath.Join(dataDir, "playlists.bin"), playlistVersion, body.Bytes())
}

// LoadPlaylists reads <dataDir>/playlists.bin, returning an empty
// Playlists if no file exists yet.
func LoadPlaylists(dataDir string) (catalog.Playlists, error) {
	body, version, err := readVersioned(filepath.Join(dataDir, "playlists.bin"))
	if err != nil {
		if os.IsNotExist(err) {
			return catalog.Playlists{}, nil
		}
		return nil, nocturneerr.New(nocturneerr.KindLoadError, err)
	}
	if version != playlistVersion {
		return nil, nocturneerr.New(nocturneerr.KindVersionError,
			fmt.Errorf("persist: playlists.bin version %d unsupported (want %d)", version, playlistVersion))
	}

	p := catalog.Playlists{}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&p); err != nil {
		return nil, nocturneerr.New(nocturneerr.KindLoadError, fmt.Errorf("persist: decode playlists: %w", err))
	}
	return p, nil
}

// writeAtomic writes magic+version+body to path via a temp file, fsync,
// and rename, so a crash mid-write never leaves a truncated file behind
// (spec.md §6 "Writes are atomic: write to *.tmp, fsync, rename").
func writeAtomic(path string, version byte, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}

	if _, err := f.Write(magic[:]); err != nil {
		f.Close()
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}
	if _, err := f.Write([]byte{version}); err != nil {
		f.Close()
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}
	if err := f.Close(); err != nil {
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return nocturneerr.New(nocturneerr.KindSaveError, err)
	}
	return nil
}

// readVersioned reads path, validates the magic, and returns the version
// byte and the body past the 5-byte header.
func readVersioned(path string) (body []byte, version byte, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < 5 || !bytes.Equal(data[:4], magic[:]) {
		return nil, 0, fmt.Errorf("persist: %s: bad magic", path)
	}
	return data[5:], data[4], nil
}
