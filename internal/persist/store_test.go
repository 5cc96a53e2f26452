package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
)

func TestSaveLoadAudioStateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	idx := 1
	d := audiostate.Description{
		Queue:    []audiostate.QueueEntryRef{{Artist: "A", Album: "B", Title: "C"}, {Artist: "A", Album: "B", Title: "D"}},
		QueueIdx: &idx,
		Song:     &audiostate.QueueEntryRef{Artist: "A", Album: "B", Title: "D"},
		Elapsed:  42,
		Runtime:  200,
		Playing:  true,
		Repeat:   audiostate.RepeatQueue,
		Volume:   70,
	}

	require.NoError(t, SaveAudioState(dir, d))

	got, err := LoadAudioState(dir)
	require.NoError(t, err)
	assert.Equal(t, d.Queue, got.Queue)
	require.NotNil(t, got.QueueIdx)
	assert.Equal(t, 1, *got.QueueIdx)
	assert.Equal(t, 42, got.Elapsed)
	assert.Equal(t, audiostate.RepeatQueue, got.Repeat)
}

func TestLoadAudioStateMissingFileReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()

	got, err := LoadAudioState(dir)
	require.NoError(t, err)
	assert.Equal(t, audiostate.Description{}, got)
}

func TestSaveLoadPlaylistsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p := catalog.Playlists{
		"favorites": {{Artist: "A", Album: "B", Title: "C"}},
	}

	require.NoError(t, SavePlaylists(dir, p))

	got, err := LoadPlaylists(dir)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestLoadAudioStateRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveAudioState(dir, audiostate.Description{}))

	// Corrupt the magic bytes directly.
	path := filepath.Join(dir, "audio.bin")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] = 'X'
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = LoadAudioState(dir)
	assert.Error(t, err)
}
