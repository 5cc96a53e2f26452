package audioengine

import (
	"errors"

	"github.com/nocturne-player/nocturne/internal/catalog"
)

var errSongNotFound = errors.New("audioengine: song key no longer present in catalog snapshot")

// set loads key as the current song: opens its decoder, replaces any
// currently playing reader, resets elapsed, and marks playback active
// (spec §4.2 "set(song_key)"). Callers are responsible for updating
// Queue/QueueIdx themselves beforehand; on success set only touches Song/
// Elapsed/Runtime/Playing. If the song is missing or cannot be opened, it
// reports a PathError and calls finish(), which also clears QueueIdx.
func (e *Engine) set(key catalog.SongKey) {
	song, ok := e.snapshot.Song(key)
	if !ok {
		e.reportPathError(key, errSongNotFound)
		e.finish()
		return
	}

	dec, err := e.openDecoder(song.Path)
	if err != nil {
		e.reportPathError(key, err)
		e.finish()
		return
	}

	if e.rd != nil {
		e.rd.close()
	}
	e.rd = newReader(key, dec)
	e.rd.path = song.Path

	e.out.Flush()

	k := key
	e.local.Song = &k
	e.local.Elapsed = 0
	e.local.Runtime = song.RuntimeSecs
	e.local.Playing = true

	artist, album, title, _ := e.snapshot.Resolve(key)
	e.bridge.SetMetadata(artist, album, title)
	e.bridge.SetPlaying(true)
	e.bridge.SetPosition(0, song.RuntimeSecs)
}

// finish clears the currently playing song without touching Queue itself,
// used when skip runs off the end of the queue with nothing left to play,
// and when a queue index or song cannot be played (spec §4.2 "otherwise: clear Song, QueueIdx, Elapsed, Runtime;
// stop playback").
func (e *Engine) finish() {
	if e.rd != nil {
		e.rd.close()
		e.rd = nil
	}
	e.local.Song = nil
	e.local.QueueIdx = nil
	e.local.Elapsed = 0
	e.local.Runtime = 0
	e.local.Playing = false
	e.bridge.SetPlaying(false)
	e.bridge.Stopped()
}
