package audioengine

import (
	"log/slog"

	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// opToggle flips Playing, pausing or resuming Output to match.
func (e *Engine) opToggle() {
	if e.local.Playing {
		e.opPause()
	} else {
		e.opPlay()
	}
}

func (e *Engine) opPlay() {
	if e.local.Song == nil {
		return
	}
	if !e.local.Playing {
		if err := e.out.Play(); err != nil {
			e.reportDeviceError(err)
		}
	}
	e.local.Playing = true
	e.bridge.SetPlaying(true)
	e.syncStore()
}

func (e *Engine) opPause() {
	if e.local.Playing {
		if err := e.out.Pause(); err != nil {
			e.reportDeviceError(err)
		}
	}
	e.local.Playing = false
	e.bridge.SetPlaying(false)
	e.syncStore()
}

// opSkip is the Kernel-facing entry point for skip(n).
func (e *Engine) opSkip(n int) {
	e.skip(n)
	e.syncStore()
}

// skip implements spec §4.2 "skip(n)": RepeatSong restarts the current
// song; n==1 first tries the next queue slot, then queue-repeat wraparound
// (pausing if RepeatQueuePause), then finish(); n>1 is the same but jumps
// n slots ahead.
func (e *Engine) skip(n int) {
	if e.local.Repeat == audiostate.RepeatSong && e.local.Song != nil {
		e.set(*e.local.Song)
		return
	}

	if e.local.QueueIdx == nil || len(e.local.Queue) == 0 {
		e.finish()
		return
	}

	next := *e.local.QueueIdx + n
	if next >= 0 && next < len(e.local.Queue) {
		idx := next
		e.local.QueueIdx = &idx
		e.set(e.local.Queue[idx])
		return
	}

	if (e.local.Repeat == audiostate.RepeatQueue || e.local.Repeat == audiostate.RepeatQueuePause) && len(e.local.Queue) > 0 {
		idx := 0
		e.local.QueueIdx = &idx
		e.set(e.local.Queue[0])
		if e.local.Repeat == audiostate.RepeatQueuePause {
			e.local.Playing = false
			e.bridge.SetPlaying(false)
		}
		return
	}

	e.finish()
}

// opBack implements spec §4.2 "back(n, threshold)": if fewer than n songs
// precede the current index, jump to index 0; if elapsed exceeds the
// restart threshold, restart the current song in place instead of moving
// the queue position; otherwise step back n slots.
func (e *Engine) opBack(n int, threshold *int) {
	if len(e.local.Queue) == 0 {
		return
	}

	t := int(audiostate.PreviousThreshold.Load())
	if threshold != nil {
		t = *threshold
	}

	idx := 0
	if e.local.QueueIdx != nil {
		idx = *e.local.QueueIdx
	}

	switch {
	case idx < n:
		zero := 0
		e.local.QueueIdx = &zero
		e.set(e.local.Queue[0])
	case t > 0 && e.local.Elapsed > t:
		e.seekTo(0)
	default:
		newIdx := idx - n
		e.local.QueueIdx = &newIdx
		e.set(e.local.Queue[newIdx])
	}
	e.syncStore()
}

// opSeek implements spec §4.2 "seek(mode, seconds)": forward/absolute
// seeks past the end of the song instead roll over to skip(1); the actual
// reposition happens on the next Run iteration via pendingSeek so decode
// state stays consistent with whichever reader is active.
func (e *Engine) opSeek(mode SeekMode, seconds int) {
	if e.local.Song == nil {
		return
	}

	switch mode {
	case SeekForward:
		if e.local.Elapsed+seconds > e.local.Runtime {
			e.skip(1)
			e.syncStore()
			return
		}
		e.seekTo(e.local.Elapsed + seconds)
	case SeekBackward:
		e.seekTo(clampInt(e.local.Elapsed-seconds, 0, e.local.Runtime))
	case SeekAbsolute:
		if seconds > e.local.Runtime {
			e.skip(1)
			e.syncStore()
			return
		}
		e.seekTo(clampInt(seconds, 0, e.local.Runtime))
	}
	e.syncStore()
}

func (e *Engine) seekTo(seconds int) {
	t := seconds
	e.pendingSeek = &t
}

func (e *Engine) opVolume(v int) {
	v = clampInt(v, 0, 100)
	e.local.Volume = v
	audiostate.Volume.Store(int32(v))
	e.syncStore()
}

func (e *Engine) opRepeat(mode audiostate.Repeat) {
	e.local.Repeat = mode
	e.syncStore()
}

// opShuffle randomizes the queue order in place, re-seating QueueIdx at
// the start and re-set()ing to the new song at index 0 (spec §4.2
// "shuffle(): shuffle the queue; resume from index 0").
func (e *Engine) opShuffle() {
	if len(e.local.Queue) == 0 {
		return
	}
	e.rng.Shuffle(len(e.local.Queue), func(i, j int) {
		e.local.Queue[i], e.local.Queue[j] = e.local.Queue[j], e.local.Queue[i]
	})
	e.local.Shuffle = true
	idx := 0
	e.local.QueueIdx = &idx
	e.set(e.local.Queue[0])
	e.syncStore()
}

// opClear empties the queue. keepPlaying==true preserves the currently
// playing song outside the (now empty) queue; otherwise the song is
// stopped too (spec §4.2 "clear(keep_playing)").
func (e *Engine) opClear(keepPlaying bool) {
	e.local.Queue = nil
	e.local.QueueIdx = nil
	e.local.Playing = keepPlaying
	if !keepPlaying {
		e.finish()
	}
	e.syncStore()
}

func insertAt(queue []catalog.SongKey, at int, songs []catalog.SongKey) []catalog.SongKey {
	at = clampInt(at, 0, len(queue))
	out := make([]catalog.SongKey, 0, len(queue)+len(songs))
	out = append(out, queue[:at]...)
	out = append(out, songs...)
	out = append(out, queue[at:]...)
	return out
}

// opQueueAdd implements the four queue_add_* operations (spec §4.2):
// resolve the requested entity to its constituent songs, optionally clear
// the queue first, splice them in at back/front/index, and optionally
// start playing the newly added song at Offset (the first one when Offset
// is negative or not less than the number of songs added).
func (e *Engine) opQueueAdd(args *QueueAddArgs) {
	songs := e.resolveQueueAddSongs(args)
	if len(songs) == 0 {
		return
	}

	if args.Clear {
		e.local.Queue = nil
		e.local.QueueIdx = nil
	}

	insertIdx := len(e.local.Queue)
	switch args.Append.Mode {
	case AppendFront:
		insertIdx = 0
	case AppendIndex:
		insertIdx = args.Append.Index
	}

	e.local.Queue = insertAt(e.local.Queue, insertIdx, songs)

	if args.Play {
		offset := args.Offset
		if offset < 0 || offset >= len(songs) {
			offset = 0
		}
		playIdx := insertIdx + offset
		e.local.QueueIdx = &playIdx
		e.set(e.local.Queue[playIdx])
	}
	e.syncStore()
}

func (e *Engine) resolveQueueAddSongs(args *QueueAddArgs) []catalog.SongKey {
	switch args.Kind {
	case QueueSong:
		if _, ok := e.snapshot.Song(args.SongKey); ok {
			return []catalog.SongKey{args.SongKey}
		}
		return nil
	case QueueAlbum:
		if album, ok := e.snapshot.Album(args.AlbumKey); ok {
			return append([]catalog.SongKey(nil), album.Songs...)
		}
		return nil
	case QueueArtist:
		if artist, ok := e.snapshot.Artist(args.ArtistKey); ok {
			return append([]catalog.SongKey(nil), artist.Songs...)
		}
		return nil
	case QueuePlaylist:
		return args.Songs
	default:
		return nil
	}
}

// opQueueSetIndex jumps playback directly to queue position i (spec §4.2
// "queue_set_index(i)").
func (e *Engine) opQueueSetIndex(i int) {
	if i < 0 || i >= len(e.local.Queue) {
		e.finish()
		e.syncStore()
		return
	}
	idx := i
	e.local.QueueIdx = &idx
	e.set(e.local.Queue[i])
	e.syncStore()
}

// opQueueRemoveRange removes [start, end) from the queue, adjusting
// QueueIdx per spec §4.2 "queue_remove_range": if the current index equals
// start, next==true keeps playback at start (now pointing at what used to
// follow the removed range); if the current song falls inside the removed
// range anywhere else, next==true resets to index 0 and plays it (spec.md
// §8 seed scenario 6); otherwise (no next, or an empty queue) finish(); if
// the current index is after the removed range, shift it left by the
// number of entries removed; if before, leave it unchanged.
func (e *Engine) opQueueRemoveRange(args RemoveRangeArgs) {
	start := clampInt(args.Start, 0, len(e.local.Queue))
	end := clampInt(args.End, start, len(e.local.Queue))
	if start >= end {
		return
	}

	removed := end - start
	oldIdx := e.local.QueueIdx

	e.local.Queue = append(e.local.Queue[:start:start], e.local.Queue[end:]...)

	switch {
	case oldIdx == nil:
		// nothing playing; nothing to adjust.
	case *oldIdx < start:
		// unaffected.
	case *oldIdx >= start && *oldIdx < end:
		switch {
		case args.Next && *oldIdx == start && start < len(e.local.Queue):
			idx := start
			e.local.QueueIdx = &idx
			e.set(e.local.Queue[start])
		case args.Next && len(e.local.Queue) > 0:
			idx := 0
			e.local.QueueIdx = &idx
			e.set(e.local.Queue[0])
		default:
			e.finish()
		}
	default:
		idx := *oldIdx - removed
		e.local.QueueIdx = &idx
	}
	e.syncStore()
}

// opRestoreAudioState reloads the engine's local state from the shared
// Store (which the Kernel seeded at boot), republishes the process-wide
// volume atomic, and if a song is marked current, re-opens it and
// coarse-seeks to the persisted elapsed
// position (spec §4.1 "boot restore": the engine is the authority on
// whether a restored song can actually be opened).
func (e *Engine) opRestoreAudioState() {
	restored := e.store.Snapshot()
	e.local = restored
	audiostate.Volume.Store(int32(restored.Volume))

	if restored.Song == nil {
		e.syncStore()
		return
	}

	elapsed := restored.Elapsed
	e.set(*restored.Song)
	if elapsed > 0 {
		e.seekTo(elapsed)
	}
	if !restored.Playing {
		e.local.Playing = false
		e.bridge.SetPlaying(false)
		if err := e.out.Pause(); err != nil {
			e.reportDeviceError(err)
		}
	}
	e.syncStore()
}

// opSetOutputDevice delegates to Output; per spec §4.2 a failure here is
// logged but does not crash the engine or change playback state.
func (e *Engine) opSetOutputDevice(name string) {
	if err := e.out.SetDevice(name); err != nil {
		slog.Error("audioengine: set_output_device failed", "device", name, "error", err)
		e.reportDeviceError(err)
		return
	}
	e.deviceName = name
}

// opDropCollection releases the engine's reference to the live catalog
// (installing the sentinel Dummy snapshot) and blocks, discarding any
// other message, until NewCollection arrives (spec §4.1 "catalog swap":
// the Audio Engine must not resolve any SongKey against a stale catalog
// while a rebuild is in flight).
func (e *Engine) opDropCollection() {
	e.snapshot = catalog.Dummy()
	for {
		msg, ok := <-e.kernelIn
		if !ok {
			return
		}
		if msg.NewCollection != nil {
			e.opNewCollection(msg.NewCollection)
			return
		}
		slog.Warn("audioengine: discarding message received during collection swap")
	}
}

// opNewCollection installs the freshly rebuilt snapshot and re-derives the
// engine's local state from the shared Store, which the Kernel has
// already rewritten via audiostate.Restore by this point (spec §4.1
// "catalog swap" step 4: "Kernel ... re-resolves AudioState ... tells
// Audio Engine the swap is complete").
func (e *Engine) opNewCollection(snap *catalog.Snapshot) {
	e.snapshot = snap
	e.local = e.store.Snapshot()
	if e.local.Song == nil && e.rd != nil {
		e.rd.close()
		e.rd = nil
	}
}
