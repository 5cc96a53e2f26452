package audiostate

import "github.com/nocturne-player/nocturne/internal/catalog"

// QueueEntryRef is a key-independent description of one queue slot,
// resolved to (artist, album, title) strings so it survives a catalog
// rebuild where every SongKey is reassigned (spec §4.1 "Catalog swap":
// "capture a restorable, key-independent description of AudioState").
type QueueEntryRef struct {
	Artist string
	Album  string
	Title  string
}

// Description is the restorable form of AudioState captured immediately
// before a catalog swap and re-resolved against the new snapshot once the
// swap completes.
type Description struct {
	Queue    []QueueEntryRef
	QueueIdx *int
	Song     *QueueEntryRef

	Elapsed int
	Runtime int
	Playing bool
	Repeat  Repeat
	Shuffle bool
	Volume  int
}

// Describe resolves st against snap, producing a Description that no
// longer depends on snap's key space.
func Describe(st AudioState, snap *catalog.Snapshot) Description {
	d := Description{
		QueueIdx: st.QueueIdx,
		Elapsed:  st.Elapsed,
		Runtime:  st.Runtime,
		Playing:  st.Playing,
		Repeat:   st.Repeat,
		Shuffle:  st.Shuffle,
		Volume:   st.Volume,
	}
	for _, k := range st.Queue {
		if artist, album, title, ok := snap.Resolve(k); ok {
			d.Queue = append(d.Queue, QueueEntryRef{Artist: artist, Album: album, Title: title})
		} else {
			d.Queue = append(d.Queue, QueueEntryRef{})
		}
	}
	if st.Song != nil {
		if artist, album, title, ok := snap.Resolve(*st.Song); ok {
			d.Song = &QueueEntryRef{Artist: artist, Album: album, Title: title}
		}
	}
	return d
}

// Restore re-resolves a Description against a newly installed snapshot,
// dropping queue entries and the current song that no longer exist (spec
// §4.1: "unresolved entries become None or are dropped"). The returned
// state still needs clamp semantics applied by the caller — Store.Replace
// does this.
func Restore(d Description, snap *catalog.Snapshot) AudioState {
	out := AudioState{
		Elapsed: d.Elapsed,
		Runtime: d.Runtime,
		Playing: d.Playing,
		Repeat:  d.Repeat,
		Shuffle: d.Shuffle,
		Volume:  d.Volume,
	}

	keyByRef := make(map[QueueEntryRef]catalog.SongKey, len(d.Queue))
	newQueue := make([]catalog.SongKey, 0, len(d.Queue))
	for _, ref := range d.Queue {
		if ref == (QueueEntryRef{}) {
			continue
		}
		if k, ok := keyByRef[ref]; ok {
			newQueue = append(newQueue, k)
			continue
		}
		if k, ok := snap.FindByNames(ref.Artist, ref.Album, ref.Title); ok {
			keyByRef[ref] = k
			newQueue = append(newQueue, k)
		}
	}
	out.Queue = newQueue

	if d.QueueIdx != nil && *d.QueueIdx >= 0 && *d.QueueIdx < len(d.Queue) {
		oldRef := d.Queue[*d.QueueIdx]
		if wantKey, ok := keyByRef[oldRef]; ok {
			for i, k := range newQueue {
				if k == wantKey {
					idx := i
					out.QueueIdx = &idx
					break
				}
			}
		}
	}

	if d.Song != nil {
		if k, ok := snap.FindByNames(d.Song.Artist, d.Song.Album, d.Song.Title); ok {
			out.Song = &k
		}
	}

	return out
}
