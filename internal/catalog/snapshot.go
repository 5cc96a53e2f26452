package catalog

import "fmt"

// Snapshot is an immutable, shared view of the entire catalog at a point
// in time. Once published it is never mutated; a new Snapshot is produced
// wholesale by the scanner and installed by the Kernel via pointer swap
// (see internal/kernel/swap.go).
type Snapshot struct {
	Artists map[ArtistKey]Artist
	Albums  map[AlbumKey]Album
	Songs   map[SongKey]Song

	// Version is 1 for the snapshot scanned at boot and one more than the
	// replaced snapshot's for each successful scan during a catalog swap;
	// the empty Dummy snapshot (no path, or a failed scan) is version 0.
	// Useful for UIs and for logging which generation a restored
	// AudioState was validated against.
	Version uint64
}

// Dummy returns the sentinel empty snapshot used to let the Kernel
// temporarily release its strong reference to the live catalog during a
// swap (Design Note 9.1) without leaving any subsystem holding a nil
// pointer. It deliberately shares no storage with any real snapshot.
func Dummy() *Snapshot {
	return &Snapshot{
		Artists: map[ArtistKey]Artist{},
		Albums:  map[AlbumKey]Album{},
		Songs:   map[SongKey]Song{},
	}
}

// IsDummy reports whether s is (or looks like) the sentinel snapshot —
// empty and at version 0.
func (s *Snapshot) IsDummy() bool {
	return s != nil && s.Version == 0 && len(s.Songs) == 0 && len(s.Albums) == 0 && len(s.Artists) == 0
}

// Song looks up a song by key, reporting whether it exists.
func (s *Snapshot) Song(k SongKey) (Song, bool) {
	song, ok := s.Songs[k]
	return song, ok
}

// Album looks up an album by key, reporting whether it exists.
func (s *Snapshot) Album(k AlbumKey) (Album, bool) {
	album, ok := s.Albums[k]
	return album, ok
}

// Artist looks up an artist by key, reporting whether it exists.
func (s *Snapshot) Artist(k ArtistKey) (Artist, bool) {
	artist, ok := s.Artists[k]
	return artist, ok
}

// Resolve turns a SongKey into a (artist, album, title) triple of plain
// strings — the key-independent description used by the Kernel to survive
// a catalog swap (spec §4.1 "Catalog swap"): resolve before the swap,
// re-resolve by matching strings against the new snapshot afterwards.
func (s *Snapshot) Resolve(k SongKey) (artist, album, title string, ok bool) {
	song, exists := s.Songs[k]
	if !exists {
		return "", "", "", false
	}
	alb, exists := s.Albums[song.Album]
	if !exists {
		return "", "", song.Title, true
	}
	art, exists := s.Artists[alb.Artist]
	if !exists {
		return "", alb.Title, song.Title, true
	}
	return art.Name, alb.Title, song.Title, true
}

// FindByNames reverse-resolves a (artist, album, title) triple against
// this snapshot, returning the SongKey of a matching song if one exists.
// Uniqueness is not checked: when several songs share the triple, any one
// of them may be returned. Used
// during catalog-swap restore to remap resolved descriptions back to keys
// in the new snapshot.
func (s *Snapshot) FindByNames(artist, album, title string) (SongKey, bool) {
	for key, song := range s.Songs {
		alb, ok := s.Albums[song.Album]
		if !ok || alb.Title != album || song.Title != title {
			continue
		}
		art, ok := s.Artists[alb.Artist]
		if !ok || art.Name != artist {
			continue
		}
		return key, true
	}
	return 0, false
}

// Validate bounds-checks a SongKey against this snapshot, returning an
// error describing the out-of-range key if invalid. Used during boot's
// Kernel-validate phase.
func (s *Snapshot) Validate(k SongKey) error {
	if _, ok := s.Songs[k]; !ok {
		return fmt.Errorf("song key %d out of range for catalog version %d", k, s.Version)
	}
	return nil
}
