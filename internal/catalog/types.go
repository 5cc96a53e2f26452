// Package catalog models the read-only, reference-counted music catalog:
// artists, albums, and songs indexed by stable integer keys. The catalog
// itself is built by an out-of-scope scanner (see scanner.go, which is
// kept in-tree as a minimal concrete implementation so the Kernel has a
// real catalog-builder peer to coordinate with during boot and collection
// swap), but the snapshot type and its invariants are core.
package catalog

// ArtistKey, AlbumKey, and SongKey are stable integer indices into the
// catalog's three key spaces. They are newtypes rather than bare ints so
// the compiler catches accidental cross-use (e.g. passing an AlbumKey
// where a SongKey is expected).
type (
	ArtistKey int
	AlbumKey  int
	SongKey   int
)

// Song is a single track: its file path, a hint about its format taken
// from the file extension, its native sample rate, its runtime in whole
// seconds, and the album it belongs to.
type Song struct {
	Title         string
	Path          string
	ExtensionHint string
	SampleRate    int
	RuntimeSecs   int
	Album         AlbumKey
}

// Album is an ordered list of its songs (track order). Invariant: every
// Album has at least one song — an album with zero songs is dropped by
// the scanner rather than published into a Snapshot.
type Album struct {
	Title   string
	Artist  ArtistKey
	Songs   []SongKey
	Release int64 // release year from the file's tags, 0 if unknown; orders an artist's albums
}

// Artist is an ordered list of song keys in album-release-then-track
// order, i.e. the flattened concatenation of every album's Songs in
// Release order.
type Artist struct {
	Name   string
	Albums []AlbumKey
	Songs  []SongKey
}
