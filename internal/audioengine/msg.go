// Package audioengine implements the Audio Engine: a single long-lived
// worker that owns the decoder, the Output device abstraction, and queue
// playback logic, and maintains the authoritative shared AudioState (spec
// §4.2 "Audio Engine").
package audioengine

import (
	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
	"github.com/nocturne-player/nocturne/internal/devices"
)

// Append selects where a queue_add_* operation inserts its songs.
type Append int

const (
	AppendBack Append = iota
	AppendFront
	AppendIndex
)

// AppendSpec is Append plus the Index payload when Append == AppendIndex.
type AppendSpec struct {
	Mode  Append
	Index int
}

// SeekMode selects how Seek interprets its seconds argument.
type SeekMode int

const (
	SeekForward SeekMode = iota
	SeekBackward
	SeekAbsolute
)

// KernelToAudio is the set of operations the Kernel (and, transitively,
// Frontend) can invoke on the Audio Engine (spec §4.2 "Operations exposed
// to Kernel").
type KernelToAudio struct {
	Toggle   bool
	Play     bool
	Pause    bool
	Skip     *int
	Back     *BackArgs
	Seek     *SeekArgs
	Volume   *int
	Repeat   *audiostate.Repeat
	Shuffle  bool
	Clear    *bool
	QueueAdd *QueueAddArgs

	QueueSetIndex   *int
	QueueRemoveRange *RemoveRangeArgs

	RestoreAudioState bool
	SetOutputDevice   *string

	DropCollection bool
	NewCollection  *catalog.Snapshot
}

// BackArgs carries the arguments to the back(n, threshold) operation.
type BackArgs struct {
	N         int
	Threshold *int // nil means "use audiostate.PreviousThreshold"
}

// SeekArgs carries the arguments to the seek(mode, seconds) operation.
type SeekArgs struct {
	Mode    SeekMode
	Seconds int
}

// QueueKind selects which catalog entity queue_add_* is adding.
type QueueKind int

const (
	QueueSong QueueKind = iota
	QueueAlbum
	QueueArtist
	QueuePlaylist
)

// QueueAddArgs carries the arguments common to queue_add_song/album/
// artist/playlist.
type QueueAddArgs struct {
	Kind      QueueKind
	SongKey   catalog.SongKey
	AlbumKey  catalog.AlbumKey
	ArtistKey catalog.ArtistKey

	// Playlist names the playlist for logging; Songs carries its already
	// resolved SongKeys, since resolving a playlist name requires the
	// Kernel's Playlists map, which the Audio Engine does not hold.
	Playlist string
	Songs    []catalog.SongKey

	Append AppendSpec
	Clear  bool
	Play   bool
	Offset int
}

// RemoveRangeArgs carries the arguments to queue_remove_range.
type RemoveRangeArgs struct {
	Start, End int
	Next       bool
}

// AudioToKernel is the set of asynchronous error/status reports the Audio
// Engine sends back to the Kernel (spec §4.2, `AudioToKernel`).
type AudioToKernel struct {
	DeviceError error
	PlayError   error
	SeekError   error
	PathError   *PathError
}

// PathError reports that the song at SongKey could not be opened.
type PathError struct {
	Song SongRef
	Err  error
}

// SongRef names a song without requiring the caller to hold a Snapshot.
type SongRef struct {
	Key catalog.SongKey
}

// MediaControlMsg is a minimal inbound message from an OS media-key
// bridge, polled alongside the Kernel channel per spec §4.2 step 1.
type MediaControlMsg struct {
	Toggle bool
	Play   bool
	Pause  bool
	Next   bool
	Prev   bool
}

// deviceResolver is the subset of *devices.Registry the engine needs,
// narrowed to ease testing with a fake.
type deviceResolver interface {
	Resolve(name string) (int, error)
}

var _ deviceResolver = (*devices.Registry)(nil)
