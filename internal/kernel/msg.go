// Package kernel implements the single long-lived coordinator thread:
// five-phase boot, a four-way routing loop over Frontend/Audio/Search/
// Watch peers, catalog swap, and shutdown (spec.md §4.1 "Kernel").
package kernel

import (
	"github.com/nocturne-player/nocturne/internal/audioengine"
	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
)

// FrontendToKernel is the full command set a Frontend (in-process,
// rpcserver, or filesystem watch) can send the Kernel (spec.md §6
// "Command set").
type FrontendToKernel struct {
	Toggle   bool
	Play     bool
	Pause    bool
	Next     bool
	Previous *PreviousArgs
	Stop     bool
	Skip     *int
	Back     *BackArgs
	Seek     *SeekArgs

	QueueAddSong     *QueueAddSongArgs
	QueueAddAlbum    *QueueAddCollectionArgs
	QueueAddArtist   *QueueAddCollectionArgs
	QueueAddPlaylist *QueueAddPlaylistArgs
	QueueSetIndex    *int
	QueueRemoveRange *audioengine.RemoveRangeArgs
	Shuffle          bool
	Clear            *bool

	Repeat          *audiostate.Repeat
	Volume          *int
	SetOutputDevice *string

	NewCollection *NewCollectionArgs
	CachePath     *CachePathArgs
	Search        *SearchArgs

	RestoreAudioState bool
	Exit              bool
}

// PreviousArgs carries Previous's optional threshold override.
type PreviousArgs struct {
	Threshold *int
}

// BackArgs mirrors audioengine.BackArgs at the Frontend boundary.
type BackArgs struct {
	N         int
	Threshold *int
}

// SeekArgs mirrors audioengine.SeekArgs at the Frontend boundary.
type SeekArgs struct {
	Mode    audioengine.SeekMode
	Seconds int
}

// QueueAddSongArgs is queue_add_song's argument set.
type QueueAddSongArgs struct {
	Key    catalog.SongKey
	Append audioengine.AppendSpec
	Clear  bool
	Play   bool
}

// QueueAddCollectionArgs is shared by queue_add_album and queue_add_artist
// (both key a multi-song collection and pick a starting offset).
type QueueAddCollectionArgs struct {
	AlbumKey  catalog.AlbumKey
	ArtistKey catalog.ArtistKey
	Append    audioengine.AppendSpec
	Clear     bool
	Play      bool
	Offset    int
}

// QueueAddPlaylistArgs is queue_add_playlist's argument set.
type QueueAddPlaylistArgs struct {
	Name   string
	Append audioengine.AppendSpec
	Clear  bool
	Play   bool
	Offset int
}

// NewCollectionArgs requests a catalog rebuild from the given paths.
type NewCollectionArgs struct {
	Paths []string
}

// CachePathArgs requests the out-of-scope cache-conversion job run over
// paths. The Kernel only logs the request: no cache-conversion
// collaborator is wired in, and cmd/transform.go is a separate CLI tool.
type CachePathArgs struct {
	Paths []string
}

// SearchArgs is a Frontend search request, forwarded to internal/search.
type SearchArgs struct {
	Text string
	Kind int
}

// KernelToFrontend is the full event set the Kernel pushes to Frontends
// (spec.md §6 "Event set").
type KernelToFrontend struct {
	NewCollection  *catalog.Snapshot
	DropCollection bool
	ResetProgress  *ResetProgress
	SearchResp     *SearchResp
	DeviceError    error
	PlayError      error
	SeekError      error
	PathError      *audioengine.PathError
	Exit           error
}

// ResetProgress carries RESET_STATE's phase/percentage pair (spec.md §4.1
// "Catalog swap": "relay incremental progress (phase and percentage)
// through RESET_STATE") out to Frontends during a NewCollection rebuild.
type ResetProgress struct {
	Phase   string
	Percent int
}

// SearchResp carries a search result back out to Frontends.
type SearchResp struct {
	Keys []int
}
