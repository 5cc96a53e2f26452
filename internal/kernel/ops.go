package kernel

import (
	"log/slog"

	"github.com/nocturne-player/nocturne/internal/audioengine"
	"github.com/nocturne-player/nocturne/internal/search"
)

// handleFrontend translates one FrontendToKernel command into the
// appropriate peer message(s), implementing spec.md §6's command set.
// Commands from a single frontend are handled in the order received,
// preserving the FIFO ordering guarantee of spec.md §5.
func (k *Kernel) handleFrontend(msg FrontendToKernel) {
	switch {
	case msg.Exit:
		k.exit()

	case msg.Toggle:
		k.toAudio <- audioengine.KernelToAudio{Toggle: true}
	case msg.Play:
		k.toAudio <- audioengine.KernelToAudio{Play: true}
	case msg.Pause:
		k.toAudio <- audioengine.KernelToAudio{Pause: true}
	case msg.Next:
		n := 1
		k.toAudio <- audioengine.KernelToAudio{Skip: &n}
	case msg.Previous != nil:
		k.toAudio <- audioengine.KernelToAudio{Back: &audioengine.BackArgs{N: 1, Threshold: msg.Previous.Threshold}}
	case msg.Stop:
		keep := false
		k.toAudio <- audioengine.KernelToAudio{Clear: &keep}
	case msg.Skip != nil:
		k.toAudio <- audioengine.KernelToAudio{Skip: msg.Skip}
	case msg.Back != nil:
		k.toAudio <- audioengine.KernelToAudio{Back: &audioengine.BackArgs{N: msg.Back.N, Threshold: msg.Back.Threshold}}
	case msg.Seek != nil:
		k.toAudio <- audioengine.KernelToAudio{Seek: &audioengine.SeekArgs{Mode: msg.Seek.Mode, Seconds: msg.Seek.Seconds}}

	case msg.QueueAddSong != nil:
		a := msg.QueueAddSong
		k.toAudio <- audioengine.KernelToAudio{QueueAdd: &audioengine.QueueAddArgs{
			Kind: audioengine.QueueSong, SongKey: a.Key, Append: a.Append, Clear: a.Clear, Play: a.Play,
		}}
	case msg.QueueAddAlbum != nil:
		a := msg.QueueAddAlbum
		k.toAudio <- audioengine.KernelToAudio{QueueAdd: &audioengine.QueueAddArgs{
			Kind: audioengine.QueueAlbum, AlbumKey: a.AlbumKey, Append: a.Append, Clear: a.Clear, Play: a.Play, Offset: a.Offset,
		}}
	case msg.QueueAddArtist != nil:
		a := msg.QueueAddArtist
		k.toAudio <- audioengine.KernelToAudio{QueueAdd: &audioengine.QueueAddArgs{
			Kind: audioengine.QueueArtist, ArtistKey: a.ArtistKey, Append: a.Append, Clear: a.Clear, Play: a.Play, Offset: a.Offset,
		}}
	case msg.QueueAddPlaylist != nil:
		k.queueAddPlaylist(msg.QueueAddPlaylist)
	case msg.QueueSetIndex != nil:
		k.toAudio <- audioengine.KernelToAudio{QueueSetIndex: msg.QueueSetIndex}
	case msg.QueueRemoveRange != nil:
		k.toAudio <- audioengine.KernelToAudio{QueueRemoveRange: msg.QueueRemoveRange}
	case msg.Shuffle:
		k.toAudio <- audioengine.KernelToAudio{Shuffle: true}
	case msg.Clear != nil:
		k.toAudio <- audioengine.KernelToAudio{Clear: msg.Clear}

	case msg.Repeat != nil:
		k.toAudio <- audioengine.KernelToAudio{Repeat: msg.Repeat}
	case msg.Volume != nil:
		k.toAudio <- audioengine.KernelToAudio{Volume: msg.Volume}
	case msg.SetOutputDevice != nil:
		k.toAudio <- audioengine.KernelToAudio{SetOutputDevice: msg.SetOutputDevice}

	case msg.NewCollection != nil:
		k.swapCatalog(msg.NewCollection.Paths)
	case msg.CachePath != nil:
		slog.Info("kernel: cache_path requested, no collaborator registered", "paths", msg.CachePath.Paths)
	case msg.Search != nil:
		k.toSearchQuery <- search.Query{Text: msg.Search.Text, Kind: search.Kind(msg.Search.Kind)}

	case msg.RestoreAudioState:
		k.toAudio <- audioengine.KernelToAudio{RestoreAudioState: true}

	default:
		slog.Warn("kernel: empty or unrecognized frontend command")
	}
}

// queueAddPlaylist resolves name's entries against the live snapshot
// (something only Kernel can do, since it alone holds Playlists) before
// forwarding to Audio (spec.md §4.2 "queue_add_playlist").
func (k *Kernel) queueAddPlaylist(a *QueueAddPlaylistArgs) {
	songs := k.playlists.Resolve(a.Name, k.snapshot)
	if len(songs) == 0 {
		slog.Warn("kernel: queue_add_playlist resolved to zero songs", "playlist", a.Name)
		return
	}
	k.toAudio <- audioengine.KernelToAudio{QueueAdd: &audioengine.QueueAddArgs{
		Kind: audioengine.QueuePlaylist, Playlist: a.Name, Songs: songs,
		Append: a.Append, Clear: a.Clear, Play: a.Play, Offset: a.Offset,
	}}
}
