package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"
)

// supportedExtensions mirrors the formats internal/decoders knows how to
// open. Kept in this package (rather than importing internal/decoders, to
// avoid a scanner → decoder → scanner import cycle risk as decoders grow)
// since the scanner only needs the extension set, not a working decoder.
var supportedExtensions = map[string]bool{
	".flac": true,
	".fla":  true,
	".mp3":  true,
	".wav":  true,
	".opus": true,
	".ogg":  true,
}

// ScanResult holds the outcome of scanning a music directory: a freshly
// built Snapshot plus any per-file errors encountered along the way.
// Individual file failures are non-fatal; the scan continues past them.
type ScanResult struct {
	Snapshot *Snapshot
	Errors   map[string]error
}

// ScanDirectory walks dir recursively, builds a Snapshot from every
// supported audio file found, and assigns stable integer keys sorted by
// artist, album release year, album, track number, then path, so every
// Album lists its songs in track order and every Artist lists its songs in
// album-release-then-track order. This is a minimal concrete stand-in for the
// out-of-scope catalog-building subsystem: real deployments may replace it
// with a richer scanner, but the Kernel only ever depends on the Snapshot
// shape, not on how it was produced.
func ScanDirectory(dir string, version uint64) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "scan", Path: dir, Err: os.ErrInvalid}
	}

	type rawSong struct {
		path        string
		ext         string
		artist      string
		album       string
		title       string
		track       int
		releaseYear int
	}

	var raw []rawSong
	errs := make(map[string]error)

	walkErr := filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			errs[path] = err
			slog.Warn("catalog: error accessing path during scan", "path", path, "error", err)
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !supportedExtensions[ext] {
			return nil
		}

		artist, album, title, track, year := readTags(path)
		raw = append(raw, rawSong{
			path:        path,
			ext:         ext,
			artist:      artist,
			album:       album,
			title:       title,
			track:       track,
			releaseYear: year,
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(raw, func(i, j int) bool {
		a, b := raw[i], raw[j]
		if a.artist != b.artist {
			return a.artist < b.artist
		}
		if a.releaseYear != b.releaseYear {
			return a.releaseYear < b.releaseYear
		}
		if a.album != b.album {
			return a.album < b.album
		}
		if a.track != b.track {
			return a.track < b.track
		}
		return a.path < b.path
	})

	snap := &Snapshot{
		Artists: map[ArtistKey]Artist{},
		Albums:  map[AlbumKey]Album{},
		Songs:   map[SongKey]Song{},
		Version: version,
	}

	artistByName := map[string]ArtistKey{}
	albumByName := map[string]AlbumKey{} // keyed "artist\x00album"
	var nextArtist ArtistKey
	var nextAlbum AlbumKey
	var nextSong SongKey

	for _, r := range raw {
		artistKey, ok := artistByName[r.artist]
		if !ok {
			artistKey = nextArtist
			nextArtist++
			snap.Artists[artistKey] = Artist{Name: r.artist}
			artistByName[r.artist] = artistKey
		}

		albumID := r.artist + "\x00" + r.album
		albumKey, ok := albumByName[albumID]
		if !ok {
			albumKey = nextAlbum
			nextAlbum++
			snap.Albums[albumKey] = Album{Title: r.album, Artist: artistKey, Release: int64(r.releaseYear)}
			albumByName[albumID] = albumKey

			art := snap.Artists[artistKey]
			art.Albums = append(art.Albums, albumKey)
			snap.Artists[artistKey] = art
		}

		songKey := nextSong
		nextSong++

		rate, runtime := probeDuration(r.path)
		snap.Songs[songKey] = Song{
			Title:         r.title,
			Path:          r.path,
			ExtensionHint: r.ext,
			SampleRate:    rate,
			RuntimeSecs:   runtime,
			Album:         albumKey,
		}

		alb := snap.Albums[albumKey]
		alb.Songs = append(alb.Songs, songKey)
		snap.Albums[albumKey] = alb

		art := snap.Artists[artistKey]
		art.Songs = append(art.Songs, songKey)
		snap.Artists[artistKey] = art
	}

	// Drop any album that somehow ended up with zero songs (invariant:
	// Album.Songs has length >= 1).
	for k, alb := range snap.Albums {
		if len(alb.Songs) == 0 {
			delete(snap.Albums, k)
		}
	}

	slog.Info("catalog scan complete",
		"directory", dir,
		"songs", len(snap.Songs),
		"albums", len(snap.Albums),
		"artists", len(snap.Artists),
		"errors", len(errs))

	return &ScanResult{Snapshot: snap, Errors: errs}, nil
}

// readTags extracts artist/album/title/track/year from a file's embedded
// metadata, falling back to filename-derived values when tags are absent
// or unreadable — a file with no tags still belongs in the catalog.
func readTags(path string) (artist, album, title string, track, year int) {
	f, err := os.Open(path)
	if err != nil {
		return "Unknown Artist", "Unknown Album", filepath.Base(path), 0, 0
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "Unknown Artist", "Unknown Album", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), 0, 0
	}

	artist = m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}
	if artist == "" {
		artist = "Unknown Artist"
	}
	album = m.Album()
	if album == "" {
		album = "Unknown Album"
	}
	title = m.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	trackNum, _ := m.Track()
	return artist, album, title, trackNum, m.Year()
}

// probeDuration is a placeholder for a real format probe: the scanner's
// job is cataloging, not decoding, so it reports a conservative default
// rather than opening every file with a codec decoder during a scan of a
// potentially huge library. internal/audioengine.set() re-probes the real
// format with the actual decoder when the song is played.
func probeDuration(path string) (sampleRate, runtimeSecs int) {
	// Rough default only used for catalog display before first play;
	// replaced with the decoder's real format once a song is set().
	return 44100, 0
}
