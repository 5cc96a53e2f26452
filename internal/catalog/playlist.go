package catalog

// PlaylistEntry references a song by the resolved (artist, album, title)
// triple rather than by raw SongKey, so a playlist survives a catalog
// rebuild (spec §3 "Playlists ... resilient to catalog swap"). Invalid
// marks an entry whose song could not be found in the current snapshot.
type PlaylistEntry struct {
	Artist  string
	Album   string
	Title   string
	Invalid bool
}

// Playlists maps a unique playlist name to its ordered list of entries.
type Playlists map[string][]PlaylistEntry

// Validate re-resolves every entry in every playlist against snap,
// marking entries whose song can no longer be found as Invalid. Called
// during boot's BootLoader phase and after a catalog swap.
func (p Playlists) Validate(snap *Snapshot) {
	for name, entries := range p {
		for i, e := range entries {
			_, ok := snap.FindByNames(e.Artist, e.Album, e.Title)
			entries[i].Invalid = !ok
		}
		p[name] = entries
	}
}

// Resolve returns the SongKeys for every valid entry in the named
// playlist, in order, skipping invalid entries.
func (p Playlists) Resolve(name string, snap *Snapshot) []SongKey {
	entries, ok := p[name]
	if !ok {
		return nil
	}
	keys := make([]SongKey, 0, len(entries))
	for _, e := range entries {
		if e.Invalid {
			continue
		}
		if k, ok := snap.FindByNames(e.Artist, e.Album, e.Title); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
