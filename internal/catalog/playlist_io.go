package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// playlistFile is the on-disk YAML shape for human-editable playlist
// import/export — distinct from the binary playlists.bin runtime store
// (internal/persist), which is not meant to be hand-edited. This exists so
// a user can back up or hand-author a playlist outside of the running
// daemon (SPEC_FULL.md §12).
type playlistFile struct {
	Playlists map[string][]playlistEntryYAML `yaml:"playlists"`
}

type playlistEntryYAML struct {
	Artist string `yaml:"artist"`
	Album  string `yaml:"album"`
	Title  string `yaml:"title"`
}

// ExportPlaylists writes p to path as human-readable YAML.
func ExportPlaylists(p Playlists, path string) error {
	doc := playlistFile{Playlists: make(map[string][]playlistEntryYAML, len(p))}
	for name, entries := range p {
		out := make([]playlistEntryYAML, 0, len(entries))
		for _, e := range entries {
			out = append(out, playlistEntryYAML{Artist: e.Artist, Album: e.Album, Title: e.Title})
		}
		doc.Playlists[name] = out
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal playlists: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write playlists file %s: %w", path, err)
	}
	return nil
}

// ImportPlaylists reads a YAML playlist file written by ExportPlaylists.
func ImportPlaylists(path string) (Playlists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlists file %s: %w", path, err)
	}

	var doc playlistFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal playlists file %s: %w", path, err)
	}

	out := make(Playlists, len(doc.Playlists))
	for name, entries := range doc.Playlists {
		list := make([]PlaylistEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, PlaylistEntry{Artist: e.Artist, Album: e.Album, Title: e.Title})
		}
		out[name] = list
	}
	return out, nil
}
