package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nocturne-player/nocturne/internal/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Songs: map[catalog.SongKey]catalog.Song{
			0: {Title: "Moonlight Sonata"},
			1: {Title: "Clair de Lune"},
		},
		Albums:  map[catalog.AlbumKey]catalog.Album{0: {Title: "Nocturnes"}},
		Artists: map[catalog.ArtistKey]catalog.Artist{0: {Name: "Debussy"}},
	}
}

func TestSearchSongMatchesCaseInsensitively(t *testing.T) {
	w := &Worker{snapshot: testSnapshot()}
	got := w.search(Query{Text: "moon", Kind: KindSong})
	assert.Equal(t, []int{0}, got.Keys)
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	w := &Worker{snapshot: testSnapshot()}
	got := w.search(Query{Text: "xyz", Kind: KindSong})
	assert.Empty(t, got.Keys)
}

func TestSearchEmptyQueryReturnsEmpty(t *testing.T) {
	w := &Worker{snapshot: testSnapshot()}
	got := w.search(Query{Text: "", Kind: KindSong})
	assert.Empty(t, got.Keys)
}

func TestSearchArtist(t *testing.T) {
	w := &Worker{snapshot: testSnapshot()}
	got := w.search(Query{Text: "debu", Kind: KindArtist})
	assert.Equal(t, []int{0}, got.Keys)
}
