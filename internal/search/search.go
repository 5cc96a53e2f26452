// Package search is the thinnest possible in-process stand-in for the
// fuzzy search index spec.md §1 explicitly places out of scope (an
// external collaborator): it gives the Kernel's four-way routing loop a
// real peer with a real channel contract to route to, rather than a
// placeholder nobody calls.
package search

import (
	"strings"

	"github.com/nocturne-player/nocturne/internal/catalog"
)

// Kind selects which entity type a Query searches over.
type Kind int

const (
	KindSong Kind = iota
	KindAlbum
	KindArtist
)

// Query is the Kernel-to-Search request.
type Query struct {
	Text string
	Kind Kind
}

// Result is the Search-to-Kernel response, carrying matched keys as plain
// ints so Result stays independent of which key type Kind selected.
type Result struct {
	Keys []int
}

// Worker runs the search loop: one goroutine reading snapshot-swap and
// query messages from Kernel, replying on a result channel.
type Worker struct {
	queries  <-chan Query
	results  chan<- Result
	snapshot *catalog.Snapshot
}

// NewWorker builds a Worker around the channels Kernel drives it with.
func NewWorker(snapshotIn <-chan *catalog.Snapshot, queries <-chan Query, results chan<- Result, initial *catalog.Snapshot) *Worker {
	w := &Worker{queries: queries, results: results, snapshot: initial}
	go w.watchSnapshots(snapshotIn)
	return w
}

func (w *Worker) watchSnapshots(snapshotIn <-chan *catalog.Snapshot) {
	for snap := range snapshotIn {
		w.snapshot = snap
	}
}

// Run blocks, answering queries until the queries channel is closed.
func (w *Worker) Run() {
	for q := range w.queries {
		w.results <- w.search(q)
	}
}

func (w *Worker) search(q Query) Result {
	if w.snapshot == nil || q.Text == "" {
		return Result{}
	}
	needle := strings.ToLower(q.Text)

	var keys []int
	switch q.Kind {
	case KindSong:
		for k, song := range w.snapshot.Songs {
			if strings.Contains(strings.ToLower(song.Title), needle) {
				keys = append(keys, int(k))
			}
		}
	case KindAlbum:
		for k, album := range w.snapshot.Albums {
			if strings.Contains(strings.ToLower(album.Title), needle) {
				keys = append(keys, int(k))
			}
		}
	case KindArtist:
		for k, artist := range w.snapshot.Artists {
			if strings.Contains(strings.ToLower(artist.Name), needle) {
				keys = append(keys, int(k))
			}
		}
	}
	return Result{Keys: keys}
}
