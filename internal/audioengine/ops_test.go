package audioengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
	"github.com/nocturne-player/nocturne/internal/decoders"
	"github.com/nocturne-player/nocturne/internal/output"
)

type fakeDecoder struct {
	rate, channels, bps int
	open                bool
}

func (d *fakeDecoder) Open(string) error { d.open = true; return nil }
func (d *fakeDecoder) Close() error      { d.open = false; return nil }
func (d *fakeDecoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, d.bps
}
func (d *fakeDecoder) DecodeSamples(samples int, audio []byte) (int, error) {
	return 0, nil // immediate end-of-stream, enough to exercise skip/finish paths
}

func fakeOpenDecoder(string) (decoders.AudioDecoder, error) {
	return &fakeDecoder{rate: 44100, channels: 2, bps: 16}, nil
}

type fakeSink struct{ spec output.SignalSpec }

func (f *fakeSink) Write([]float32) error                      { return nil }
func (f *fakeSink) Flush()                                      {}
func (f *fakeSink) Reopen(spec output.SignalSpec, _ int) error { f.spec = spec; return nil }
func (f *fakeSink) Pause() error                                { return nil }
func (f *fakeSink) Play() error                                  { return nil }
func (f *fakeSink) SetDevice(string) error                       { return nil }
func (f *fakeSink) Spec() output.SignalSpec                      { return f.spec }

type fakeRegistry struct{}

func (fakeRegistry) Resolve(string) (int, error) { return 0, nil }

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Artists: map[catalog.ArtistKey]catalog.Artist{0: {Name: "A", Songs: []catalog.SongKey{0, 1, 2}}},
		Albums:  map[catalog.AlbumKey]catalog.Album{0: {Title: "Alb", Artist: 0, Songs: []catalog.SongKey{0, 1, 2}}},
		Songs: map[catalog.SongKey]catalog.Song{
			0: {Title: "One", Path: "/one.flac", RuntimeSecs: 100, Album: 0},
			1: {Title: "Two", Path: "/two.flac", RuntimeSecs: 100, Album: 0},
			2: {Title: "Three", Path: "/three.flac", RuntimeSecs: 100, Album: 0},
		},
		Version: 1,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store := audiostate.NewStore(audiostate.Default())
	e := NewEngine(store, testSnapshot(), &fakeSink{}, fakeRegistry{}, "Default Device",
		make(chan KernelToAudio), make(chan MediaControlMsg), nil, nil)
	e.openDecoder = fakeOpenDecoder
	return e
}

func TestOpQueueAddSongPlaysImmediately(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueSong, SongKey: 1, Append: AppendSpec{Mode: AppendBack}, Play: true})

	require.NotNil(t, e.local.Song)
	assert.Equal(t, catalog.SongKey(1), *e.local.Song)
	assert.True(t, e.local.Playing)
	assert.Equal(t, 100, e.local.Runtime)
}

func TestOpQueueAddAlbumAppendsAllSongsInOrder(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}})

	assert.Equal(t, []catalog.SongKey{0, 1, 2}, e.local.Queue)
	assert.Nil(t, e.local.QueueIdx)
}

func TestOpSkipAdvancesWithinQueue(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})
	require.NotNil(t, e.local.QueueIdx)
	require.Equal(t, 0, *e.local.QueueIdx)

	e.opSkip(1)

	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 1, *e.local.QueueIdx)
	assert.Equal(t, catalog.SongKey(1), *e.local.Song)
}

func TestOpSkipPastEndWithoutRepeatFinishes(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueSong, SongKey: 2, Append: AppendSpec{Mode: AppendBack}, Play: true})

	e.opSkip(1)

	assert.Nil(t, e.local.Song)
	assert.Nil(t, e.local.QueueIdx)
	assert.False(t, e.local.Playing)
}

func TestOpSkipPastEndWithRepeatQueueWraps(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})
	e.opRepeat(audiostate.RepeatQueue)

	idx := 2
	e.local.QueueIdx = &idx
	e.set(e.local.Queue[2])

	e.opSkip(1)

	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 0, *e.local.QueueIdx)
	assert.True(t, e.local.Playing)
}

func TestOpSkipPastEndWithRepeatQueuePauseStops(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})
	e.opRepeat(audiostate.RepeatQueuePause)

	idx := 2
	e.local.QueueIdx = &idx
	e.set(e.local.Queue[2])

	e.opSkip(1)

	assert.False(t, e.local.Playing)
	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 0, *e.local.QueueIdx)
}

func TestOpBackJumpsToStartWhenFewerThanNPrecede(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})

	e.opBack(5, nil)

	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 0, *e.local.QueueIdx)
}

func TestOpBackRestartsSongPastThreshold(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})
	idx := 1
	e.local.QueueIdx = &idx
	e.local.Elapsed = 10

	threshold := 5
	e.opBack(1, &threshold)

	require.NotNil(t, e.pendingSeek)
	assert.Equal(t, 0, *e.pendingSeek)
	assert.Equal(t, 1, *e.local.QueueIdx) // queue position unchanged, only a seek was issued
}

func TestOpVolumeClampsToRange(t *testing.T) {
	e := newTestEngine(t)
	e.opVolume(150)
	assert.Equal(t, 100, e.local.Volume)

	e.opVolume(-10)
	assert.Equal(t, 0, e.local.Volume)
}

func TestOpClearKeepPlayingPreservesCurrentSong(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})

	e.opClear(true)

	assert.Empty(t, e.local.Queue)
	assert.Nil(t, e.local.QueueIdx)
	assert.NotNil(t, e.local.Song)
	assert.True(t, e.local.Playing)
}

func TestOpClearWithoutKeepPlayingStopsPlayback(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})

	e.opClear(false)

	assert.Empty(t, e.local.Queue)
	assert.Nil(t, e.local.Song)
	assert.False(t, e.local.Playing)
}

func TestOpQueueRemoveRangeShiftsIndexAfterRemoval(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})
	idx := 2
	e.local.QueueIdx = &idx
	e.set(e.local.Queue[2])

	e.opQueueRemoveRange(RemoveRangeArgs{Start: 0, End: 1})

	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 1, *e.local.QueueIdx)
	assert.Equal(t, []catalog.SongKey{1, 2}, e.local.Queue)
}

func TestOpQueueRemoveRangeCoveringCurrentSongWithNextAdvances(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})

	e.opQueueRemoveRange(RemoveRangeArgs{Start: 0, End: 1, Next: true})

	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 0, *e.local.QueueIdx)
	assert.Equal(t, catalog.SongKey(1), *e.local.Song)
}

// TestOpShufflePreservesQueueMembership exercises spec.md §8's "Shuffle
// preserves membership" invariant: the reordered queue is a permutation of
// the original, same length and same multiset of keys.
func TestOpShufflePreservesQueueMembership(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})
	before := append([]catalog.SongKey(nil), e.local.Queue...)

	e.opShuffle()

	assert.Len(t, e.local.Queue, len(before))
	assert.ElementsMatch(t, before, e.local.Queue)
	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 0, *e.local.QueueIdx)
	assert.Equal(t, e.local.Queue[0], *e.local.Song)
}

// TestOpSkipThenOpBackReturnsToStartingIndex exercises spec.md §8's
// "Skip/Back inverse under full history": from index i, skip(k) then
// back(k, threshold=0) returns to i, provided i+k < len(queue) and
// repeat=Off.
func TestOpSkipThenOpBackReturnsToStartingIndex(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendBack}, Play: true})
	require.NotNil(t, e.local.QueueIdx)
	start := *e.local.QueueIdx

	e.opSkip(1)
	require.NotNil(t, e.local.QueueIdx)
	require.Equal(t, start+1, *e.local.QueueIdx)

	zeroThreshold := 0
	e.opBack(1, &zeroThreshold)

	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, start, *e.local.QueueIdx)
	assert.Equal(t, e.local.Queue[start], *e.local.Song)
}

// TestOpQueueAddOffsetOutOfRangeTreatedAsZero covers spec.md §4.2's
// queue_add_* "offset" rule: an offset >= the number of songs being added
// is treated as 0 (the first song), not clamped to the last.
func TestOpQueueAddOffsetOutOfRangeTreatedAsZero(t *testing.T) {
	e := newTestEngine(t)
	e.opQueueAdd(&QueueAddArgs{Kind: QueueAlbum, AlbumKey: 0, Append: AppendSpec{Mode: AppendFront}, Play: true, Offset: 5})

	require.NotNil(t, e.local.QueueIdx)
	assert.Equal(t, 0, *e.local.QueueIdx)
	assert.Equal(t, catalog.SongKey(0), *e.local.Song)
}
