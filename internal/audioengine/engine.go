package audioengine

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
	"github.com/nocturne-player/nocturne/internal/decoders"
	"github.com/nocturne-player/nocturne/internal/output"
)

// msgProcessLimit bounds how many extra Kernel messages Run drains in a
// single iteration while playing, so a burst of queued operations cannot
// starve decode/write progress (spec §4.2 step 1: "drain up to
// MSG_PROCESS_LIMIT (=6) more without blocking").
const msgProcessLimit = 6

// decodeFrames is how many frames DecodeSamples is asked for per engine
// iteration, matching the teacher's pkg/audioplayer producer chunk size.
const decodeFrames = 4096

// sink is the subset of *output.Output the engine depends on, narrowed so
// tests can exercise operations without a real PortAudio stream.
type sink interface {
	Write(interleaved []float32) error
	Flush()
	Reopen(spec output.SignalSpec, duration int) error
	Pause() error
	Play() error
	SetDevice(name string) error
	Spec() output.SignalSpec
}

var _ sink = (*output.Output)(nil)

// MediaBridge is the narrow surface the engine pushes playback state
// through to an OS media-key/now-playing integration. internal/mediakeys
// implements it; engine depends only on this interface to avoid an
// audioengine <-> mediakeys import cycle.
type MediaBridge interface {
	SetPlaying(playing bool)
	SetPosition(elapsed, runtime int)
	SetMetadata(artist, album, title string)
	Stopped()
}

type noopBridge struct{}

func (noopBridge) SetPlaying(bool)            {}
func (noopBridge) SetPosition(int, int)       {}
func (noopBridge) SetMetadata(_, _, _ string) {}
func (noopBridge) Stopped()                   {}

// Engine is the single long-lived worker owning the decoder, the Output
// abstraction, and queue playback logic (spec §4.2 "Audio Engine").
type Engine struct {
	store *audiostate.Store
	local audiostate.AudioState

	snapshot *catalog.Snapshot

	rd          *reader
	pendingSeek *int

	out         sink
	registry    deviceResolver
	deviceName  string
	openDecoder func(path string) (decoders.AudioDecoder, error)

	kernelIn  <-chan KernelToAudio
	mediaIn   <-chan MediaControlMsg
	kernelOut chan<- AudioToKernel

	bridge MediaBridge
	rng    *rand.Rand
}

// NewEngine builds an Engine around an already-open Output and an initial
// catalog snapshot. kernelOut may be nil if the caller doesn't care about
// asynchronous error reports.
func NewEngine(
	store *audiostate.Store,
	snapshot *catalog.Snapshot,
	out sink,
	registry deviceResolver,
	deviceName string,
	kernelIn <-chan KernelToAudio,
	mediaIn <-chan MediaControlMsg,
	kernelOut chan<- AudioToKernel,
	bridge MediaBridge,
) *Engine {
	if bridge == nil {
		bridge = noopBridge{}
	}
	return &Engine{
		store:       store,
		local:       store.Snapshot(),
		snapshot:    snapshot,
		out:         out,
		registry:    registry,
		deviceName:  deviceName,
		openDecoder: decoders.New,
		kernelIn:    kernelIn,
		mediaIn:     mediaIn,
		kernelOut:   kernelOut,
		bridge:      bridge,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run is the engine's main loop (spec §4.2 steps 1-7). It never returns
// except when kernelIn is closed, which signals shutdown.
func (e *Engine) Run() {
	for {
		if !e.intake() {
			return
		}

		if e.pendingSeek != nil {
			e.applySeek()
		}

		if !e.local.Playing || e.rd == nil {
			continue
		}

		e.decodeTick()
	}
}

// intake implements step 1: while playing, poll without blocking so
// decode/write keeps making progress; while paused/stopped, flush the
// ring and block until a message arrives since there is nothing else to
// do. Returns false only when kernelIn has been closed.
func (e *Engine) intake() bool {
	if e.local.Playing {
		if !e.pollKernel() {
			return false
		}
		e.pollMedia()
		for i := 0; i < msgProcessLimit; i++ {
			more, ok := e.tryPollKernel()
			if !ok {
				return false
			}
			if !more {
				break
			}
		}
		return true
	}

	e.out.Flush()
	select {
	case msg, ok := <-e.kernelIn:
		if !ok {
			return false
		}
		e.handleKernel(msg)
	case msg, ok := <-e.mediaIn:
		if ok {
			e.handleMedia(msg)
		}
	}
	return true
}

// pollKernel does one non-blocking receive, handling a message if one was
// immediately available.
func (e *Engine) pollKernel() bool {
	select {
	case msg, ok := <-e.kernelIn:
		if !ok {
			return false
		}
		e.handleKernel(msg)
	default:
	}
	return true
}

// tryPollKernel is pollKernel but also reports whether it handled a
// message, for the msgProcessLimit drain loop.
func (e *Engine) tryPollKernel() (handled bool, ok bool) {
	select {
	case msg, chanOK := <-e.kernelIn:
		if !chanOK {
			return false, false
		}
		e.handleKernel(msg)
		return true, true
	default:
		return false, true
	}
}

func (e *Engine) pollMedia() {
	select {
	case msg, ok := <-e.mediaIn:
		if ok {
			e.handleMedia(msg)
		}
	default:
	}
}

func (e *Engine) handleMedia(msg MediaControlMsg) {
	switch {
	case msg.Toggle:
		e.opToggle()
	case msg.Play:
		e.opPlay()
	case msg.Pause:
		e.opPause()
	case msg.Next:
		e.opSkip(1)
	case msg.Prev:
		e.opBack(1, nil)
	}
}

func (e *Engine) handleKernel(msg KernelToAudio) {
	switch {
	case msg.Toggle:
		e.opToggle()
	case msg.Play:
		e.opPlay()
	case msg.Pause:
		e.opPause()
	case msg.Skip != nil:
		e.opSkip(*msg.Skip)
	case msg.Back != nil:
		e.opBack(msg.Back.N, msg.Back.Threshold)
	case msg.Seek != nil:
		e.opSeek(msg.Seek.Mode, msg.Seek.Seconds)
	case msg.Volume != nil:
		e.opVolume(*msg.Volume)
	case msg.Repeat != nil:
		e.opRepeat(*msg.Repeat)
	case msg.Shuffle:
		e.opShuffle()
	case msg.Clear != nil:
		e.opClear(*msg.Clear)
	case msg.QueueAdd != nil:
		e.opQueueAdd(msg.QueueAdd)
	case msg.QueueSetIndex != nil:
		e.opQueueSetIndex(*msg.QueueSetIndex)
	case msg.QueueRemoveRange != nil:
		e.opQueueRemoveRange(*msg.QueueRemoveRange)
	case msg.RestoreAudioState:
		e.opRestoreAudioState()
	case msg.SetOutputDevice != nil:
		e.opSetOutputDevice(*msg.SetOutputDevice)
	case msg.DropCollection:
		e.opDropCollection()
	case msg.NewCollection != nil:
		e.opNewCollection(msg.NewCollection)
	}
}

// decodeTick implements steps 4-7: decode one chunk of frames, reopen
// Output if the signal spec changed, write to Output, and advance the
// local elapsed-seconds tick (with rollover to skip(1) at end of stream).
func (e *Engine) decodeTick() {
	channels := e.rd.channels
	need := decodeFrames * channels * (e.rd.bps / 8)

	raw := make([]byte, need)
	n, err := e.rd.decoder.DecodeSamples(decodeFrames, raw)
	if err != nil || n == 0 {
		e.skip(1)
		return
	}

	spec := output.SignalSpec{Channels: e.rd.channels, SampleRate: e.rd.sampleRate}
	if spec != e.out.Spec() {
		if err := e.out.Reopen(spec, decodeFrames); err != nil {
			e.reportDeviceError(err)
		}
	}

	frameBytes := channels * (e.rd.bps / 8)
	pcm := raw[:n*frameBytes]
	samples := pcmToFloat32(pcm, e.rd.bps, nil)
	if err := e.out.Write(samples); err != nil {
		e.reportDeviceError(err)
		return
	}

	e.rd.framesDecoded += int64(n)
	elapsed := e.rd.elapsedSeconds()
	if elapsed != e.rd.lastElapsed {
		e.rd.lastElapsed = elapsed
		e.local.Elapsed = elapsed
		e.bridge.SetPosition(elapsed, e.local.Runtime)
		e.syncStore()
	}
}

// applySeek performs a coarse seek: since decoders.AudioDecoder has no
// native Seek, the reader's underlying file is reopened and frames up to
// the target position are decoded and discarded (spec §4.2 step 2: "issue
// a coarse seek on the reader").
func (e *Engine) applySeek() {
	target := *e.pendingSeek
	e.pendingSeek = nil

	if e.rd == nil {
		return
	}

	song, path := e.rd.song, e.rd.path

	dec, err := e.openDecoder(path)
	if err != nil {
		e.reportSeekError(err)
		return
	}

	rate, channels, bps := dec.GetFormat()
	discardFrames := target * rate
	buf := make([]byte, 4096*channels*(bps/8))
	discarded := 0
	for discarded < discardFrames {
		want := discardFrames - discarded
		if want*channels*(bps/8) > len(buf) {
			want = len(buf) / (channels * (bps / 8))
		}
		n, err := dec.DecodeSamples(want, buf)
		if err != nil || n == 0 {
			break
		}
		discarded += n
	}

	e.rd.close()
	e.rd = newReader(song, dec)
	e.rd.path = path
	e.rd.framesDecoded = int64(discarded)
	e.rd.lastElapsed = target
	e.local.Elapsed = target
	e.bridge.SetPosition(target, e.local.Runtime)
	e.syncStore()
}

func (e *Engine) reportDeviceError(err error) {
	slog.Error("audioengine: output error", "error", err)
	if e.kernelOut != nil {
		e.kernelOut <- AudioToKernel{DeviceError: err}
	}
}

func (e *Engine) reportSeekError(err error) {
	slog.Error("audioengine: seek error", "error", err)
	if e.kernelOut != nil {
		e.kernelOut <- AudioToKernel{SeekError: err}
	}
}

func (e *Engine) reportPathError(song catalog.SongKey, err error) {
	slog.Error("audioengine: path error", "song", song, "error", err)
	if e.kernelOut != nil {
		e.kernelOut <- AudioToKernel{PathError: &PathError{Song: SongRef{Key: song}, Err: err}}
	}
}

// syncStore publishes the engine's local AudioState to the shared Store
// so RPC/persistence readers observe the latest position and flags.
func (e *Engine) syncStore() {
	e.store.Replace(e.local.Clone())
}
