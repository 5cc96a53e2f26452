package kernel

import (
	"log/slog"
	"os"

	"github.com/nocturne-player/nocturne/internal/audioengine"
	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
	"github.com/nocturne-player/nocturne/internal/config"
	"github.com/nocturne-player/nocturne/internal/devices"
	"github.com/nocturne-player/nocturne/internal/mediakeys"
	"github.com/nocturne-player/nocturne/internal/output"
	"github.com/nocturne-player/nocturne/internal/persist"
	"github.com/nocturne-player/nocturne/internal/search"
	"github.com/nocturne-player/nocturne/internal/watch"
)

// Kernel is the single long-lived coordinator: it owns the catalog
// pointer and routes messages between Frontend, Audio, Search, and Watch
// (spec.md §4.1, §5 "Thread: Kernel ... owns catalog pointer, routing").
type Kernel struct {
	dataDir string

	store     *audiostate.Store
	snapshot  *catalog.Snapshot
	playlists catalog.Playlists

	toFrontend   chan<- KernelToFrontend
	fromFrontend <-chan FrontendToKernel

	toAudio   chan<- audioengine.KernelToAudio
	fromAudio <-chan audioengine.AudioToKernel

	toSearchSnapshot chan<- *catalog.Snapshot
	toSearchQuery    chan<- search.Query
	fromSearch       <-chan search.Result

	fromWatch <-chan watch.Command
	watcher   *watch.Watcher

	out *output.Output
}

// Spawn boots a Kernel on its own goroutine (spec.md §4.1 "spawn()") and
// returns the channel pair a Frontend uses to talk to it. Whether the
// filesystem signal watcher is started is decided by the Watch.Enabled
// setting loaded during boot.
func Spawn(dataDir string) (chan<- FrontendToKernel, <-chan KernelToFrontend) {
	toKernel := make(chan FrontendToKernel, 16)
	toFrontend := make(chan KernelToFrontend, 16)

	go bios(dataDir, toKernel, toFrontend)

	return toKernel, toFrontend
}

// bios is boot phase 1: force process-wide sentinels, load settings, and
// attempt to read the persisted AudioState/Playlists from disk (spec.md
// §4.1 boot phase 1 "BIOS").
func bios(dataDir string, fromFrontend <-chan FrontendToKernel, toFrontend chan<- KernelToFrontend) {
	slog.Info("kernel boot [1/5]: bios")

	audiostate.Resetting.Store(false)

	settings, err := config.Load(dataDir)
	if err != nil {
		slog.Error("kernel: failed to load config, using defaults", "error", err)
		settings = config.Default()
	}
	audiostate.PreviousThreshold.Store(int32(settings.Audio.PreviousThreshold))

	restoredDesc, err := persist.LoadAudioState(dataDir)
	if err != nil {
		slog.Warn("kernel: failed to load persisted audio state, starting fresh", "error", err)
	}

	playlists, err := persist.LoadPlaylists(dataDir)
	if err != nil {
		slog.Warn("kernel: failed to load persisted playlists, starting fresh", "error", err)
		playlists = catalog.Playlists{}
	}

	bootLoader(dataDir, settings, restoredDesc, playlists, fromFrontend, toFrontend)
}

// bootLoader is boot phase 2: build (or adopt an empty) catalog snapshot
// and validate playlists against it (spec.md §4.1 boot phase 2
// "BootLoader").
func bootLoader(
	dataDir string,
	settings config.Settings,
	restoredDesc audiostate.Description,
	playlists catalog.Playlists,
	fromFrontend <-chan FrontendToKernel,
	toFrontend chan<- KernelToFrontend,
) {
	slog.Info("kernel boot [2/5]: boot_loader")

	snap := catalog.Dummy()
	if len(settings.Library.Paths) > 0 {
		result, err := catalog.ScanDirectory(settings.Library.Paths[0], 1)
		if err != nil {
			slog.Error("kernel: initial catalog scan failed, starting with empty catalog", "error", err)
		} else {
			snap = result.Snapshot
		}
	}

	playlists.Validate(snap)

	kernelValidate(dataDir, settings, snap, restoredDesc, playlists, fromFrontend, toFrontend)
}

// kernelValidate is boot phase 3: bounds-check the restored AudioState
// against the snapshot that was just built (spec.md §4.1 boot phase 3
// "Kernel-validate").
func kernelValidate(
	dataDir string,
	settings config.Settings,
	snap *catalog.Snapshot,
	restoredDesc audiostate.Description,
	playlists catalog.Playlists,
	fromFrontend <-chan FrontendToKernel,
	toFrontend chan<- KernelToFrontend,
) {
	slog.Info("kernel boot [3/5]: kernel_validate")

	restored := audiostate.Restore(restoredDesc, snap)
	if restored.Volume == 0 && restoredDesc.Volume == 0 {
		restored.Volume = settings.Audio.DefaultVolume
	}

	initPhase(dataDir, settings, snap, restored, playlists, fromFrontend, toFrontend)
}

// initPhase is boot phase 4: publish AudioState, open Output, and spawn
// the Audio and Search workers (spec.md §4.1 boot phase 4 "Init").
func initPhase(
	dataDir string,
	settings config.Settings,
	snap *catalog.Snapshot,
	restored audiostate.AudioState,
	playlists catalog.Playlists,
	fromFrontend <-chan FrontendToKernel,
	toFrontend chan<- KernelToFrontend,
) {
	slog.Info("kernel boot [4/5]: init")

	store := audiostate.NewStore(restored)
	audiostate.Volume.Store(int32(restored.Volume))

	registry := devices.Shared()
	out, err := output.Open(registry, settings.Audio.OutputDevice, output.SignalSpec{Channels: 2, SampleRate: 44100}, 4096)
	if err != nil {
		slog.Error("kernel: failed to open audio output, exiting", "error", err)
		os.Exit(1)
	}
	go out.Run()

	toAudio := make(chan audioengine.KernelToAudio, 16)
	fromAudio := make(chan audioengine.AudioToKernel, 16)
	mediaIn := make(chan audioengine.MediaControlMsg, 4)

	engine := audioengine.NewEngine(store, snap, out, registry, settings.Audio.OutputDevice,
		toAudio, mediaIn, fromAudio, mediakeys.NoopBridge{})
	go engine.Run()

	toSearchSnapshot := make(chan *catalog.Snapshot, 1)
	toSearchQuery := make(chan search.Query, 8)
	fromSearch := make(chan search.Result, 8)
	searchWorker := search.NewWorker(toSearchSnapshot, toSearchQuery, fromSearch, snap)
	go searchWorker.Run()

	k := &Kernel{
		dataDir:          dataDir,
		store:            store,
		snapshot:         snap,
		playlists:        playlists,
		toFrontend:       toFrontend,
		fromFrontend:     fromFrontend,
		toAudio:          toAudio,
		fromAudio:        fromAudio,
		toSearchSnapshot: toSearchSnapshot,
		toSearchQuery:    toSearchQuery,
		fromSearch:       fromSearch,
		out:              out,
	}

	if settings.Watch.Enabled {
		signalDir := dataDir + "/signal"
		fromWatch := make(chan watch.Command, 16)
		w, err := watch.New(signalDir, fromWatch)
		if err != nil {
			slog.Warn("kernel: failed to start filesystem signal watcher", "error", err)
		} else {
			k.watcher = w
			k.fromWatch = fromWatch
			go w.Run()
		}
	}

	toFrontend <- KernelToFrontend{NewCollection: snap}

	k.userspace()
}

// userspace is boot phase 5: the routing loop, blocking on whichever of
// the four peer channels becomes ready next (spec.md §4.1 boot phase 5,
// §5 "Kernel: blocks on 4-way channel select").
func (k *Kernel) userspace() {
	slog.Info("kernel boot [5/5]: userspace")

	for {
		select {
		case msg, ok := <-k.fromFrontend:
			if !ok {
				slog.Error("kernel: frontend channel closed, fatal")
				os.Exit(1)
			}
			k.handleFrontend(msg)
		case msg, ok := <-k.fromAudio:
			if !ok {
				slog.Error("kernel: audio channel closed, fatal")
				os.Exit(1)
			}
			k.handleAudio(msg)
		case res, ok := <-k.fromSearch:
			if !ok {
				slog.Error("kernel: search channel closed, fatal")
				os.Exit(1)
			}
			k.toFrontend <- KernelToFrontend{SearchResp: &SearchResp{Keys: res.Keys}}
		case cmd, ok := <-k.fromWatch:
			if ok {
				k.handleWatch(cmd)
			}
		}
	}
}

func (k *Kernel) handleAudio(msg audioengine.AudioToKernel) {
	out := KernelToFrontend{}
	switch {
	case msg.DeviceError != nil:
		out.DeviceError = msg.DeviceError
	case msg.PlayError != nil:
		out.PlayError = msg.PlayError
	case msg.SeekError != nil:
		out.SeekError = msg.SeekError
	case msg.PathError != nil:
		out.PathError = msg.PathError
	default:
		return
	}
	k.toFrontend <- out
}

func (k *Kernel) handleWatch(cmd watch.Command) {
	switch cmd.Name {
	case "play":
		k.toAudio <- audioengine.KernelToAudio{Play: true}
	case "pause":
		k.toAudio <- audioengine.KernelToAudio{Pause: true}
	case "toggle":
		k.toAudio <- audioengine.KernelToAudio{Toggle: true}
	case "next":
		n := 1
		k.toAudio <- audioengine.KernelToAudio{Skip: &n}
	case "previous":
		k.toAudio <- audioengine.KernelToAudio{Back: &audioengine.BackArgs{N: 1}}
	case "stop":
		keep := false
		k.toAudio <- audioengine.KernelToAudio{Clear: &keep}
	case "volume":
		v := cmd.Arg
		k.toAudio <- audioengine.KernelToAudio{Volume: &v}
	default:
		slog.Warn("kernel: unrecognized filesystem signal", "name", cmd.Name)
	}
}

// exit is Kernel shutdown (spec.md §4.1 "Shutdown"): snapshot VOLUME into
// AudioState, persist state and playlists, reply Exit, then park forever.
func (k *Kernel) exit() {
	st := k.store.Snapshot()
	st.Volume = int(audiostate.Volume.Load())
	k.store.Replace(st)

	desc := audiostate.Describe(st, k.snapshot)

	var exitErr error
	if err := persist.SaveAudioState(k.dataDir, desc); err != nil {
		slog.Error("kernel: failed to persist audio state on exit", "error", err)
		exitErr = err
	}
	if err := persist.SavePlaylists(k.dataDir, k.playlists); err != nil {
		slog.Error("kernel: failed to persist playlists on exit", "error", err)
		exitErr = err
	}

	if k.watcher != nil {
		k.watcher.Close()
	}
	k.out.Close()

	k.toFrontend <- KernelToFrontend{Exit: exitErr}

	slog.Info("kernel: exit complete, parking")
	select {} // park indefinitely; process termination ends the goroutine
}
