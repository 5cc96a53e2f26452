package kernel

import (
	"log/slog"

	"github.com/nocturne-player/nocturne/internal/audioengine"
	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
)

// swapCatalog implements spec.md §4.1 "Catalog swap": release the
// snapshot reference held by Audio/Search, capture a restorable
// description of AudioState, rebuild from paths, then re-resolve and
// broadcast the new snapshot. Runs synchronously on the Kernel goroutine
// — there is no separate CatalogBuilder thread in this tree, since
// internal/catalog's scanner (unlike the out-of-scope original builder)
// is not CPU-bound enough on typical libraries to warrant one.
func (k *Kernel) swapCatalog(paths []string) {
	audiostate.Resetting.Store(true)
	defer audiostate.Resetting.Store(false)

	slog.Info("kernel: catalog swap starting", "paths", paths)

	k.toAudio <- audioengine.KernelToAudio{DropCollection: true}
	k.toSearchSnapshot <- catalog.Dummy()
	k.toFrontend <- KernelToFrontend{DropCollection: true}
	k.reportResetProgress("scanning", 0)

	desc := audiostate.Describe(k.store.Snapshot(), k.snapshot)
	nextVersion := k.snapshot.Version + 1
	k.snapshot = catalog.Dummy()

	var newSnap *catalog.Snapshot
	if len(paths) > 0 {
		result, err := catalog.ScanDirectory(paths[0], nextVersion)
		if err != nil {
			slog.Error("kernel: catalog swap scan failed, keeping empty catalog", "error", err)
			newSnap = catalog.Dummy()
		} else {
			newSnap = result.Snapshot
		}
	} else {
		newSnap = catalog.Dummy()
	}
	k.reportResetProgress("scanning", 70)

	k.playlists.Validate(newSnap)
	k.reportResetProgress("validating", 90)

	restored := audiostate.Restore(desc, newSnap)
	k.store.Replace(restored)
	k.snapshot = newSnap

	k.toSearchSnapshot <- newSnap
	k.toAudio <- audioengine.KernelToAudio{NewCollection: newSnap}
	k.reportResetProgress("done", 100)
	k.toFrontend <- KernelToFrontend{NewCollection: newSnap}

	slog.Info("kernel: catalog swap complete", "songs", len(newSnap.Songs), "version", newSnap.Version)
}

// reportResetProgress pushes a RESET_STATE phase/percentage pair to
// Frontend. The scanner itself is synchronous and doesn't report
// sub-progress, so swapCatalog calls this at its own phase boundaries
// (start, post-scan, post-validate, done) rather than from inside the
// scan loop.
func (k *Kernel) reportResetProgress(phase string, percent int) {
	k.toFrontend <- KernelToFrontend{ResetProgress: &ResetProgress{Phase: phase, Percent: percent}}
}
