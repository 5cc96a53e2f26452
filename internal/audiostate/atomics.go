// Package audiostate holds AUDIO_STATE, the single authoritative
// description of playback, and the handful of process-wide atomics that
// sit alongside it (spec §5 "Shared resources"). Only internal/audioengine
// writes the RW-locked state in steady operation; internal/kernel writes it
// during boot restore and catalog swap. Everyone else only reads.
package audiostate

import "sync/atomic"

// Volume is the process-wide lock-free mirror of AudioState.Volume so the
// output write path can read the current gain every buffer without taking
// the AudioState RW-lock (spec §4.3 "Write").
var Volume atomic.Int32

// PreviousThreshold is the default elapsed-seconds boundary at which
// Back/Previous restarts the current song instead of moving to the prior
// queue entry, used when a call doesn't supply an explicit threshold.
var PreviousThreshold atomic.Int32

// Resetting is set for the duration of a catalog swap so auxiliary
// threads (e.g. a cache-warming job) can poll it and abort early rather
// than racing the rebuild.
var Resetting atomic.Bool

// MediaControlsRaise and MediaControlsShouldExit are flags for a frontend
// to observe, one per Raise and Quit media-key event. Nothing in this tree
// sets them.
var (
	MediaControlsRaise      atomic.Bool
	MediaControlsShouldExit atomic.Bool
)
