// Package mediakeys defines the narrow interface the Audio Engine and
// Kernel use to push playback state to an OS media-key / now-playing
// integration, and a logging no-op default (spec.md §6 "Media controls";
// SPEC_FULL.md §13 records why no concrete OS backend is wired: nothing in
// the retrieved corpus carries an MPRIS/SMTC/MediaPlayer library).
package mediakeys

import "log/slog"

// Bridge is implemented by a concrete OS media-key integration. It
// satisfies internal/audioengine.MediaBridge structurally (no import
// needed in either direction). It carries outbound playback state only;
// none of its methods delivers media-key events (Toggle, Raise, Quit, ...)
// back into the player.
type Bridge interface {
	SetPlaying(playing bool)
	SetPosition(elapsed, runtime int)
	SetMetadata(artist, album, title string)
	Stopped()
}

// NoopBridge logs every call and otherwise does nothing. It is the
// default Bridge when no OS integration is registered.
type NoopBridge struct{}

func (NoopBridge) SetPlaying(playing bool) {
	slog.Debug("mediakeys: SetPlaying", "playing", playing)
}

func (NoopBridge) SetPosition(elapsed, runtime int) {
	slog.Debug("mediakeys: SetPosition", "elapsed", elapsed, "runtime", runtime)
}

func (NoopBridge) SetMetadata(artist, album, title string) {
	slog.Debug("mediakeys: SetMetadata", "artist", artist, "album", album, "title", title)
}

func (NoopBridge) Stopped() {
	slog.Debug("mediakeys: Stopped")
}

var _ Bridge = NoopBridge{}
