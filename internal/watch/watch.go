// Package watch translates filesystem signals into Kernel commands
// (spec.md §6 "Filesystem signals"): a watcher observes a signal
// directory, and creation of an empty file with a known name (play,
// pause, next, volume_50, ...) becomes the matching command; the file is
// deleted after dispatch. Grounded on github.com/fsnotify/fsnotify, a real
// dependency of tphakala-birdnet-go's viper config stack.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Command is a decoded filesystem signal, handed to whatever translates
// it into a kernel.FrontendToKernel message.
type Command struct {
	Name string // e.g. "play", "volume"
	Arg  int    // parsed suffix, e.g. volume_50 -> 50; zero if none
}

// Watcher observes dir for zero-byte signal files and emits a Command for
// each one, deleting the file after dispatch. A created file with a
// non-empty body is ignored and left in place.
type Watcher struct {
	fsw *fsnotify.Watcher
	out chan<- Command
}

// New creates the signal directory if needed and starts watching it.
func New(dir string, out chan<- Command) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{fsw: fsw, out: out}, nil
}

// Run blocks, translating signal file creation events into Commands until
// Close is called.
func (w *Watcher) Run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			w.dispatch(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("watch: fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) dispatch(path string) {
	if fi, err := os.Stat(path); err != nil || fi.Size() != 0 {
		return
	}
	name := filepath.Base(path)
	cmd := parseSignalName(name)

	w.out <- cmd

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("watch: failed to remove dispatched signal file", "path", path, "error", err)
	}
}

// parseSignalName splits "volume_50" into Command{Name: "volume", Arg: 50}
// and leaves argument-less names like "play" with Arg: 0.
func parseSignalName(name string) Command {
	if i := strings.IndexByte(name, '_'); i >= 0 {
		if n, err := strconv.Atoi(name[i+1:]); err == nil {
			return Command{Name: name[:i], Arg: n}
		}
	}
	return Command{Name: name}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
