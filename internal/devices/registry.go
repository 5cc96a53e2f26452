// Package devices enumerates PortAudio output devices and resolves a
// device name (or the "Default Device" sentinel) to a concrete device
// index for internal/output to open (spec §4.4 "Device Registry").
package devices

import (
	"fmt"
	"sync"

	"github.com/drgolem/go-portaudio/portaudio"
)

// DefaultDeviceName is the sentinel that resolves to the host's default
// output device rather than any specific named device.
const DefaultDeviceName = "Default Device"

// Device is one enumerated PortAudio output device.
type Device struct {
	Index int
	Name  string
}

// Registry is a process-wide, lazily populated, RW-lock-protected list of
// available output devices, with DefaultDeviceName always present at index
// 0 of List()'s result (spec §4.4: "lazily initialized, RW-lock-protected
// Vec<String> of available device names, with Default Device always
// inserted at index 0").
type Registry struct {
	mu      sync.RWMutex
	devices []Device
}

var shared = &Registry{}

// Shared returns the process-wide device registry, populating it on first
// use.
func Shared() *Registry {
	shared.mu.RLock()
	populated := shared.devices != nil
	shared.mu.RUnlock()
	if !populated {
		shared.Refresh()
	}
	return shared
}

// Refresh re-enumerates the underlying host's output devices, replacing
// the cached list (spec §4.4 "update_available_devices() re-enumerates").
func (r *Registry) Refresh() error {
	count, err := portaudio.GetDeviceCount()
	if err != nil {
		return fmt.Errorf("devices: enumerate: %w", err)
	}

	list := make([]Device, 0, count+1)
	for i := 0; i < count; i++ {
		info, err := portaudio.GetDeviceInfo(i)
		if err != nil || info.MaxOutputChannels <= 0 {
			continue
		}
		list = append(list, Device{Index: i, Name: info.Name})
	}

	r.mu.Lock()
	r.devices = list
	r.mu.Unlock()
	return nil
}

// List returns the names of all enumerated output devices, with
// DefaultDeviceName always first.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.devices)+1)
	names = append(names, DefaultDeviceName)
	for _, d := range r.devices {
		names = append(names, d.Name)
	}
	return names
}

// Resolve maps name to a concrete device index. "Default Device" resolves
// to the host's default output device; any other name must match exactly
// one enumerated device (spec §4.4: "Resolution to a concrete device
// handle is by exact name match, failing on ambiguity or absence").
func (r *Registry) Resolve(name string) (int, error) {
	if name == "" || name == DefaultDeviceName {
		idx, err := portaudio.GetDefaultOutputDevice()
		if err != nil {
			return 0, fmt.Errorf("devices: no default output device: %w", err)
		}
		return idx, nil
	}

	r.mu.RLock()
	list := r.devices
	r.mu.RUnlock()

	return resolveByName(list, name)
}

// resolveByName implements the exact-match rule in isolation from
// PortAudio so it can be unit tested without real audio hardware: zero
// matches is an error, exactly one is the answer, more than one is an
// ambiguity error. This is the corrected form of Design Note 9.2's
// device-matching path (the source's inverted condition is not
// reproduced).
func resolveByName(list []Device, name string) (int, error) {
	var matches []Device
	for _, d := range list {
		if d.Name == name {
			matches = append(matches, d)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("devices: no device named %q", name)
	case 1:
		return matches[0].Index, nil
	default:
		return 0, fmt.Errorf("devices: ambiguous device name %q matches %d devices", name, len(matches))
	}
}
