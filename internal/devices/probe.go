package devices

import (
	"fmt"

	"github.com/drgolem/go-portaudio/portaudio"
)

// Probe reports whether deviceIndex can currently be opened for output, by
// building a short-lived stream against it and immediately closing it
// (spec §4.4 Design Note, can_connect: "builds then immediately drops a
// stream just to probe"). This implementation's Registry.List does not
// itself attempt to open each device, so Probe still carries its own
// information for a settings UI deciding which device to highlight.
func Probe(deviceIndex int) bool {
	info, err := portaudio.GetDeviceInfo(deviceIndex)
	if err != nil || info.MaxOutputChannels <= 0 {
		return false
	}

	params := portaudio.PaStreamParameters{
		DeviceIndex:  deviceIndex,
		ChannelCount: info.MaxOutputChannels,
		SampleFormat: portaudio.SampleFmtFloat32,
	}

	stream, err := portaudio.NewStream(params, info.DefaultSampleRate)
	if err != nil {
		return false
	}

	openErr := stream.Open(512)
	stream.Close()
	return openErr == nil
}

// MustResolve is a convenience for callers that want a resolution error
// formatted with the device name for display. It returns the error rather
// than panicking.
func MustResolve(r *Registry, name string) (int, error) {
	idx, err := r.Resolve(name)
	if err != nil {
		return 0, fmt.Errorf("resolve output device %q: %w", name, err)
	}
	return idx, nil
}
