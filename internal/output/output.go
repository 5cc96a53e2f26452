// Package output bridges decoded PCM from the Audio Engine to the
// operating-system audio host: it owns the platform stream, a
// single-producer/single-consumer ring buffer of f32 samples, per-sample
// volume gain, and transparent device reopen when the signal spec changes
// (spec §4.3 "Output").
package output

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/drgolem/go-portaudio/portaudio"

	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/devices"
	"github.com/nocturne-player/nocturne/internal/nocturneerr"
	"github.com/nocturne-player/nocturne/internal/ringbuffer"
)

// retryInterval bounds how often Open retries a failed stream start
// (spec §4.3 "retry every RETRY_SECONDS (=1 s) forever").
const retryInterval = time.Second

// ringMillis is the target ring buffer fill duration in milliseconds
// (spec §3 "Output state ... sized to ≈50 ms of audio").
const ringMillis = 50

// SignalSpec is the channel count and sample rate of the stream Output is
// currently configured for.
type SignalSpec struct {
	Channels   int
	SampleRate int
}

func (s SignalSpec) frameBytes() int {
	return s.Channels * 4 // interleaved f32
}

// Output owns the resolved device, the running stream, and the ring
// buffer the Audio Engine writes decoded samples into.
type Output struct {
	registry    *devices.Registry
	deviceIndex int
	deviceName  string

	spec     SignalSpec
	duration int // frames per decoder buffer

	ring    *ringbuffer.RingBuffer
	scratch []float32

	stream  *portaudio.PaStream
	paused  bool
	stopped chan struct{}
}

// Open resolves deviceName (or devices.DefaultDeviceName), builds a ring
// buffer sized for spec, and retries starting the platform stream forever
// every retryInterval until it succeeds (spec §4.3 "Open").
func Open(registry *devices.Registry, deviceName string, spec SignalSpec, duration int) (*Output, error) {
	idx, err := registry.Resolve(deviceName)
	if err != nil {
		return nil, nocturneerr.New(nocturneerr.KindInvalidOutputDevice, err)
	}

	o := &Output{
		registry:    registry,
		deviceIndex: idx,
		deviceName:  deviceName,
		duration:    duration,
		stopped:     make(chan struct{}),
	}

	if err := o.openStream(spec); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Output) openStream(spec SignalSpec) error {
	ringLen := uint64((ringMillis * spec.SampleRate / 1000) * spec.Channels * 4)
	o.ring = ringbuffer.New(ringLen)
	o.scratch = make([]float32, spec.Channels*o.duration)

	params := portaudio.PaStreamParameters{
		DeviceIndex:  o.deviceIndex,
		ChannelCount: spec.Channels,
		SampleFormat: portaudio.SampleFmtFloat32,
	}

	var stream *portaudio.PaStream
	var lastErr error
	for tries := 0; ; tries++ {
		select {
		case <-o.stopped:
			return nocturneerr.New(nocturneerr.KindStreamClosed, fmt.Errorf("output: stopped during open"))
		default:
		}

		s, err := portaudio.NewStream(params, float64(spec.SampleRate))
		if err == nil {
			if err = s.Open(o.duration); err == nil {
				if err = s.StartStream(); err == nil {
					stream = s
					break
				}
			}
		}
		lastErr = err

		if tries < 5 {
			slog.Warn("output: device open failed, retrying",
				"device", o.deviceName, "attempt", tries+1, "error", lastErr)
		} else if tries == 5 {
			slog.Warn("output: device open still failing, will keep retrying silently",
				"device", o.deviceName, "error", lastErr)
		}

		time.Sleep(retryInterval)
	}

	o.stream = stream
	o.spec = spec
	slog.Info("output: stream open", "device", o.deviceName, "rate", spec.SampleRate, "channels", spec.Channels)
	return nil
}

// Reopen rebuilds the config, ring buffer, scratch buffer, and stream on
// the same device when the decoded signal spec changes, discarding any
// queued samples (spec §4.3 "Reopen").
func (o *Output) Reopen(spec SignalSpec, duration int) error {
	if spec == o.spec && duration == o.duration {
		return nil
	}

	if o.stream != nil {
		o.stream.StopStream()
		o.stream.Close()
	}
	o.duration = duration

	if err := o.openStream(spec); err != nil {
		return nocturneerr.New(nocturneerr.KindOpenStream, err)
	}
	return nil
}

// Write applies the process-wide volume gain to an interleaved f32 buffer
// and pushes it into the ring buffer, blocking (retrying) until it fits.
func (o *Output) Write(interleaved []float32) error {
	if len(interleaved) == 0 {
		return nil
	}

	gain := volumeGain(audiostate.Volume.Load())
	if gain != 1.0 {
		for i := range interleaved {
			interleaved[i] *= gain
		}
	}

	buf := float32sToBytes(interleaved)
	for {
		select {
		case <-o.stopped:
			return nocturneerr.New(nocturneerr.KindStreamClosed, fmt.Errorf("output: stream closed"))
		default:
		}

		if _, err := o.ring.Write(buf); err == nil {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

// Run drives the consumer side: pulls samples out of the ring buffer and
// writes them to the platform stream, filling any shortfall with silence
// on underrun. Intended to run on its own goroutine for the lifetime of
// the stream.
func (o *Output) Run() {
	frameBytes := o.spec.frameBytes()
	buf := make([]byte, o.duration*frameBytes)

	for {
		select {
		case <-o.stopped:
			return
		default:
		}

		if o.paused {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		n, err := o.ring.Read(buf)
		if err != nil {
			for i := range buf {
				buf[i] = 0
			}
			n = len(buf)
		} else if n < len(buf) {
			for i := n; i < len(buf); i++ {
				buf[i] = 0
			}
		}

		frames := len(buf) / frameBytes
		if err := o.stream.Write(frames, buf); err != nil {
			slog.Error("output: stream write failed", "error", err)
			return
		}
	}
}

// Pause flushes any buffered audio and pauses the platform stream (spec
// §4.3 "pause(): flush ... pause").
func (o *Output) Pause() error {
	o.Flush()
	o.paused = true
	if o.stream != nil {
		if err := o.stream.StopStream(); err != nil {
			return nocturneerr.New(nocturneerr.KindPlayStream, err)
		}
	}
	return nil
}

// Play resumes playback after a Pause.
func (o *Output) Play() error {
	o.paused = false
	if o.stream != nil {
		if err := o.stream.StartStream(); err != nil {
			return nocturneerr.New(nocturneerr.KindPlayStream, err)
		}
	}
	return nil
}

// Flush blocks until the ring buffer has drained, up to the ring's own
// ~50ms capacity.
func (o *Output) Flush() {
	for o.ring.AvailableRead() > 0 {
		time.Sleep(time.Millisecond)
	}
}

// Close stops the platform stream and releases it.
func (o *Output) Close() error {
	close(o.stopped)
	if o.stream != nil {
		o.stream.StopStream()
		return o.stream.Close()
	}
	return nil
}

// Spec returns the currently configured signal spec.
func (o *Output) Spec() SignalSpec { return o.spec }

// SetDevice resolves name against the registry and reopens the stream on
// the new device index, keeping the current spec and duration (spec §4.2
// "set_output_device: delegate to Output; log but do not fail the engine
// on error").
func (o *Output) SetDevice(name string) error {
	idx, err := o.registry.Resolve(name)
	if err != nil {
		return nocturneerr.New(nocturneerr.KindInvalidOutputDevice, err)
	}

	if o.stream != nil {
		o.stream.StopStream()
		o.stream.Close()
	}
	o.deviceIndex = idx
	o.deviceName = name

	spec := o.spec
	if err := o.openStream(spec); err != nil {
		return nocturneerr.New(nocturneerr.KindOpenStream, err)
	}
	return nil
}

func float32sToBytes(in []float32) []byte {
	out := make([]byte, len(in)*4)
	for i, v := range in {
		bits := math.Float32bits(v)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}
