// Package pa drives PortAudio as the backing engine. PortAudio has no named
// server-side ports, so registered ports map onto the channels of a single
// callback stream opened at activation; channel-count limits on the default
// devices surface as an activation failure. Useful for exercising the copy
// path on machines without a JACK server.
package pa

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"

	"portstress/internal/engine"
)

type client struct {
	name       string
	sampleRate uint32
	stream     *portaudio.Stream
	inputs     []*port
	outputs    []*port
	process    engine.ProcessFunc
	active     bool
}

// Connect initializes PortAudio and adopts the default output device's
// sample rate.
func Connect(name string) (engine.Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio initialize: %w", err)
	}
	rate := uint32(48000)
	if dev, err := portaudio.DefaultOutputDevice(); err == nil {
		rate = uint32(dev.DefaultSampleRate)
	} else {
		log.Printf("no default output device, assuming %d Hz: %v", rate, err)
	}
	return &client{name: name, sampleRate: rate}, nil
}

func (c *client) Name() string       { return c.name }
func (c *client) SampleRate() uint32 { return c.sampleRate }

func (c *client) RegisterPort(name string, dir engine.Direction) (engine.Port, error) {
	if c.active {
		return nil, fmt.Errorf("register %q: stream already active", name)
	}
	p := &port{name: name}
	if dir == engine.Input {
		c.inputs = append(c.inputs, p)
	} else {
		c.outputs = append(c.outputs, p)
	}
	return p, nil
}

func (c *client) SetProcessCallback(fn engine.ProcessFunc) error {
	if c.active {
		return fmt.Errorf("stream already active")
	}
	c.process = fn
	return nil
}

// OnShutdown is a no-op: PortAudio has no engine-initiated shutdown
// callback, the stream only stops when we stop it.
func (c *client) OnShutdown(fn func()) {}

func (c *client) Activate() error {
	if c.process == nil {
		return fmt.Errorf("no process callback installed")
	}
	stream, err := portaudio.OpenDefaultStream(len(c.inputs), len(c.outputs),
		float64(c.sampleRate), portaudio.FramesPerBufferUnspecified, c.cycle)
	if err != nil {
		return fmt.Errorf("open stream with %d in / %d out channels: %w",
			len(c.inputs), len(c.outputs), err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start stream: %w", err)
	}
	c.stream = stream
	c.active = true
	return nil
}

// cycle runs on the PortAudio callback thread. Buffers arrive channel-major,
// one slice per registered port, and are published to the port handles
// before the user callback reads them back.
func (c *client) cycle(in, out [][]float32) {
	for i := range in {
		c.inputs[i].buf = in[i]
	}
	for i := range out {
		c.outputs[i].buf = out[i]
	}
	var nframes uint32
	if len(out) > 0 {
		nframes = uint32(len(out[0]))
	} else if len(in) > 0 {
		nframes = uint32(len(in[0]))
	}
	c.process(nframes)
}

func (c *client) Deactivate() error {
	if c.stream == nil {
		return nil
	}
	c.active = false
	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("stop stream: %w", err)
	}
	return nil
}

func (c *client) Close() error {
	if c.stream != nil {
		if err := c.stream.Close(); err != nil {
			return fmt.Errorf("close stream: %w", err)
		}
		c.stream = nil
	}
	return portaudio.Terminate()
}

type port struct {
	name string
	buf  []float32
}

func (p *port) Name() string { return p.name }

func (p *port) Buffer(nframes uint32) []float32 {
	if uint32(len(p.buf)) > nframes {
		return p.buf[:nframes]
	}
	return p.buf
}
