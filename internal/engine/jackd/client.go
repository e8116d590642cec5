// Package jackd connects to a JACK server through the go-jack client
// binding. This is the primary backend: JACK is the only engine here with
// real per-port server bookkeeping to stress.
package jackd

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/xthexder/go-jack"

	"portstress/internal/engine"
)

type client struct {
	jc *jack.Client
}

// Connect opens a client connection to the JACK server under the requested
// name. The server may hand back a de-duplicated name; that, and a notice
// when the server was auto-started, are logged as informational.
func Connect(name string) (engine.Client, error) {
	jc, status := jack.ClientOpen(name, jack.NullOption)
	if jc == nil || status&jack.Failure != 0 {
		if status&jack.ServerFailed != 0 {
			return nil, fmt.Errorf("unable to connect to JACK server (status 0x%x)", status)
		}
		return nil, fmt.Errorf("jack client open failed (status 0x%x)", status)
	}
	if status&jack.ServerStarted != 0 {
		log.Println("JACK server started")
	}
	if status&jack.NameNotUnique != 0 {
		log.Printf("unique client name %q assigned", jc.GetName())
	}
	return &client{jc: jc}, nil
}

func (c *client) Name() string       { return c.jc.GetName() }
func (c *client) SampleRate() uint32 { return c.jc.GetSampleRate() }

func (c *client) RegisterPort(name string, dir engine.Direction) (engine.Port, error) {
	flags := uint64(jack.PortIsInput)
	if dir == engine.Output {
		flags = jack.PortIsOutput
	}
	jp := c.jc.PortRegister(name, jack.DEFAULT_AUDIO_TYPE, flags, 0)
	if jp == nil {
		return nil, fmt.Errorf("jack refused port %q", name)
	}
	return &port{jp: jp}, nil
}

func (c *client) SetProcessCallback(fn engine.ProcessFunc) error {
	if code := c.jc.SetProcessCallback(jack.ProcessCallback(fn)); code != 0 {
		return fmt.Errorf("set process callback failed (code %d)", code)
	}
	return nil
}

func (c *client) OnShutdown(fn func()) {
	c.jc.OnShutdown(fn)
}

func (c *client) Activate() error {
	if code := c.jc.Activate(); code != 0 {
		return fmt.Errorf("cannot activate client (code %d)", code)
	}
	return nil
}

func (c *client) Deactivate() error {
	if code := c.jc.Deactivate(); code != 0 {
		return fmt.Errorf("deactivate failed (code %d)", code)
	}
	return nil
}

func (c *client) Close() error {
	if code := c.jc.Close(); code != 0 {
		return fmt.Errorf("close failed (code %d)", code)
	}
	return nil
}

type port struct {
	jp *jack.Port
}

func (p *port) Name() string { return p.jp.GetName() }

// Buffer reinterprets the cycle's []jack.AudioSample as []float32 in place;
// jack.AudioSample is a float32 underneath, and copying here would break the
// real-time contract.
func (p *port) Buffer(nframes uint32) []float32 {
	buf := p.jp.GetBuffer(nframes)
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&buf[0])), len(buf))
}
