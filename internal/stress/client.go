// Package stress registers a large number of input and output ports on an
// audio engine and copies every input buffer verbatim to the matching output
// buffer each processing cycle, to load the engine's port bookkeeping.
package stress

import (
	"errors"
	"fmt"
	"time"

	"portstress/internal/engine"
)

// ErrEngineShutdown reports that the engine terminated or evicted the client
// while it was running. The connection and every port handle are invalid
// once this is returned; no further engine calls may be made.
var ErrEngineShutdown = errors.New("engine shut down")

// Client drives the whole lifecycle: register ports, activate, idle, close.
// The port slices are written only before Activate and read only by the
// engine's callback thread after, so no locking is needed.
type Client struct {
	eng      engine.Client
	inputs   []engine.Port
	outputs  []engine.Port
	counters Counters
	shutdown chan struct{}
}

// New wires a stress client onto an open engine connection.
func New(eng engine.Client) *Client {
	return &Client{eng: eng, shutdown: make(chan struct{})}
}

// Counters exposes the cycle counters updated by the process callback.
func (c *Client) Counters() *Counters { return &c.counters }

// RegisterPorts registers count input ports followed by count output ports,
// named "input-<i>" / "output-<i>". The first failure aborts with the
// failing direction and index: the engine reclaims everything already
// registered when the connection drops, so there is no rollback.
func (c *Client) RegisterPorts(count int) error {
	var err error
	if c.inputs, err = registerPorts(c.eng, count, engine.Input); err != nil {
		return err
	}
	c.outputs, err = registerPorts(c.eng, count, engine.Output)
	return err
}

func registerPorts(eng engine.Client, count int, dir engine.Direction) ([]engine.Port, error) {
	ports := make([]engine.Port, 0, count)
	for i := 0; i < count; i++ {
		p, err := eng.RegisterPort(fmt.Sprintf("%s-%d", dir, i), dir)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s port %d: %w", dir, i, err)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// Activate installs the process and shutdown callbacks and asks the engine
// to start calling them. This is the publication point: the port slices must
// not be touched afterwards.
func (c *Client) Activate() error {
	if err := c.eng.SetProcessCallback(c.process); err != nil {
		return fmt.Errorf("install process callback: %w", err)
	}
	c.eng.OnShutdown(func() { close(c.shutdown) })
	if err := c.eng.Activate(); err != nil {
		return fmt.Errorf("activate client: %w", err)
	}
	return nil
}

// process runs on the engine's real-time thread once per cycle. It copies
// nframes samples from every input port to the output port with the same
// index and nothing else: no allocation, no blocking, no logging, no locks.
func (c *Client) process(nframes uint32) int {
	for i, in := range c.inputs {
		copy(c.outputs[i].Buffer(nframes), in.Buffer(nframes))
	}
	c.counters.record(nframes)
	return 0
}

// Run idles for the run duration while the engine's callback thread does the
// work. It returns nil when the duration elapses or stop is closed, and
// ErrEngineShutdown if the engine drops the client first.
func (c *Client) Run(d time.Duration, stop <-chan struct{}) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-stop:
		return nil
	case <-c.shutdown:
		return ErrEngineShutdown
	}
}

// Close deactivates the client and closes the engine connection. Only the
// normal shutdown path calls this; every fatal path just exits and lets the
// engine reclaim the client's resources.
func (c *Client) Close() error {
	if err := c.eng.Deactivate(); err != nil {
		return err
	}
	return c.eng.Close()
}
