package stress

import "sync/atomic"

// Counters tracks the work done by the process callback so the control
// thread can report it at shutdown. Updates are plain atomic adds: safe to
// issue from the real-time thread.
type Counters struct {
	cycles atomic.Uint64
	frames atomic.Uint64
}

func (c *Counters) record(nframes uint32) {
	c.cycles.Add(1)
	c.frames.Add(uint64(nframes))
}

// Cycles returns how many times the engine invoked the process callback.
func (c *Counters) Cycles() uint64 { return c.cycles.Load() }

// Frames returns the total frames copied per port across all cycles.
func (c *Counters) Frames() uint64 { return c.frames.Load() }
