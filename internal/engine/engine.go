// Package engine abstracts the client API of a real-time audio engine:
// open a connection, register ports, install callbacks, activate. Real
// backends live in subpackages; tests supply a fake.
package engine

// Direction tags a port as capturing samples from the engine (Input) or
// delivering samples to it (Output).
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// ProcessFunc runs on the engine's real-time thread once per processing
// cycle. It must not allocate, block, log, or take locks, and must return 0
// to keep the client active.
type ProcessFunc func(nframes uint32) int

// Port is a non-owning handle to a registered engine port. The engine owns
// the port for the lifetime of the connection.
type Port interface {
	Name() string
	// Buffer returns the port's live sample buffer for the current cycle.
	// It is only valid to call from inside a process callback, and must not
	// allocate.
	Buffer(nframes uint32) []float32
}

// Client is a single connection to the engine. Backends hand one out from
// their Connect function; it is created once at startup and closed once at
// shutdown.
type Client interface {
	Name() string
	SampleRate() uint32
	RegisterPort(name string, dir Direction) (Port, error)
	SetProcessCallback(fn ProcessFunc) error
	// OnShutdown installs a handler the engine invokes, on its own thread,
	// if it terminates or evicts the client. Once it fires the connection
	// and all its ports are invalid.
	OnShutdown(fn func())
	Activate() error
	Deactivate() error
	Close() error
}
