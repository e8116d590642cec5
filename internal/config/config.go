// Package config loads run settings from a .env file and the process
// environment. Every setting has a default; CLI flags override on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultClientName = "portstress"
	DefaultPortCount  = 1024
	DefaultRunTime    = 60 * time.Second
	DefaultBackend    = "jack"
)

type Config struct {
	// ClientName is the name requested from the engine; the engine may
	// assign a de-duplicated one.
	ClientName string
	// PortCount is the number of input ports and, equally, output ports.
	PortCount int
	// RunTime bounds the idle phase; the process is usually killed by an
	// operator signal before it elapses.
	RunTime time.Duration
	// Backend selects the engine: "jack" or "portaudio".
	Backend string
}

// Load reads .env if present, then the process environment. Keys that are
// unset keep their defaults; malformed values are setup failures.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ClientName: DefaultClientName,
		PortCount:  DefaultPortCount,
		RunTime:    DefaultRunTime,
		Backend:    DefaultBackend,
	}
	if v := os.Getenv("PORTSTRESS_CLIENT_NAME"); v != "" {
		cfg.ClientName = v
	}
	if v := os.Getenv("PORTSTRESS_PORT_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("PORTSTRESS_PORT_COUNT: %w", err)
		}
		cfg.PortCount = n
	}
	if v := os.Getenv("PORTSTRESS_RUN_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("PORTSTRESS_RUN_TIME: %w", err)
		}
		cfg.RunTime = d
	}
	if v := os.Getenv("PORTSTRESS_BACKEND"); v != "" {
		cfg.Backend = v
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.ClientName == "" {
		return fmt.Errorf("client name must not be empty")
	}
	if c.PortCount < 1 {
		return fmt.Errorf("port count must be at least 1, got %d", c.PortCount)
	}
	if c.RunTime <= 0 {
		return fmt.Errorf("run time must be positive, got %s", c.RunTime)
	}
	switch c.Backend {
	case "jack", "portaudio":
	default:
		return fmt.Errorf("unknown backend %q (want jack or portaudio)", c.Backend)
	}
	return nil
}
