package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultClientName, cfg.ClientName)
	assert.Equal(t, DefaultPortCount, cfg.PortCount)
	assert.Equal(t, DefaultRunTime, cfg.RunTime)
	assert.Equal(t, DefaultBackend, cfg.Backend)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORTSTRESS_CLIENT_NAME", "probe")
	t.Setenv("PORTSTRESS_PORT_COUNT", "32")
	t.Setenv("PORTSTRESS_RUN_TIME", "90s")
	t.Setenv("PORTSTRESS_BACKEND", "portaudio")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "probe", cfg.ClientName)
	assert.Equal(t, 32, cfg.PortCount)
	assert.Equal(t, 90*time.Second, cfg.RunTime)
	assert.Equal(t, "portaudio", cfg.Backend)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("PORTSTRESS_PORT_COUNT", "many")
	_, err := Load()
	assert.ErrorContains(t, err, "PORTSTRESS_PORT_COUNT")

	t.Setenv("PORTSTRESS_PORT_COUNT", "64")
	t.Setenv("PORTSTRESS_RUN_TIME", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "PORTSTRESS_RUN_TIME")
}

func TestValidate(t *testing.T) {
	base := Config{
		ClientName: "portstress",
		PortCount:  1,
		RunTime:    time.Second,
		Backend:    "jack",
	}
	require.NoError(t, base.Validate())

	cfg := base
	cfg.PortCount = 0
	assert.ErrorContains(t, cfg.Validate(), "port count")

	cfg = base
	cfg.RunTime = 0
	assert.ErrorContains(t, cfg.Validate(), "run time")

	cfg = base
	cfg.Backend = "alsa"
	assert.ErrorContains(t, cfg.Validate(), "unknown backend")

	cfg = base
	cfg.ClientName = ""
	assert.ErrorContains(t, cfg.Validate(), "client name")
}
