package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PYEXTRACT_PORT", "9999")
	t.Setenv("PYEXTRACT_ENV", "production")
	t.Setenv("PYEXTRACT_WORKERS", "2")
	t.Setenv("PYEXTRACT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("PYEXTRACT_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_WorkersClampedToOne(t *testing.T) {
	t.Setenv("PYEXTRACT_WORKERS", "-4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
}
