package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, srv, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "im", cfg.Method)
	assert.Equal(t, "lbfgs", cfg.Optimizer)
	assert.Equal(t, "gaussian", cfg.Kernel)
	assert.Equal(t, 0.10, cfg.WidthCoeff)
	assert.Equal(t, 1e-2, cfg.Lambda)
	assert.Equal(t, 0.01, cfg.PeakStrictness)
	assert.False(t, cfg.Quiet)

	assert.Equal(t, "8080", srv.Port)
	assert.Equal(t, 5, srv.WorkerCount)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GODRT_METHOD", "re_im")
	t.Setenv("GODRT_LAMBDA", "0.001")
	t.Setenv("GODRT_SERVER_PORT", "9090")

	cfg, srv, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "re_im", cfg.Method)
	assert.Equal(t, 0.001, cfg.Lambda)
	assert.Equal(t, "9090", srv.Port)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "godrt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"method: re\nkernel: inverse-quadratic\nserver:\n  workers: 12\n"), 0o644))

	cfg, srv, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "re", cfg.Method)
	assert.Equal(t, "inverse-quadratic", cfg.Kernel)
	assert.Equal(t, 12, srv.WorkerCount)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
