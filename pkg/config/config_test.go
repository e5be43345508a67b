package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, 1.0, cfg.Sigma)
	assert.Equal(t, "average", cfg.Recombination)
	assert.Equal(t, "linear", cfg.Distribution)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.NoError(t, Validate(cfg))
}

func TestParse(t *testing.T) {
	t.Run("overrides merge onto defaults", func(t *testing.T) {
		cfg, err := Parse([]byte("sigma: 2.5\nbatch_workers: 8\n"))
		require.NoError(t, err)
		assert.Equal(t, 2.5, cfg.Sigma)
		assert.Equal(t, 8, cfg.BatchWorkers)
		// Untouched fields keep defaults
		assert.Equal(t, "average", cfg.Recombination)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("sigma: [broken"))
		assert.Error(t, err)
	})

	t.Run("validation failure", func(t *testing.T) {
		_, err := Parse([]byte("sigma: -1.0\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Sigma")
	})

	t.Run("bad distribution tag", func(t *testing.T) {
		_, err := Parse([]byte("distribution: exponential\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "defaults.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sigma: 0.5\nlogging:\n  level: DEBUG\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0.5, cfg.Sigma)
		assert.Equal(t, "DEBUG", cfg.Logging.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("nil defaults", func(t *testing.T) {
		err := Validate(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil")
	})

	t.Run("zero workers rejected", func(t *testing.T) {
		cfg := Default()
		cfg.BatchWorkers = 0
		assert.Error(t, Validate(cfg))
	})

	t.Run("bad log level rejected", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = "TRACE"
		assert.Error(t, Validate(cfg))
	})
}
