package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0.85, cfg.Placement.FillThreshold)
	assert.Equal(t, 0.3, cfg.Placement.SmallItemRatio)
	assert.Equal(t, 100.0, cfg.Rearrange.CostThreshold)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"env: dev\nhttp:\n  addr: 0.0.0.0:9090\nplacement:\n  fill_threshold: 0.7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr)
	assert.Equal(t, 0.7, cfg.Placement.FillThreshold)
	assert.Equal(t, 0.3, cfg.Placement.SmallItemRatio, "untouched keys keep defaults")
}

func TestLoadRejectsBadTunables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placement:\n  fill_threshold: 1.5\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
