package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.PoolSize)
	assert.False(t, cfg.Interactive)
}

func TestLoadReadsQdatYml(t *testing.T) {
	dir := t.TempDir()
	data := []byte("poolSize: 4\npathComplexityTimeout: 600\nstore: memory\nlanguages: [go, python]\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qdat.yml"), data, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, []string{"go", "python"}, cfg.Languages)

	opts := cfg.ScheduleOptions()
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 600*time.Second, opts.PathComplexityTimeout)
	assert.Zero(t, opts.MetricTimeout, "unset timeout defers to scheduler default")
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qdat.yml"), []byte("poolSize: [oops"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
