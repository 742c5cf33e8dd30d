package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boincctl.log")
	log := Build(Config{Level: "warn", ToFile: true, FilePath: path, MaxSizeMB: 1})

	log.Infow("dropped below level")
	log.Warnw("session lost", "session", "abc")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session lost")
	assert.Contains(t, string(data), "abc")
	assert.NotContains(t, string(data), "dropped below level")
}

func TestInitAndNamed(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "named.log")
	Init(Config{Level: "debug", ToFile: true, FilePath: path})
	Named("transport").Debug("frame sent")
	require.NoError(t, Log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transport")
	assert.Contains(t, string(data), "frame sent")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.ToStderr)
	assert.False(t, cfg.ToStdout)
	assert.NotNil(t, Log)
}
