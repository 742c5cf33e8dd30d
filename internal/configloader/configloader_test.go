package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ Name string }

func TestRegistry(t *testing.T) {
	t.Cleanup(Forget[*sample])

	_, ok := TryGetConfig[*sample]()
	assert.False(t, ok)
	assert.Panics(t, func() { MustGetConfig[*sample]() })

	RegisterConfig(&sample{Name: "a"})
	assert.Equal(t, "a", MustGetConfig[*sample]().Name)
	assert.Panics(t, func() { RegisterConfig(&sample{Name: "b"}) })

	SetConfig(&sample{Name: "c"})
	assert.Equal(t, "c", MustGetConfig[*sample]().Name)

	// value and pointer types are separate keys
	_, ok = TryGetConfig[sample]()
	assert.False(t, ok)
}

func TestResolveConfigPath(t *testing.T) {
	home := t.TempDir()
	sys := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfig, "")
	prev := SystemDir
	SystemDir = sys
	t.Cleanup(func() { SystemDir = prev })

	_, err := ResolveConfigPath("boincctl.yaml")
	assert.True(t, errors.Is(err, ErrNoConfig))

	sysFile := filepath.Join(sys, "boincctl.yaml")
	require.NoError(t, os.WriteFile(sysFile, []byte("default: local\n"), 0o600))
	got, err := ResolveConfigPath("boincctl.yaml")
	require.NoError(t, err)
	assert.Equal(t, sysFile, got)

	userFile := filepath.Join(home, ".boincgeist", "boincctl.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userFile), 0o700))
	require.NoError(t, os.WriteFile(userFile, []byte("default: local\n"), 0o600))
	got, err = ResolveConfigPath("boincctl.yaml")
	require.NoError(t, err)
	assert.Equal(t, userFile, got)

	t.Setenv(EnvConfig, "/somewhere/else.yaml")
	got, err = ResolveConfigPath("boincctl.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/somewhere/else.yaml", got)
}
