package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hersh/gotris-pro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotris.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player: ada\nboard_width: 12\ndifficulty: easy\n"), 0o644))

	cfg, err := ResolveConfig(Options{
		ConfigPath: path,
		Width:      15,
		Seed:       42,
		Server:     "ws://relay:8080/ws",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", cfg.Player)
	assert.Equal(t, 15, cfg.BoardWidth)
	assert.Equal(t, "easy", cfg.Difficulty)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "ws://relay:8080/ws", cfg.Server.URL)
}

func TestResolveConfigNameFlag(t *testing.T) {
	t.Setenv(config.EnvPath, "")
	cfg, err := ResolveConfig(Options{Name: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Player)
}

func TestResolveConfigRejectsBadChoices(t *testing.T) {
	t.Setenv(config.EnvPath, "")

	_, err := ResolveConfig(Options{Width: 11})
	assert.True(t, errors.Is(err, config.ErrUnsupportedWidth))

	_, err = ResolveConfig(Options{Difficulty: "brutal"})
	assert.True(t, errors.Is(err, config.ErrUnknownDifficulty))
}

func TestResolveConfigRequiresRelayAddress(t *testing.T) {
	t.Setenv(config.EnvPath, "")
	_, err := ResolveConfig(Options{RequireRelay: true})
	assert.Error(t, err)

	cfg, err := ResolveConfig(Options{RequireRelay: true, Server: "ws://localhost:8080/ws"})
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.Server.URL)
}
