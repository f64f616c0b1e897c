package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hersh/gotris-pro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotris.log")
	logger, err := New(config.LogConfig{Path: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("session started")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
}

func TestNewEmptyPathDiscards(t *testing.T) {
	logger, err := New(config.LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Info("dropped")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Path: "stderr", Level: "loud"})
	assert.Error(t, err)
}
