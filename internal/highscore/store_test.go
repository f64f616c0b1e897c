package highscore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hersh/gotris-pro/internal/config"
	"github.com/hersh/gotris-pro/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ game.Recorder = (*Keeper)(nil)

func TestFileStoreMissingFileIsZero(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "highscore.txt"))
	score, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.txt")
	s := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, 4200))
	score, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4200, score)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4200\n", string(data))

	assert.ErrorIs(t, s.Save(ctx, -1), ErrNegativeScore)
}

func TestFileStoreCorrupt(t *testing.T) {
	for name, body := range map[string]string{
		"garbage":  "lots",
		"negative": "-30",
		"empty":    "",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "highscore.txt")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := NewFileStore(path).Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	s, err := OpenBadgerStore("")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	score, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, score)

	require.NoError(t, s.Save(ctx, 1800))
	score, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1800, score)
}

func TestBadgerStorePersistsOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(config.HighScoreConfig{Backend: "badger", Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), 77))
	require.NoError(t, s.Close())

	s, err = Open(config.HighScoreConfig{Backend: "badger", Path: dir})
	require.NoError(t, err)
	defer s.Close()
	score, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 77, score)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(config.HighScoreConfig{Backend: "floppy"})
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestKeeperSwallowsCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0o644))
	k := NewKeeper(NewFileStore(path), nil)

	assert.Equal(t, 0, k.Load())

	k.RecordHighScore(300)
	assert.Equal(t, 300, k.Load())
}

func TestKeeperKeepsMaximum(t *testing.T) {
	k := NewKeeper(NewFileStore(filepath.Join(t.TempDir(), "highscore.txt")), nil)

	k.RecordHighScore(900)
	k.RecordHighScore(400)
	assert.Equal(t, 900, k.Load())

	k.RecordHighScore(1500)
	assert.Equal(t, 1500, k.Load())
}

func TestKeeperRecordsSessionGameOver(t *testing.T) {
	k := NewKeeper(NewFileStore(filepath.Join(t.TempDir(), "highscore.txt")), nil)
	k.RecordHighScore(250)

	s := game.NewSession(game.Config{Seed: 3, HighScore: k.Load()}, game.WithRecorder(k))
	for i := 0; i < 500 && !s.GameOver(); i++ {
		s.HardDrop()
	}
	require.True(t, s.GameOver())
	assert.Equal(t, s.HighScore(), k.Load())
	assert.GreaterOrEqual(t, k.Load(), 250)
}
