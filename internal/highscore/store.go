// Package highscore persists the single best score across sessions.
package highscore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hersh/gotris-pro/internal/config"
)

var ErrNegativeScore = errors.New("negative score")

// Store loads and saves one non-negative integer. A store with nothing
// saved yet loads 0.
type Store interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, score int) error
	Close() error
}

// Open builds the store selected by cfg.
func Open(cfg config.HighScoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path), nil
	case "badger":
		return OpenBadgerStore(cfg.Path)
	}
	return nil, fmt.Errorf("%q: %w", cfg.Backend, config.ErrUnknownBackend)
}

func parseScore(raw string) (int, error) {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse high score: %w", err)
	}
	if score < 0 {
		return 0, fmt.Errorf("parse high score %d: %w", score, ErrNegativeScore)
	}
	return score, nil
}

// FileStore keeps the score as a decimal line in a text file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = "highscore.txt"
	}
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", s.path, err)
	}
	return parseScore(string(data))
}

func (s *FileStore) Save(_ context.Context, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}
	if err := os.WriteFile(s.path, []byte(strconv.Itoa(score)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
