package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hersh/gotris-pro/internal/game"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no config path is given.
const EnvPath = "GOTRIS_CONFIG"

var (
	ErrUnsupportedWidth  = errors.New("unsupported board width")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownBackend    = errors.New("unknown high score backend")
)

// BoardWidths are the widths offered at setup.
var BoardWidths = []int{10, 12, 15}

// Difficulty couples a gravity period with a score multiplier.
type Difficulty struct {
	Name       string
	Gravity    time.Duration
	Multiplier int
}

var Difficulties = []Difficulty{
	{Name: "easy", Gravity: 700 * time.Millisecond, Multiplier: 1},
	{Name: "medium", Gravity: 500 * time.Millisecond, Multiplier: 2},
	{Name: "hard", Gravity: 300 * time.Millisecond, Multiplier: 3},
}

func LookupDifficulty(name string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%q: %w", name, ErrUnknownDifficulty)
}

// Config is the root of the YAML configuration.
type Config struct {
	Player        string          `yaml:"player"`
	BoardWidth    int             `yaml:"board_width"`
	Difficulty    string          `yaml:"difficulty"`
	AnimateClears bool            `yaml:"animate_clears"`
	Shop          bool            `yaml:"shop"`
	Seed          int64           `yaml:"seed"`
	HighScore     HighScoreConfig `yaml:"highscore"`
	Log           LogConfig       `yaml:"log"`
	Server        ServerConfig    `yaml:"server"`
}

type HighScoreConfig struct {
	// Backend is "file" or "badger".
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	// Path is a file path, "stderr", "stdout", or empty to discard logs.
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

type ServerConfig struct {
	// URL is the spectator relay a client streams to. Empty disables it.
	URL               string        `yaml:"url"`
	Port              int           `yaml:"port"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

func Default() Config {
	return Config{
		Player:        "Player",
		BoardWidth:    10,
		Difficulty:    "medium",
		AnimateClears: true,
		Shop:          true,
		HighScore: HighScoreConfig{
			Backend: "file",
			Path:    "highscore.txt",
		},
		Log: LogConfig{
			Path:  "gotris.log",
			Level: "info",
		},
		Server: ServerConfig{
			Port:              8080,
			BroadcastInterval: 100 * time.Millisecond,
		},
	}
}

// Load reads a YAML file over the defaults. With an empty path it falls
// back to $GOTRIS_CONFIG, and to the defaults alone if that is unset too.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate restricts the setup values to the enumerated choices.
func (c Config) Validate() error {
	if !validWidth(c.BoardWidth) {
		return fmt.Errorf("board_width %d: %w", c.BoardWidth, ErrUnsupportedWidth)
	}
	if _, err := LookupDifficulty(c.Difficulty); err != nil {
		return err
	}
	switch c.HighScore.Backend {
	case "file", "badger":
	default:
		return fmt.Errorf("%q: %w", c.HighScore.Backend, ErrUnknownBackend)
	}
	return nil
}

func validWidth(w int) bool {
	for _, allowed := range BoardWidths {
		if w == allowed {
			return true
		}
	}
	return false
}

// SessionConfig turns the setup choices into engine construction values.
func (c Config) SessionConfig(highScore int) (game.Config, error) {
	if err := c.Validate(); err != nil {
		return game.Config{}, err
	}
	d, _ := LookupDifficulty(c.Difficulty)
	return game.Config{
		Width:           c.BoardWidth,
		Gravity:         d.Gravity,
		ScoreMultiplier: d.Multiplier,
		Seed:            c.Seed,
		HighScore:       highScore,
		AnimateClears:   c.AnimateClears,
	}, nil
}
