package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
)

type Config struct {
	DataPath     string
	DBPath       string
	SnapshotPath string
	JournalPath  string
	LogPath      string

	Store       string `env:"ANCHOR_STORE" envDefault:"sqlite"`
	Accelerated bool   `env:"ANCHOR_ACCELERATED"`
	LogLevel    string `env:"ANCHOR_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"ANCHOR_LOG_FORMAT" envDefault:"text"`
}

// New derives paths from dataPath and applies ANCHOR_* overrides, read from
// <dataPath>/.env first and then from the process environment.
func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	cfg := Config{
		DataPath:     dataPath,
		DBPath:       filepath.Join(dataPath, ".timeanchor", "timeanchor.db"),
		SnapshotPath: filepath.Join(dataPath, ".timeanchor", "state.json"),
		JournalPath:  filepath.Join(dataPath, "journal"),
		LogPath:      filepath.Join(dataPath, ".timeanchor", "anchor.log"),
	}

	environ, err := dotenv(filepath.Join(dataPath, ".env"))
	if err != nil {
		return Config{}, err
	}
	for k, v := range env.ToMap(os.Environ()) {
		environ[k] = v
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreFile:
	default:
		return fmt.Errorf("ANCHOR_STORE must be %q or %q, got %q", StoreSQLite, StoreFile, c.Store)
	}
	return nil
}

func dotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}
