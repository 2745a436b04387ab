package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tandemly/tandem/internal/scoring"
)

type Config struct {
	Server   ServerConfig
	Ollama   OllamaConfig
	Storage  StorageConfig
	Matching MatchingConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type OllamaConfig struct {
	BaseURL    string
	ChatModel  string
	EmbedModel string
}

type StorageConfig struct {
	DataDir string
}

// MatchingConfig tunes the ranking engine. Weights are validated in
// Load: an invalid distribution aborts startup rather than surfacing
// per request.
type MatchingConfig struct {
	Concurrency    int
	DefaultLimit   int
	EmbedTimeout   time.Duration
	ExplainTimeout time.Duration
	Weights        scoring.Weights
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			ChatModel:  "phi3.5",
			EmbedModel: "nomic-embed-text",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Matching: MatchingConfig{
			Concurrency:    8,
			DefaultLimit:   20,
			EmbedTimeout:   5 * time.Second,
			ExplainTimeout: 10 * time.Second,
			Weights:        scoring.DefaultWeights(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "tandem-data"
		}
	}
	return filepath.Join(dir, "tandem")
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/tandem/config.json, applies TANDEM_* environment
// overrides, and validates the weight distribution. Invalid weights are
// a startup error.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if err := cfg.Matching.Weights.Validate(); err != nil {
		return Config{}, fmt.Errorf("matching weights: %w", err)
	}
	return cfg, nil
}
