package server

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/liliang-cn/gravec/pkg/embed"
	"github.com/liliang-cn/gravec/pkg/gravec"
)

// Config holds the daemon settings loaded from YAML and flags.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string `yaml:"addr"`
	// DataPath is where the snapshot lives. Empty means memory-only.
	DataPath string `yaml:"data_path"`
	// Backend selects the snapshot format: "json" or "sqlite".
	Backend string `yaml:"backend"`
	// Dimensions is the embedding width.
	Dimensions int `yaml:"dimensions"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultServerConfig returns a working local configuration.
func DefaultServerConfig() Config {
	return Config{
		Addr:       ":8000",
		DataPath:   "data/gravec.json",
		Backend:    string(gravec.BackendJSON),
		Dimensions: embed.DefaultDim,
		LogLevel:   "info",
	}
}

// LoadServerConfig reads the YAML configuration file using strict parsing.
// Missing path returns the defaults unchanged.
func LoadServerConfig(path string) (Config, error) {
	cfg := DefaultServerConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open server config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("yaml syntax error in server config: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level. Unknown
// names fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
