package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	backendFile   = "file"
	backendSQLite = "sqlite"
	backendBadger = "badger"
)

// StoreConfig selects where the chain is persisted.
type StoreConfig struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	Model   string `json:"model"`
	Codec   string `json:"codec"`
}

// TextConfig tunes the default text tool.
type TextConfig struct {
	SeparatorRegex string `json:"separator_regex"`
	SentenceSuffix string `json:"sentence_suffix"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel string       `json:"log_level"`
	Order    int          `json:"order"`
	Store    *StoreConfig `json:"store_config"`
	Text     *TextConfig  `json:"text_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Order:    2,
		Store: &StoreConfig{
			Backend: backendFile,
			Path:    "./data/chain.json",
			Model:   "default",
			Codec:   "json",
		},
		Text: &TextConfig{
			SeparatorRegex: `(?:\s|\r?\n)+`,
			SentenceSuffix: ".",
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Warn instead of failing, the defaults are still usable.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Store == nil {
		config.Store = DefaultConfig().Store
	}
	if config.Text == nil {
		config.Text = DefaultConfig().Text
	}

	return config, nil
}

// parseLogLevel maps a config log level to a slog.Level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
