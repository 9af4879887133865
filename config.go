package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cbuild/internal/geometry"
	"cbuild/internal/storage"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DataDir        string `toml:"data_dir"`
	Storage        string `toml:"storage"`
	SaveDirectory  string `toml:"save_directory"`
	CanvasWidth    int    `toml:"canvas_width"`
	CanvasHeight   int    `toml:"canvas_height"`
	HistoryLimit   int    `toml:"history_limit"`
	Confirmations  bool   `toml:"confirmations"`
	StartInPreview bool   `toml:"start_in_preview"`
	LogLevel       string `toml:"log_level"`
}

func defaultConfig() *Config {
	dataDir := ".cbuild"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".cbuild")
	}
	return &Config{
		DataDir:       dataDir,
		Storage:       storage.BackendFile,
		CanvasWidth:   geometry.DefaultCanvas.Width,
		CanvasHeight:  geometry.DefaultCanvas.Height,
		HistoryLimit:  500,
		Confirmations: true,
		LogLevel:      "info",
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cbuild", "config.toml")
}

// loadConfig reads the TOML file at path over the defaults. A missing file
// is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	md, err := toml.DecodeFile(path, config)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := config.normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// normalize expands ~ in paths and checks value ranges.
func (c *Config) normalize() error {
	c.DataDir = expandPath(c.DataDir)
	c.SaveDirectory = expandPath(c.SaveDirectory)

	switch c.Storage {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return fmt.Errorf("storage must be file, sqlite or memory, got %q", c.Storage)
	}
	if !c.CanvasSize().Valid() {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

func expandPath(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) CanvasSize() geometry.Size {
	return geometry.Size{Width: c.CanvasWidth, Height: c.CanvasHeight}
}

func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// GetSavePath places filename in the save directory, creating it if needed.
// Absolute filenames and an unset save directory leave filename alone.
func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}
