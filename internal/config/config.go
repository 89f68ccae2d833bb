// Package config provides configuration loading and structs for the kouho pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Root      string          `yaml:"root"`
	Output    OutputConfig    `yaml:"output"`
	Extract   ExtractConfig   `yaml:"extract"`
	Screening ScreeningConfig `yaml:"screening"`
	Storage   StorageConfig   `yaml:"storage"`
	Watch     WatchConfig     `yaml:"watch"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	// Directory for report files; defaults to the scanned root.
	Directory string `yaml:"directory"`
	// Basename of report files; a numeric suffix is probed so prior
	// runs are never overwritten.
	Basename string `yaml:"basename"`
	// Formats to write: "csv" and/or "xlsx".
	Formats []string `yaml:"formats"`
}

// ExtractConfig holds text extraction settings. The external binaries
// are configuration, never hard-coded paths.
type ExtractConfig struct {
	Pdftoppm        string `yaml:"pdftoppm"`  // rasterizer binary, default "pdftoppm"
	Tesseract       string `yaml:"tesseract"` // recognition binary, default "tesseract"
	DPI             int    `yaml:"dpi"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	MinWordsPerPage int    `yaml:"min_words_per_page"`
}

// Timeout returns the per-document extraction budget.
func (e *ExtractConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// SkillTerms maps each nice-to-have skill flag to the substring that
// marks a mention of it. Injected so tests can substitute vocabularies.
type SkillTerms struct {
	PyTorch        string `yaml:"pytorch"`
	TensorFlow     string `yaml:"tensorflow"`
	CSharp         string `yaml:"csharp"`
	ComputerVision string `yaml:"computer_vision"`
	Azure          string `yaml:"azure"`
	AWS            string `yaml:"aws"`
}

// ScreeningConfig holds the screening question texts and detection vocabularies.
type ScreeningConfig struct {
	// Questions are the full prompts expected verbatim in application
	// documents, in the order they appear.
	Questions []string   `yaml:"questions"`
	Buzzwords []string   `yaml:"buzzwords"`
	Skills    SkillTerms `yaml:"skills"`
}

// StorageConfig holds optional result sink paths. Empty paths disable a sink.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	DebounceSeconds int `yaml:"debounce_seconds"`
}

// Debounce returns the watch-mode debounce interval.
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceSeconds) * time.Second
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Root = expandPath(cfg.Root, configDir)
	cfg.Output.Directory = expandPath(cfg.Output.Directory, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)

	return &cfg, nil
}

// Default returns a config with all defaults applied and no file read.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty stays empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
