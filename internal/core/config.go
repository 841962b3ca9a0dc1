// Package core contains the application-level plumbing for pulse:
// configuration loading, logging setup, and wiring of the data layer
// behind the CLI.
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-user config file, looked up in the base
// path.
const ConfigFileName = ".pulserc"

// Config holds user-tunable settings.
type Config struct {
	// APIBaseURL is the analytics API endpoint.
	APIBaseURL string `yaml:"api_base_url"`
	// PageSize is the sessions page size, clamped to [10, 100].
	PageSize int `yaml:"page_size"`
	// HistoryLimit caps the filter undo history.
	HistoryLimit int `yaml:"history_limit"`
	// DebounceMS is the filter-history commit debounce in
	// milliseconds.
	DebounceMS int `yaml:"debounce_ms"`
	// Shortcuts enables single-key shortcuts in the sessions view.
	Shortcuts bool `yaml:"shortcuts"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
}

// Page size bounds, shared with the settings view.
const (
	MinPageSize     = 10
	MaxPageSize     = 100
	DefaultPageSize = 50
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:   "http://localhost:3001",
		PageSize:     DefaultPageSize,
		HistoryLimit: 5,
		DebounceMS:   300,
		Shortcuts:    true,
		LogLevel:     "info",
	}
}

// Debounce converts the configured debounce to a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ClampPageSize bounds a requested page size to the allowed range.
func ClampPageSize(n int) int {
	if n < MinPageSize {
		return MinPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// ConfigManager loads and persists the user configuration.
type ConfigManager interface {
	Load() (Config, error)
	Save(Config) error
}

// viperConfigManager implements ConfigManager reading the YAML
// .pulserc via Viper.
type viperConfigManager struct {
	basePath string
}

// NewConfigManager creates a ConfigManager reading ConfigFileName
// relative to basePath.
func NewConfigManager(basePath string) ConfigManager {
	return &viperConfigManager{basePath: basePath}
}

// Load reads the config file. A missing file returns defaults; present
// keys override defaults individually.
func (cm *viperConfigManager) Load() (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("api_base_url", cfg.APIBaseURL)
	v.SetDefault("page_size", cfg.PageSize)
	v.SetDefault("history_limit", cfg.HistoryLimit)
	v.SetDefault("debounce_ms", cfg.DebounceMS)
	v.SetDefault("shortcuts", cfg.Shortcuts)
	v.SetDefault("log_level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	cfg.APIBaseURL = v.GetString("api_base_url")
	cfg.PageSize = ClampPageSize(v.GetInt("page_size"))
	cfg.HistoryLimit = v.GetInt("history_limit")
	if cfg.HistoryLimit < 1 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}
	cfg.DebounceMS = v.GetInt("debounce_ms")
	if cfg.DebounceMS < 0 {
		cfg.DebounceMS = DefaultConfig().DebounceMS
	}
	cfg.Shortcuts = v.GetBool("shortcuts")
	cfg.LogLevel = v.GetString("log_level")

	return cfg, nil
}

// Save writes the config back as YAML.
func (cm *viperConfigManager) Save(cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(cm.basePath, ConfigFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ResolveBasePath picks where pulse keeps its config and preferences:
// $PULSE_HOME when set, otherwise ~/.pulse.
func ResolveBasePath() string {
	if p := os.Getenv("PULSE_HOME"); p != "" {
		return p
	}
	home, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".pulse")
}
