// Package config loads and validates repolens configuration.
//
// Configuration lives in .repolens/config.json under the repository root.
// A missing file yields DefaultConfig; partial files are merged over the
// viper defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete repolens configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Selection SelectionConfig `json:"selection" mapstructure:"selection"`
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Context   ContextConfig   `json:"context" mapstructure:"context"`
	Model     ModelConfig     `json:"model" mapstructure:"model"`
	Session   SessionConfig   `json:"session" mapstructure:"session"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// SelectionConfig bounds the file-selection stage
type SelectionConfig struct {
	MaxFiles       int `json:"maxFiles" mapstructure:"maxFiles"`             // final cap after expansion
	MaxBypassFiles int `json:"maxBypassFiles" mapstructure:"maxBypassFiles"` // cap when a file is named explicitly
	MinScore       int `json:"minScore" mapstructure:"minScore"`             // scorer threshold before expansion
	MaxCandidates  int `json:"maxCandidates" mapstructure:"maxCandidates"`   // scorer cap before expansion
}

// CacheConfig contains TTLs for the three in-memory cache tiers, in seconds
type CacheConfig struct {
	SelectionTtlSeconds int `json:"selectionTtlSeconds" mapstructure:"selectionTtlSeconds"`
	ContentTtlSeconds   int `json:"contentTtlSeconds" mapstructure:"contentTtlSeconds"`
	MetadataTtlSeconds  int `json:"metadataTtlSeconds" mapstructure:"metadataTtlSeconds"`
	ReaperIntervalSecs  int `json:"reaperIntervalSeconds" mapstructure:"reaperIntervalSeconds"`
}

// ContextConfig controls context-document assembly
type ContextConfig struct {
	ContextWindow    int `json:"contextWindow" mapstructure:"contextWindow"`       // model hard window, tokens
	ReservedOverhead int `json:"reservedOverhead" mapstructure:"reservedOverhead"` // system prompt + question + history
}

// ModelConfig contains completion-backend configuration
type ModelConfig struct {
	Name           string `json:"name" mapstructure:"name"`
	Encoding       string `json:"encoding" mapstructure:"encoding"`
	TimeoutSeconds int    `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
}

// SessionConfig contains conversation-store configuration
type SessionConfig struct {
	Path         string `json:"path" mapstructure:"path"` // sqlite file, relative to repo root
	HistoryLimit int    `json:"historyLimit" mapstructure:"historyLimit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Selection: SelectionConfig{
			MaxFiles:       30,
			MaxBypassFiles: 10,
			MinScore:       10,
			MaxCandidates:  20,
		},
		Cache: CacheConfig{
			SelectionTtlSeconds: 24 * 60 * 60,
			ContentTtlSeconds:   60 * 60,
			MetadataTtlSeconds:  15 * 60,
			ReaperIntervalSecs:  60,
		},
		Context: ContextConfig{
			ContextWindow:    128000,
			ReservedOverhead: 8000,
		},
		Model: ModelConfig{
			Name:           "gpt-4o-mini",
			Encoding:       "cl100k_base",
			TimeoutSeconds: 60,
		},
		Session: SessionConfig{
			Path:         ".repolens/sessions.db",
			HistoryLimit: 20,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .repolens/config.json
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("repoRoot", defaults.RepoRoot)
	v.SetDefault("selection.maxFiles", defaults.Selection.MaxFiles)
	v.SetDefault("selection.maxBypassFiles", defaults.Selection.MaxBypassFiles)
	v.SetDefault("selection.minScore", defaults.Selection.MinScore)
	v.SetDefault("selection.maxCandidates", defaults.Selection.MaxCandidates)
	v.SetDefault("cache.selectionTtlSeconds", defaults.Cache.SelectionTtlSeconds)
	v.SetDefault("cache.contentTtlSeconds", defaults.Cache.ContentTtlSeconds)
	v.SetDefault("cache.metadataTtlSeconds", defaults.Cache.MetadataTtlSeconds)
	v.SetDefault("cache.reaperIntervalSeconds", defaults.Cache.ReaperIntervalSecs)
	v.SetDefault("context.contextWindow", defaults.Context.ContextWindow)
	v.SetDefault("context.reservedOverhead", defaults.Context.ReservedOverhead)
	v.SetDefault("model.name", defaults.Model.Name)
	v.SetDefault("model.encoding", defaults.Model.Encoding)
	v.SetDefault("model.timeoutSeconds", defaults.Model.TimeoutSeconds)
	v.SetDefault("session.path", defaults.Session.Path)
	v.SetDefault("session.historyLimit", defaults.Session.HistoryLimit)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".repolens"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .repolens/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".repolens")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Selection.MaxFiles <= 0 {
		return &ConfigError{Field: "selection.maxFiles", Message: "must be positive"}
	}
	if c.Selection.MaxBypassFiles <= 0 {
		return &ConfigError{Field: "selection.maxBypassFiles", Message: "must be positive"}
	}
	if c.Context.ContextWindow <= c.Context.ReservedOverhead {
		return &ConfigError{Field: "context.reservedOverhead", Message: "must leave room below contextWindow"}
	}
	if c.Cache.SelectionTtlSeconds <= 0 || c.Cache.ContentTtlSeconds <= 0 || c.Cache.MetadataTtlSeconds <= 0 {
		return &ConfigError{Field: "cache", Message: "TTLs must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
