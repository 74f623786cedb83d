// Package config provides configuration loading and structs for the RBOT server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	LLM       LLMConfig       `yaml:"llm"`
	Language  LanguageConfig  `yaml:"language"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the document store, data files, and index snapshots.
type StorageConfig struct {
	DatabasePath    string   `yaml:"database_path"`
	SnapshotPath    string   `yaml:"snapshot_path"`
	VectorIndexPath string   `yaml:"vector_index_path"`
	DataPaths       []string `yaml:"data_paths"`
}

// RetrievalConfig holds hybrid search settings.
type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	KeywordWeight  float64 `yaml:"keyword_weight"`
	SemanticWeight float64 `yaml:"semantic_weight"`
}

// LLMConfig holds settings for the OpenAI-compatible chat and embedding services.
type LLMConfig struct {
	Host           string `yaml:"host"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Dimensions     int    `yaml:"dimensions"`
}

// LanguageConfig holds the supported language codes and the fallback default.
type LanguageConfig struct {
	Supported []string `yaml:"supported"`
	Default   string   `yaml:"default"`
}

// WatchConfig controls the data-directory watcher that triggers index rebuilds.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// APIKey resolves the LLM API key from the configured environment variable.
func (l *LLMConfig) APIKey() string {
	if l.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(l.APIKeyEnv)
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
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.SnapshotPath = expandPath(cfg.Storage.SnapshotPath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	for i := range cfg.Storage.DataPaths {
		cfg.Storage.DataPaths[i] = expandPath(cfg.Storage.DataPaths[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
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
