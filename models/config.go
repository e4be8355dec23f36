// Package models defines data structures for configuration and analysis.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "config.yaml"

// Config holds process-wide settings. It is resolved once at startup and
// passed by value afterwards.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Language    LanguageConfig    `yaml:"language"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	Timeout     time.Duration `yaml:"timeout"`
	FrontendURL string        `yaml:"frontend_url"` // empty allows any origin
}

// LLMConfig points at the summarization endpoint.
type LLMConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig throttles /api/analyze. RPM <= 0 disables the limiter.
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig locates the analysis history database. An empty path disables history.
type DBConfig struct {
	Path string `yaml:"path"`
}

// FetchConfig controls page retrieval for url content.
type FetchConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LanguageConfig struct {
	Enabled bool     `yaml:"enabled"`
	Codes   []string `yaml:"codes"` // ISO 639-1
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":5000",
			Timeout: 330 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL: "http://localhost:11434",
			Model:   "phi",
			Timeout: 300 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Concurrency: ConcurrencyConfig{
			QPS: 2,
		},
		Fetch: FetchConfig{
			Timeout:  30 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
		Language: LanguageConfig{
			Enabled: true,
			Codes:   []string{"en", "es", "fr", "de", "it", "pt"},
		},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then applies
// .env and environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides file values with deployment environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("OLLAMA_API_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getenv("OLLAMA_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := getenv("FRONTEND_URL"); v != "" {
		c.Server.FrontendURL = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LEARNMAP_DB"); v != "" {
		c.DB.Path = v
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	return nil
}
