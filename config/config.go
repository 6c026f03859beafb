// Package config loads and validates application configuration from a YAML
// file with environment-variable overrides. It provides typed structs for
// every subsystem (Server, Index, Search, Context, Watcher, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Context ContextConfig `yaml:"context"`
	Watcher WatcherConfig `yaml:"watcher"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IndexConfig controls snapshot construction.
type IndexConfig struct {
	MaxFileSizeBytes int64    `yaml:"maxFileSizeBytes"`
	Workers          int      `yaml:"workers"`
	Exclude          []string `yaml:"exclude"`
}

// SearchConfig controls result caps and snippet rendering for the search,
// grep, find, and query surfaces.
type SearchConfig struct {
	DefaultLimit    int `yaml:"defaultLimit"`
	MaxResults      int `yaml:"maxResults"`
	MaxPerFile      int `yaml:"maxPerFile"`
	SnippetMaxChars int `yaml:"snippetMaxChars"`
	ContextLines    int `yaml:"contextLines"`
}

// ContextConfig controls the context assembler's budgeting defaults.
// BytesPerToken is the token-estimate divisor; the tokens unit is an
// estimate, not a lexer-exact count.
type ContextConfig struct {
	DefaultBudget int    `yaml:"defaultBudget"`
	DefaultUnit   string `yaml:"defaultUnit"`
	BytesPerToken int    `yaml:"bytesPerToken"`
	StubMaxLines  int    `yaml:"stubMaxLines"`
}

// WatcherConfig controls the filesystem watcher and the periodic
// consistency sweep. A zero SyncInterval disables the sweep.
type WatcherConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Debounce     time.Duration `yaml:"debounce"`
	SyncInterval time.Duration `yaml:"syncInterval"`
}

// LoggingConfig controls structured logging level, format, and destination.
// An empty File logs to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	cfg.clamp()
	return cfg, nil
}

// Default returns a Config with production-ready defaults for serving a
// local repository.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            7420,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Index: IndexConfig{
			MaxFileSizeBytes: 1024 * 1024,
			Workers:          8,
		},
		Search: SearchConfig{
			DefaultLimit:    50,
			MaxResults:      500,
			MaxPerFile:      5,
			SnippetMaxChars: 200,
			ContextLines:    2,
		},
		Context: ContextConfig{
			DefaultBudget: 16384,
			DefaultUnit:   "tokens",
			BytesPerToken: 4,
			StubMaxLines:  16,
		},
		Watcher: WatcherConfig{
			Enabled:      true,
			Debounce:     250 * time.Millisecond,
			SyncInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides reads REPOLENS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPOLENS_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPOLENS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPOLENS_INDEX_MAX_FILE_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Index.MaxFileSizeBytes = size
		}
	}
	if v := os.Getenv("REPOLENS_INDEX_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Index.Workers = workers
		}
	}
	if v := os.Getenv("REPOLENS_INDEX_EXCLUDE"); v != "" {
		cfg.Index.Exclude = splitList(v)
	}
	if v := os.Getenv("REPOLENS_SEARCH_DEFAULT_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.Search.DefaultLimit = limit
		}
	}
	if v := os.Getenv("REPOLENS_SEARCH_MAX_RESULTS"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = limit
		}
	}
	if v := os.Getenv("REPOLENS_CONTEXT_DEFAULT_BUDGET"); v != "" {
		if budget, err := strconv.Atoi(v); err == nil {
			cfg.Context.DefaultBudget = budget
		}
	}
	if v := os.Getenv("REPOLENS_WATCHER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Watcher.Enabled = enabled
		}
	}
	if v := os.Getenv("REPOLENS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REPOLENS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("REPOLENS_LOGGING_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("REPOLENS_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}

// clamp forces out-of-range values back to usable defaults.
func (c *Config) clamp() {
	if c.Index.MaxFileSizeBytes <= 0 {
		c.Index.MaxFileSizeBytes = 1024 * 1024
	}
	if c.Index.Workers <= 0 {
		c.Index.Workers = 8
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 50
	}
	if c.Search.MaxResults < c.Search.DefaultLimit {
		c.Search.MaxResults = c.Search.DefaultLimit
	}
	if c.Search.MaxPerFile <= 0 {
		c.Search.MaxPerFile = 5
	}
	if c.Search.SnippetMaxChars <= 0 {
		c.Search.SnippetMaxChars = 200
	}
	if c.Context.DefaultBudget <= 0 {
		c.Context.DefaultBudget = 16384
	}
	if c.Context.BytesPerToken <= 0 {
		c.Context.BytesPerToken = 4
	}
	if c.Context.StubMaxLines <= 0 {
		c.Context.StubMaxLines = 16
	}
	if c.Context.DefaultUnit != "bytes" {
		c.Context.DefaultUnit = "tokens"
	}
	if c.Watcher.Debounce <= 0 {
		c.Watcher.Debounce = 250 * time.Millisecond
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
