package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	DataDir     string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	CatalogPath string `json:"catalog_path" yaml:"catalog_path" toml:"catalog_path"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level"`

	// Backing-process launch settings.
	PythonBin      string `json:"python_bin" yaml:"python_bin" toml:"python_bin"`
	ServerScript   string `json:"server_script" yaml:"server_script" toml:"server_script"`
	HealthAttempts int    `json:"health_attempts" yaml:"health_attempts" toml:"health_attempts"`
	HealthInterval string `json:"health_interval" yaml:"health_interval" toml:"health_interval"`

	// Embedded engine settings.
	CtxSize   int `json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
}

// Defaults applied where the corresponding Config fields are unset.
const (
	DefaultAddr           = ":8090"
	DefaultDataDir        = "~/.modelhost"
	DefaultPythonBin      = "python3"
	DefaultServerScript   = "python_server/main.py"
	DefaultHealthAttempts = 30
	DefaultHealthInterval = time.Second
	DefaultCtxSize        = 2048
	DefaultMaxTokens      = 200
)

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.PythonBin == "" {
		c.PythonBin = DefaultPythonBin
	}
	if c.ServerScript == "" {
		c.ServerScript = DefaultServerScript
	}
	if c.HealthAttempts <= 0 {
		c.HealthAttempts = DefaultHealthAttempts
	}
	if c.HealthInterval == "" {
		c.HealthInterval = DefaultHealthInterval.String()
	}
	if c.CtxSize <= 0 {
		c.CtxSize = DefaultCtxSize
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
}

// HealthIntervalDuration parses HealthInterval, falling back to the default
// on empty or malformed values.
func (c Config) HealthIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.HealthInterval)
	if err != nil || d <= 0 {
		return DefaultHealthInterval
	}
	return d
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
