// Package config loads metraj settings from defaults, an optional TOML file
// and METRAJ_* environment variables, in increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/metraj/internal/llm"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "METRAJ"
	dirName   = ".metraj"
)

type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Inference InferenceConfig `mapstructure:"llm"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// InferenceConfig mirrors the [llm] table of the config file.
type InferenceConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Endpoint       string  `mapstructure:"endpoint"`
	Model          string  `mapstructure:"model"`
	TimeoutMs      int     `mapstructure:"timeout_ms"`
	MaxRetries     int     `mapstructure:"max_retries"`
	RetryBackoffMs int     `mapstructure:"retry_backoff_ms"`
	LogCalls       bool    `mapstructure:"log_calls"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
}

// SetDefaults registers the default value of every key. Keys without a
// default are invisible to AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db.path", filepath.Join(homeDir(), dirName, "metraj.db"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	def := llm.DefaultConfig()
	task := def.Tasks[llm.TaskRiskAnalysis]
	v.SetDefault("llm.enabled", def.Enabled)
	v.SetDefault("llm.endpoint", def.Endpoint)
	v.SetDefault("llm.model", def.Model)
	v.SetDefault("llm.timeout_ms", def.TimeoutMs)
	v.SetDefault("llm.max_retries", def.MaxRetries)
	v.SetDefault("llm.retry_backoff_ms", def.RetryBackoffMs)
	v.SetDefault("llm.log_calls", def.LogCalls)
	v.SetDefault("llm.temperature", task.Temperature)
	v.SetDefault("llm.max_tokens", task.MaxTokens)
}

// Load reads configuration. An explicit path must exist; with an empty path
// ~/.metraj/config.toml is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	switch {
	case path != "":
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	default:
		userPath := DefaultPath()
		if _, err := os.Stat(userPath); err == nil {
			v.SetConfigFile(userPath)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "reading config file %s", userPath)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	cfg.DB.Path = expandHome(cfg.DB.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	return filepath.Join(homeDir(), dirName, "config.toml")
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return errors.New("db.path must not be empty")
	}
	if c.Inference.TimeoutMs <= 0 {
		return errors.Newf("llm.timeout_ms must be positive (got %d)", c.Inference.TimeoutMs)
	}
	if c.Inference.MaxRetries < 0 {
		return errors.Newf("llm.max_retries must not be negative (got %d)", c.Inference.MaxRetries)
	}
	return nil
}

// LLM converts the [llm] table into the llm package's configuration.
func (c *Config) LLM() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = c.Inference.Enabled
	cfg.LogCalls = c.Inference.LogCalls
	cfg.Endpoint = strings.TrimRight(c.Inference.Endpoint, "/")
	cfg.Model = c.Inference.Model
	cfg.TimeoutMs = c.Inference.TimeoutMs
	cfg.MaxRetries = c.Inference.MaxRetries
	cfg.RetryBackoffMs = c.Inference.RetryBackoffMs
	cfg.Tasks[llm.TaskRiskAnalysis] = llm.TaskConfig{
		Temperature: c.Inference.Temperature,
		MaxTokens:   c.Inference.MaxTokens,
	}
	return cfg
}

// LLMTimeout is the configured call timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.Inference.TimeoutMs) * time.Millisecond
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
