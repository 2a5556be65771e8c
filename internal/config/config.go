// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// ProviderConfig holds live-client credentials for one AI vendor.
// Driver selects the wire protocol: openai (chat-completions compatible),
// minimax, or gemini.
type ProviderConfig struct {
	Driver  string `yaml:"driver"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	GroupID string `yaml:"group_id"` // minimax only
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
}

// Mode values for AIConfig.Mode. "auto" resolves at startup: simulated
// when no provider survives credential validation, live otherwise.
const (
	ModeAuto      = "auto"
	ModeLive      = "live"
	ModeSimulated = "simulated"
)

type AIConfig struct {
	Mode            string                    `yaml:"mode"` // auto|live|simulated
	ConcurrentLimit int                       `yaml:"concurrent_limit"`
	Retry           RetryConfig               `yaml:"retry"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

type RateLimitConfig struct {
	ChatPerMinute int `yaml:"chat_per_minute"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	AI        AIConfig        `yaml:"ai"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.Secret == "" {
		return nil, errors.New("auth.secret is required")
	}
	switch cfg.AI.Mode {
	case ModeAuto, ModeLive, ModeSimulated:
	default:
		return nil, fmt.Errorf("ai.mode %q must be auto, live or simulated", cfg.AI.Mode)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.AI.Mode == "" {
		cfg.AI.Mode = ModeAuto
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.Retry.MaxAttempts <= 0 {
		cfg.AI.Retry.MaxAttempts = 3
	}
	if cfg.AI.Retry.InitialBackoff <= 0 {
		cfg.AI.Retry.InitialBackoff = time.Second
	}
	if cfg.RateLimit.ChatPerMinute <= 0 {
		cfg.RateLimit.ChatPerMinute = 30
	}
}
