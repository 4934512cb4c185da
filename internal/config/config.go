// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type UpstreamConfig struct {
	// BaseURL is the root of the league REST API, e.g. https://api.example.gg
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit int           `yaml:"rate_limit"`
	// AdminPassword authorizes mutating upstream calls. Loaded from
	// environment, never from the config file.
	AdminPassword string `yaml:"-"`
}

type AdminConfig struct {
	// PasswordHash is the bcrypt hash the login form verifies against.
	// Loaded from environment.
	PasswordHash string        `yaml:"-"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	// Broadcast holds the league's Twitch presence, shown on the
	// upcoming page when the channel is live.
	Broadcast struct {
		TwitchChannel string `yaml:"twitch_channel"`
		TwitchURL     string `yaml:"twitch_url"`
	} `yaml:"broadcast"`

	Upstream UpstreamConfig `yaml:"upstream"`
	Admin    AdminConfig    `yaml:"admin"`

	Jobs struct {
		DirectoryRefresh time.Duration `yaml:"directory_refresh"`
	} `yaml:"jobs"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Upstream.AdminPassword = os.Getenv("UPSTREAM_ADMIN_PASSWORD")
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL is required")
	}
	if c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream timeout cannot be negative")
	}
	if c.Admin.SessionTTL == 0 {
		c.Admin.SessionTTL = 8 * time.Hour
	}
	if c.Jobs.DirectoryRefresh == 0 {
		c.Jobs.DirectoryRefresh = 5 * time.Minute
	}
	return nil
}
