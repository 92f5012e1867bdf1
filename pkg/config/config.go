package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for openccp-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, tokens) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath is the directory containing golang-migrate SQL files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// X API configuration
	XAPI XAPIConfig `yaml:"x_api"`

	// Crawl defaults
	Crawl CrawlConfig `yaml:"crawl"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"openccp"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"openccp"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// XAPIConfig holds X API credentials and retry tuning.
// Retry defaults follow the X API rate-limit guidance: exponential backoff
// starting at 2s, doubling each attempt, capped at 2 minutes, with jitter.
type XAPIConfig struct {
	BearerToken string        `yaml:"-" env:"X_BEARER_TOKEN"` // Secret - not in YAML
	BaseURL     string        `yaml:"base_url" env:"X_API_BASE_URL" env-default:"https://api.twitter.com/2"`
	MaxRetries  int           `yaml:"max_retries" env:"X_API_MAX_RETRIES" env-default:"5"`
	BaseDelay   time.Duration `yaml:"base_delay" env:"X_API_BASE_DELAY" env-default:"2s"`
	MaxDelay    time.Duration `yaml:"max_delay" env:"X_API_MAX_DELAY" env-default:"120s"`
	Jitter      bool          `yaml:"jitter" env:"X_API_JITTER" env-default:"true"`
}

// CrawlConfig holds default fetch sizes and concurrency for crawl runs.
type CrawlConfig struct {
	MaxTweets    int `yaml:"max_tweets" env:"CRAWL_MAX_TWEETS" env-default:"25"`
	MaxFollowing int `yaml:"max_following" env:"CRAWL_MAX_FOLLOWING" env-default:"50"`
	MaxFollowers int `yaml:"max_followers" env:"CRAWL_MAX_FOLLOWERS" env-default:"50"`
	Workers      int `yaml:"workers" env:"CRAWL_WORKERS" env-default:"4"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// A .env file in the working directory is loaded first if present. The version
// parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	// Load .env into the process environment before cleanenv reads it.
	// A missing .env file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
