package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Platform  PlatformConfig  `yaml:"platform"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds Redis settings for tag caching and dispatch locks.
// When Enabled is false the service falls back to Postgres advisory locks
// and uncached tag queries.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BroadcastConfig holds dispatch worker settings
type BroadcastConfig struct {
	WorkerIntervalSeconds int `yaml:"worker_interval_seconds"`
	BatchSize             int `yaml:"batch_size"`
}

// PlatformConfig holds console-wide defaults
type PlatformConfig struct {
	Timezone        string `yaml:"timezone"`
	DefaultLanguage string `yaml:"default_language"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Broadcast.WorkerIntervalSeconds == 0 {
		cfg.Broadcast.WorkerIntervalSeconds = 15
	}
	if cfg.Broadcast.BatchSize == 0 {
		cfg.Broadcast.BatchSize = 200
	}
	if cfg.Platform.Timezone == "" {
		cfg.Platform.Timezone = "Asia/Singapore"
	}
	if cfg.Platform.DefaultLanguage == "" {
		cfg.Platform.DefaultLanguage = "EN"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from a YAML file, then applies
// environment variable overrides. A .env file is loaded if present.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if tz := os.Getenv("PLATFORM_TIMEZONE"); tz != "" {
		cfg.Platform.Timezone = tz
	}

	return cfg, nil
}
