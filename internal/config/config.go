package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the externally configurable behavior of the service
type Config struct {
	// Port is the HTTP listen port
	Port int `mapstructure:"port"`
	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `mapstructure:"storage_type"`
	// RedisURL is the Redis connection URL (required for redis storage)
	RedisURL string `mapstructure:"redis_url"`
	// SessionTTL bounds how long a disconnected session can resume
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Load reads configuration from an optional config.yaml and the
// environment (PORT, STORAGE_TYPE, REDIS_URL, SESSION_TTL), with
// environment taking precedence
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 3000)
	v.SetDefault("storage_type", "memory")
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("session_ttl", "24h")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}
