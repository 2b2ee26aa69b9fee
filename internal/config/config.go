// Package config loads server settings from an optional config.yaml,
// environment variables, and defaults, in decreasing precedence of env
// over file over default.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved server configuration.
type Config struct {
	Port         int
	DatabasePath string
	JWTSecret    string
	JWTDuration  time.Duration
	RedisAddr    string
	LogLevel     string
}

// Load reads configuration from config.yaml (if present) and POOLPAL_*
// environment variables. The JWT secret has no default and must be set.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("poolpal")
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "data/poolpal.db")
	v.SetDefault("jwt_duration", "24h")
	v.SetDefault("redis_addr", "")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	secret := v.GetString("jwt_secret")
	if secret == "" {
		return nil, fmt.Errorf("jwt_secret is required (set POOLPAL_JWT_SECRET)")
	}

	duration, err := time.ParseDuration(v.GetString("jwt_duration"))
	if err != nil {
		return nil, fmt.Errorf("invalid jwt_duration: %w", err)
	}

	return &Config{
		Port:         v.GetInt("port"),
		DatabasePath: v.GetString("database_path"),
		JWTSecret:    secret,
		JWTDuration:  duration,
		RedisAddr:    v.GetString("redis_addr"),
		LogLevel:     v.GetString("log_level"),
	}, nil
}
