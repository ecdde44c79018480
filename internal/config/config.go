// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Heart    HeartConfig    `mapstructure:"heart"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DataConfig holds record store configuration.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// AuthConfig holds JWT and account bootstrap configuration.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminPassword string        `mapstructure:"admin_password"`
}

// HeartConfig holds heart-value balance parameters.
type HeartConfig struct {
	InitialBalance int64 `mapstructure:"initial_balance"`
	AdminBalance   int64 `mapstructure:"admin_balance"`
	RerollCost     int64 `mapstructure:"reroll_cost"`
}

// DatabaseConfig holds the optional record store mirror target. An empty
// URL disables mirroring.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the given directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separators and uppercase,
	// e.g. SERVER_PORT, AUTH_JWT_SECRET, DATABASE_URL.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("data.dir", "./data")

	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.admin_password", "kristy")

	v.SetDefault("heart.initial_balance", 100)
	v.SetDefault("heart.admin_balance", 9999)
	v.SetDefault("heart.reroll_cost", 100)
}
