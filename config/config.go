// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// PostgresConfig holds Postgres configuration. An empty DSN selects the
// in-memory store.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from path. A missing path yields defaults;
// PONGARENA_ADDR and PONGARENA_POSTGRES_DSN override the file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if addr := os.Getenv("PONGARENA_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if dsn := os.Getenv("PONGARENA_POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if level := os.Getenv("PONGARENA_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if cfg.Server.Addr == "" {
		return nil, fmt.Errorf("config: server.addr must not be empty")
	}
	return cfg, nil
}
