// Package config loads application configuration from a YAML file and
// environment variables. Environment variables use the RUNBOOKOPS_ prefix
// with "__" as the section separator and override file values, e.g.
// RUNBOOKOPS_SERVER__PORT=9090 sets server.port.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "RUNBOOKOPS_"

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	CORS     CORSConfig     `koanf:"cors"`
	JWT      JWTConfig      `koanf:"jwt"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	History  HistoryConfig  `koanf:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port" validate:"required"`
	MetricsPort       string        `koanf:"metrics_port" validate:"required,nefield=Port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// JWTConfig holds access token settings.
type JWTConfig struct {
	SecretKey           string        `koanf:"secret_key" validate:"required,min=32"`
	AccessTokenDuration time.Duration `koanf:"access_token_duration" validate:"required"`
}

// PipelineConfig holds execution pipeline settings.
type PipelineConfig struct {
	// SimulatedLatency is the fixed wait representing remote execution.
	SimulatedLatency time.Duration `koanf:"simulated_latency" validate:"min=0"`
}

// HistoryConfig holds historical dataset generation settings.
type HistoryConfig struct {
	// Seed makes the generated 30-day dataset reproducible. Zero seeds
	// from the current time.
	Seed uint64 `koanf:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		JWT: JWTConfig{
			AccessTokenDuration: 5 * time.Minute,
		},
		Pipeline: PipelineConfig{
			SimulatedLatency: 3 * time.Second,
		},
	}
}

// Load reads configuration from the optional YAML file at path, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
