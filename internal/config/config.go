// Package config loads and validates the marketplace configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carryspace/marketplace/internal/domain/region"
	"github.com/carryspace/marketplace/internal/errors"
)

// Config is the full service configuration. Values load from YAML first,
// then environment variables override.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Owner    OwnerConfig    `yaml:"owner"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimitRPS   int      `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// OwnerConfig identifies the platform owner. The owner email gates
// disclosure of platform escrow shares and the airport import endpoint.
type OwnerConfig struct {
	Email string `yaml:"email"`
}

// SupabaseConfig holds the backend-as-a-service connection settings.
type SupabaseConfig struct {
	URL        string `yaml:"url"`
	AnonKey    string `yaml:"anon_key"`
	ServiceKey string `yaml:"service_key"`
	JWTSecret  string `yaml:"jwt_secret"`
	// KYCBucket is the object-storage bucket for identity documents.
	KYCBucket string `yaml:"kyc_bucket"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Supabase: SupabaseConfig{
			KYCBucket: "kyc-documents",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration from an optional YAML file and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitRPS = n
		}
	}
	if v := os.Getenv("OWNER_EMAIL"); v != "" {
		cfg.Owner.Email = v
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		cfg.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		cfg.Supabase.AnonKey = v
	}
	if v := os.Getenv("SUPABASE_SERVICE_KEY"); v != "" {
		cfg.Supabase.ServiceKey = v
	}
	if v := os.Getenv("SUPABASE_JWT_SECRET"); v != "" {
		cfg.Supabase.JWTSecret = v
	}
	if v := os.Getenv("KYC_BUCKET"); v != "" {
		cfg.Supabase.KYCBucket = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate runs the startup checks. Configuration errors are fatal at boot
// and never surface at request time.
func (c Config) Validate() error {
	if err := region.ValidateRateTable(); err != nil {
		return errors.Configuration(err.Error())
	}
	if strings.TrimSpace(c.Owner.Email) == "" {
		return errors.Configuration("owner email is required")
	}
	if c.Server.Addr == "" {
		return errors.Configuration("server addr is required")
	}
	return nil
}
