// Package config loads engine configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "15s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the parsed duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// OAuthApp holds one provider's OAuth application credentials, used for
// token refresh only; the consent flow that originally obtains tokens lives
// elsewhere in the platform.
type OAuthApp struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Config holds the configuration for the calendar sync engine.
type Config struct {
	// Environment selects log formatting: "development" for console output,
	// anything else for JSON.
	Environment string `yaml:"environment"`
	// Listen is the HTTP trigger listen address.
	Listen string `yaml:"listen"`
	// DatabasePath is the SQLite database file.
	DatabasePath string `yaml:"database_path"`
	// CallTimeout bounds each provider adapter call and token refresh.
	CallTimeout Duration `yaml:"call_timeout"`
	// TokenSkew is the margin before token expiry at which a refresh is
	// attempted.
	TokenSkew Duration `yaml:"token_skew"`

	Google  OAuthApp `yaml:"google"`
	Outlook OAuthApp `yaml:"outlook"`
}

// Load reads configuration with the following precedence (highest first):
// environment variables, config file, defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Environment:  "development",
		Listen:       ":8090",
		DatabasePath: "calsync.db",
		CallTimeout:  Duration(15 * time.Second),
		TokenSkew:    Duration(5 * time.Minute),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("CALSYNC_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("CALSYNC_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("CALSYNC_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("CALSYNC_CALL_TIMEOUT"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CALSYNC_CALL_TIMEOUT: %w", err)
		}
		cfg.CallTimeout = Duration(parsed)
	}
	if v := os.Getenv("CALSYNC_TOKEN_SKEW"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CALSYNC_TOKEN_SKEW: %w", err)
		}
		cfg.TokenSkew = Duration(parsed)
	}
	if v := os.Getenv("CALSYNC_GOOGLE_CLIENT_ID"); v != "" {
		cfg.Google.ClientID = v
	}
	if v := os.Getenv("CALSYNC_GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Google.ClientSecret = v
	}
	if v := os.Getenv("CALSYNC_OUTLOOK_CLIENT_ID"); v != "" {
		cfg.Outlook.ClientID = v
	}
	if v := os.Getenv("CALSYNC_OUTLOOK_CLIENT_SECRET"); v != "" {
		cfg.Outlook.ClientSecret = v
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database_path must be provided via config file or CALSYNC_DATABASE_PATH")
	}
	if cfg.CallTimeout <= 0 {
		return nil, fmt.Errorf("call_timeout must be positive")
	}
	if cfg.TokenSkew <= 0 {
		return nil, fmt.Errorf("token_skew must be positive")
	}

	return cfg, nil
}
