// Package config loads SDK configuration from the environment, with .env
// support for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete SDK configuration
type Config struct {
	Providers     ProvidersConfig
	Observability ObservabilityConfig
	Environment   string
}

// VendorConfig holds one vendor's connection settings
type VendorConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	PollInterval time.Duration
}

// ProvidersConfig holds SMS vendor configurations
type ProvidersConfig struct {
	SMSHub      VendorConfig
	HeroSMS     VendorConfig
	SMSActivate VendorConfig
	SMSBower    VendorConfig
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a Config by loading environment variables. A .env file is
// loaded first when present.
func New() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Providers: ProvidersConfig{
			SMSHub:      loadVendorConfig("SMSHUB", "https://smshub.org/stubs/handler_api.php"),
			HeroSMS:     loadVendorConfig("HEROSMS", "https://hero-sms.com/stubs/handler_api.php"),
			SMSActivate: loadVendorConfig("SMSACTIVATE", "https://api.sms-activate.ae/stubs/handler_api.php"),
			SMSBower:    loadVendorConfig("SMSBOWER", "https://smsbower.page/stubs/handler_api.php"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	if c.IsProduction() && !c.Providers.AnyConfigured() {
		return fmt.Errorf("at least one SMS provider must be configured in production")
	}
	return nil
}

// AnyConfigured reports whether at least one vendor has an API key
func (p *ProvidersConfig) AnyConfigured() bool {
	return p.SMSHub.APIKey != "" || p.HeroSMS.APIKey != "" ||
		p.SMSActivate.APIKey != "" || p.SMSBower.APIKey != ""
}

// ByName returns the vendor block for a canonical provider name
func (p *ProvidersConfig) ByName(name string) (VendorConfig, bool) {
	switch name {
	case "smshub":
		return p.SMSHub, true
	case "herosms":
		return p.HeroSMS, true
	case "smsactivate":
		return p.SMSActivate, true
	case "smsbower":
		return p.SMSBower, true
	}
	return VendorConfig{}, false
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// loadVendorConfig reads one vendor block (PREFIX_API_KEY, PREFIX_BASE_URL,
// PREFIX_TIMEOUT, PREFIX_POLL_INTERVAL)
func loadVendorConfig(prefix, defaultBaseURL string) VendorConfig {
	return VendorConfig{
		APIKey:       getEnv(prefix+"_API_KEY", ""),
		BaseURL:      getEnv(prefix+"_BASE_URL", defaultBaseURL),
		Timeout:      getEnvAsDuration(prefix+"_TIMEOUT", 30*time.Second),
		PollInterval: getEnvAsDuration(prefix+"_POLL_INTERVAL", 5*time.Second),
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
