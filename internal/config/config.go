// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"AGENDA_DB_PATH" envDefault:"./data/agenda.db"`
	SessionSecret string `env:"AGENDA_SESSION_SECRET,required"`
	ServerHost    string `env:"AGENDA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AGENDA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"AGENDA_ENV" envDefault:"development"`
	LogLevel      string `env:"AGENDA_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"AGENDA_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"AGENDA_CACHE_PREFIX" envDefault:"agenda:"` // Redis key prefix
	CacheTTL     int    `env:"AGENDA_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"AGENDA_CACHE_MAX_SIZE" envDefault:"1000"`  // Max memory cache entries

	// GeoIP configuration (optional country lookup for auth events)
	GeoIPDBPath string `env:"AGENDA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// OpenAI configuration (optional description suggestions)
	OpenAIAPIKey string `env:"AGENDA_OPENAI_API_KEY"`
	OpenAIModel  string `env:"AGENDA_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Audit log retention
	EventRetentionDays int `env:"AGENDA_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Seeding configuration. The fixture data set is always seeded into an
	// empty database; this forces a reseed of missing records on start.
	DoSeed bool `env:"AGENDA_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// OpenAIEnabled returns true if the OpenAI API key is configured.
func (c Config) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("AGENDA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("AGENDA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("AGENDA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
