// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Application
	AppEnv        string        `mapstructure:"APP_ENV"` // "debug" or "release"
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Google OAuth
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`

	// Identity provider selection: "auto", "browser", "device" or "mock".
	IdentityPlatform  string `mapstructure:"IDENTITY_PLATFORM"`
	OAuthLoopbackPort int    `mapstructure:"OAUTH_LOOPBACK_PORT"`

	// Profile store selection: "firestore", "postgres" or "mock".
	ProfileStoreBackend string `mapstructure:"PROFILE_STORE_BACKEND"`

	// Firebase / Firestore
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Postgres (profile store "postgres" backend)
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Profile cache
	CacheDBPath        string        `mapstructure:"CACHE_DB_PATH"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL_HOURS"`
	CacheSweepSchedule string        `mapstructure:"CACHE_SWEEP_SCHEDULE"`

	// Credential store
	SecureStorePath    string `mapstructure:"SECURE_STORE_PATH"`
	SecureStoreKeyPath string `mapstructure:"SECURE_STORE_KEY_PATH"`

	// Debug HTTP surface; empty disables it.
	DebugAddr string `mapstructure:"DEBUG_ADDR"`
}

// Load attempts to load configuration from a .env file (if present) and
// environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("APP_ENV", "debug")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("IDENTITY_PLATFORM", "auto")
	v.SetDefault("OAUTH_LOOPBACK_PORT", 53682)

	v.SetDefault("PROFILE_STORE_BACKEND", "mock")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "puck_buddy_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("CACHE_DB_PATH", "./data/profile_cache.db")
	v.SetDefault("CACHE_TTL_HOURS", 24)
	v.SetDefault("CACHE_SWEEP_SCHEDULE", "@hourly")

	v.SetDefault("SECURE_STORE_PATH", "./data/credentials.bin")
	v.SetDefault("SECURE_STORE_KEY_PATH", "./data/credentials.key")

	v.SetDefault("DEBUG_ADDR", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.CacheTTL = time.Duration(v.GetInt("CACHE_TTL_HOURS")) * time.Hour

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.ProfileStoreBackend {
	case "firestore":
		if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
			return fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for the firestore profile store backend")
		}
		if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
			return fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", c.FirebaseServiceAccountKeyPath)
		}
	case "postgres", "mock":
	default:
		return fmt.Errorf("unknown PROFILE_STORE_BACKEND %q (want firestore, postgres or mock)", c.ProfileStoreBackend)
	}

	switch c.IdentityPlatform {
	case "auto", "browser", "device", "mock":
	default:
		return fmt.Errorf("unknown IDENTITY_PLATFORM %q (want auto, browser, device or mock)", c.IdentityPlatform)
	}

	if c.IdentityPlatform != "mock" && strings.TrimSpace(c.GoogleClientID) == "" {
		return fmt.Errorf("FATAL: GOOGLE_CLIENT_ID is not set. This is required for Google sign-in")
	}
	return nil
}
