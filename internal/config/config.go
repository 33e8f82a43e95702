package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// EngineConfig holds the attendance/overtime engine tunables.
type EngineConfig struct {
	// AutoCheckoutInterval is how often the auto-checkout sweep runs.
	AutoCheckoutInterval time.Duration
	// AutoCloseInterval is how often the OT auto-close sweep runs.
	AutoCloseInterval time.Duration
	// AutoCloseAfter is the minimum session age before force-closing.
	AutoCloseAfter time.Duration
	// LookbackDays is how many calendar days the sweeps scan backwards.
	LookbackDays int
	// SweepBatchLimit caps how many records one sweep pass touches.
	SweepBatchLimit int
	// RateLimitInterval throttles per-user attendance/OT submissions.
	RateLimitInterval time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine in deployed environments; env vars win anyway.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timepay"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Engine configuration
	engine := EngineConfig{}
	if engine.AutoCheckoutInterval, err = getEnvDuration("ENGINE_AUTO_CHECKOUT_INTERVAL", "2h"); err != nil {
		return nil, err
	}
	if engine.AutoCloseInterval, err = getEnvDuration("ENGINE_AUTO_CLOSE_INTERVAL", "24h"); err != nil {
		return nil, err
	}
	if engine.AutoCloseAfter, err = getEnvDuration("ENGINE_AUTO_CLOSE_AFTER", "16h"); err != nil {
		return nil, err
	}
	if engine.RateLimitInterval, err = getEnvDuration("ENGINE_RATE_LIMIT_INTERVAL", "10s"); err != nil {
		return nil, err
	}
	if engine.LookbackDays, err = getEnvInt("ENGINE_LOOKBACK_DAYS", 3); err != nil {
		return nil, err
	}
	if engine.SweepBatchLimit, err = getEnvInt("ENGINE_SWEEP_BATCH_LIMIT", 500); err != nil {
		return nil, err
	}
	config.Engine = engine

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Engine.LookbackDays < 1 {
		return fmt.Errorf("ENGINE_LOOKBACK_DAYS must be at least 1")
	}
	if c.Engine.SweepBatchLimit < 1 {
		return fmt.Errorf("ENGINE_SWEEP_BATCH_LIMIT must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
