package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	CORS     CORSConfig
	Log      LogConfig
	Metrics  MetricsConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Reset    ResetConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds Postgres settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig selects the cache backend
type CacheConfig struct {
	Enabled bool
	Type    string // redis or memory
	TTL     time.Duration
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string // json or console
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SMTPConfig holds outbound mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// ResetConfig holds password-reset token settings
type ResetConfig struct {
	TokenLength int
	TokenTTL    time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "nursecall"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", true),
			Type:    getEnv("CACHE_TYPE", "memory"),
			TTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@localhost"),
			FromName: getEnv("SMTP_FROM_NAME", "Nurse Call Service"),
		},
		Reset: ResetConfig{
			TokenLength: getEnvInt("RESET_TOKEN_LENGTH", 6),
			TokenTTL:    getEnvDuration("RESET_TOKEN_TTL", 30*time.Minute),
		},
	}

	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host and name are required")
	}
	if c.Cache.Enabled && c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return fmt.Errorf("unsupported cache type: %s", c.Cache.Type)
	}
	if c.Reset.TokenLength < 6 {
		return fmt.Errorf("reset token length must be at least 6")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
