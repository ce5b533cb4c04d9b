package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Matching  MatchingConfig
	Scheduler SchedulerConfig
	Sentry    SentryConfig
}

// ServerConfig holds process-level configuration
type ServerConfig struct {
	Env  string
	Port string
}

// SentryConfig holds error-reporting configuration. DSN empty disables
// reporting entirely (used in local/test environments).
type SentryConfig struct {
	DSN string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration, used for the scheduler's cross-process wake signal.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// MatchingConfig holds the scoring and preview tunables.
type MatchingConfig struct {
	TotalTags      int
	PreviewK       int
	WeightFF       float64
	WeightAF       float64
	WeightAA       float64
	WeightTrait    float64
	WeightBound    float64
	AcceptTimeout  time.Duration
	AllowedDomains []string
	CatalogPath    string
	TraitsPath     string
}

// SchedulerConfig holds the scheduler/sweeper cadence.
type SchedulerConfig struct {
	TickInterval    time.Duration
	SweeperInterval time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("SERVER_ENV", "development"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "hilo"),
			Password:        getEnv("DB_PASSWORD", "hilo"),
			DBName:          getEnv("DB_NAME", "hilo"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Matching: MatchingConfig{
			TotalTags:      getEnvAsInt("TOTAL_TAGS", 10),
			PreviewK:       getEnvAsInt("PREVIEW_K", 10),
			WeightFF:       getEnvAsFloat("W_FF", 3.0),
			WeightAF:       getEnvAsFloat("W_AF", 2.0),
			WeightAA:       getEnvAsFloat("W_AA", 1.0),
			WeightTrait:    getEnvAsFloat("W_TRAIT", 1.0),
			WeightBound:    getEnvAsFloat("W_BOUND", 2.0),
			AcceptTimeout:  getEnvAsDuration("ACCEPT_TIMEOUT", 24*time.Hour),
			AllowedDomains: getEnvAsList("ALLOWED_DOMAINS", nil),
			CatalogPath:    getEnv("TAG_CATALOG_PATH", "./config/tags.json"),
			TraitsPath:     getEnv("KNOWN_TRAITS_PATH", "./config/traits.json"),
		},
		Scheduler: SchedulerConfig{
			TickInterval:    getEnvAsDuration("SCHEDULER_TICK_INTERVAL", 30*time.Second),
			SweeperInterval: getEnvAsDuration("SWEEPER_INTERVAL", 60*time.Second),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
	}

	if cfg.Matching.WeightFF <= cfg.Matching.WeightAF {
		return nil, fmt.Errorf("W_FF must be greater than W_AF")
	}
	if cfg.Matching.WeightAF < cfg.Matching.WeightAA {
		return nil, fmt.Errorf("W_AF must be greater than or equal to W_AA")
	}
	if cfg.Matching.WeightAA <= 0 {
		return nil, fmt.Errorf("W_AA must be positive")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
