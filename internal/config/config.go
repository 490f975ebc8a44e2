package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	History HistoryConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	RateLimit       int
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// ModelConfig selects the model backend. URL wins over Path when both are set.
type ModelConfig struct {
	Path    string
	URL     string
	Timeout time.Duration
}

type HistoryConfig struct {
	Enabled bool
	Limit   int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			RateLimit:       getEnvInt("RATE_LIMIT_RPS", 5),
			CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"*"}),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Model: ModelConfig{
			Path:    getEnv("MODEL_PATH", "./model.json"),
			URL:     getEnv("MODEL_URL", ""),
			Timeout: getEnvDuration("MODEL_TIMEOUT", 15*time.Second),
		},
		History: HistoryConfig{
			Enabled: getEnvBool("HISTORY_ENABLED", false),
			Limit:   getEnvInt("HISTORY_LIMIT", 20),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/predictions.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS must be at least 1, got %d", c.Server.RateLimit)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Model.URL == "" && c.Model.Path == "" {
		return fmt.Errorf("one of MODEL_PATH or MODEL_URL is required")
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive")
	}

	if c.History.Enabled {
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required when HISTORY_ENABLED is true")
		}
		if c.History.Limit < 1 || c.History.Limit > 500 {
			return fmt.Errorf("HISTORY_LIMIT must be between 1 and 500, got %d", c.History.Limit)
		}
	}

	return nil
}

// UsesRemoteModel reports whether predictions go to MODEL_URL.
func (c *Config) UsesRemoteModel() bool {
	return c.Model.URL != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
