// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"finflow-tracker/pkg/db" // Import db package for its Config struct
)

// Supported values of DATA_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort    string
	DataBackend   string
	RunMigrations bool
	LogLevel      string
	DB            db.Config
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first if present; real
// environment variables win over it.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	runMigrations, err := strconv.ParseBool(getEnv("RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_MIGRATIONS: %w", err)
	}

	cfg := &AppConfig{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DataBackend:   strings.ToLower(getEnv("DATA_BACKEND", BackendPostgres)),
		RunMigrations: runMigrations,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "financedb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *AppConfig) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.ServerPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.DB.Host == "" {
			problems = append(problems, "DB_HOST cannot be empty when using postgres backend")
		}
		if c.DB.Port < 1 || c.DB.Port > 65535 {
			problems = append(problems, fmt.Sprintf("invalid DB_PORT %d: must be between 1 and 65535", c.DB.Port))
		}
		if c.DB.DBName == "" {
			problems = append(problems, "DB_NAME cannot be empty when using postgres backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]",
			c.DataBackend, BackendPostgres, BackendMemory))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
