package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB       DBConfig
	Server   ServerConfig
	Upstream UpstreamConfig
	Export   ExportConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// UpstreamConfig holds settings for the external geocoding and forecast APIs
type UpstreamConfig struct {
	GeocodingBaseURL string
	ForecastBaseURL  string
	Timeout          time.Duration
	Units            string
}

// ExportConfig holds settings for the export subsystem
type ExportConfig struct {
	MaxRecords int
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "weather" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	// PostgreSQL connection string
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "weather"),
			Password: getEnv("DB_PASSWORD", "weather_password"),
			Name:     getEnv("DB_NAME", "weather"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Upstream: UpstreamConfig{
			GeocodingBaseURL: getEnv("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com"),
			ForecastBaseURL:  getEnv("FORECAST_BASE_URL", "https://api.open-meteo.com"),
			Timeout:          getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			Units:            getEnv("WEATHER_UNITS", "metric"),
		},
		Export: ExportConfig{
			MaxRecords: getEnvAsInt("EXPORT_MAX_RECORDS", 1000),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
