package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported values for STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI               string
	Database          string
	Collection        string
	MaxPoolSize       int
	ConnectTimeoutSec int
}

// PaginationConfig bounds list queries. It is read once at startup and
// injected into the service layer.
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// LogConfig controls the root logger.
type LogConfig struct {
	Level  string
	Format string
	Caller bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost           string
	Port              string
	Timezone          string
	StoreDriver       string
	RequestTimeoutSec int
	Pagination        PaginationConfig
	Database          DatabaseConfig
	Mongo             MongoConfig
	Log               LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:           getEnv("APP_HOST", "localhost:8080"),
		Port:              getEnv("PORT", "8080"),
		Timezone:          getEnv("APP_TIMEZONE", "UTC"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 10),
		Pagination: PaginationConfig{
			DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 100),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:          getEnv("MONGO_DATABASE", "movies"),
			Collection:        getEnv("MONGO_COLLECTION", "movies"),
			MaxPoolSize:       getEnvInt("MONGO_MAX_POOL_SIZE", 20),
			ConnectTimeoutSec: getEnvInt("MONGO_CONNECT_TIMEOUT_SEC", 10),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			Caller: getEnvBool("LOG_CALLER", false),
		},
	}
}

// Validate reports settings the service cannot start with.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Pagination.DefaultPageSize < 1 {
		errs = append(errs, fmt.Errorf("DEFAULT_PAGE_SIZE must be positive, got %d", c.Pagination.DefaultPageSize))
	}
	if c.Pagination.MaxPageSize < 1 {
		errs = append(errs, fmt.Errorf("MAX_PAGE_SIZE must be positive, got %d", c.Pagination.MaxPageSize))
	}
	if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		errs = append(errs, fmt.Errorf("DEFAULT_PAGE_SIZE (%d) exceeds MAX_PAGE_SIZE (%d)",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize))
	}
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver))
	}
	return errors.Join(errs...)
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
