package config

import (
	"fmt"
	"os"
	"strconv"
)

// Catalog source kinds.
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Catalog  CatalogConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	S3       S3Config
}

// CatalogConfig selects where product and discount catalogs are read from.
type CatalogConfig struct {
	Source        string // "file", "s3" or "postgres"
	ProductsFile  string
	DiscountsFile string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	ConnectTimeout  int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// S3Config holds AWS S3 configuration for catalog files.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // Path prefix within bucket (e.g., "catalog/")
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Catalog: CatalogConfig{
			Source:        getEnv("CATALOG_SOURCE", SourceFile),
			ProductsFile:  getEnv("PRODUCTS_FILE", "data/products.json"),
			DiscountsFile: getEnv("DISCOUNTS_FILE", "data/discounts.json"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "minikart"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 2),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 0),
			ConnectTimeout:  getEnvAsInt("DB_CONNECT_TIMEOUT", 5),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "catalog/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceFile, SourceS3, SourcePostgres:
	default:
		return fmt.Errorf("invalid catalog source: %s (must be file, s3, or postgres)", c.Catalog.Source)
	}

	if c.Catalog.Source != SourcePostgres {
		if c.Catalog.ProductsFile == "" {
			return fmt.Errorf("products file is required")
		}
		if c.Catalog.DiscountsFile == "" {
			return fmt.Errorf("discounts file is required")
		}
	}

	if c.Catalog.Source == SourcePostgres {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}

		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}

		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}

		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}

		if c.Database.MaxConnections < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}

		if c.Database.MinConnections < 0 {
			return fmt.Errorf("database min connections cannot be negative")
		}

		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}

		if c.Database.ConnectTimeout < 1 {
			return fmt.Errorf("database connect timeout must be at least 1 second")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Catalog.Source == SourceS3 {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when the catalog source is s3")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when the catalog source is s3")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
