package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `env:"-"`

	// Server configuration
	ServerHost  string   `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort  string   `env:"SERVER_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// Database configuration
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"recettes"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	DBPath     string `env:"DB_PATH" envDefault:"recettes.db"`

	// Redis configuration; an empty URL disables revocation and rate limiting
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// JWT configuration
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Image storage
	S3BucketName    string `env:"S3_BUCKET_NAME" envDefault:"recettes-images"`
	AWSRegion       string `env:"AWS_REGION" envDefault:"eu-west-3"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Recipe listing
	StoreServerOrdering bool   `env:"STORE_SERVER_ORDERING" envDefault:"true"`
	SortLocale          string `env:"SORT_LOCALE" envDefault:"fr"`
	RebuildSortKeys     bool   `env:"REBUILD_SORT_KEYS"`
	DefaultPageSize     int    `env:"DEFAULT_PAGE_SIZE" envDefault:"6"`
	MaxPageSize         int    `env:"MAX_PAGE_SIZE" envDefault:"50"`

	// Rate limiting of recipe mutations, per user
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"30"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// secretFields maps Docker secret file names to the fields they fill.
func (c *Config) secretFields() map[string]*string {
	return map[string]*string{
		"db_user":        &c.DBUser,
		"db_password":    &c.DBPassword,
		"jwt_secret":     &c.JWTSecret,
		"redis_password": &c.RedisPassword,
		"redis_url":      &c.RedisURL,
	}
}

// LoadConfig reads the environment, overlays Docker secrets outside CI and
// validates the result for the current environment.
func LoadConfig() (*Config, error) {
	environment := GetEnvironment()
	cfg := &Config{Environment: environment}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// CI takes secrets from the environment only
	if environment != CI {
		for name, field := range cfg.secretFields() {
			if value := readSecret(name); value != "" {
				*field = value
			}
		}
	}

	if cfg.S3PublicBaseURL == "" {
		cfg.S3PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3BucketName, cfg.AWSRegion)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// SortTag parses SortLocale, falling back to French.
func (c *Config) SortTag() language.Tag {
	tag, err := language.Parse(c.SortLocale)
	if err != nil {
		return language.French
	}
	return tag
}

// PostgresDSN returns the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// secretsDir returns the directory Docker secrets are mounted in.
func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	data, err := os.ReadFile(filepath.Join(secretsDir(), name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
