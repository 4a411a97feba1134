package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 6, cfg.DefaultPageSize)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.StoreServerOrdering)
	assert.Equal(t, "fr", cfg.SortLocale)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "https://recettes-images.s3.eu-west-3.amazonaws.com", cfg.S3PublicBaseURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestSortTag(t *testing.T) {
	assert.Equal(t, language.French, (&Config{SortLocale: "fr"}).SortTag())
	assert.Equal(t, language.German, (&Config{SortLocale: "de"}).SortTag())
	assert.Equal(t, language.French, (&Config{SortLocale: "not a locale!"}).SortTag())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("STORE_SERVER_ORDERING", "false")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.StoreServerOrdering)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "https://cdn.example", cfg.S3PublicBaseURL)
}

func TestLoadConfigSecretsOverlay(t *testing.T) {
	setBaseEnv(t)
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret-file\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret-file", cfg.JWTSecret)
}

func TestLoadConfigCIIgnoresSecrets(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CI", "true")
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret-file"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadConfigMissingSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:     Development,
			ServerPort:      "8080",
			JWTSecret:       "secret",
			DBDriver:        "sqlite",
			DBPath:          "recettes.db",
			DefaultPageSize: 6,
			MaxPageSize:     50,
			SortLocale:      "fr",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"postgres without password", func(c *Config) {
			c.DBDriver = "postgres"
			c.DBHost, c.DBPort, c.DBUser, c.DBName = "localhost", "5432", "postgres", "recettes"
		}, "DB_PASSWORD"},
		{"sqlite in production", func(c *Config) {
			c.Environment = Production
			c.JWTSecret = "0123456789abcdef0123456789abcdef"
		}, "sqlite is not allowed"},
		{"short production secret", func(c *Config) {
			c.Environment = Production
			c.DBDriver = "postgres"
			c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBPassword = "db", "5432", "postgres", "recettes", "pw"
		}, "at least 32"},
		{"page size", func(c *Config) { c.DefaultPageSize = 0 }, "DEFAULT_PAGE_SIZE"},
		{"max below default", func(c *Config) { c.MaxPageSize = 3 }, "MAX_PAGE_SIZE"},
		{"bad locale", func(c *Config) { c.SortLocale = "not a locale!" }, "SORT_LOCALE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPublicReadPolicy(t *testing.T) {
	s := &S3Config{BucketName: "bucket"}

	var policy map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s.PublicReadPolicy()), &policy))
	statements := policy["Statement"].([]interface{})
	require.Len(t, statements, 1)
	assert.Equal(t, "arn:aws:s3:::bucket/recipes/*", statements[0].(map[string]interface{})["Resource"])
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, GetEnvironment().Structured())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
