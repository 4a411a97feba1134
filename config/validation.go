package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// minProductionSecretLength is the shortest JWT secret accepted in production.
const minProductionSecretLength = 32

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required"})
	} else if cfg.Environment.IsProduction() && len(cfg.JWTSecret) < minProductionSecretLength {
		errs = append(errs, ValidationError{"JWT_SECRET", fmt.Sprintf("must be at least %d characters in production", minProductionSecretLength)})
	}

	switch cfg.DBDriver {
	case "postgres":
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, ValidationError{field, "is required for postgres"})
			}
		}
		if cfg.DBPassword == "" && cfg.Environment != Test {
			errs = append(errs, ValidationError{"DB_PASSWORD", "is required for postgres"})
		}
	case "sqlite":
		if cfg.Environment.IsProduction() {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not allowed in production"})
		}
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	if cfg.DefaultPageSize <= 0 {
		errs = append(errs, ValidationError{"DEFAULT_PAGE_SIZE", "must be positive"})
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		errs = append(errs, ValidationError{"MAX_PAGE_SIZE", "must not be smaller than DEFAULT_PAGE_SIZE"})
	}
	if _, err := language.Parse(cfg.SortLocale); err != nil {
		errs = append(errs, ValidationError{"SORT_LOCALE", err.Error()})
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT", "must not be negative"})
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
