package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"home-budget-web"`
		Env  string `envconfig:"ENV" default:"dev"`
		Host string `envconfig:"HOST" default:"0.0.0.0"`
		Port int    `envconfig:"PORT" default:"8000"`
	}

	DB struct {
		URL      string `envconfig:"DATABASE_URL" default:"postgres://localhost:5432/budget_db?sslmode=disable"`
		PoolSize int    `envconfig:"POOL_SIZE" default:"5"`
	}

	Storage struct {
		// Directory holding expenses.json and incomes.json.
		DataDir         string `envconfig:"DATA_DIR" default:"data"`
		DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"₪"`
		// Defaults for the storage flags when neither the FF_ env vars
		// nor flag rows set them. Both off means JSON only.
		DBPrimary bool `envconfig:"STORAGE_DB_PRIMARY" default:"false"`
		DualWrite bool `envconfig:"STORAGE_DUAL_WRITE" default:"false"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) IsDev() bool {
	return strings.EqualFold(c.App.Env, "dev")
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// MaskedDatabaseURL returns the database URL with any password replaced by
// "****", safe for logs and the config endpoint.
func (c *Config) MaskedDatabaseURL() string {
	parsed, err := url.Parse(c.DB.URL)
	if err != nil || parsed.User == nil {
		return c.DB.URL
	}

	if _, has := parsed.User.Password(); !has {
		return c.DB.URL
	}

	parsed.User = url.UserPassword(parsed.User.Username(), "****")

	return parsed.String()
}

func Load() (*Config, error) {
	// Optional .env file for development; missing is fine.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
