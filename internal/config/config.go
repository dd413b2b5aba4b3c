package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Backends de almacenamiento soportados.
const (
	StoreBackendCSV      = "csv"
	StoreBackendPostgres = "postgres"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT" envDefault:"5000"`
	StoreBackend     string        `env:"STORE_BACKEND" envDefault:"csv"`
	StorePath        string        `env:"STORE_PATH" envDefault:"data/childsurvey.csv"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	StoreLockTTL     time.Duration `env:"STORE_LOCK_TTL" envDefault:"5s"`
	StoreLockWait    time.Duration `env:"STORE_LOCK_WAIT" envDefault:"2s"`
	AnalyticsConfig  string        `env:"ANALYTICS_CONFIG"`
	ClassMin         int           `env:"CLASS_MIN" envDefault:"1"`
	ClassMax         int           `env:"CLASS_MAX" envDefault:"12"`
	TopTraits        int           `env:"TOP_TRAITS"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:","`
	LogDevelopment   bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	return loadConfig(env.Options{})
}

func loadConfig(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case StoreBackendCSV:
		if strings.TrimSpace(c.StorePath) == "" {
			return fmt.Errorf("STORE_PATH is required for the csv backend")
		}
	case StoreBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.ClassMin > c.ClassMax {
		return fmt.Errorf("CLASS_MIN (%d) must not exceed CLASS_MAX (%d)", c.ClassMin, c.ClassMax)
	}
	if c.TopTraits < 0 {
		return fmt.Errorf("TOP_TRAITS must be >= 0")
	}
	return nil
}
