package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "5000" || cfg.StoreBackend != StoreBackendCSV || cfg.StorePath != "data/childsurvey.csv" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StoreLockTTL != 5*time.Second || cfg.ClassMin != 1 || cfg.ClassMax != 12 || cfg.TopTraits != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{
		"STORE_BACKEND":      " Postgres ",
		"DATABASE_URL":       "postgres://localhost/survey",
		"CORS_ALLOW_ORIGINS": "http://a.test,http://b.test",
		"CLASS_MAX":          "10",
	}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.StoreBackend != StoreBackendPostgres {
		t.Fatalf("expected normalized backend, got %q", cfg.StoreBackend)
	}
	if len(cfg.CORSAllowOrigins) != 2 || cfg.CORSAllowOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowOrigins)
	}
	if cfg.ClassMax != 10 {
		t.Fatalf("expected CLASS_MAX 10, got %d", cfg.ClassMax)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown backend", Config{StoreBackend: "sqlite", ClassMin: 1, ClassMax: 12}, "unknown STORE_BACKEND"},
		{"postgres without url", Config{StoreBackend: "postgres", ClassMin: 1, ClassMax: 12}, "DATABASE_URL"},
		{"csv without path", Config{StoreBackend: "csv", ClassMin: 1, ClassMax: 12}, "STORE_PATH"},
		{"inverted class range", Config{StoreBackend: "csv", StorePath: "x.csv", ClassMin: 9, ClassMax: 3}, "CLASS_MIN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
