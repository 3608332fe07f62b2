package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"JWT_SECRET": "s3cr3t"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" || cfg.TokenTTL != 24*time.Hour || cfg.MovementWorkers != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Env != EnvProduction || cfg.IsDevelopment() || cfg.UsesDevSecret() {
		t.Fatalf("expected production defaults, got env %q", cfg.Env)
	}
	if cfg.Mongo.Database != "inventario" || !cfg.Redis.Enabled {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoadFrom_EmptyEnvironmentRequiresSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoadFrom_DevelopmentOptsIntoDevSecret(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": EnvDevelopment}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsDevelopment() || !cfg.UsesDevSecret() {
		t.Fatal("expected development mode with the dev secret")
	}
}

func TestLoadFrom_SecretRequiredOutsideDevelopment(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":              "production",
		"JWT_SECRET":       "s3cr3t",
		"TOKEN_TTL":        "2h",
		"REDIS_ENABLED":    "false",
		"MOVEMENT_WORKERS": "8",
		"ADMIN_EMAIL":      "root@example.com",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "s3cr3t" || cfg.UsesDevSecret() || cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected auth config: %+v", cfg)
	}
	if cfg.Redis.Enabled || cfg.MovementWorkers != 8 || cfg.Admin.Email != "root@example.com" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadFrom_InvalidValue(t *testing.T) {
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"TOKEN_TTL": "soon"})); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
