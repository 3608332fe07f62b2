package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DevJWTSecret signs tokens when ENV=development and JWT_SECRET is unset.
	DevJWTSecret = "dev-only-insecure-secret"
)

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required outside development")

type Config struct {
	Port      string        `env:"PORT,      default=3000"`
	Env       string        `env:"ENV,       default=production"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`

	// MovementWorkers is the number of dispatcher workers recording stock movements.
	MovementWorkers int `env:"MOVEMENT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	OTel  OTelConfig
	Admin AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=inventario"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=true"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int    `env:"REDIS_DB,      default=0"`
}

type OTelConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED,  default=false"`
	Endpoint string `env:"OTEL_ENDPOINT, default=localhost:4317"`
}

// AdminConfig seeds the first admin account (seed-admin command).
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.resolveSecret(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// UsesDevSecret reports whether tokens are signed with DevJWTSecret.
func (c *Config) UsesDevSecret() bool { return c.JWTSecret == DevJWTSecret }

func (c *Config) resolveSecret() error {
	if c.JWTSecret != "" {
		return nil
	}
	if !c.IsDevelopment() {
		return ErrMissingJWTSecret
	}
	c.JWTSecret = DevJWTSecret
	return nil
}
