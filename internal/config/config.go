package config

import (
	"fmt"
	"time"

	envconfig "github.com/avetrov/reporthub/pkg/config"
	"github.com/avetrov/reporthub/pkg/database"
)

// Config holds every runtime setting for the service. It is built once at
// startup from environment variables and passed down by value; nothing
// mutates it afterwards.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"reporthub"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Postgres database.PostgresConfig
	Redis    database.RedisConfig

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	JWT       JWTConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// JWTConfig configures access token signing and validation.
type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"reporthub"`
	Audience  string        `env:"JWT_AUDIENCE" envDefault:"reporthub"`
	AccessTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"10m"`
}

// AuthConfig configures account provisioning and refresh session lifetime.
type AuthConfig struct {
	DefaultRole string        `env:"AUTH_DEFAULT_ROLE" envDefault:"User"`
	RefreshTTL  time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"168h"`
}

// RateLimitConfig configures the per-client request limiter on the auth
// endpoints.
type RateLimitConfig struct {
	Enabled  bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"20"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// TracingConfig configures the OTLP trace exporter.
type TracingConfig struct {
	Enabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	Endpoint   string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

const minSecretLen = 32

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.Auth.RefreshTTL <= c.JWT.AccessTTL {
		return fmt.Errorf("AUTH_REFRESH_TTL %s must exceed JWT_ACCESS_TTL %s",
			c.Auth.RefreshTTL, c.JWT.AccessTTL)
	}
	if c.Auth.DefaultRole == "" {
		return fmt.Errorf("AUTH_DEFAULT_ROLE must not be empty")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	// Weak secrets are tolerated only during local development.
	if c.Environment != "development" && len(c.JWT.Secret) < minSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes outside development", minSecretLen)
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development
// environment.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
