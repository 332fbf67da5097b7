package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the identity service configuration, populated from
// environment variables.
type Config struct {
	Port int    `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"dev"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DatabaseFile string `env:"DATABASE_FILE" envDefault:"identity.db"`

	// JWTSecret signs and verifies every access token in the platform.
	JWTSecret string `env:"JWT_SECRET,required"`

	// TokenIssuer and TokenAudience pin the iss/aud claim pair.
	TokenIssuer   string `env:"TOKEN_ISSUER" envDefault:"adoptly-identity"`
	TokenAudience string `env:"TOKEN_AUDIENCE" envDefault:"adoptly"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// InternalAPIKey authenticates service-to-service calls.
	InternalAPIKey string `env:"INTERNAL_API_KEY,required"`

	// RootDomain scopes the session cookies across subdomains.
	RootDomain string `env:"ROOT_DOMAIN" envDefault:"adoptlynow.com"`

	// LoginURL is where unauthenticated browsers get sent.
	LoginURL string `env:"LOGIN_URL" envDefault:"https://www.adoptlynow.com/login"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// HousekeepingInterval paces the expired-token sweep.
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig parses configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("app: parse config: %w", err)
	}

	if len(cfg.JWTSecret) < 32 {
		return Config{}, fmt.Errorf("app: JWT_SECRET must be at least 32 bytes")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return Config{}, fmt.Errorf("app: refresh TTL must exceed access TTL")
	}

	return cfg, nil
}
