package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the shelterhub service configuration, populated from
// environment variables. The token and cookie settings must match the
// identity service or sessions minted there will not verify here.
type Config struct {
	Port int    `env:"PORT" envDefault:"8081"`
	Env  string `env:"APP_ENV" envDefault:"dev"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// JWTSecret must be the same shared secret the identity service signs with.
	JWTSecret string `env:"JWT_SECRET,required"`

	TokenIssuer   string `env:"TOKEN_ISSUER" envDefault:"adoptly-identity"`
	TokenAudience string `env:"TOKEN_AUDIENCE" envDefault:"adoptly"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// InternalAPIKey authenticates inbound internal calls and signs our
	// own outbound calls to identity.
	InternalAPIKey string `env:"INTERNAL_API_KEY,required"`

	// IdentityURL is the base URL of the identity service.
	IdentityURL string `env:"IDENTITY_URL" envDefault:"http://localhost:8080"`

	RootDomain string `env:"ROOT_DOMAIN" envDefault:"adoptlynow.com"`
	LoginURL   string `env:"LOGIN_URL" envDefault:"https://www.adoptlynow.com/login"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
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

	return cfg, nil
}
