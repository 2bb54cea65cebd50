package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every per-deployment value the verification pipeline needs.
// All endpoints and credentials come from the environment; nothing is
// hardcoded beyond the development listen address.
type Config struct {
	Addr string `env:"CONSENTGATE_ADDR" envDefault:":8080"`

	// External registry endpoints.
	ClientLookupURL  string `env:"CONSENTGATE_CLIENT_LOOKUP_URL"`
	ConsentLookupURL string `env:"CONSENTGATE_CONSENT_LOOKUP_URL"`
	ConsentUpdateURL string `env:"CONSENTGATE_CONSENT_UPDATE_URL"`
	TokenEndpointURL string `env:"CONSENTGATE_TOKEN_ENDPOINT_URL"`

	// Credentials presented to the token endpoint as Basic auth.
	ClientID     string `env:"CONSENTGATE_CLIENT_ID"`
	ClientSecret string `env:"CONSENTGATE_CLIENT_SECRET"`

	// Service credentials attached to every registry call.
	RegistryUsername string `env:"CONSENTGATE_REGISTRY_USERNAME"`
	RegistryPassword string `env:"CONSENTGATE_REGISTRY_PASSWORD"`

	// PEM-encoded RSA public key used to verify client assertions.
	AssertionPublicKeyPEM string `env:"CONSENTGATE_ASSERTION_PUBLIC_KEY"`

	// Per-call deadline for outbound registry and token endpoint requests.
	CallTimeout time.Duration `env:"CONSENTGATE_CALL_TIMEOUT" envDefault:"10s"`

	// One retry on transport failure for the idempotent GET lookups. The
	// PATCH and POST stages are never retried.
	RetryLookups bool `env:"CONSENTGATE_RETRY_LOOKUPS" envDefault:"false"`

	Redis RedisConfig

	// TTL for access tokens persisted in session storage.
	SessionTTL time.Duration `env:"CONSENTGATE_SESSION_TTL" envDefault:"1h"`
}

// RedisConfig captures connection settings for the session store.
type RedisConfig struct {
	URL          string        `env:"CONSENTGATE_REDIS_URL"`
	PoolSize     int           `env:"CONSENTGATE_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"CONSENTGATE_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"CONSENTGATE_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"CONSENTGATE_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"CONSENTGATE_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports the first missing required value. The session store is
// optional (memory fallback); everything the pipeline calls out to is not.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"CONSENTGATE_CLIENT_LOOKUP_URL", c.ClientLookupURL},
		{"CONSENTGATE_CONSENT_LOOKUP_URL", c.ConsentLookupURL},
		{"CONSENTGATE_CONSENT_UPDATE_URL", c.ConsentUpdateURL},
		{"CONSENTGATE_TOKEN_ENDPOINT_URL", c.TokenEndpointURL},
		{"CONSENTGATE_CLIENT_ID", c.ClientID},
		{"CONSENTGATE_CLIENT_SECRET", c.ClientSecret},
		{"CONSENTGATE_ASSERTION_PUBLIC_KEY", c.AssertionPublicKeyPEM},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}
	return nil
}
