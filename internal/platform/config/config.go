// Package config binds process configuration from the environment. TTLs and
// secrets for the handoff protocol are deployment-supplied; nothing in the
// core hard-codes them.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration.
type Config struct {
	Addr     string `env:"RELAY_ADDR" envDefault:":8080"`
	LogLevel string `env:"RELAY_LOG_LEVEL" envDefault:"info"`

	Handoff  HandoffConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	Session  SessionConfig
	Provider ProviderConfig
}

// HandoffConfig carries the protocol-layer knobs: envelope secret, slot TTLs,
// and the bounded nonce-creation retry cap.
type HandoffConfig struct {
	Secret              string        `env:"RELAY_HANDOFF_SECRET" envDefault:"dev-secret-change-in-production"`
	NonceTTL            time.Duration `env:"RELAY_NONCE_TTL" envDefault:"10m"`
	TokenTTL            time.Duration `env:"RELAY_TOKEN_TTL" envDefault:"10m"`
	MirrorTTL           time.Duration `env:"RELAY_MIRROR_TTL" envDefault:"5m"`
	NonceCreateAttempts int           `env:"RELAY_NONCE_CREATE_ATTEMPTS" envDefault:"3"`
}

// RedisConfig configures the shared slot-store backend.
type RedisConfig struct {
	URL          string        `env:"RELAY_REDIS_URL"`
	PoolSize     int           `env:"RELAY_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"RELAY_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"RELAY_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"RELAY_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"RELAY_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// PostgresConfig configures the user store. Empty DSN selects the in-memory
// store (dev and tests).
type PostgresConfig struct {
	DSN string `env:"RELAY_POSTGRES_DSN"`
}

// KafkaConfig configures the audit event publisher. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string `env:"RELAY_KAFKA_BROKERS"`
	Topic   string   `env:"RELAY_KAFKA_AUDIT_TOPIC" envDefault:"relay.audit.v1"`
}

// SessionConfig configures the browser session cookie backing the mirror and
// the first-party session tokens.
type SessionConfig struct {
	CookieName   string        `env:"RELAY_SESSION_COOKIE" envDefault:"relay_session"`
	CookieSecret string        `env:"RELAY_SESSION_SECRET" envDefault:"dev-cookie-secret-change-in-production"`
	JWTSecret    string        `env:"RELAY_SESSION_JWT_SECRET" envDefault:"dev-jwt-secret-change-in-production"`
	SessionTTL   time.Duration `env:"RELAY_SESSION_TTL" envDefault:"24h"`
}

// ProviderConfig carries OAuth client credentials per supported provider.
type ProviderConfig struct {
	CallbackURL        string `env:"RELAY_OAUTH_CALLBACK_URL" envDefault:"http://localhost:8080/handoff/callback"`
	GoogleClientID     string `env:"RELAY_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"RELAY_GOOGLE_CLIENT_SECRET"`
	GithubClientID     string `env:"RELAY_GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"RELAY_GITHUB_CLIENT_SECRET"`
}

// FromEnv parses the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
