package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env       string          `env:"APP_ENV" envDefault:"production"`
	LogLevel  string          `env:"LOG_LEVEL" envDefault:"info"`
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	Storage   StorageConfig   `envPrefix:"STORAGE_"`
	Events    EventsConfig    `envPrefix:"EVENTS_"`
	Bootstrap BootstrapConfig `envPrefix:"BOOTSTRAP_"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"5000"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	// AllowedOrigins is a regular expression matched against the Origin header.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"^https?://(localhost|127\\.0\\.0\\.1)(:\\d+)?$"`
	BodyLimit      string `env:"BODY_LIMIT" envDefault:"10M"`
	PprofEnabled   bool   `env:"PPROF_ENABLED" envDefault:"false"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type DatabaseConfig struct {
	URI               string        `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database          string        `env:"DATABASE" envDefault:"product-catalog"`
	MaxPoolSize       uint64        `env:"MAX_POOL_SIZE" envDefault:"10"`
	ConnectTimeout    time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	ConnectRetries    int           `env:"CONNECT_RETRIES" envDefault:"3"`
	ConnectRetryDelay time.Duration `env:"CONNECT_RETRY_DELAY" envDefault:"5s"`
}

// ReconnectBudget bounds a full reconnect cycle: every attempt plus the pauses between them.
func (d DatabaseConfig) ReconnectBudget() time.Duration {
	if d.ConnectRetries < 1 {
		return d.ConnectTimeout
	}
	n := time.Duration(d.ConnectRetries)
	return n*d.ConnectTimeout + (n-1)*d.ConnectRetryDelay
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

type StorageConfig struct {
	Bucket         string `env:"BUCKET" envDefault:"images"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5000"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

type EventsConfig struct {
	Enabled  bool     `env:"ENABLED" envDefault:"false"`
	Brokers  []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic    string   `env:"TOPIC" envDefault:"catalog.products"`
	ClientID string   `env:"CLIENT_ID" envDefault:"product-catalog"`
}

type BootstrapConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	Password string `env:"PASSWORD"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Bootstrap.Enabled && len(cfg.Bootstrap.Password) < 6 {
		return nil, fmt.Errorf("BOOTSTRAP_PASSWORD must be at least 6 characters when bootstrap is enabled")
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}
	return cfg
}
