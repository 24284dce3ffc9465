package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by the client.
const EnvPrefix = "FRESHKART"

const (
	StateBackendSQLite = "sqlite"
	StateBackendRedis  = "redis"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Shipping ShippingConfig
	State    StateConfig
	Redis    RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.State.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	LogLevel     string `envconfig:"FRESHKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHKART_LOG_WARN_STACK" default:"false"`
}

type APIConfig struct {
	BaseURL string        `envconfig:"FRESHKART_API_BASE_URL" default:"http://localhost:5236/api"`
	Timeout time.Duration `envconfig:"FRESHKART_API_TIMEOUT" default:"10s"`
}

// ShippingConfig drives the flat free-shipping policy applied at checkout.
type ShippingConfig struct {
	FreeThreshold string `envconfig:"FRESHKART_SHIPPING_FREE_THRESHOLD" default:"500"`
	FlatFee       string `envconfig:"FRESHKART_SHIPPING_FLAT_FEE" default:"50"`
}

type StateConfig struct {
	Backend    string `envconfig:"FRESHKART_STATE_BACKEND" default:"sqlite"`
	SQLitePath string `envconfig:"FRESHKART_STATE_SQLITE_PATH" default:"storefront.db"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHKART_REDIS_URL"`
	Address      string        `envconfig:"FRESHKART_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (s StateConfig) validate() error {
	backend := strings.ToLower(strings.TrimSpace(s.Backend))
	switch backend {
	case StateBackendSQLite, StateBackendRedis:
		return nil
	default:
		return fmt.Errorf("state backend must be %q or %q", StateBackendSQLite, StateBackendRedis)
	}
}

// NormalizedBackend returns the lower-cased state backend name.
func (s StateConfig) NormalizedBackend() string {
	return strings.ToLower(strings.TrimSpace(s.Backend))
}
