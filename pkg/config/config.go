package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Site     SiteConfig
	Redis    RedisConfig
	Session  SessionConfig
	Checkout CheckoutConfig
	Search   SearchConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRAVELBOOK_APP_ENV" required:"true"`
	Port         string `envconfig:"TRAVELBOOK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TRAVELBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRAVELBOOK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the gateway at the travel api backend.
type UpstreamConfig struct {
	BaseURL   string        `envconfig:"TRAVELBOOK_API_BASE_URL" default:"https://api.travelbook.app/api/v1"`
	Timeout   time.Duration `envconfig:"TRAVELBOOK_API_TIMEOUT" default:"15s"`
	UserAgent string        `envconfig:"TRAVELBOOK_API_USER_AGENT" default:"travelbook-gateway"`
}

func (u UpstreamConfig) validate() error {
	if strings.TrimSpace(u.BaseURL) == "" {
		return fmt.Errorf("%s is required", EnvAPIBaseURL)
	}
	if u.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	return nil
}

// SiteConfig carries the public site URL used for metadata and share links.
type SiteConfig struct {
	URL  string `envconfig:"TRAVELBOOK_SITE_URL" default:"https://travelbook.app"`
	Name string `envconfig:"TRAVELBOOK_SITE_NAME" default:"TravelBook"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRAVELBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRAVELBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"TRAVELBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRAVELBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRAVELBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRAVELBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRAVELBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRAVELBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRAVELBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	TokenTTLMinutes int `envconfig:"TRAVELBOOK_SESSION_TOKEN_TTL_MINUTES" default:"10080"`
	CartTTLHours    int `envconfig:"TRAVELBOOK_SESSION_CART_TTL_HOURS" default:"168"`
}

// TokenTTL returns the persisted token TTL configured in minutes.
func (s SessionConfig) TokenTTL() time.Duration {
	if s.TokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TokenTTLMinutes) * time.Minute
}

// CartTTL returns the cart retention window configured in hours.
func (s SessionConfig) CartTTL() time.Duration {
	if s.CartTTLHours <= 0 {
		return 0
	}
	return time.Duration(s.CartTTLHours) * time.Hour
}

type CheckoutConfig struct {
	WizardTTL time.Duration `envconfig:"TRAVELBOOK_CHECKOUT_WIZARD_TTL" default:"30m"`
}

type SearchConfig struct {
	DebounceInterval time.Duration `envconfig:"TRAVELBOOK_SEARCH_DEBOUNCE" default:"500ms"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TRAVELBOOK_CORS_ORIGINS" default:"http://localhost:3000"`
}
