package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/storefront/pkg/shipping"
	"go.opentelemetry.io/otel/attribute"
)

// Route provider names accepted in ROUTE_PROVIDER.
const (
	ProviderMapbox = "mapbox"
	ProviderORS    = "ors"
	ProviderMock   = "mock"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Database
	DatabaseURL       string        `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	ReadinessTimeout  time.Duration `envconfig:"READINESS_TIMEOUT" default:"2s"`

	// Auth
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	AuthURL   string `envconfig:"AUTH_URL"`
	AnonKey   string `envconfig:"AUTH_ANON_KEY"`

	SecureCookies bool `envconfig:"SECURE_COOKIES" default:"true"`

	// Routing
	RouteProvider string        `envconfig:"ROUTE_PROVIDER" default:"mapbox"`
	RouteTimeout  time.Duration `envconfig:"ROUTE_TIMEOUT" default:"8s"`
	MapboxToken   string        `envconfig:"MAPBOX_TOKEN"`
	MapboxBaseURL string        `envconfig:"MAPBOX_BASE_URL" default:"https://api.mapbox.com"`
	MapboxProfile string        `envconfig:"MAPBOX_PROFILE" default:"driving"`
	ORSAPIKey     string        `envconfig:"ORS_API_KEY"`
	ORSBaseURL    string        `envconfig:"ORS_BASE_URL" default:"https://api.openrouteservice.org"`
	ORSProfile    string        `envconfig:"ORS_PROFILE" default:"driving-car"`

	// Pricing. No defaults: every deployment sets its own tariff.
	BaseFare      float64 `envconfig:"PRICING_BASE_FARE" required:"true"`
	PerMeterRate  float64 `envconfig:"PRICING_PER_METER" required:"true"`
	PerSecondRate float64 `envconfig:"PRICING_PER_SECOND" required:"true"`
	MinFare       float64 `envconfig:"PRICING_MIN" required:"true"`
	MaxFare       float64 `envconfig:"PRICING_MAX" required:"true"`
	Currency      string  `envconfig:"PRICING_CURRENCY" required:"true"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.claude.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"delivro-storefront"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables, after loading any
// of the given .env files that exist. Variables already set in the
// environment take precedence over the files.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.RouteProvider = strings.ToLower(strings.TrimSpace(cfg.RouteProvider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field rules envconfig cannot express.
func (c *Config) Validate() error {
	if err := c.Pricing().Validate(); err != nil {
		return err
	}
	if c.RouteTimeout <= 0 {
		return fmt.Errorf("ROUTE_TIMEOUT must be positive, got %s", c.RouteTimeout)
	}
	switch c.RouteProvider {
	case ProviderMapbox:
		if c.MapboxToken == "" {
			return errors.New("MAPBOX_TOKEN is required when ROUTE_PROVIDER=mapbox")
		}
	case ProviderORS:
		if c.ORSAPIKey == "" {
			return errors.New("ORS_API_KEY is required when ROUTE_PROVIDER=ors")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown ROUTE_PROVIDER %q", c.RouteProvider)
	}
	return nil
}

// Pricing returns the configured pricing policy.
func (c *Config) Pricing() shipping.Policy {
	return shipping.Policy{
		BaseFare:      c.BaseFare,
		PerMeterRate:  c.PerMeterRate,
		PerSecondRate: c.PerSecondRate,
		MinFare:       c.MinFare,
		MaxFare:       c.MaxFare,
		Currency:      c.Currency,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("route.provider", c.RouteProvider),
		attribute.String("pricing.currency", c.Currency),
		attribute.Bool("auth.exchange.enabled", c.AuthURL != ""),
	}
}
