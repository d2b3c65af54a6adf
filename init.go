package main

import (
	"context"
	"fmt"

	"github.com/tournevent/storefront/internal/auth"
	"github.com/tournevent/storefront/internal/config"
	"github.com/tournevent/storefront/internal/store"
	"github.com/tournevent/storefront/internal/telemetry"
	"github.com/tournevent/storefront/pkg/route"
	"github.com/tournevent/storefront/pkg/route/mapbox"
	"github.com/tournevent/storefront/pkg/route/mock"
	"github.com/tournevent/storefront/pkg/route/ors"
	"github.com/tournevent/storefront/pkg/shipping"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load(".env")
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(cfg.LogLevel, cfg.ServiceName)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Attributes()...)
	return shutdown, err
}

func initStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	return store.Open(ctx, cfg.DatabaseURL, store.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
}

// initRouteProvider registers every provider with credentials and returns
// the configured one. The mock is always available.
func initRouteProvider(cfg *config.Config, logger *otelzap.Logger) (route.Provider, error) {
	registry := route.NewRegistry()
	tracer := otel.Tracer(cfg.ServiceName)

	registry.Register(mock.New(config.ProviderMock))

	if cfg.MapboxToken != "" {
		registry.Register(mapbox.New(mapbox.Config{
			Token:   cfg.MapboxToken,
			BaseURL: cfg.MapboxBaseURL,
			Profile: cfg.MapboxProfile,
			Timeout: cfg.RouteTimeout,
		}, logger, tracer))
	}

	if cfg.ORSAPIKey != "" {
		client, err := ors.New(ors.Config{
			APIKey:  cfg.ORSAPIKey,
			BaseURL: cfg.ORSBaseURL,
			Profile: cfg.ORSProfile,
			Timeout: cfg.RouteTimeout,
		}, logger, tracer)
		if err != nil {
			return nil, fmt.Errorf("init ors provider: %w", err)
		}
		registry.Register(client)
	}

	logger.Debug("Route providers registered", zap.Strings("providers", registry.Names()))
	return registry.Get(cfg.RouteProvider)
}

func initCalculator(cfg *config.Config, resolver shipping.AddressResolver, provider route.Provider, logger *otelzap.Logger, opts ...shipping.Option) (*shipping.Calculator, error) {
	opts = append(opts, shipping.WithTracer(otel.Tracer(cfg.ServiceName)))
	return shipping.NewCalculator(shipping.Config{
		Policy:       cfg.Pricing(),
		RouteTimeout: cfg.RouteTimeout,
	}, resolver, provider, logger, opts...)
}

// initAuth returns the token verifier and, when AUTH_URL is set, the code
// exchange client.
func initAuth(cfg *config.Config, logger *otelzap.Logger) (*auth.Verifier, *auth.Client, error) {
	verifier, err := auth.NewVerifier(cfg.JWTSecret, nil)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AuthURL == "" {
		return verifier, nil, nil
	}
	client, err := auth.NewClient(auth.ClientConfig{BaseURL: cfg.AuthURL, AnonKey: cfg.AnonKey}, logger)
	if err != nil {
		return nil, nil, err
	}
	return verifier, client, nil
}
