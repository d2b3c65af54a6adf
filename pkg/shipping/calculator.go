// Package shipping quotes delivery cost from a partner storefront to a
// customer address.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tournevent/storefront/pkg/route"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Observer receives quote and route outcomes. telemetry.Metrics satisfies it.
type Observer interface {
	ObserveQuote(outcome string, seconds float64)
	ObserveRoute(provider, outcome string, seconds float64)
}

type nopObserver struct{}

func (nopObserver) ObserveQuote(string, float64)         {}
func (nopObserver) ObserveRoute(string, string, float64) {}

// Config holds calculator configuration.
type Config struct {
	Policy       Policy
	RouteTimeout time.Duration
}

// Calculator computes shipping quotes.
type Calculator struct {
	resolver AddressResolver
	provider route.Provider
	policy   Policy
	timeout  time.Duration
	clock    clockwork.Clock
	logger   *otelzap.Logger
	tracer   trace.Tracer
	observer Observer
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock sets the time source used to stamp quotes.
func WithClock(c clockwork.Clock) Option {
	return func(calc *Calculator) { calc.clock = c }
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(calc *Calculator) { calc.tracer = t }
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(calc *Calculator) { calc.observer = o }
}

// NewCalculator creates a Calculator. It fails when the policy is invalid or
// the route timeout is not positive.
func NewCalculator(cfg Config, resolver AddressResolver, provider route.Provider, logger *otelzap.Logger, opts ...Option) (*Calculator, error) {
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	if cfg.RouteTimeout <= 0 {
		return nil, fmt.Errorf("route timeout must be positive, got %s", cfg.RouteTimeout)
	}
	if resolver == nil || provider == nil {
		return nil, errors.New("calculator requires an address resolver and a route provider")
	}

	c := &Calculator{
		resolver: resolver,
		provider: provider,
		policy:   cfg.Policy,
		timeout:  cfg.RouteTimeout,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		tracer:   otel.Tracer("github.com/tournevent/storefront/pkg/shipping"),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Policy returns the pricing policy in use.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Calculate quotes shipping for req. The two address lookups run
// concurrently; the route provider call is bounded by the route timeout.
func (c *Calculator) Calculate(ctx context.Context, req QuoteRequest) (_ *Quote, err error) {
	start := c.clock.Now()
	ctx, span := c.tracer.Start(ctx, "shipping.Calculate",
		trace.WithAttributes(
			attribute.String("partner.id", req.PartnerID),
			attribute.String("route.provider", c.provider.Name()),
		))
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(KindOf(err))
			if outcome == "" {
				outcome = "error"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.observer.ObserveQuote(outcome, c.clock.Since(start).Seconds())
	}()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	origin, destination, err := c.resolveEndpoints(ctx, req)
	if err != nil {
		return nil, err
	}

	r, err := c.fetchRoute(ctx, origin, destination)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Route unavailable",
			zap.String("partner_id", req.PartnerID),
			zap.String("provider", c.provider.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	quote := &Quote{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		ShippingCost:    c.policy.Cost(r.DistanceMeters, r.DurationSeconds),
		Currency:        c.policy.Currency,
		Geometry:        r.Geometry,
		Provider:        r.Provider,
		QuotedAt:        c.clock.Now().UTC(),
	}

	c.logger.Ctx(ctx).Info("Shipping quoted",
		zap.String("partner_id", req.PartnerID),
		zap.Float64("distance_meters", quote.DistanceMeters),
		zap.Float64("duration_seconds", quote.DurationSeconds),
		zap.Float64("shipping_cost", quote.ShippingCost),
		zap.String("currency", quote.Currency),
	)
	return quote, nil
}

func validateRequest(req QuoteRequest) error {
	if strings.TrimSpace(req.PrincipalID) == "" {
		return ErrAuthRequired
	}
	var missing []string
	if strings.TrimSpace(req.PartnerID) == "" {
		missing = append(missing, "partnerId")
	}
	if strings.TrimSpace(req.UserAddressID) == "" {
		missing = append(missing, "userAddressId")
	}
	if len(missing) > 0 {
		return NewError(KindValidation, "missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func (c *Calculator) resolveEndpoints(ctx context.Context, req QuoteRequest) (origin, destination route.Coordinates, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		coords, err := c.resolver.Resolve(gctx, Party{Kind: PartyPartner, ID: req.PartnerID}, "")
		if err != nil {
			return fmt.Errorf("resolve partner %s: %w", req.PartnerID, err)
		}
		origin = coords
		return nil
	})
	g.Go(func() error {
		coords, err := c.resolver.Resolve(gctx, Party{Kind: PartyUser, ID: req.PrincipalID}, req.UserAddressID)
		if err != nil {
			return fmt.Errorf("resolve user address %s: %w", req.UserAddressID, err)
		}
		destination = coords
		return nil
	})

	if err := g.Wait(); err != nil {
		return route.Coordinates{}, route.Coordinates{}, err
	}

	if err := origin.Validate(); err != nil {
		return route.Coordinates{}, route.Coordinates{}, NewError(KindInvalidAddress, "partner address has invalid coordinates").WithCause(err)
	}
	if err := destination.Validate(); err != nil {
		return route.Coordinates{}, route.Coordinates{}, NewError(KindInvalidAddress, "delivery address has invalid coordinates").WithCause(err)
	}
	return origin, destination, nil
}

// fetchRoute calls the provider in its own goroutine so the deadline holds
// even when a provider ignores ctx. The abandoned call finishes in the
// background and its result is dropped.
func (c *Calculator) fetchRoute(ctx context.Context, origin, destination route.Coordinates) (*route.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		r   *route.Route
		err error
	}
	ch := make(chan result, 1)
	start := c.clock.Now()

	go func() {
		r, err := c.provider.Route(ctx, origin, destination)
		ch <- result{r: r, err: err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		c.observer.ObserveRoute(c.provider.Name(), "timeout", c.clock.Since(start).Seconds())
		return nil, NewError(KindRouteUnavailable, "route provider did not respond in time").WithCause(ctx.Err())
	}

	elapsed := c.clock.Since(start).Seconds()
	if res.err != nil {
		c.observer.ObserveRoute(c.provider.Name(), "error", elapsed)
		return nil, NewError(KindRouteUnavailable, "could not calculate route").WithCause(res.err)
	}
	if res.r == nil || invalidMetric(res.r.DistanceMeters) || invalidMetric(res.r.DurationSeconds) {
		c.observer.ObserveRoute(c.provider.Name(), "error", elapsed)
		return nil, NewError(KindRouteUnavailable, "route provider returned invalid metrics")
	}

	c.observer.ObserveRoute(c.provider.Name(), "ok", elapsed)
	return res.r, nil
}

func invalidMetric(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}
