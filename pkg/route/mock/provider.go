// Package mock provides a mock route provider for tests and local runs.
package mock

import (
	"context"
	"errors"
	"time"

	"github.com/tournevent/storefront/pkg/route"
)

// Provider is a mock route provider. By default it returns a straight
// two-point route with the configured distance and duration.
type Provider struct {
	name string

	DistanceMeters  float64
	DurationSeconds float64

	SimulateErrors  bool
	SimulateLatency time.Duration
	// IgnoreContext makes SimulateLatency block even after ctx is done, like
	// a provider that does not honor cancellation.
	IgnoreContext bool

	OnRoute func(ctx context.Context, origin, destination route.Coordinates) (*route.Route, error)
}

// New creates a new mock provider.
func New(name string) *Provider {
	return &Provider{
		name:            name,
		DistanceMeters:  4200,
		DurationSeconds: 780,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// Route returns a mock route.
func (p *Provider) Route(ctx context.Context, origin, destination route.Coordinates) (*route.Route, error) {
	if p.SimulateLatency > 0 {
		if p.IgnoreContext {
			time.Sleep(p.SimulateLatency)
		} else {
			timer := time.NewTimer(p.SimulateLatency)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	if p.SimulateErrors {
		return nil, route.NewProviderError(p.name, "MOCK_ERROR", "simulated provider error").
			WithCause(errors.New("mock"))
	}

	if p.OnRoute != nil {
		return p.OnRoute(ctx, origin, destination)
	}

	distance, duration := p.DistanceMeters, p.DurationSeconds
	geometry := []route.Coordinates{origin, destination}
	if origin == destination {
		distance, duration = 0, 0
		geometry = []route.Coordinates{origin}
	}

	return &route.Route{
		Provider:        p.name,
		Origin:          origin,
		Destination:     destination,
		Geometry:        geometry,
		DistanceMeters:  distance,
		DurationSeconds: duration,
	}, nil
}

var _ route.Provider = (*Provider)(nil)
