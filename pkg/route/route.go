// Package route provides an abstraction layer for driving-route providers.
package route

import (
	"context"
)

// Provider defines the interface that all route providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "mapbox", "ors", "mock").
	Name() string

	// Route returns the driving route between origin and destination.
	// Implementations must honor ctx cancellation.
	Route(ctx context.Context, origin, destination Coordinates) (*Route, error)
}
