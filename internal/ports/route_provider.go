package ports

import (
	"context"
	"wildfire-evac-service/internal/domain"
)

// Contract for requesting drivable paths from an external directions service.
type RouteProvider interface {
	// Return zero or more candidate routes ranked by the provider.
	// Any transport or credential failure is reported as a single error,
	// never as partial results.
	GetRoutes(ctx context.Context, from, to domain.Coordinate, opts domain.RouteOptions) ([]domain.RouteCandidate, error)
}
