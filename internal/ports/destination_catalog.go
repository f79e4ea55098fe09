package ports

import (
	"context"
	"wildfire-evac-service/internal/domain"
)

// Port: read-only boundary for the external safe destination catalog.
type DestinationCatalog interface {
	// Retrieve every destination currently offered by the catalog.
	ListDestinations(ctx context.Context) ([]domain.SafeDestination, error)
}
