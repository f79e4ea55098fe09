package ports

import (
	"context"
	"wildfire-evac-service/internal/domain"
)

// Contract for requesting active-fire detections inside a geographic window.
type FireDataProvider interface {
	// Return coordinate-validated detections for the window. On failure the
	// slice is empty (never nil) and the error wraps domain.ErrFireDataUnavailable.
	FetchFires(ctx context.Context, bounds domain.Bounds) ([]domain.FireDetection, error)
}

// Optional storage for the most recent fire snapshot of a window.
// A Put replaces the whole snapshot; nothing is merged.
type FireSnapshotCache interface {
	Get(ctx context.Context, bounds domain.Bounds) ([]domain.FireDetection, bool, error)
	Put(ctx context.Context, bounds domain.Bounds, fires []domain.FireDetection) error
}
