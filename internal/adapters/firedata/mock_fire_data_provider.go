package firedata

import (
	"context"
	"sync/atomic"
	"wildfire-evac-service/internal/domain"
)

// MockFireDataProvider returns a fixed snapshot (or an error) and counts calls.
type MockFireDataProvider struct {
	Fires []domain.FireDetection
	Err   error

	calls atomic.Int32
}

func NewMockFireDataProvider(fires ...domain.FireDetection) *MockFireDataProvider {
	return &MockFireDataProvider{Fires: fires}
}

func (m *MockFireDataProvider) FetchFires(ctx context.Context, bounds domain.Bounds) ([]domain.FireDetection, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return []domain.FireDetection{}, m.Err
	}
	if m.Fires == nil {
		return []domain.FireDetection{}, nil
	}
	return m.Fires, nil
}

func (m *MockFireDataProvider) Calls() int { return int(m.calls.Load()) }
