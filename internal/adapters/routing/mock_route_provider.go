package routing

import (
	"context"
	"sync"
	"wildfire-evac-service/internal/domain"
)

// RouteCall records one GetRoutes invocation.
type RouteCall struct {
	From, To domain.Coordinate
	Options  domain.RouteOptions
}

// MockRouteProvider returns canned candidates (or an error) and records calls.
type MockRouteProvider struct {
	Routes []domain.RouteCandidate
	Err    error

	mu    sync.Mutex
	calls []RouteCall
}

func NewMockRouteProvider(routes ...domain.RouteCandidate) *MockRouteProvider {
	return &MockRouteProvider{Routes: routes}
}

func (p *MockRouteProvider) GetRoutes(
	ctx context.Context,
	from, to domain.Coordinate,
	opts domain.RouteOptions,
) ([]domain.RouteCandidate, error) {
	p.mu.Lock()
	p.calls = append(p.calls, RouteCall{From: from, To: to, Options: opts})
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	return p.Routes, nil
}

func (p *MockRouteProvider) Calls() []RouteCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RouteCall(nil), p.calls...)
}

// StraightLine builds a two-point candidate between from and to.
func StraightLine(from, to domain.Coordinate, meters, seconds float64) domain.RouteCandidate {
	return domain.RouteCandidate{
		Geometry:        []domain.Coordinate{from, to},
		DistanceMeters:  meters,
		DurationSeconds: seconds,
	}
}
