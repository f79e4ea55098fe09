package domain

import (
	"errors"
	"fmt"
)

// Routing options forwarded to the directions provider.
// Pointer fields are optional; nil leaves the provider default in place.
type RouteOptions struct {
	Alternatives       bool
	ExcludeFerries     bool
	PreferHighways     *bool
	ExcludeHighTraffic *bool
	ExcludeFireAreas   *bool
	AvoidPoints        []Coordinate
}

func DefaultRouteOptions() RouteOptions {
	return RouteOptions{Alternatives: true, ExcludeFerries: true}
}

// One ranked path returned by the directions provider.
type RouteCandidate struct {
	Geometry        []Coordinate
	DurationSeconds float64
	DistanceMeters  float64
}

// Validate enforces the candidate invariants: a drawable line and
// non-negative metrics.
func (r RouteCandidate) Validate() error {
	if len(r.Geometry) < 2 {
		return fmt.Errorf("route candidate: geometry has %d points, want at least 2", len(r.Geometry))
	}
	for i, c := range r.Geometry {
		if !c.Valid() {
			return fmt.Errorf("route candidate: invalid coordinate at index %d", i)
		}
	}
	if !(r.DistanceMeters >= 0) {
		return errors.New("route candidate: distance must be non-negative")
	}
	if !(r.DurationSeconds >= 0) {
		return errors.New("route candidate: duration must be non-negative")
	}
	return nil
}

// Represents the route to the selected safe destination.
// The primary geometry and metrics come from the provider's top-ranked
// candidate; Alternatives keep the remaining candidates in provider order.
// A RouteResult is produced once per request and never cached.
type RouteResult struct {
	Destination     SafeDestination
	Geometry        []Coordinate
	DurationSeconds float64
	DistanceMeters  float64
	Warnings        []string
	Alternatives    []RouteCandidate
}
