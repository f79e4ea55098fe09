package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/geo"
	"wildfire-evac-service/internal/platform/obs"
	"wildfire-evac-service/internal/ports"
)

// maxAvoidPoints caps how many fire locations are forwarded to the provider
// as areas to route around.
const maxAvoidPoints = 50

type SafeRouteRequest struct {
	Start        domain.Coordinate
	Destinations []domain.SafeDestination
	Fires        []domain.FireDetection
	Options      domain.RouteOptions
	// Zero selects DefaultSafetyRadiusMeters.
	SafetyRadiusMeters float64
}

// FindSafestRoute selects the nearest safe destination and requests a
// drivable route to it.
//
// The provider's top-ranked candidate becomes the primary route; the rest
// are kept as alternatives in provider order. Every failure is returned as
// one of the domain errors; nothing is retried here.
func FindSafestRoute(
	ctx context.Context,
	req SafeRouteRequest,
	provider ports.RouteProvider,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "services.FindSafestRoute")(&err)

	if len(req.Destinations) == 0 {
		return nil, domain.ErrNoDestinationsConfigured
	}

	radius := req.SafetyRadiusMeters
	if radius <= 0 {
		radius = DefaultSafetyRadiusMeters
	}

	dest, ok := SelectNearestWithin(req.Start, req.Destinations, req.Fires, radius)
	if !ok {
		return nil, domain.ErrNoSafeDestinationFound
	}

	if provider == nil {
		return nil, fmt.Errorf("find safest route: %w: no provider configured", domain.ErrRouteProviderUnavailable)
	}

	opts := req.Options
	if opts.ExcludeFireAreas != nil && *opts.ExcludeFireAreas {
		opts.AvoidPoints = fireAvoidPoints(req.Start, dest.Location, req.Fires, opts.AvoidPoints)
	}

	candidates, err := provider.GetRoutes(ctx, req.Start, dest.Location, opts)
	if err != nil {
		if errors.Is(err, domain.ErrRouteProviderUnavailable) {
			return nil, fmt.Errorf("find safest route to %q: %w", dest.ID, err)
		}
		return nil, fmt.Errorf("find safest route to %q: %w: %w", dest.ID, domain.ErrRouteProviderUnavailable, err)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("find safest route to %q: %w: provider returned no routes", dest.ID, domain.ErrRouteProviderUnavailable)
	}

	primary := candidates[0]
	if err := primary.Validate(); err != nil {
		return nil, fmt.Errorf("find safest route to %q: %w: %w", dest.ID, domain.ErrRouteProviderUnavailable, err)
	}

	alternatives := make([]domain.RouteCandidate, 0, len(candidates)-1)
	for _, c := range candidates[1:] {
		if c.Validate() != nil {
			continue
		}
		alternatives = append(alternatives, c)
	}

	var warnings []string
	if !dest.IsOpen {
		warnings = append(warnings, fmt.Sprintf("destination %q is marked closed", dest.Name))
	}

	return &domain.RouteResult{
		Destination:     dest,
		Geometry:        primary.Geometry,
		DurationSeconds: primary.DurationSeconds,
		DistanceMeters:  primary.DistanceMeters,
		Warnings:        warnings,
		Alternatives:    alternatives,
	}, nil
}

// fireAvoidPoints appends fire locations to the caller's avoid points,
// nearest to either endpoint first, up to maxAvoidPoints in total.
func fireAvoidPoints(
	start, destination domain.Coordinate,
	fires []domain.FireDetection,
	existing []domain.Coordinate,
) []domain.Coordinate {
	out := make([]domain.Coordinate, 0, maxAvoidPoints)
	for _, c := range existing {
		if len(out) == maxAvoidPoints {
			return out
		}
		out = append(out, c)
	}

	type ranked struct {
		loc  domain.Coordinate
		dist float64
	}

	candidates := make([]ranked, 0, len(fires))
	for _, f := range fires {
		loc := f.Location()
		if !loc.Valid() {
			continue
		}
		d := min(geo.Distance(start, loc), geo.Distance(destination, loc))
		candidates = append(candidates, ranked{loc: loc, dist: d})
	}

	slices.SortStableFunc(candidates, func(a, b ranked) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return 0
	})

	for _, c := range candidates {
		if len(out) == maxAvoidPoints {
			break
		}
		out = append(out, c.loc)
	}

	return out
}
