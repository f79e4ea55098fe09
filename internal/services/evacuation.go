package services

import (
	"context"
	"fmt"
	"log"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/geo"
	"wildfire-evac-service/internal/ports"
)

// DefaultFireQueryRadiusMeters sizes the fire-data window around a requester
// when fires are not supplied with the request.
const DefaultFireQueryRadiusMeters = 50000.0

const fireDataUnavailableWarning = "fire data unavailable; safety check used no fire detections"

type EvacuationRequest struct {
	Start domain.Coordinate
	// Nil fetches current detections around Start; an empty, non-nil
	// slice means "no known fires" and skips the fetch.
	Fires                 []domain.FireDetection
	Options               *domain.RouteOptions
	SafetyRadiusMeters    float64
	FireQueryRadiusMeters float64
}

// EvacuationPlan bundles the chosen route with the fire snapshot it was
// computed against.
type EvacuationPlan struct {
	Route *domain.RouteResult
	Fires []domain.FireDetection
	// Non-nil when the fire provider failed and an empty list was used.
	FireErr error
}

// PlanEvacuation loads the destination catalog, resolves the current fire
// snapshot and delegates to FindSafestRoute.
//
// A fire-data failure does not abort planning: the core treats an empty
// list as "no known fires", and the plan carries a warning plus FireErr so
// the caller can surface it.
func PlanEvacuation(
	ctx context.Context,
	req EvacuationRequest,
	catalog ports.DestinationCatalog,
	fireSource ports.FireDataProvider,
	routes ports.RouteProvider,
) (*EvacuationPlan, error) {
	if !req.Start.Valid() {
		return nil, fmt.Errorf("plan evacuation: start: %w", domain.ErrInvalidCoordinate)
	}

	destinations, err := catalog.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan evacuation: list destinations: %w", err)
	}

	fires, fireErr := resolveFires(ctx, req.Start, req.Fires, req.FireQueryRadiusMeters, fireSource)

	opts := domain.DefaultRouteOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	route, err := FindSafestRoute(ctx, SafeRouteRequest{
		Start:              req.Start,
		Destinations:       destinations,
		Fires:              fires,
		Options:            opts,
		SafetyRadiusMeters: req.SafetyRadiusMeters,
	}, routes)
	if err != nil {
		return nil, fmt.Errorf("plan evacuation: %w", err)
	}

	if fireErr != nil {
		route.Warnings = append(route.Warnings, fireDataUnavailableWarning)
	}

	return &EvacuationPlan{Route: route, Fires: fires, FireErr: fireErr}, nil
}

// NearestResult is the destination chosen by NearestSafeDestination and the
// fire snapshot it was checked against.
type NearestResult struct {
	Destination domain.SafeDestination
	Fires       []domain.FireDetection
	// Non-nil when the fire provider failed and the check ran on an empty list.
	FireErr  error
	Warnings []string
}

// NearestSafeDestination is the selection half of PlanEvacuation, without
// requesting a route. Fire-data failures degrade the same way: the result
// carries FireErr and a warning.
func NearestSafeDestination(
	ctx context.Context,
	req EvacuationRequest,
	catalog ports.DestinationCatalog,
	fireSource ports.FireDataProvider,
) (*NearestResult, error) {
	if !req.Start.Valid() {
		return nil, fmt.Errorf("nearest safe destination: start: %w", domain.ErrInvalidCoordinate)
	}

	destinations, err := catalog.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearest safe destination: list destinations: %w", err)
	}
	if len(destinations) == 0 {
		return nil, domain.ErrNoDestinationsConfigured
	}

	fires, fireErr := resolveFires(ctx, req.Start, req.Fires, req.FireQueryRadiusMeters, fireSource)

	radius := req.SafetyRadiusMeters
	if radius <= 0 {
		radius = DefaultSafetyRadiusMeters
	}

	dest, ok := SelectNearestWithin(req.Start, destinations, fires, radius)
	if !ok {
		return nil, domain.ErrNoSafeDestinationFound
	}

	res := &NearestResult{Destination: dest, Fires: fires, FireErr: fireErr}
	if fireErr != nil {
		res.Warnings = append(res.Warnings, fireDataUnavailableWarning)
	}
	if !dest.IsOpen {
		res.Warnings = append(res.Warnings, fmt.Sprintf("destination %q is marked closed", dest.Name))
	}
	return res, nil
}

func resolveFires(
	ctx context.Context,
	start domain.Coordinate,
	supplied []domain.FireDetection,
	radiusMeters float64,
	source ports.FireDataProvider,
) ([]domain.FireDetection, error) {
	if supplied != nil {
		return supplied, nil
	}
	if source == nil {
		log.Printf("no fire data provider configured, continuing without detections")
		return []domain.FireDetection{}, fmt.Errorf("resolve fires: %w: no provider configured", domain.ErrFireDataUnavailable)
	}

	if radiusMeters <= 0 {
		radiusMeters = DefaultFireQueryRadiusMeters
	}

	fires, err := source.FetchFires(ctx, geo.BoundsAround(start, radiusMeters))
	if err != nil {
		log.Printf("fire data fetch failed, continuing without detections: %v", err)
		return []domain.FireDetection{}, err
	}
	return fires, nil
}
