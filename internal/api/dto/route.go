package dto

import "wildfire-evac-service/internal/domain"

// Omitted booleans fall back to domain.DefaultRouteOptions.
type RouteOptionsRequest struct {
	Alternatives       *bool               `json:"alternatives"`
	ExcludeFerries     *bool               `json:"exclude_ferries"`
	PreferHighways     *bool               `json:"prefer_highways"`
	ExcludeHighTraffic *bool               `json:"exclude_high_traffic"`
	ExcludeFireAreas   *bool               `json:"exclude_fire_areas"`
	AvoidPoints        []domain.Coordinate `json:"avoid_points"`
}

type SafestRouteRequest struct {
	Start   *domain.Coordinate     `json:"start"`
	Fires   []domain.FireDetection `json:"fires"`
	Options *RouteOptionsRequest   `json:"options"`
}

type RouteResponse struct {
	Geometry        []domain.Coordinate `json:"geometry"`
	DurationSeconds float64             `json:"duration_seconds"`
	DistanceMeters  float64             `json:"distance_meters"`
}

type SafestRouteResponse struct {
	Destination  DestinationResponse `json:"destination"`
	Route        RouteResponse       `json:"route"`
	Alternatives []RouteResponse     `json:"alternatives"`
	Warnings     []string            `json:"warnings"`
	FiresChecked int                 `json:"fires_checked"`
}

// ToDomain merges the request over the default options.
func (o *RouteOptionsRequest) ToDomain() domain.RouteOptions {
	opts := domain.DefaultRouteOptions()
	if o == nil {
		return opts
	}

	if o.Alternatives != nil {
		opts.Alternatives = *o.Alternatives
	}
	if o.ExcludeFerries != nil {
		opts.ExcludeFerries = *o.ExcludeFerries
	}
	opts.PreferHighways = o.PreferHighways
	opts.ExcludeHighTraffic = o.ExcludeHighTraffic
	opts.ExcludeFireAreas = o.ExcludeFireAreas
	opts.AvoidPoints = o.AvoidPoints

	return opts
}

func NewSafestRouteResponse(r *domain.RouteResult, firesChecked int) SafestRouteResponse {
	res := SafestRouteResponse{
		Destination: NewDestinationResponse(r.Destination),
		Route: RouteResponse{
			Geometry:        r.Geometry,
			DurationSeconds: r.DurationSeconds,
			DistanceMeters:  r.DistanceMeters,
		},
		Alternatives: make([]RouteResponse, 0, len(r.Alternatives)),
		Warnings:     make([]string, 0, len(r.Warnings)),
		FiresChecked: firesChecked,
	}

	for _, a := range r.Alternatives {
		res.Alternatives = append(res.Alternatives, RouteResponse{
			Geometry:        a.Geometry,
			DurationSeconds: a.DurationSeconds,
			DistanceMeters:  a.DistanceMeters,
		})
	}
	res.Warnings = append(res.Warnings, r.Warnings...)

	return res
}
