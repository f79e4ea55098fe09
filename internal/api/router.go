package api

import (
	"net/http"
	"wildfire-evac-service/internal/api/handlers"
	"wildfire-evac-service/internal/platform/metrics"
	"wildfire-evac-service/internal/ports"
)

// Deps are the ports the HTTP layer depends on. Fires may be nil, in which
// case requests without fires proceed with a fire-data warning.
type Deps struct {
	Catalog               ports.DestinationCatalog
	Fires                 ports.FireDataProvider
	Routes                ports.RouteProvider
	SafetyRadiusMeters    float64
	FireQueryRadiusMeters float64
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	destHandler := &handlers.DestinationHandler{
		Catalog:               d.Catalog,
		Fires:                 d.Fires,
		SafetyRadiusMeters:    d.SafetyRadiusMeters,
		FireQueryRadiusMeters: d.FireQueryRadiusMeters,
	}
	routeHandler := &handlers.RouteHandler{
		Catalog:               d.Catalog,
		Fires:                 d.Fires,
		Routes:                d.Routes,
		SafetyRadiusMeters:    d.SafetyRadiusMeters,
		FireQueryRadiusMeters: d.FireQueryRadiusMeters,
	}
	fireHandler := &handlers.FireHandler{Fires: d.Fires}

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, metrics.Middleware(pattern, h))
	}

	handle("/health", handlers.Health)
	handle("/destinations", destHandler.List)
	handle("/destinations/nearest", destHandler.Nearest)
	handle("/routes/safest", routeHandler.Safest)
	handle("/fires", fireHandler.List)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
