package handlers

import (
	"log"
	"net/http"
	"wildfire-evac-service/internal/api/dto"
	"wildfire-evac-service/internal/geo"
	"wildfire-evac-service/internal/platform/obs"
	"wildfire-evac-service/internal/platform/report"
	"wildfire-evac-service/internal/ports"
	"wildfire-evac-service/internal/services"

	"github.com/getsentry/sentry-go"
)

// DestinationHandler exposes the catalog and nearest-safe-destination lookups.
type DestinationHandler struct {
	Catalog               ports.DestinationCatalog
	Fires                 ports.FireDataProvider
	SafetyRadiusMeters    float64
	FireQueryRadiusMeters float64
}

func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	dests, err := h.Catalog.ListDestinations(r.Context())
	if err != nil {
		log.Printf("list destinations failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListDestinationsResponse{
		Destinations: make([]dto.DestinationResponse, 0, len(dests)),
	}
	for _, d := range dests {
		res.Destinations = append(res.Destinations, dto.NewDestinationResponse(d))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Nearest returns the closest destination with no fire near either endpoint.
func (h *DestinationHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.NearestDestinationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateStart(req.Start); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	reqID := obs.RequestID(r.Context())

	res, err := services.NearestSafeDestination(r.Context(), services.EvacuationRequest{
		Start:                 *req.Start,
		Fires:                 req.Fires,
		SafetyRadiusMeters:    h.SafetyRadiusMeters,
		FireQueryRadiusMeters: h.FireQueryRadiusMeters,
	}, h.Catalog, h.Fires)
	if err != nil {
		status, msg, _ := errorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("nearest destination failed: req_id=%s err=%v", reqID, err)
		}
		writeError(w, r, status, msg)
		return
	}

	if res.FireErr != nil {
		report.Report(res.FireErr, report.Options{
			Tags:  map[string]string{"component": "firedata", "req_id": reqID},
			Level: sentry.LevelWarning,
		})
	}

	warnings := make([]string, 0, len(res.Warnings))
	warnings = append(warnings, res.Warnings...)

	writeJSON(w, r, http.StatusOK, dto.NearestDestinationResponse{
		Destination:    dto.NewDestinationResponse(res.Destination),
		DistanceMeters: geo.Distance(*req.Start, res.Destination.Location),
		FiresChecked:   len(res.Fires),
		Warnings:       warnings,
	})
}
