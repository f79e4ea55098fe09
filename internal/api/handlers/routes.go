package handlers

import (
	"log"
	"net/http"
	"wildfire-evac-service/internal/api/dto"
	"wildfire-evac-service/internal/platform/metrics"
	"wildfire-evac-service/internal/platform/obs"
	"wildfire-evac-service/internal/platform/report"
	"wildfire-evac-service/internal/ports"
	"wildfire-evac-service/internal/services"

	"github.com/getsentry/sentry-go"
)

type RouteHandler struct {
	Catalog               ports.DestinationCatalog
	Fires                 ports.FireDataProvider
	Routes                ports.RouteProvider
	SafetyRadiusMeters    float64
	FireQueryRadiusMeters float64
}

// Safest picks the nearest safe destination and returns a driving route to it.
func (h *RouteHandler) Safest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SafestRouteRequest
	if !decodeBody(w, r, &req) {
		metrics.SafestRouteOutcomes.WithLabelValues("invalid_input").Inc()
		return
	}
	if msg := validateStart(req.Start); msg != "" {
		metrics.SafestRouteOutcomes.WithLabelValues("invalid_input").Inc()
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	opts := req.Options.ToDomain()
	for _, p := range opts.AvoidPoints {
		if !p.Valid() {
			metrics.SafestRouteOutcomes.WithLabelValues("invalid_input").Inc()
			writeError(w, r, http.StatusBadRequest, "avoid_points contains an invalid coordinate")
			return
		}
	}

	reqID := obs.RequestID(r.Context())

	plan, err := services.PlanEvacuation(r.Context(), services.EvacuationRequest{
		Start:                 *req.Start,
		Fires:                 req.Fires,
		Options:               &opts,
		SafetyRadiusMeters:    h.SafetyRadiusMeters,
		FireQueryRadiusMeters: h.FireQueryRadiusMeters,
	}, h.Catalog, h.Fires, h.Routes)
	if err != nil {
		status, msg, outcome := errorStatus(err)
		metrics.SafestRouteOutcomes.WithLabelValues(outcome).Inc()

		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			log.Printf("safest route failed: req_id=%s err=%v", reqID, err)
			report.Report(err, report.Options{
				Tags:         map[string]string{"component": "routing", "req_id": reqID},
				ExtraContext: map[string]interface{}{"start": *req.Start},
			})
		}
		writeError(w, r, status, msg)
		return
	}

	if plan.FireErr != nil {
		report.Report(plan.FireErr, report.Options{
			Tags:  map[string]string{"component": "firedata", "req_id": reqID},
			Level: sentry.LevelWarning,
		})
	}

	metrics.SafestRouteOutcomes.WithLabelValues("ok").Inc()
	writeJSON(w, r, http.StatusOK, dto.NewSafestRouteResponse(plan.Route, len(plan.Fires)))
}
