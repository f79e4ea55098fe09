package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/platform/obs"
)

// maxBodyBytes bounds request bodies; a request may carry a full fire list.
const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody reads exactly one JSON object into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func validateStart(start *domain.Coordinate) string {
	if start == nil {
		return "start is required"
	}
	if !start.Valid() {
		return "start must have lat in [-90,90] and lng in [-180,180]"
	}
	return ""
}

// errorStatus maps domain failures onto HTTP responses. outcome labels the
// failure for metrics.
func errorStatus(err error) (status int, msg, outcome string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return http.StatusBadRequest, "invalid coordinate", "invalid_input"
	case errors.Is(err, domain.ErrNoDestinationsConfigured):
		return http.StatusServiceUnavailable, "no destinations configured", "no_destinations"
	case errors.Is(err, domain.ErrNoSafeDestinationFound):
		return http.StatusNotFound, "none found", "no_safe_destination"
	case errors.Is(err, domain.ErrRouteProviderUnavailable):
		return http.StatusBadGateway, "route provider unavailable", "provider_unavailable"
	default:
		return http.StatusInternalServerError, "internal server error", "error"
	}
}
