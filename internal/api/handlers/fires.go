package handlers

import (
	"log"
	"net/http"
	"strconv"
	"wildfire-evac-service/internal/api/dto"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/platform/obs"
	"wildfire-evac-service/internal/ports"
)

type FireHandler struct {
	Fires ports.FireDataProvider
}

// List returns the current fire snapshot for the bounds in the query string.
func (h *FireHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	bounds, ok := parseBounds(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "north, south, east and west are required and must form valid bounds")
		return
	}

	if h.Fires == nil {
		writeError(w, r, http.StatusServiceUnavailable, "fire data unavailable")
		return
	}

	fires, err := h.Fires.FetchFires(r.Context(), bounds)
	if err != nil {
		log.Printf("fetch fires failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusBadGateway, "fire data unavailable")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListFiresResponse{
		Bounds: bounds,
		Count:  len(fires),
		Fires:  fires,
	})
}

func parseBounds(r *http.Request) (domain.Bounds, bool) {
	q := r.URL.Query()

	var vals [4]float64
	for i, key := range []string{"north", "south", "east", "west"} {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return domain.Bounds{}, false
		}
		vals[i] = v
	}

	b := domain.Bounds{North: vals[0], South: vals[1], East: vals[2], West: vals[3]}
	return b, b.Valid()
}
