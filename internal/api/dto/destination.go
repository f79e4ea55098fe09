package dto

import (
	"time"
	"wildfire-evac-service/internal/domain"
)

type DestinationResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Location    domain.Coordinate `json:"location"`
	Kind        string            `json:"kind"`
	Capacity    *int              `json:"capacity,omitempty"`
	Contact     *domain.Contact   `json:"contact,omitempty"`
	Facilities  []string          `json:"facilities,omitempty"`
	IsOpen      bool              `json:"is_open"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}

type ListDestinationsResponse struct {
	Destinations []DestinationResponse `json:"destinations"`
}

// Fires left out of the body (or null) are fetched around Start; an
// empty array means "no known fires".
type NearestDestinationRequest struct {
	Start *domain.Coordinate     `json:"start"`
	Fires []domain.FireDetection `json:"fires"`
}

type NearestDestinationResponse struct {
	Destination    DestinationResponse `json:"destination"`
	DistanceMeters float64             `json:"distance_meters"`
	FiresChecked   int                 `json:"fires_checked"`
	Warnings       []string            `json:"warnings"`
}

func NewDestinationResponse(d domain.SafeDestination) DestinationResponse {
	res := DestinationResponse{
		ID:         d.ID,
		Name:       d.Name,
		Location:   d.Location,
		Kind:       string(d.Kind),
		Capacity:   d.Capacity,
		Contact:    d.Contact,
		Facilities: d.Facilities,
		IsOpen:     d.IsOpen,
	}
	if !d.LastUpdated.IsZero() {
		t := d.LastUpdated
		res.LastUpdated = &t
	}
	return res
}
