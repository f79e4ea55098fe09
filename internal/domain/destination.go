package domain

import (
	"fmt"
	"strings"
	"time"
)

type DestinationKind string

const (
	KindShelter     DestinationKind = "shelter"
	KindHospital    DestinationKind = "hospital"
	KindPolice      DestinationKind = "police"
	KindFireStation DestinationKind = "fire_station"
)

// ParseDestinationKind accepts the catalog spelling of a kind, case-insensitively.
func ParseDestinationKind(s string) (DestinationKind, error) {
	switch k := DestinationKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindShelter, KindHospital, KindPolice, KindFireStation:
		return k, nil
	default:
		return "", fmt.Errorf("parse destination kind: unknown kind %q", s)
	}
}

type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Represents a candidate evacuation endpoint supplied by an external catalog.
// Only Location and IsOpen take part in routing decisions; the remaining
// fields are informational and passed through to callers untouched.
type SafeDestination struct {
	ID          string
	Name        string
	Location    Coordinate
	Kind        DestinationKind
	Capacity    *int
	Contact     *Contact
	Facilities  []string
	IsOpen      bool
	LastUpdated time.Time
}
