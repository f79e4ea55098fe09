package services

import (
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/geo"
)

// DefaultSafetyRadiusMeters is the distance within which a fire detection
// renders a location unsafe.
const DefaultSafetyRadiusMeters = 5000.0

// IsSafe reports whether a start/destination pairing is clear of every known
// fire using the default safety radius.
func IsSafe(start, destination domain.Coordinate, fires []domain.FireDetection) bool {
	return IsSafeWithin(start, destination, fires, DefaultSafetyRadiusMeters)
}

// IsSafeWithin reports whether no fire lies within radiusMeters of either
// endpoint. Only the two endpoints are examined, not the path between them.
// Fires with invalid coordinates are ignored.
func IsSafeWithin(start, destination domain.Coordinate, fires []domain.FireDetection, radiusMeters float64) bool {
	for _, f := range fires {
		loc := f.Location()
		if !loc.Valid() {
			continue
		}
		if geo.Distance(loc, start) <= radiusMeters || geo.Distance(loc, destination) <= radiusMeters {
			return false
		}
	}
	return true
}
