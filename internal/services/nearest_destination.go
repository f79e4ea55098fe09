package services

import (
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/geo"
)

// SelectNearest returns the closest destination that passes the fire
// proximity check, or false when none does.
func SelectNearest(
	start domain.Coordinate,
	destinations []domain.SafeDestination,
	fires []domain.FireDetection,
) (domain.SafeDestination, bool) {
	return SelectNearestWithin(start, destinations, fires, DefaultSafetyRadiusMeters)
}

// SelectNearestWithin is SelectNearest with an explicit safety radius.
//
// Candidates are scanned in input order and only a strictly shorter distance
// replaces the current best, so ties resolve to the first one encountered.
// Open/closed status is not considered.
func SelectNearestWithin(
	start domain.Coordinate,
	destinations []domain.SafeDestination,
	fires []domain.FireDetection,
	radiusMeters float64,
) (domain.SafeDestination, bool) {
	// A NaN start would poison every comparison below.
	if !start.Valid() {
		return domain.SafeDestination{}, false
	}

	var best domain.SafeDestination
	bestDistance := 0.0
	found := false

	for _, d := range destinations {
		if !d.Location.Valid() {
			continue
		}
		if !IsSafeWithin(start, d.Location, fires, radiusMeters) {
			continue
		}

		dist := geo.Distance(start, d.Location)
		if !found || dist < bestDistance {
			best = d
			bestDistance = dist
			found = true
		}
	}

	return best, found
}

// FindNearestSafeDestination is the caller-facing name of SelectNearest.
func FindNearestSafeDestination(
	start domain.Coordinate,
	destinations []domain.SafeDestination,
	fires []domain.FireDetection,
) (domain.SafeDestination, bool) {
	return SelectNearest(start, destinations, fires)
}
