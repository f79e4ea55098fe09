package domain

import "errors"

var (
	// The destination catalog passed in is empty.
	ErrNoDestinationsConfigured = errors.New("no destinations configured")
	// Every candidate destination failed the fire proximity check.
	ErrNoSafeDestinationFound = errors.New("no safe destination found")
	// The directions request failed, timed out, or returned no candidates.
	ErrRouteProviderUnavailable = errors.New("route provider unavailable")
	// The fire-data request failed; callers continue with an empty list.
	ErrFireDataUnavailable = errors.New("fire data unavailable")

	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
