package geo

import (
	"math"
	"wildfire-evac-service/internal/domain"

	"github.com/golang/geo/s2"
)

// earthRadiusInMeters is the Earth's volumetric mean radius.
const earthRadiusInMeters = 6371000

// metersPerDegreeLat approximates the length of one degree of latitude.
const metersPerDegreeLat = 111320.0

// Distance returns the haversine great-circle distance between a and b in meters.
//
// Endpoints are put in a canonical order before evaluation so that
// Distance(a, b) and Distance(b, a) are bit-identical.
func Distance(a, b domain.Coordinate) float64 {
	if before(b, a) {
		a, b = b, a
	}
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * earthRadiusInMeters
}

func before(a, b domain.Coordinate) bool {
	if a.Lat != b.Lat {
		return a.Lat < b.Lat
	}
	return a.Lng < b.Lng
}

// BoundsAround returns a window of roughly radiusMeters around center.
// Latitudes are clamped to the poles; longitudes wrap across the antimeridian.
func BoundsAround(center domain.Coordinate, radiusMeters float64) domain.Bounds {
	latDelta := radiusMeters / metersPerDegreeLat

	north := math.Min(center.Lat+latDelta, 90)
	south := math.Max(center.Lat-latDelta, -90)

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 1e-9 {
		return domain.Bounds{North: north, South: south, East: 180, West: -180}
	}

	lngDelta := radiusMeters / (metersPerDegreeLat * cosLat)
	if lngDelta >= 180 {
		return domain.Bounds{North: north, South: south, East: 180, West: -180}
	}

	return domain.Bounds{
		North: north,
		South: south,
		East:  wrapLng(center.Lng + lngDelta),
		West:  wrapLng(center.Lng - lngDelta),
	}
}

func wrapLng(lng float64) float64 {
	switch {
	case lng > 180:
		return lng - 360
	case lng < -180:
		return lng + 360
	}
	return lng
}
