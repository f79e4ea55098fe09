package geo

import (
	"math"
	"testing"
	"wildfire-evac-service/internal/domain"
)

// referenceHaversine is an independent evaluation of the haversine formula.
func referenceHaversine(a, b domain.Coordinate) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * 6371000 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

var samplePoints = []domain.Coordinate{
	{Lat: 34.05, Lng: -118.24},
	{Lat: 34.0739, Lng: -118.2400},
	{Lat: 34.0403, Lng: -118.2696},
	{Lat: -33.8688, Lng: 151.2093},
	{Lat: 51.5074, Lng: -0.1278},
	{Lat: 0, Lng: 179.9},
	{Lat: 0, Lng: -179.9},
	{Lat: 89.9, Lng: 45},
	{Lat: -90, Lng: 0},
}

func TestDistanceSamePointIsZero(t *testing.T) {
	for _, p := range samplePoints {
		if d := Distance(p, p); d != 0 {
			t.Fatalf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			if ab, ba := Distance(a, b), Distance(b, a); ab != ba {
				t.Fatalf("Distance(%v, %v) = %v but Distance(%v, %v) = %v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestDistanceMatchesHaversine(t *testing.T) {
	start := domain.Coordinate{Lat: 34.05, Lng: -118.24}
	shelters := []domain.Coordinate{
		{Lat: 34.0739, Lng: -118.2400},
		{Lat: 34.0403, Lng: -118.2696},
	}

	for _, s := range shelters {
		got := Distance(start, s)
		want := referenceHaversine(start, s)
		if math.Abs(got-want) > 1 {
			t.Fatalf("Distance(start, %v) = %.3f, want %.3f within 1m", s, got, want)
		}
	}

	// 0.0239 degrees of latitude along a meridian.
	got := Distance(start, shelters[0])
	if math.Abs(got-2657.6) > 1 {
		t.Fatalf("Distance to northern shelter = %.3f, want about 2657.6", got)
	}
}

func TestDistanceLongHaul(t *testing.T) {
	london := domain.Coordinate{Lat: 51.5074, Lng: -0.1278}
	sydney := domain.Coordinate{Lat: -33.8688, Lng: 151.2093}

	got := Distance(london, sydney)
	want := referenceHaversine(london, sydney)
	if math.Abs(got-want) > 1 {
		t.Fatalf("Distance(london, sydney) = %.1f, want %.1f", got, want)
	}
}

func TestBoundsAround(t *testing.T) {
	center := domain.Coordinate{Lat: 34.05, Lng: -118.24}
	b := BoundsAround(center, 50000)

	if !b.Valid() {
		t.Fatalf("bounds %+v should be valid", b)
	}
	if !b.Contains(center) {
		t.Fatalf("bounds %+v should contain center", b)
	}

	north := domain.Coordinate{Lat: b.North, Lng: center.Lng}
	if d := Distance(center, north); math.Abs(d-50000) > 500 {
		t.Fatalf("north edge distance = %.0f, want about 50000", d)
	}
}

func TestBoundsAroundWrapsAntimeridian(t *testing.T) {
	b := BoundsAround(domain.Coordinate{Lat: 0, Lng: 179.95}, 20000)

	if b.West <= b.East {
		t.Fatalf("expected wrapped bounds, got %+v", b)
	}
	if !b.Contains(domain.Coordinate{Lat: 0, Lng: -179.95}) {
		t.Fatalf("bounds %+v should contain point across antimeridian", b)
	}
}

func TestBoundsAroundPole(t *testing.T) {
	b := BoundsAround(domain.Coordinate{Lat: 90, Lng: 0}, 10000)
	if b.North != 90 || b.West != -180 || b.East != 180 {
		t.Fatalf("polar bounds = %+v, want full longitude span capped at 90", b)
	}
}
