package domain

// A single hotspot observation reported by a fire-detection provider.
// Detections have no identity beyond location and date; every fetch
// yields a fresh list that replaces the previous one.
type FireDetection struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Confidence string   `json:"confidence"`
	Date       string   `json:"date"`
	Brightness *float64 `json:"brightness,omitempty"`
	Scan       *float64 `json:"scan,omitempty"`
	Track      *float64 `json:"track,omitempty"`
	Satellite  string   `json:"satellite,omitempty"`
}

func (f FireDetection) Location() Coordinate {
	return Coordinate{Lat: f.Latitude, Lng: f.Longitude}
}

// Geographic window in degrees, used to scope fire-data queries.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Valid reports whether both corners are valid coordinates and south <= north.
// West may exceed east for windows crossing the antimeridian.
func (b Bounds) Valid() bool {
	sw := Coordinate{Lat: b.South, Lng: b.West}
	ne := Coordinate{Lat: b.North, Lng: b.East}
	return sw.Valid() && ne.Valid() && b.South <= b.North
}

func (b Bounds) Contains(c Coordinate) bool {
	if c.Lat < b.South || c.Lat > b.North {
		return false
	}
	if b.West <= b.East {
		return c.Lng >= b.West && c.Lng <= b.East
	}
	return c.Lng >= b.West || c.Lng <= b.East
}
