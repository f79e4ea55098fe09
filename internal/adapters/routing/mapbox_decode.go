package routing

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"wildfire-evac-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry *geojson.Geometry `json:"geometry"`
		Duration *float64          `json:"duration"`
		Distance *float64          `json:"distance"`
	} `json:"routes"`
}

// decodeDirections parses a directions payload into validated candidates.
// Individual malformed routes are dropped; a payload whose code is not "Ok"
// is rejected as a whole.
func decodeDirections(r io.Reader) ([]domain.RouteCandidate, error) {
	var decoded directionsResponse
	if err := json.NewDecoder(r).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	// "NoRoute" and "NoSegment" are legitimate empty answers.
	switch decoded.Code {
	case "Ok":
	case "NoRoute", "NoSegment":
		return []domain.RouteCandidate{}, nil
	default:
		return nil, fmt.Errorf("directions response code %q: %s", decoded.Code, decoded.Message)
	}

	out := make([]domain.RouteCandidate, 0, len(decoded.Routes))
	for i, rt := range decoded.Routes {
		if rt.Geometry == nil || rt.Duration == nil || rt.Distance == nil {
			log.Printf("mapbox directions: dropping route #%d: missing geometry or metrics", i)
			continue
		}

		line, ok := rt.Geometry.Geometry().(orb.LineString)
		if !ok {
			log.Printf("mapbox directions: dropping route #%d: geometry type %q", i, rt.Geometry.Type)
			continue
		}

		c := domain.RouteCandidate{
			Geometry:        lineToCoordinates(line),
			DurationSeconds: *rt.Duration,
			DistanceMeters:  *rt.Distance,
		}
		if err := c.Validate(); err != nil {
			log.Printf("mapbox directions: dropping route #%d: %v", i, err)
			continue
		}
		out = append(out, c)
	}

	return out, nil
}

// orb points are [lng, lat].
func lineToCoordinates(line orb.LineString) []domain.Coordinate {
	out := make([]domain.Coordinate, 0, len(line))
	for _, p := range line {
		out = append(out, domain.Coordinate{Lat: p.Lat(), Lng: p.Lon()})
	}
	return out
}
