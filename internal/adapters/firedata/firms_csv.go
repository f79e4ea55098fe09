package firedata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"wildfire-evac-service/internal/domain"
)

const (
	DefaultConfidence = "50"
	DefaultBrightness = 350.0
)

// ParseFIRMSCSV converts a FIRMS CSV payload into detections.
//
// Rows whose latitude or longitude is missing, non-numeric or out of range
// are dropped. Confidence defaults to DefaultConfidence and brightness to
// DefaultBrightness when absent. VIIRS payloads carry brightness as
// bright_ti4, MODIS as brightness.
func ParseFIRMSCSV(r io.Reader) ([]domain.FireDetection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.FireDetection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse firms csv: read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	// FIRMS answers bad keys and bad requests with a plain-text line and 200.
	if _, ok := cols["latitude"]; !ok {
		return nil, fmt.Errorf("parse firms csv: unexpected payload %q", strings.Join(header, ","))
	}
	if _, ok := cols["longitude"]; !ok {
		return nil, fmt.Errorf("parse firms csv: missing longitude column")
	}

	field := func(rec []string, names ...string) string {
		for _, n := range names {
			if i, ok := cols[n]; ok && i < len(rec) {
				if v := strings.TrimSpace(rec[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	out := make([]domain.FireDetection, 0, 64)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse firms csv: line %d: %w", line, err)
		}

		lat, okLat := parseFinite(field(rec, "latitude"))
		lng, okLng := parseFinite(field(rec, "longitude"))
		if !okLat || !okLng {
			continue
		}
		if !(domain.Coordinate{Lat: lat, Lng: lng}).Valid() {
			continue
		}

		confidence := field(rec, "confidence")
		if confidence == "" {
			confidence = DefaultConfidence
		}

		brightness := DefaultBrightness
		if v, ok := parseFinite(field(rec, "brightness", "bright_ti4")); ok {
			brightness = v
		}

		fire := domain.FireDetection{
			Latitude:   lat,
			Longitude:  lng,
			Confidence: confidence,
			Date:       field(rec, "acq_date"),
			Brightness: &brightness,
			Satellite:  field(rec, "satellite"),
		}
		if v, ok := parseFinite(field(rec, "scan")); ok {
			fire.Scan = &v
		}
		if v, ok := parseFinite(field(rec, "track")); ok {
			fire.Track = &v
		}

		out = append(out, fire)
	}

	return out, nil
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
