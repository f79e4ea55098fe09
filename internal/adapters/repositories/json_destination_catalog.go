package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"wildfire-evac-service/internal/domain"
)

// DestinationSeed is the on-disk shape of one catalog entry.
type DestinationSeed struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Lat         float64         `json:"lat"`
	Lng         float64         `json:"lng"`
	Kind        string          `json:"kind"`
	Capacity    *int            `json:"capacity,omitempty"`
	Contact     *domain.Contact `json:"contact,omitempty"`
	Facilities  []string        `json:"facilities,omitempty"`
	IsOpen      bool            `json:"is_open"`
	LastUpdated time.Time       `json:"last_updated"`
}

// JSONDestinationCatalog serves a fixed destination list loaded from a JSON file.
// The list is validated once at load time and copied on every read.
type JSONDestinationCatalog struct {
	destinations []domain.SafeDestination
}

func NewJSONDestinationCatalog(path string) (*JSONDestinationCatalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load destinations: read %q: %w", path, err)
	}

	destinations, err := ParseDestinations(b)
	if err != nil {
		return nil, fmt.Errorf("load destinations %q: %w", path, err)
	}

	return &JSONDestinationCatalog{destinations: destinations}, nil
}

// ParseDestinations decodes and validates a JSON array of DestinationSeed.
func ParseDestinations(b []byte) ([]domain.SafeDestination, error) {
	var data []DestinationSeed
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parse destinations: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	out := make([]domain.SafeDestination, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("parse destinations: item at index %d: id cannot be empty", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("parse destinations: duplicate id %q", id)
		}
		seen[id] = struct{}{}

		loc := domain.Coordinate{Lat: item.Lat, Lng: item.Lng}
		if !loc.Valid() {
			return nil, fmt.Errorf("parse destinations: id=%q: %w: %v,%v", id, domain.ErrInvalidCoordinate, item.Lat, item.Lng)
		}

		kind, err := domain.ParseDestinationKind(item.Kind)
		if err != nil {
			return nil, fmt.Errorf("parse destinations: id=%q: %w", id, err)
		}

		out = append(out, domain.SafeDestination{
			ID:          id,
			Name:        strings.TrimSpace(item.Name),
			Location:    loc,
			Kind:        kind,
			Capacity:    item.Capacity,
			Contact:     item.Contact,
			Facilities:  item.Facilities,
			IsOpen:      item.IsOpen,
			LastUpdated: item.LastUpdated,
		})
	}

	return out, nil
}

// Return every destination in file order.
func (c *JSONDestinationCatalog) ListDestinations(ctx context.Context) ([]domain.SafeDestination, error) {
	out := make([]domain.SafeDestination, len(c.destinations))
	copy(out, c.destinations)
	return out, nil
}
