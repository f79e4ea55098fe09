package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/platform/obs"
)

// PGDestinationCatalog reads the destination catalog maintained by an
// external system from Postgres. It never writes.
type PGDestinationCatalog struct {
	DB *sql.DB
}

func NewPGDestinationCatalog(db *sql.DB) *PGDestinationCatalog {
	return &PGDestinationCatalog{DB: db}
}

// Return all catalog rows in id order. Rows with unknown kinds or invalid
// coordinates are logged and skipped.
func (p *PGDestinationCatalog) ListDestinations(ctx context.Context) (_ []domain.SafeDestination, err error) {
	defer obs.Time(ctx, "catalog.pg.ListDestinations")(&err)

	if p.DB == nil {
		return nil, errors.New("pg destination catalog: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		lat,
		lng,
		kind,
		capacity,
		phone,
		email,
		facilities,
		is_open,
		last_updated
	FROM safe_destinations
	ORDER BY id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list destinations: query safe_destinations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SafeDestination, 0, 64)
	for rows.Next() {
		var row catalogRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Lat, &row.Lng, &row.Kind,
			&row.Capacity, &row.Phone, &row.Email, &row.Facilities, &row.IsOpen, &row.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("list destinations: scan row: %w", err)
		}

		d, rerr := row.toDomain()
		if rerr != nil {
			log.Printf("skipping catalog row: id=%s err=%v", row.ID, rerr)
			continue
		}
		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list destinations: row iteration: %w", err)
	}

	return out, nil
}

// catalogRow mirrors one safe_destinations row; nullable columns stay as sql.Null*.
type catalogRow struct {
	ID          string
	Name        string
	Lat, Lng    float64
	Kind        string
	Capacity    sql.NullInt64
	Phone       sql.NullString
	Email       sql.NullString
	Facilities  sql.NullString
	IsOpen      bool
	LastUpdated sql.NullTime
}

func (r catalogRow) toDomain() (domain.SafeDestination, error) {
	kind, err := domain.ParseDestinationKind(r.Kind)
	if err != nil {
		return domain.SafeDestination{}, err
	}

	d := domain.SafeDestination{
		ID:         r.ID,
		Name:       r.Name,
		Location:   domain.Coordinate{Lat: r.Lat, Lng: r.Lng},
		Kind:       kind,
		Facilities: splitFacilities(r.Facilities.String),
		IsOpen:     r.IsOpen,
	}
	if !d.Location.Valid() {
		return domain.SafeDestination{}, fmt.Errorf("invalid coordinate lat=%v lng=%v", r.Lat, r.Lng)
	}

	if r.LastUpdated.Valid {
		d.LastUpdated = r.LastUpdated.Time
	}
	if r.Capacity.Valid {
		c := int(r.Capacity.Int64)
		d.Capacity = &c
	}
	if r.Phone.Valid || r.Email.Valid {
		d.Contact = &domain.Contact{Phone: r.Phone.String, Email: r.Email.String}
	}

	return d, nil
}

// facilities are stored as a comma-separated list.
func splitFacilities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
