package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"wildfire-evac-service/internal/adapters/httpclient"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/platform/metrics"
	"wildfire-evac-service/internal/platform/obs"
)

const (
	DefaultMapboxBaseURL = "https://api.mapbox.com"

	profileDriving        = "driving"
	profileDrivingTraffic = "driving-traffic"

	// Mapbox accepts at most 50 exclude=point(...) entries per request.
	maxExcludePoints = 50
)

// MapboxDirectionsProvider implements RouteProvider using the Mapbox
// Directions API (v5) with GeoJSON geometries.
//
// Every failure, including an empty token, a non-"Ok" response code and
// transport errors after retries, wraps domain.ErrRouteProviderUnavailable.
// The provider is safe for concurrent use.
type MapboxDirectionsProvider struct {
	client  *httpclient.Client
	token   string
	baseURL string
}

func NewMapboxDirectionsProvider(token, baseURL string, timeout time.Duration) (*MapboxDirectionsProvider, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("mapbox directions: %w: access token is empty", domain.ErrRouteProviderUnavailable)
	}
	if baseURL == "" {
		baseURL = DefaultMapboxBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &MapboxDirectionsProvider{
		client:  httpclient.New(timeout),
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// WithRetry tunes the retry policy of the underlying HTTP client.
func (m *MapboxDirectionsProvider) WithRetry(maxAttempts int, backoff time.Duration) *MapboxDirectionsProvider {
	m.client.WithRetry(maxAttempts, backoff)
	return m
}

func (m *MapboxDirectionsProvider) GetRoutes(
	ctx context.Context,
	from domain.Coordinate,
	to domain.Coordinate,
	opts domain.RouteOptions,
) (_ []domain.RouteCandidate, err error) {
	defer obs.Time(ctx, "mapbox.GetRoutes")(&err)
	start := time.Now()
	defer func() { metrics.ObserveProvider("mapbox", start, err) }()

	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("mapbox directions: %w: %w", domain.ErrRouteProviderUnavailable, domain.ErrInvalidCoordinate)
	}

	endpoint := m.endpoint(from, to, opts)

	resp, err := m.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("mapbox directions: %w: %w", domain.ErrRouteProviderUnavailable, redactToken(err, m.token))
	}
	defer resp.Body.Close()

	routes, err := decodeDirections(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mapbox directions: %w: %w", domain.ErrRouteProviderUnavailable, err)
	}

	return routes, nil
}

func (m *MapboxDirectionsProvider) endpoint(from, to domain.Coordinate, opts domain.RouteOptions) string {
	profile := profileDriving
	if opts.ExcludeHighTraffic != nil && *opts.ExcludeHighTraffic {
		profile = profileDrivingTraffic
	}

	coords := formatLngLat(from) + ";" + formatLngLat(to)

	q := url.Values{}
	q.Set("access_token", m.token)
	q.Set("alternatives", strconv.FormatBool(opts.Alternatives))
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	q.Set("steps", "false")

	if exclude := excludeParam(opts); exclude != "" {
		q.Set("exclude", exclude)
	}

	return fmt.Sprintf("%s/directions/v5/mapbox/%s/%s?%s", m.baseURL, profile, coords, q.Encode())
}

// excludeParam builds the comma-separated exclude list.
func excludeParam(opts domain.RouteOptions) string {
	parts := make([]string, 0, 2+len(opts.AvoidPoints))
	if opts.ExcludeFerries {
		parts = append(parts, "ferry")
	}
	if opts.PreferHighways != nil && !*opts.PreferHighways {
		parts = append(parts, "motorway")
	}

	n := 0
	for _, p := range opts.AvoidPoints {
		if n == maxExcludePoints {
			break
		}
		if !p.Valid() {
			continue
		}
		ll := p.LngLat()
		parts = append(parts, fmt.Sprintf("point(%s %s)", formatFloat(ll[0]), formatFloat(ll[1])))
		n++
	}

	return strings.Join(parts, ",")
}

func formatLngLat(c domain.Coordinate) string {
	ll := c.LngLat()
	return formatFloat(ll[0]) + "," + formatFloat(ll[1])
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// redactToken keeps the access token out of logged URL errors.
func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "REDACTED"))
}
