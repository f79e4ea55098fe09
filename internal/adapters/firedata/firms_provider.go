package firedata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"wildfire-evac-service/internal/adapters/httpclient"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/platform/metrics"
	"wildfire-evac-service/internal/platform/obs"
)

const (
	DefaultFIRMSBaseURL = "https://firms.modaps.eosdis.nasa.gov"
	DefaultFIRMSSource  = "VIIRS_SNPP_NRT"

	// The area API accepts 1 to 10 days.
	maxDayRange = 10
)

// FIRMSProvider implements FireDataProvider using the NASA FIRMS area API.
//
// Responses are CSV; parsing and validation happen here so that callers
// only ever see coordinate-checked detections. Failures return an empty
// slice and an error wrapping domain.ErrFireDataUnavailable.
type FIRMSProvider struct {
	client   *httpclient.Client
	mapKey   string
	baseURL  string
	source   string
	dayRange int
}

func NewFIRMSProvider(mapKey, baseURL, source string, dayRange int, timeout time.Duration) *FIRMSProvider {
	if baseURL == "" {
		baseURL = DefaultFIRMSBaseURL
	}
	if source == "" {
		source = DefaultFIRMSSource
	}
	if dayRange < 1 {
		dayRange = 1
	}
	if dayRange > maxDayRange {
		dayRange = maxDayRange
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &FIRMSProvider{
		client:   httpclient.New(timeout),
		mapKey:   strings.TrimSpace(mapKey),
		baseURL:  strings.TrimRight(baseURL, "/"),
		source:   source,
		dayRange: dayRange,
	}
}

// WithRetry tunes the retry policy of the underlying HTTP client.
func (f *FIRMSProvider) WithRetry(maxAttempts int, backoff time.Duration) *FIRMSProvider {
	f.client.WithRetry(maxAttempts, backoff)
	return f
}

func (f *FIRMSProvider) FetchFires(ctx context.Context, bounds domain.Bounds) (_ []domain.FireDetection, err error) {
	defer obs.Time(ctx, "firms.FetchFires")(&err)
	start := time.Now()
	defer func() {
		metrics.ObserveProvider("firms", start, err)
		if err != nil {
			metrics.FireFetchErrors.WithLabelValues("firms").Inc()
		}
	}()

	if f.mapKey == "" {
		return []domain.FireDetection{}, fmt.Errorf("firms: %w: map key is empty", domain.ErrFireDataUnavailable)
	}
	if !bounds.Valid() {
		return []domain.FireDetection{}, fmt.Errorf("firms: %w: invalid bounds %+v", domain.ErrFireDataUnavailable, bounds)
	}

	out := []domain.FireDetection{}
	for _, window := range splitAntimeridian(bounds) {
		fires, err := f.fetchWindow(ctx, window)
		if err != nil {
			return []domain.FireDetection{}, err
		}
		for _, fire := range fires {
			if window.Contains(fire.Location()) {
				out = append(out, fire)
			}
		}
	}

	return out, nil
}

func (f *FIRMSProvider) fetchWindow(ctx context.Context, bounds domain.Bounds) ([]domain.FireDetection, error) {
	endpoint := fmt.Sprintf(
		"%s/api/area/csv/%s/%s/%s/%d",
		f.baseURL, f.mapKey, f.source, formatArea(bounds), f.dayRange,
	)

	resp, err := f.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("firms: %w: %s", domain.ErrFireDataUnavailable, strings.ReplaceAll(err.Error(), f.mapKey, "REDACTED"))
	}
	defer resp.Body.Close()

	fires, err := ParseFIRMSCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("firms: %w: %w", domain.ErrFireDataUnavailable, err)
	}

	return fires, nil
}

// splitAntimeridian turns a window with West > East into its eastern and
// western halves; the area API only accepts west <= east.
func splitAntimeridian(b domain.Bounds) []domain.Bounds {
	if b.West <= b.East {
		return []domain.Bounds{b}
	}
	east := b
	east.East = 180
	west := b
	west.West = -180
	return []domain.Bounds{east, west}
}

// formatArea renders bounds as west,south,east,north.
func formatArea(b domain.Bounds) string {
	parts := []float64{b.West, b.South, b.East, b.North}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strconv.FormatFloat(p, 'f', 4, 64))
	}
	return strings.Join(out, ",")
}
