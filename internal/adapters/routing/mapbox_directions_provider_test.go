package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"wildfire-evac-service/internal/domain"
)

var (
	laStart   = domain.Coordinate{Lat: 34.05, Lng: -118.24}
	laShelter = domain.Coordinate{Lat: 34.0403, Lng: -118.2696}
)

const twoRoutesBody = `{
  "code": "Ok",
  "routes": [
    {
      "geometry": {"type": "LineString", "coordinates": [[-118.24, 34.05], [-118.255, 34.046], [-118.2696, 34.0403]]},
      "duration": 612.4,
      "distance": 3540.2
    },
    {
      "geometry": {"type": "LineString", "coordinates": [[-118.24, 34.05], [-118.2696, 34.0403]]},
      "duration": 700.0,
      "distance": 3300.0
    }
  ],
  "waypoints": []
}`

func newTestProvider(t *testing.T, srv *httptest.Server) *MapboxDirectionsProvider {
	t.Helper()
	p, err := NewMapboxDirectionsProvider("test-token", srv.URL, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p.WithRetry(3, time.Millisecond)
}

func TestMapboxGetRoutesDecodesCandidates(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoRoutesBody))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv)
	routes, err := p.GetRoutes(context.Background(), laStart, laShelter, domain.DefaultRouteOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(routes))
	}
	if len(routes[0].Geometry) != 3 {
		t.Fatalf("geometry points = %d, want 3", len(routes[0].Geometry))
	}
	if first := routes[0].Geometry[0]; first != laStart {
		t.Fatalf("first point = %+v, want %+v", first, laStart)
	}
	if routes[0].DurationSeconds != 612.4 || routes[0].DistanceMeters != 3540.2 {
		t.Fatalf("metrics = %v s / %v m", routes[0].DurationSeconds, routes[0].DistanceMeters)
	}

	wantPath := "/directions/v5/mapbox/driving/-118.240000,34.050000;-118.269600,34.040300"
	if gotPath != wantPath {
		t.Fatalf("path = %q, want %q", gotPath, wantPath)
	}
	for _, want := range []string{"alternatives=true", "geometries=geojson", "exclude=ferry", "access_token=test-token"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestMapboxGetRoutesOptions(t *testing.T) {
	var gotPath string
	var gotExclude string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotExclude = r.URL.Query().Get("exclude")
		_, _ = w.Write([]byte(twoRoutesBody))
	}))
	defer srv.Close()

	no, yes := false, true
	opts := domain.RouteOptions{
		PreferHighways:     &no,
		ExcludeHighTraffic: &yes,
		AvoidPoints:        []domain.Coordinate{{Lat: 34.0739, Lng: -118.24}},
	}

	p := newTestProvider(t, srv)
	if _, err := p.GetRoutes(context.Background(), laStart, laShelter, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/directions/v5/mapbox/driving-traffic/") {
		t.Fatalf("path = %q, want driving-traffic profile", gotPath)
	}
	if gotExclude != "motorway,point(-118.240000 34.073900)" {
		t.Fatalf("exclude = %q", gotExclude)
	}
}

func TestMapboxGetRoutesDropsMalformedRoutes(t *testing.T) {
	body := `{"code":"Ok","routes":[
		{"geometry":{"type":"Point","coordinates":[-118.24,34.05]},"duration":1,"distance":1},
		{"geometry":{"type":"LineString","coordinates":[[-118.24,34.05]]},"duration":1,"distance":1},
		{"geometry":{"type":"LineString","coordinates":[[-118.24,34.05],[-118.26,34.04]]},"distance":1},
		{"geometry":{"type":"LineString","coordinates":[[-118.24,34.05],[-118.26,34.04]]},"duration":-5,"distance":1},
		{"geometry":{"type":"LineString","coordinates":[[-118.24,34.05],[-118.26,34.04]]},"duration":90,"distance":2100}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	routes, err := newTestProvider(t, srv).GetRoutes(context.Background(), laStart, laShelter, domain.RouteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 || routes[0].DistanceMeters != 2100 {
		t.Fatalf("routes = %+v, want only the well-formed one", routes)
	}
}

func TestMapboxGetRoutesNoRouteIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"No route found","routes":[]}`))
	}))
	defer srv.Close()

	routes, err := newTestProvider(t, srv).GetRoutes(context.Background(), laStart, laShelter, domain.RouteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("routes = %d, want 0", len(routes))
	}
}

func TestMapboxGetRoutesFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantTry int32
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Not Authorized - Invalid Token"}`, 1},
		{"server error retried", http.StatusServiceUnavailable, `oops`, 3},
		{"bad code", http.StatusOK, `{"code":"InvalidInput","message":"bad coordinates"}`, 1},
		{"garbage", http.StatusOK, `<html>`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			routes, err := newTestProvider(t, srv).GetRoutes(context.Background(), laStart, laShelter, domain.RouteOptions{})
			if !errors.Is(err, domain.ErrRouteProviderUnavailable) {
				t.Fatalf("err = %v, want ErrRouteProviderUnavailable", err)
			}
			if routes != nil {
				t.Fatalf("routes = %+v, want nil on failure", routes)
			}
			if got := calls.Load(); got != tt.wantTry {
				t.Fatalf("calls = %d, want %d", got, tt.wantTry)
			}
		})
	}
}

func TestNewMapboxDirectionsProviderRequiresToken(t *testing.T) {
	_, err := NewMapboxDirectionsProvider("  ", "", 0)
	if !errors.Is(err, domain.ErrRouteProviderUnavailable) {
		t.Fatalf("err = %v, want ErrRouteProviderUnavailable", err)
	}
}

func TestExcludeParamCapsPoints(t *testing.T) {
	points := make([]domain.Coordinate, 0, 60)
	for i := 0; i < 60; i++ {
		points = append(points, domain.Coordinate{Lat: 34, Lng: -118 + float64(i)/100})
	}

	got := excludeParam(domain.RouteOptions{AvoidPoints: points})
	if n := strings.Count(got, "point("); n != maxExcludePoints {
		t.Fatalf("point entries = %d, want %d", n, maxExcludePoints)
	}
}
