package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"wildfire-evac-service/internal/adapters/routing"
	"wildfire-evac-service/internal/domain"
)

func TestFindSafestRouteNoDestinations(t *testing.T) {
	provider := routing.NewMockRouteProvider()

	_, err := FindSafestRoute(context.Background(), SafeRouteRequest{Start: downtownLA}, provider)
	if !errors.Is(err, domain.ErrNoDestinationsConfigured) {
		t.Fatalf("err = %v, want ErrNoDestinationsConfigured", err)
	}
	if len(provider.Calls()) != 0 {
		t.Fatal("provider should not be called")
	}
}

func TestFindSafestRouteNoSafeDestination(t *testing.T) {
	provider := routing.NewMockRouteProvider()
	req := SafeRouteRequest{
		Start:        downtownLA,
		Destinations: laShelters(),
		Fires:        []domain.FireDetection{fireAt(northShelterLoc, "80")},
	}

	_, err := FindSafestRoute(context.Background(), req, provider)
	if !errors.Is(err, domain.ErrNoSafeDestinationFound) {
		t.Fatalf("err = %v, want ErrNoSafeDestinationFound", err)
	}
	if len(provider.Calls()) != 0 {
		t.Fatal("provider should not be called")
	}
}

func TestFindSafestRouteZeroCandidates(t *testing.T) {
	provider := routing.NewMockRouteProvider()
	req := SafeRouteRequest{Start: downtownLA, Destinations: laShelters()}

	result, err := FindSafestRoute(context.Background(), req, provider)
	if !errors.Is(err, domain.ErrRouteProviderUnavailable) {
		t.Fatalf("err = %v, want ErrRouteProviderUnavailable", err)
	}
	if result != nil {
		t.Fatalf("result = %+v, want nil", result)
	}
}

func TestFindSafestRouteProviderError(t *testing.T) {
	provider := &routing.MockRouteProvider{Err: errors.New("dial tcp: connection refused")}
	req := SafeRouteRequest{Start: downtownLA, Destinations: laShelters()}

	_, err := FindSafestRoute(context.Background(), req, provider)
	if !errors.Is(err, domain.ErrRouteProviderUnavailable) {
		t.Fatalf("err = %v, want ErrRouteProviderUnavailable", err)
	}
}

func TestFindSafestRouteNilProvider(t *testing.T) {
	req := SafeRouteRequest{Start: downtownLA, Destinations: laShelters()}

	_, err := FindSafestRoute(context.Background(), req, nil)
	if !errors.Is(err, domain.ErrRouteProviderUnavailable) {
		t.Fatalf("err = %v, want ErrRouteProviderUnavailable", err)
	}
}

func TestFindSafestRouteInvalidTopCandidate(t *testing.T) {
	provider := routing.NewMockRouteProvider(domain.RouteCandidate{
		Geometry:        []domain.Coordinate{downtownLA},
		DurationSeconds: 10,
		DistanceMeters:  10,
	})
	req := SafeRouteRequest{Start: downtownLA, Destinations: laShelters()}

	_, err := FindSafestRoute(context.Background(), req, provider)
	if !errors.Is(err, domain.ErrRouteProviderUnavailable) {
		t.Fatalf("err = %v, want ErrRouteProviderUnavailable", err)
	}
}

func TestFindSafestRouteReturnsTopCandidate(t *testing.T) {
	primary := routing.StraightLine(downtownLA, westShelterLoc, 3500, 600)
	faster := routing.StraightLine(downtownLA, westShelterLoc, 3400, 420)
	broken := domain.RouteCandidate{Geometry: []domain.Coordinate{downtownLA}}
	provider := routing.NewMockRouteProvider(primary, broken, faster)

	// Pushes the northern shelter out of reach, leaving the western one.
	fires := []domain.FireDetection{fireAt(domain.Coordinate{Lat: 34.1039, Lng: -118.2400}, "80")}
	req := SafeRouteRequest{
		Start:        downtownLA,
		Destinations: laShelters(),
		Fires:        fires,
		Options:      domain.DefaultRouteOptions(),
	}

	result, err := FindSafestRoute(context.Background(), req, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Destination.ID != "west" {
		t.Fatalf("destination = %q, want west", result.Destination.ID)
	}
	// No re-ranking: the provider's first candidate stays primary even
	// though an alternative is faster.
	if result.DurationSeconds != 600 || result.DistanceMeters != 3500 {
		t.Fatalf("primary = %v s / %v m, want 600 s / 3500 m", result.DurationSeconds, result.DistanceMeters)
	}
	if len(result.Geometry) < 2 {
		t.Fatalf("geometry points = %d, want >= 2", len(result.Geometry))
	}
	if len(result.Alternatives) != 1 || result.Alternatives[0].DurationSeconds != 420 {
		t.Fatalf("alternatives = %+v, want the single valid one", result.Alternatives)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", result.Warnings)
	}

	calls := provider.Calls()
	if len(calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(calls))
	}
	if calls[0].From != downtownLA || calls[0].To != westShelterLoc {
		t.Fatalf("provider called with %+v -> %+v", calls[0].From, calls[0].To)
	}
	if !calls[0].Options.Alternatives || !calls[0].Options.ExcludeFerries {
		t.Fatalf("options = %+v, want defaults forwarded", calls[0].Options)
	}
	if len(calls[0].Options.AvoidPoints) != 0 {
		t.Fatalf("avoid points = %v, want none without ExcludeFireAreas", calls[0].Options.AvoidPoints)
	}
}

func TestFindSafestRouteWarnsWhenDestinationClosed(t *testing.T) {
	destinations := laShelters()
	destinations[0].IsOpen = false
	provider := routing.NewMockRouteProvider(routing.StraightLine(downtownLA, northShelterLoc, 2700, 300))

	result, err := FindSafestRoute(context.Background(), SafeRouteRequest{Start: downtownLA, Destinations: destinations}, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Destination.ID != "north" {
		t.Fatalf("destination = %q, want north", result.Destination.ID)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want closed-destination warning", result.Warnings)
	}
}

func TestFindSafestRouteForwardsFireAvoidPoints(t *testing.T) {
	provider := routing.NewMockRouteProvider(routing.StraightLine(downtownLA, westShelterLoc, 3500, 600))

	near := domain.Coordinate{Lat: 34.1039, Lng: -118.2400}
	far := domain.Coordinate{Lat: 35.0, Lng: -119.0}
	yes := true
	req := SafeRouteRequest{
		Start:        downtownLA,
		Destinations: laShelters(),
		Fires: []domain.FireDetection{
			fireAt(far, "40"),
			{Latitude: 200, Longitude: 0},
			fireAt(near, "90"),
		},
		Options: domain.RouteOptions{ExcludeFireAreas: &yes},
	}

	if _, err := FindSafestRoute(context.Background(), req, provider); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	avoid := provider.Calls()[0].Options.AvoidPoints
	if len(avoid) != 2 {
		t.Fatalf("avoid points = %v, want 2 valid fires", avoid)
	}
	if avoid[0] != near || avoid[1] != far {
		t.Fatalf("avoid points = %v, want nearest fire first", avoid)
	}
}

func TestFireAvoidPointsCap(t *testing.T) {
	fires := make([]domain.FireDetection, 0, 80)
	for i := 0; i < 80; i++ {
		fires = append(fires, fireAt(domain.Coordinate{Lat: 35 + float64(i)/100, Lng: -119}, "50"))
	}
	existing := []domain.Coordinate{{Lat: 1, Lng: 1}}

	got := fireAvoidPoints(downtownLA, westShelterLoc, fires, existing)
	if len(got) != maxAvoidPoints {
		t.Fatalf("avoid points = %d, want %d", len(got), maxAvoidPoints)
	}
	if got[0] != existing[0] {
		t.Fatalf("first avoid point = %v, want caller-supplied point kept first", got[0])
	}
}

func TestFindSafestRouteConcurrentCalls(t *testing.T) {
	provider := routing.NewMockRouteProvider(routing.StraightLine(downtownLA, westShelterLoc, 3500, 600))
	excludeFires := true
	req := SafeRouteRequest{
		Start:        downtownLA,
		Destinations: laShelters(),
		Fires:        []domain.FireDetection{fireAt(domain.Coordinate{Lat: 34.1039, Lng: -118.2400}, "80")},
		Options:      domain.RouteOptions{Alternatives: true, ExcludeFireAreas: &excludeFires},
	}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := FindSafestRoute(context.Background(), req, provider)
			if err != nil {
				errs <- err
				return
			}
			if result.Destination.ID != "west" {
				errs <- errors.New("destination = " + result.Destination.ID + ", want west")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent call failed: %v", err)
	}

	calls := provider.Calls()
	if len(calls) != workers {
		t.Fatalf("provider calls = %d, want %d", len(calls), workers)
	}
	for _, c := range calls {
		if len(c.Options.AvoidPoints) != 1 {
			t.Fatalf("avoid points = %v, want 1", c.Options.AvoidPoints)
		}
	}
	if req.Options.AvoidPoints != nil {
		t.Fatalf("request options mutated: %v", req.Options.AvoidPoints)
	}
}
