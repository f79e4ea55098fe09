package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"wildfire-evac-service/internal/adapters/cache"
	"wildfire-evac-service/internal/adapters/firedata"
	"wildfire-evac-service/internal/adapters/repositories"
	"wildfire-evac-service/internal/adapters/routing"
	"wildfire-evac-service/internal/api"
	"wildfire-evac-service/internal/config"
	"wildfire-evac-service/internal/platform/db"
	"wildfire-evac-service/internal/platform/report"
	"wildfire-evac-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run is the application composition root.
// It wires concrete adapters (catalog, FIRMS, Mapbox, Redis) behind ports and serves HTTP
// until a signal arrives or the listener fails. Deferred cleanup always runs.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if report.Setup(cfg.Sentry.DSN, cfg.Sentry.Environment, version) {
		defer report.Flush()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, closeCatalog, err := openCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeCatalog()

	routes, err := routing.NewMapboxDirectionsProvider(cfg.Routing.MapboxToken, cfg.Routing.BaseURL, cfg.Routing.Timeout)
	if err != nil {
		return err
	}

	fires, closeFires := openFireSource(cfg)
	defer closeFires()

	router := api.NewRouter(api.Deps{
		Catalog:               catalog,
		Fires:                 fires,
		Routes:                routes,
		SafetyRadiusMeters:    cfg.Safety.RadiusMeters,
		FireQueryRadiusMeters: cfg.FIRMS.QueryRadiusMeters,
	})

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	if err := serve(ctx, srv, 15*time.Second); err != nil {
		report.Report(err, report.Options{Tags: map[string]string{"component": "server"}})
		return err
	}
	return nil
}

// serve runs srv until ctx is done, then shuts it down within grace.
// A listener failure is returned instead of exiting the process.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=%s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}

// openCatalog prefers Postgres when a database URL is configured and falls
// back to the JSON file otherwise.
func openCatalog(ctx context.Context, cfg config.CatalogConfig) (ports.DestinationCatalog, func(), error) {
	if cfg.DatabaseURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		conn, err := db.Open(pingCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Destination catalog source=postgres")
		return repositories.NewPGDestinationCatalog(conn), closer(conn), nil
	}

	catalog, err := repositories.NewJSONDestinationCatalog(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Destination catalog source=json path=%s", cfg.Path)
	return catalog, func() {}, nil
}

// openFireSource returns nil when no FIRMS key is set; requests that omit
// fires then carry a fire-data warning instead of failing.
func openFireSource(cfg *config.Config) (ports.FireDataProvider, func()) {
	if cfg.FIRMS.MapKey == "" {
		log.Println("FIRMS disabled (no map key configured)")
		return nil, func() {}
	}

	firms := firedata.NewFIRMSProvider(
		cfg.FIRMS.MapKey, cfg.FIRMS.BaseURL, cfg.FIRMS.Source, cfg.FIRMS.DayRange, cfg.FIRMS.Timeout,
	)

	if cfg.Redis.URL == "" {
		return firms, func() {}
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Printf("invalid redis.url, fire snapshots will not be cached: %v", err)
		return firms, func() {}
	}
	client := redis.NewClient(opts)
	log.Printf("Fire snapshot cache enabled ttl=%s", cfg.Redis.FireTTL)

	return firedata.NewCachingProvider(firms, cache.NewRedisFireCache(client, cfg.Redis.FireTTL)), closer(client)
}

type closable interface{ Close() error }

func closer(c closable) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}
}
