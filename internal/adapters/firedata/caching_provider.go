package firedata

import (
	"context"
	"log"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/platform/metrics"
	"wildfire-evac-service/internal/ports"
)

// CachingProvider serves the latest snapshot of a window from a cache and
// falls through to Source on a miss. A fresh fetch replaces the cached
// snapshot wholesale. Cache failures are logged and never surface to callers.
type CachingProvider struct {
	Source ports.FireDataProvider
	Cache  ports.FireSnapshotCache
}

func NewCachingProvider(source ports.FireDataProvider, cache ports.FireSnapshotCache) *CachingProvider {
	return &CachingProvider{Source: source, Cache: cache}
}

func (c *CachingProvider) FetchFires(ctx context.Context, bounds domain.Bounds) ([]domain.FireDetection, error) {
	if c.Cache != nil {
		fires, ok, err := c.Cache.Get(ctx, bounds)
		switch {
		case err != nil:
			metrics.FireCacheLookups.WithLabelValues("error").Inc()
			log.Printf("fire snapshot cache read failed: %v", err)
		case ok:
			metrics.FireCacheLookups.WithLabelValues("hit").Inc()
			return fires, nil
		default:
			metrics.FireCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	fires, err := c.Source.FetchFires(ctx, bounds)
	if err != nil {
		return fires, err
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, bounds, fires); err != nil {
			log.Printf("fire snapshot cache write failed: %v", err)
		}
	}

	return fires, nil
}
