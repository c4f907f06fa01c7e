package dataloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/logger"
	"github.com/salonatlas/salon-service/internal/search"
	"github.com/salonatlas/salon-service/pkg/metrics"
)

// serviceFetchWorkers bounds the concurrent per-salon service lookups.
const serviceFetchWorkers = 8

// Storer is the slice of the store the loader needs.
type Storer interface {
	GetSalons(ctx context.Context) ([]*db.Salon, error)
	ListCategories(ctx context.Context) ([]*db.Category, error)
	ListServices(ctx context.Context) ([]*db.Service, error)
	GetServiceNamesBySalon(ctx context.Context, salonID int64) ([]string, error)
}

// Loader populates and holds the serving snapshot. The three pool fetches
// run concurrently and are joined; per-salon service-name fetches also run
// concurrently, and a failing one is logged and replaced with an empty
// list instead of failing the load.
type Loader struct {
	store Storer
	log   logger.Logger

	mu      sync.RWMutex
	current *Snapshot
	stats   LoadStats
}

// NewLoader creates a loader.
func NewLoader(store Storer, log logger.Logger) *Loader {
	return &Loader{
		store: store,
		log:   log,
	}
}

// Snapshot returns the currently installed snapshot, or nil before the
// first successful Load.
func (l *Loader) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Stats returns the stats of the last completed load.
func (l *Loader) Stats() LoadStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Load builds a fresh snapshot and installs it atomically. The previous
// snapshot keeps serving until the swap.
func (l *Loader) Load(ctx context.Context) error {
	start := time.Now()

	var (
		wg         sync.WaitGroup
		salons     []*db.Salon
		categories []*db.Category
		services   []*db.Service
		salonErr   error
		catErr     error
		svcErr     error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		salons, salonErr = l.store.GetSalons(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, catErr = l.store.ListCategories(ctx)
	}()
	go func() {
		defer wg.Done()
		services, svcErr = l.store.ListServices(ctx)
	}()
	wg.Wait()

	if salonErr != nil {
		metrics.RecordSnapshotLoad("error", 0, 0, 0)
		return fmt.Errorf("failed to load salons: %w", salonErr)
	}
	if catErr != nil {
		metrics.RecordSnapshotLoad("error", 0, 0, 0)
		return fmt.Errorf("failed to load categories: %w", catErr)
	}
	if svcErr != nil {
		metrics.RecordSnapshotLoad("error", 0, 0, 0)
		return fmt.Errorf("failed to load service catalog: %w", svcErr)
	}

	serviceNames, failed := l.loadServiceNames(ctx, salons)

	snapshot := &Snapshot{
		Salons:       salons,
		Categories:   categories,
		Services:     services,
		ServiceNames: serviceNames,
		LoadedAt:     time.Now(),
	}

	stats := LoadStats{
		Salons:         len(salons),
		Categories:     len(categories),
		Services:       len(services),
		FailedSalons:   failed,
		Duration:       time.Since(start),
		LoadedAt:       snapshot.LoadedAt,
		PartialFailure: failed > 0,
	}

	l.mu.Lock()
	l.current = snapshot
	l.stats = stats
	l.mu.Unlock()

	loadStatus := "success"
	if failed > 0 {
		loadStatus = "partial"
	}
	metrics.RecordSnapshotLoad(loadStatus, stats.Salons, stats.Categories, stats.Services)

	if failed > 0 {
		l.log.Warn("snapshot loaded with partial service-name failures",
			"salons", stats.Salons,
			"categories", stats.Categories,
			"services", stats.Services,
			"failed_fetches", failed,
			"duration", stats.Duration,
		)
	} else {
		l.log.Info("snapshot loaded",
			"salons", stats.Salons,
			"categories", stats.Categories,
			"services", stats.Services,
			"duration", stats.Duration,
		)
	}

	return nil
}

// loadServiceNames fetches each salon's service names concurrently. One
// salon's failure must not block the others: the failed entry gets an
// empty list and the batch continues.
func (l *Loader) loadServiceNames(ctx context.Context, salons []*db.Salon) (search.ServiceNames, int) {
	names := make(search.ServiceNames, len(salons))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	sem := make(chan struct{}, serviceFetchWorkers)

	for _, salon := range salons {
		if salon == nil {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(id int64) {
			defer wg.Done()
			defer func() { <-sem }()

			list, err := l.store.GetServiceNamesBySalon(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.log.Warn("failed to fetch service names, substituting empty list",
					"salon_id", id,
					"error", err,
				)
				names[id] = []string{}
				failed++
				return
			}
			names[id] = list
		}(salon.Id)
	}
	wg.Wait()

	return names, failed
}

// Run reloads the snapshot on the given interval until the context is
// cancelled. A failing reload keeps the previous snapshot serving.
func (l *Loader) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("snapshot refresh stopped")
			return
		case <-ticker.C:
			if err := l.Load(ctx); err != nil {
				l.log.Error("snapshot refresh failed, keeping previous snapshot", "error", err)
			}
		}
	}
}
