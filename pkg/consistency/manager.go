package consistency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/salonatlas/salon-service/internal/dataloader"
	"github.com/salonatlas/salon-service/internal/logger"
)

// Counter is the slice of the store the manager needs.
type Counter interface {
	CountSalons(ctx context.Context) (int64, error)
}

// Manager checks for drift between PostgreSQL and the in-memory serving
// snapshot. The snapshot is a cache of the salons table, so admin writes
// that bypass a reload (or a missed refresh tick) show up here.
type Manager struct {
	store  Counter
	loader *dataloader.Loader
	log    logger.Logger

	mu            sync.RWMutex
	lastCheck     *CheckResult
	lastCheckTime time.Time
	checkCacheTTL time.Duration
}

// CheckResult is the outcome of one consistency check.
type CheckResult struct {
	IsConsistent   bool          `json:"is_consistent"`
	SalonsDB       int64         `json:"salons_db"`
	SalonsSnapshot int           `json:"salons_snapshot"`
	SnapshotAge    time.Duration `json:"snapshot_age"`
	CheckDuration  time.Duration `json:"check_duration"`
	Timestamp      time.Time     `json:"timestamp"`
}

// New creates a consistency manager.
func New(store Counter, loader *dataloader.Loader, log logger.Logger) *Manager {
	return &Manager{
		store:         store,
		loader:        loader,
		log:           log,
		checkCacheTTL: 1 * time.Minute,
	}
}

// CheckConsistency compares the salons table against the serving snapshot.
// Results are cached for the TTL so health probes don't hammer the count.
func (m *Manager) CheckConsistency(ctx context.Context) (*CheckResult, error) {
	if result := m.getCachedResult(); result != nil {
		m.log.Debug("returning cached consistency check result")
		return result, nil
	}

	m.log.Debug("starting consistency check")
	start := time.Now()

	result := &CheckResult{
		Timestamp: start,
	}

	dbCount, err := m.store.CountSalons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count salons in database: %w", err)
	}
	result.SalonsDB = dbCount

	snapshot := m.loader.Snapshot()
	if snapshot != nil {
		result.SalonsSnapshot = len(snapshot.Salons)
		result.SnapshotAge = time.Since(snapshot.LoadedAt)
	}

	result.IsConsistent = snapshot != nil && int64(result.SalonsSnapshot) == dbCount
	result.CheckDuration = time.Since(start)

	m.setCachedResult(result)

	m.log.Info("consistency check completed",
		"is_consistent", result.IsConsistent,
		"salons_db", result.SalonsDB,
		"salons_snapshot", result.SalonsSnapshot,
		"snapshot_age", result.SnapshotAge,
		"duration", result.CheckDuration,
	)

	return result, nil
}

// Repair reloads the snapshot and invalidates the cached check result.
func (m *Manager) Repair(ctx context.Context) error {
	m.log.Info("repairing snapshot drift via reload")

	if err := m.loader.Load(ctx); err != nil {
		return fmt.Errorf("failed to reload snapshot: %w", err)
	}

	m.mu.Lock()
	m.lastCheck = nil
	m.mu.Unlock()

	return nil
}

func (m *Manager) getCachedResult() *CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastCheck == nil {
		return nil
	}

	if time.Since(m.lastCheckTime) > m.checkCacheTTL {
		return nil
	}

	return m.lastCheck
}

func (m *Manager) setCachedResult(result *CheckResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCheck = result
	m.lastCheckTime = time.Now()
}

// SetCacheTTL sets how long check results stay cached.
func (m *Manager) SetCacheTTL(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkCacheTTL = ttl
}
