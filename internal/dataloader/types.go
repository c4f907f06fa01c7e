package dataloader

import (
	"time"

	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/search"
	"github.com/salonatlas/salon-service/internal/search/suggest"
)

// Snapshot is one consistent view of the serving pools. Snapshots are
// immutable once installed; a reload builds a fresh one and swaps it in.
type Snapshot struct {
	Salons       []*db.Salon
	Categories   []*db.Category
	Services     []*db.Service
	ServiceNames search.ServiceNames
	LoadedAt     time.Time
}

// Pools adapts the snapshot for the suggestion engine.
func (s *Snapshot) Pools() suggest.Pools {
	return suggest.Pools{
		Salons:       s.Salons,
		Categories:   s.Categories,
		Services:     s.Services,
		ServiceNames: s.ServiceNames,
	}
}

// LoadStats summarizes one load for logging and the sync status endpoint.
type LoadStats struct {
	Salons         int           `json:"salons"`
	Categories     int           `json:"categories"`
	Services       int           `json:"services"`
	FailedSalons   int           `json:"failed_salon_service_fetches"`
	Duration       time.Duration `json:"duration"`
	LoadedAt       time.Time     `json:"loaded_at"`
	PartialFailure bool          `json:"partial_failure"`
}
