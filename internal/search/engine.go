package search

import (
	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/geo"
	"github.com/salonatlas/salon-service/internal/logger"
)

// ServiceNames caches the service names each salon offers, keyed by salon
// id. The dataloader populates it; a salon missing here simply has no
// service names to match against.
type ServiceNames map[int64][]string

// Engine filters the in-memory salon pool. All predicates are conjunctive:
// a salon must pass every active criterion. The engine never re-sorts:
// the store delivers salons in serving order (sponsored first, then rating
// descending) and that order is preserved.
type Engine struct {
	log logger.Logger
}

// NewEngine creates a filter engine.
func NewEngine(log logger.Logger) *Engine {
	return &Engine{log: log}
}

// Filter returns the subset of salons matching the criteria, in input
// order. Absent fields on a salon are treated as empty strings: a record
// with no category or address fails the predicates that need them instead
// of crashing.
func (e *Engine) Filter(salons []*db.Salon, services ServiceNames, c Criteria) []*db.Salon {
	if c.IsEmpty() {
		return salons
	}

	matched := make([]*db.Salon, 0, len(salons))
	for _, salon := range salons {
		if salon == nil {
			continue
		}
		if !matchPlace(salon.City, salon.Address, c.City) {
			continue
		}
		if !matchPlace(salon.District, salon.Address, c.District) {
			continue
		}
		if !matchCategory(salon, c.CategorySlug) {
			continue
		}
		if !matchTerm(salon, services[salon.Id], c.Term, c.Mode) {
			continue
		}
		matched = append(matched, salon)
	}

	e.log.Debug("filter applied",
		"pool_size", len(salons),
		"matched", len(matched),
		"term", c.Term,
		"city", c.City,
		"district", c.District,
		"category", c.CategorySlug,
		"mode", c.Mode,
	)

	return matched
}

// matchPlace is the shared two-tier rule for city and district: the
// structured field must equal the target, or the free-text address must
// contain it. The address fallback covers records whose place names live
// only in the address line.
func matchPlace(field, address, target string) bool {
	if target == "" {
		return true
	}
	return geo.Equal(field, target) || containsNonEmpty(address, target)
}

// matchCategory checks the slug, then the display name, then the closed
// synonym table.
func matchCategory(salon *db.Salon, slug string) bool {
	if slug == "" {
		return true
	}
	if geo.Equal(salon.CategorySlug, slug) {
		return true
	}
	if containsNonEmpty(salon.CategoryName, slug) {
		return true
	}
	return synonymMatch(slug, salon.CategoryName)
}

// matchTerm applies the free-text predicate for the active mode.
func matchTerm(salon *db.Salon, serviceNames []string, term string, mode Mode) bool {
	if term == "" {
		return true
	}

	switch mode {
	case ModeName:
		return containsNonEmpty(salon.Name, term)
	case ModeCategory, ModeService:
		return containsNonEmpty(salon.CategoryName, term) ||
			containsNonEmpty(salon.Address, term) ||
			anyContains(serviceNames, term)
	default:
		return containsNonEmpty(salon.Name, term) ||
			containsNonEmpty(salon.CategoryName, term) ||
			containsNonEmpty(salon.Address, term) ||
			anyContains(serviceNames, term)
	}
}

// containsNonEmpty is geo.Contains with an empty haystack failing instead
// of vacuously matching.
func containsNonEmpty(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return geo.Contains(haystack, needle)
}

func anyContains(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if containsNonEmpty(h, needle) {
			return true
		}
	}
	return false
}
