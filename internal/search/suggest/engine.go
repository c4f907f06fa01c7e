package suggest

import (
	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/geo"
	"github.com/salonatlas/salon-service/internal/logger"
	"github.com/salonatlas/salon-service/internal/search"
)

// Pools are the in-memory entity collections the engine scans. The
// dataloader assembles them; the engine never touches the store.
type Pools struct {
	Salons       []*db.Salon
	Categories   []*db.Category
	Services     []*db.Service
	ServiceNames search.ServiceNames
}

// Engine produces autocomplete suggestions. Exactly one pool is scanned
// per request, chosen by the active search mode.
type Engine struct {
	log logger.Logger
}

// NewEngine creates a suggestion engine.
func NewEngine(log logger.Logger) *Engine {
	return &Engine{log: log}
}

// Suggest returns up to MaxResults completions for the request. A query
// below the minimum length yields an empty response, the closed state.
func (e *Engine) Suggest(pools Pools, req Request) Response {
	req.Normalize()

	resp := Response{
		Suggestions: []Suggestion{},
		Query:       req.Query,
	}

	if !req.Active() {
		return resp
	}

	switch req.Mode {
	case search.ModeCategory:
		resp.Suggestions = e.suggestCategories(pools, req)
	case search.ModeService:
		resp.Suggestions = e.suggestServices(pools, req)
	default:
		// Name mode and the unscoped default both complete salon names;
		// direct navigation is the most useful outcome for a bare query.
		resp.Suggestions = e.suggestSalons(pools, req)
	}

	resp.Total = len(resp.Suggestions)

	e.log.Debug("suggestions computed",
		"query", req.Query,
		"mode", req.Mode,
		"count", resp.Total,
	)

	return resp
}

func (e *Engine) suggestSalons(pools Pools, req Request) []Suggestion {
	suggestions := make([]Suggestion, 0, req.MaxResults)

	for _, salon := range pools.Salons {
		if len(suggestions) >= req.MaxResults {
			break
		}
		if salon == nil || !geo.Contains(salon.Name, req.Query) {
			continue
		}
		id := salon.Id
		suggestions = append(suggestions, Suggestion{
			Text:    salon.Name,
			Kind:    KindSalon,
			SalonID: &id,
			Target:  salonTarget(salon.Id),
		})
	}

	return suggestions
}

func (e *Engine) suggestCategories(pools Pools, req Request) []Suggestion {
	suggestions := make([]Suggestion, 0, req.MaxResults)

	for _, category := range pools.Categories {
		if len(suggestions) >= req.MaxResults {
			break
		}
		if category == nil || !geo.Contains(category.Name, req.Query) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Text:         category.Name,
			Kind:         KindCategory,
			CategorySlug: category.Slug,
			Target:       categoryTarget(category.Slug, req.City),
		})
	}

	return suggestions
}

// suggestServices scans the union of the global catalog and every salon's
// cached service names, deduplicated by normalized text. Catalog entries
// come first so canonical spellings win over per-salon variants.
func (e *Engine) suggestServices(pools Pools, req Request) []Suggestion {
	suggestions := make([]Suggestion, 0, req.MaxResults)
	seen := make(map[string]bool)

	add := func(name string) bool {
		if len(suggestions) >= req.MaxResults {
			return false
		}
		key := geo.Normalize(name)
		if key == "" || seen[key] {
			return true
		}
		if !geo.Contains(name, req.Query) {
			return true
		}
		seen[key] = true
		suggestions = append(suggestions, Suggestion{
			Text:   name,
			Kind:   KindService,
			Target: serviceTarget(name, req.City),
		})
		return true
	}

	for _, service := range pools.Services {
		if service == nil {
			continue
		}
		if !add(service.Name) {
			return suggestions
		}
	}

	for _, salon := range pools.Salons {
		if salon == nil {
			continue
		}
		for _, name := range pools.ServiceNames[salon.Id] {
			if !add(name) {
				return suggestions
			}
		}
	}

	return suggestions
}
