package suggest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/salonatlas/salon-service/internal/search"
)

// MinQueryLength is the activation gate: shorter queries yield an empty,
// closed suggestion list.
const MinQueryLength = 2

// MaxSuggestions caps every suggestion kind. The cap is uniform on purpose:
// an uncapped salon-name list on a large pool is just scroll noise.
const MaxSuggestions = 10

// Request asks for completions of a partial query in the active mode.
// City is carried through so category and service targets preserve the
// selected city.
type Request struct {
	Query      string
	Mode       search.Mode
	City       string
	MaxResults int
}

// Normalize fills defaults and clamps MaxResults to the uniform cap.
func (r *Request) Normalize() {
	r.Query = strings.TrimSpace(r.Query)
	if r.MaxResults <= 0 || r.MaxResults > MaxSuggestions {
		r.MaxResults = MaxSuggestions
	}
}

// Active reports whether the query is long enough to produce suggestions.
func (r *Request) Active() bool {
	return utf8.RuneCountInString(strings.TrimSpace(r.Query)) >= MinQueryLength
}

// Kind tags the suggestion union.
type Kind string

const (
	KindSalon    Kind = "salon"
	KindCategory Kind = "category"
	KindService  Kind = "service"
)

// Suggestion is one completion candidate. Exactly one of the navigation
// keys is meaningful per kind: SalonID for salons, CategorySlug for
// categories, the text itself for services. Target is the ready-made
// navigation link for the kind's dispatch rule.
type Suggestion struct {
	Text         string `json:"text"`
	Kind         Kind   `json:"kind"`
	SalonID      *int64 `json:"salon_id,omitempty"`
	CategorySlug string `json:"category_slug,omitempty"`
	Target       string `json:"target"`
}

// Response is the suggestion list for a query.
type Response struct {
	Suggestions []Suggestion `json:"suggestions"`
	Query       string       `json:"query"`
	Total       int          `json:"total"`
}

// Selection dispatch, expressed as targets. A salon suggestion navigates to
// the detail view; a category suggestion to the listing view scoped to its
// slug; a service suggestion to the listing view with the text as the term
// and mode forced to service. City, when selected, rides along.

func salonTarget(id int64) string {
	return fmt.Sprintf("/api/v1/salons/%d", id)
}

func categoryTarget(slug, city string) string {
	c := search.NewCriteria().WithCategorySlug(slug).WithCity(city)
	return "/api/v1/salons?" + c.Values().Encode()
}

func serviceTarget(name, city string) string {
	c := search.NewCriteria().WithTerm(name).WithMode(search.ModeService).WithCity(city)
	return "/api/v1/salons?" + c.Values().Encode()
}
