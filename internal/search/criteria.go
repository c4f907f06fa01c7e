package search

import "net/url"

// Mode says which fields a free-text term is matched against.
type Mode string

const (
	// ModeAll is the unscoped default: name, category, address and
	// service names all count.
	ModeAll Mode = "all"
	// ModeName matches salon names only.
	ModeName Mode = "salon"
	// ModeCategory matches category names, addresses and service names.
	ModeCategory Mode = "category"
	// ModeService matches the same fields as ModeCategory; the two differ
	// only in which suggestion pool they scan.
	ModeService Mode = "service"
)

// ParseMode maps a wire value to a Mode. Unknown or empty input falls back
// to the unscoped default.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeName, ModeCategory, ModeService:
		return Mode(s)
	default:
		return ModeAll
	}
}

// sentinelAll is the URL value meaning "no filter" for city and category.
const sentinelAll = "all"

// Criteria is an immutable search state value. The HTTP layer builds one
// per request from URL query parameters; the engines are pure functions of
// it. Zero value means "match everything".
type Criteria struct {
	Term         string
	City         string
	District     string
	CategorySlug string
	Mode         Mode
}

// NewCriteria returns empty criteria in the default mode.
func NewCriteria() Criteria {
	return Criteria{Mode: ModeAll}
}

// Fluent builders. Each returns a copy, keeping Criteria a value.

func (c Criteria) WithTerm(term string) Criteria {
	c.Term = term
	return c
}

func (c Criteria) WithCity(city string) Criteria {
	c.City = city
	return c
}

func (c Criteria) WithDistrict(district string) Criteria {
	c.District = district
	return c
}

func (c Criteria) WithCategorySlug(slug string) Criteria {
	c.CategorySlug = slug
	return c
}

func (c Criteria) WithMode(mode Mode) Criteria {
	c.Mode = mode
	return c
}

// IsEmpty reports whether the criteria impose no conditions.
func (c Criteria) IsEmpty() bool {
	return c.Term == "" && c.City == "" && c.District == "" && c.CategorySlug == ""
}

// ParseCriteria reads search state from URL query parameters, the source of
// truth for shareable links: type (category slug), search (free text),
// city, district, mode. Absent parameters and the "all" sentinel both mean
// "no filter".
func ParseCriteria(values url.Values) Criteria {
	c := NewCriteria()

	if slug := values.Get("type"); slug != "" && slug != sentinelAll {
		c.CategorySlug = slug
	}
	if city := values.Get("city"); city != "" && city != sentinelAll {
		c.City = city
	}
	c.District = values.Get("district")
	c.Term = values.Get("search")
	c.Mode = ParseMode(values.Get("mode"))

	return c
}

// Values renders the criteria back into URL query parameters, URL-encoding
// the free-text term. Used to build outbound navigation links.
func (c Criteria) Values() url.Values {
	values := url.Values{}

	if c.CategorySlug != "" {
		values.Set("type", c.CategorySlug)
	}
	if c.City != "" {
		values.Set("city", c.City)
	}
	if c.District != "" {
		values.Set("district", c.District)
	}
	if c.Term != "" {
		values.Set("search", c.Term)
	}
	if c.Mode != ModeAll {
		values.Set("mode", string(c.Mode))
	}

	return values
}
