package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCriteria(t *testing.T) {
	values := url.Values{}
	values.Set("type", "kuafor")
	values.Set("search", "saç kesimi")
	values.Set("city", "İstanbul")
	values.Set("mode", "service")

	c := ParseCriteria(values)
	assert.Equal(t, "kuafor", c.CategorySlug)
	assert.Equal(t, "saç kesimi", c.Term)
	assert.Equal(t, "İstanbul", c.City)
	assert.Equal(t, ModeService, c.Mode)
}

func TestParseCriteriaSentinelAndAbsent(t *testing.T) {
	values := url.Values{}
	values.Set("type", "all")
	values.Set("city", "all")

	c := ParseCriteria(values)
	assert.Empty(t, c.CategorySlug, `"all" means no category filter`)
	assert.Empty(t, c.City)
	assert.Equal(t, ModeAll, c.Mode, "absent mode falls back to unscoped")
	assert.True(t, c.IsEmpty())
}

func TestParseModeUnknownFallsBack(t *testing.T) {
	assert.Equal(t, ModeAll, ParseMode("bogus"))
	assert.Equal(t, ModeAll, ParseMode(""))
	assert.Equal(t, ModeName, ParseMode("salon"))
}

func TestCriteriaValuesEncodesTerm(t *testing.T) {
	c := NewCriteria().WithTerm("ada çayı").WithCity("İstanbul").WithMode(ModeService)

	encoded := c.Values().Encode()
	assert.Contains(t, encoded, "search=ada+%C3%A7ay%C4%B1")
	assert.Contains(t, encoded, "mode=service")

	// Round-trip through the wire format.
	parsed, err := url.ParseQuery(encoded)
	assert.NoError(t, err)
	assert.Equal(t, c, ParseCriteria(parsed))
}

func TestCriteriaBuildersDoNotMutate(t *testing.T) {
	base := NewCriteria()
	_ = base.WithTerm("x").WithCity("Ankara")
	assert.True(t, base.IsEmpty(), "builders must copy, not mutate")
}
