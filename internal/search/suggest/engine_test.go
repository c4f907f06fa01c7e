package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/logger"
	"github.com/salonatlas/salon-service/internal/search"
)

func testPools() Pools {
	return Pools{
		Salons: []*db.Salon{
			{Id: 1, Name: "Ada Kuaför"},
			{Id: 2, Name: "Adalar Berber"},
			{Id: 3, Name: "Gamma Güzellik"},
		},
		Categories: []*db.Category{
			{Id: 1, Name: "Kuaför", Slug: "kuafor"},
			{Id: 2, Name: "Güzellik Merkezi", Slug: "guzellik-merkezi"},
		},
		Services: []*db.Service{
			{Id: 1, Name: "Saç Kesimi"},
			{Id: 2, Name: "Ada Çayı Ritüeli"},
		},
		ServiceNames: search.ServiceNames{
			3: {"ada çayı ritüeli", "cilt bakımı"},
		},
	}
}

func TestSuggestMinimumLengthGate(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	for _, q := range []string{"", "a", " a ", "ç"} {
		resp := engine.Suggest(testPools(), Request{Query: q})
		assert.Empty(t, resp.Suggestions, "query %q is below the gate", q)
		assert.Zero(t, resp.Total)
	}

	resp := engine.Suggest(testPools(), Request{Query: "ad"})
	assert.NotEmpty(t, resp.Suggestions, "two runes activate suggestions")
}

func TestSuggestSalonMode(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	resp := engine.Suggest(testPools(), Request{Query: "ada", Mode: search.ModeName})
	require.Len(t, resp.Suggestions, 2)

	first := resp.Suggestions[0]
	assert.Equal(t, KindSalon, first.Kind)
	assert.Equal(t, "Ada Kuaför", first.Text)
	require.NotNil(t, first.SalonID)
	assert.Equal(t, int64(1), *first.SalonID)
	assert.Equal(t, "/api/v1/salons/1", first.Target)
}

func TestSuggestCategoryMode(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	resp := engine.Suggest(testPools(), Request{
		Query: "kuaf",
		Mode:  search.ModeCategory,
		City:  "İstanbul",
	})
	require.Len(t, resp.Suggestions, 1)

	s := resp.Suggestions[0]
	assert.Equal(t, KindCategory, s.Kind)
	assert.Equal(t, "kuafor", s.CategorySlug)
	assert.Contains(t, s.Target, "type=kuafor")
	assert.Contains(t, s.Target, "city=%C4%B0stanbul", "selected city must be preserved")
}

func TestSuggestServiceMode(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	resp := engine.Suggest(testPools(), Request{Query: "ada çayı", Mode: search.ModeService})
	require.Len(t, resp.Suggestions, 1, "catalog entry and per-salon variant dedupe to one")

	s := resp.Suggestions[0]
	assert.Equal(t, KindService, s.Kind)
	assert.Equal(t, "Ada Çayı Ritüeli", s.Text, "catalog spelling wins")
	assert.Contains(t, s.Target, "mode=service")
	assert.Contains(t, s.Target, "search=")
}

func TestSuggestServiceModeCap(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	pools := Pools{}
	for i := 0; i < 30; i++ {
		pools.Services = append(pools.Services, &db.Service{
			Id:   int64(i),
			Name: fmt.Sprintf("masaj çeşidi %d", i),
		})
	}

	resp := engine.Suggest(pools, Request{Query: "masaj", Mode: search.ModeService})
	assert.Len(t, resp.Suggestions, MaxSuggestions)

	// The cap is uniform: salon-name mode obeys it too.
	pools = Pools{}
	for i := 0; i < 30; i++ {
		pools.Salons = append(pools.Salons, &db.Salon{Id: int64(i), Name: fmt.Sprintf("Salon %d", i)})
	}
	resp = engine.Suggest(pools, Request{Query: "salon", Mode: search.ModeName})
	assert.Len(t, resp.Suggestions, MaxSuggestions)
}

func TestSuggestUnscopedDefaultsToSalonPool(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	resp := engine.Suggest(testPools(), Request{Query: "gamma"})
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, KindSalon, resp.Suggestions[0].Kind)
}
