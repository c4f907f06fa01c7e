package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/logger"
)

func testPool() []*db.Salon {
	return []*db.Salon{
		{
			Id:           1,
			Name:         "Ada Kuaför",
			City:         "İstanbul",
			District:     "Kadıköy",
			Address:      "Bağdat Caddesi No:12, Kadıköy/İstanbul",
			CategoryID:   1,
			CategoryName: "Kuaför",
			CategorySlug: "kuafor",
			Sponsored:    true,
			Rating:       4.8,
		},
		{
			Id:           2,
			Name:         "Beta Berber",
			City:         "Ankara",
			District:     "Çankaya",
			Address:      "Tunalı Hilmi Caddesi 5",
			CategoryID:   2,
			CategoryName: "Erkek Kuaförü",
			CategorySlug: "erkek-kuaforu",
			Rating:       4.2,
		},
		{
			Id:           3,
			Name:         "Gamma Güzellik",
			City:         "İstanbul",
			District:     "Şişli",
			Address:      "Halaskargazi Caddesi 101",
			CategoryID:   3,
			CategoryName: "Güzellik Merkezi",
			CategorySlug: "guzellik-merkezi",
			Rating:       3.9,
		},
	}
}

func testServices() ServiceNames {
	return ServiceNames{
		2: {"saç kesimi", "sakal tıraşı"},
		3: {"ada çayı ritüeli", "cilt bakımı"},
	}
}

func names(salons []*db.Salon) []string {
	out := make([]string, 0, len(salons))
	for _, s := range salons {
		out = append(out, s.Name)
	}
	return out
}

func TestFilterByCity(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	got := engine.Filter(testPool(), testServices(), NewCriteria().WithCity("İstanbul"))
	assert.Equal(t, []string{"Ada Kuaför", "Gamma Güzellik"}, names(got))

	got = engine.Filter(testPool(), testServices(), NewCriteria().WithCity("istanbul"))
	assert.Equal(t, []string{"Ada Kuaför", "Gamma Güzellik"}, names(got), "city match must survive Turkish case folding")
}

func TestFilterCityAndDistrictConjunction(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	got := engine.Filter(testPool(), testServices(),
		NewCriteria().WithCity("İstanbul").WithDistrict("Kadıköy"))
	assert.Equal(t, []string{"Ada Kuaför"}, names(got))

	got = engine.Filter(testPool(), testServices(),
		NewCriteria().WithCity("İstanbul").WithDistrict("Çankaya"))
	assert.Empty(t, got, "conjunction: Çankaya is not in İstanbul")
}

func TestFilterAddressFallback(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	// A record with the city only in its free-text address still matches.
	pool := []*db.Salon{{
		Id:      9,
		Name:    "Delta Salon",
		City:    "",
		Address: "Moda Caddesi 3, Kadıköy, İstanbul",
	}}

	got := engine.Filter(pool, nil, NewCriteria().WithCity("İstanbul"))
	require.Len(t, got, 1)

	got = engine.Filter(pool, nil, NewCriteria().WithDistrict("Kadıköy"))
	require.Len(t, got, 1)
}

func TestFilterByCategory(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	t.Run("slug match", func(t *testing.T) {
		got := engine.Filter(testPool(), testServices(), NewCriteria().WithCategorySlug("kuafor"))
		assert.Contains(t, names(got), "Ada Kuaför")
	})

	t.Run("synonym match", func(t *testing.T) {
		// "berber" is not Beta's slug, but "Erkek Kuaförü" is a listed
		// variant in the synonym table.
		got := engine.Filter(testPool(), testServices(), NewCriteria().WithCategorySlug("berber"))
		assert.Equal(t, []string{"Beta Berber"}, names(got))
	})

	t.Run("unknown slug matches nothing", func(t *testing.T) {
		got := engine.Filter(testPool(), testServices(), NewCriteria().WithCategorySlug("dovmeci"))
		assert.Empty(t, got)
	})
}

func TestFilterTermModeDispatch(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	t.Run("name mode ignores services", func(t *testing.T) {
		// "Ada Kuaför" matches by name; Gamma only offers an "ada çayı"
		// service, which name mode must not consider.
		got := engine.Filter(testPool(), testServices(),
			NewCriteria().WithTerm("ada").WithMode(ModeName))
		assert.Equal(t, []string{"Ada Kuaför"}, names(got))
	})

	t.Run("service mode matches cached service names", func(t *testing.T) {
		got := engine.Filter(testPool(), testServices(),
			NewCriteria().WithTerm("ada").WithMode(ModeService))
		assert.Equal(t, []string{"Gamma Güzellik"}, names(got))
	})

	t.Run("unscoped matches both", func(t *testing.T) {
		got := engine.Filter(testPool(), testServices(),
			NewCriteria().WithTerm("ada"))
		assert.Equal(t, []string{"Ada Kuaför", "Gamma Güzellik"}, names(got))
	})
}

func TestFilterPreservesOrder(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	// Sponsored-first ordering comes from the store; an unscoped term that
	// matches everything must hand it back untouched.
	got := engine.Filter(testPool(), testServices(), NewCriteria().WithTerm("caddesi"))
	assert.Equal(t, []string{"Ada Kuaför", "Beta Berber", "Gamma Güzellik"}, names(got))
}

func TestFilterEmptyCriteriaReturnsAll(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	pool := testPool()
	got := engine.Filter(pool, nil, NewCriteria())
	assert.Equal(t, len(pool), len(got))
}

func TestFilterTolerantOfMissingFields(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	// A bare record must fail predicates quietly, never panic.
	pool := []*db.Salon{{Id: 7, Name: "Nameless"}, nil}

	assert.Empty(t, engine.Filter(pool, nil, NewCriteria().WithCity("İstanbul")))
	assert.Empty(t, engine.Filter(pool, nil, NewCriteria().WithCategorySlug("kuafor")))
	got := engine.Filter(pool, nil, NewCriteria().WithTerm("nameless"))
	assert.Len(t, got, 1)
}
