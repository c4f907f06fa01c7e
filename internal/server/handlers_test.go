package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonatlas/salon-service/internal/config"
	"github.com/salonatlas/salon-service/internal/dataloader"
	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/logger"
	"github.com/salonatlas/salon-service/internal/search"
	"github.com/salonatlas/salon-service/internal/search/suggest"
)

const testAdminToken = "test-token"

func ptr(f float64) *float64 { return &f }

func testSalons() []*db.Salon {
	return []*db.Salon{
		{
			Id: 1, Name: "Ada Kuaför", CategoryName: "Kuaför", CategorySlug: "kuafor",
			City: "İstanbul", District: "Kadıköy", Address: "Moda Cad. 12",
			Lat: ptr(40.9876), Lng: ptr(29.0301), Sponsored: true, Rating: 4.8,
		},
		{
			Id: 2, Name: "Beta Berber", CategoryName: "Erkek Kuaförü", CategorySlug: "berber",
			City: "Ankara", District: "Çankaya", Address: "Tunalı Hilmi 8",
			Rating: 4.2,
		},
	}
}

type fakeSnapshots struct {
	snap *dataloader.Snapshot
}

func (f *fakeSnapshots) Snapshot() *dataloader.Snapshot { return f.snap }
func (f *fakeSnapshots) Stats() dataloader.LoadStats    { return dataloader.LoadStats{} }

// fakeStore embeds the interface so only the methods a test needs have to
// be implemented; calling anything else panics loudly.
type fakeStore struct {
	db.Store

	salon        *db.Salon
	positionLat  *float64
	positionLng  *float64
	positionSets int
}

func (f *fakeStore) GetSalonByID(ctx context.Context, id int64) (*db.Salon, error) {
	return f.salon, nil
}

func (f *fakeStore) UpdateSalonPosition(ctx context.Context, id int64, lat, lng float64) error {
	f.positionSets++
	f.positionLat = &lat
	f.positionLng = &lng
	return nil
}

func newTestServer(t *testing.T, store db.Store) *Server {
	t.Helper()
	return newTestServerWithSalons(t, store, testSalons())
}

func newTestServerWithSalons(t *testing.T, store db.Store, salons []*db.Salon) *Server {
	t.Helper()

	log := logger.NewNop()
	snap := &dataloader.Snapshot{
		Salons:       salons,
		Categories:   []*db.Category{{Id: 1, Name: "Kuaför", Slug: "kuafor"}},
		ServiceNames: search.ServiceNames{},
	}

	return New(
		config.ServerConfig{Addr: ":0"},
		log,
		store,
		&fakeSnapshots{snap: snap},
		search.NewEngine(log),
		suggest.NewEngine(log),
		nil,
		testAdminToken,
	)
}

func doRequest(s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestListSalonsFiltersByCityAndResolvesCenter(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	rec := doRequest(s, http.MethodGet, "/api/v1/salons?city=istanbul", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListSalonsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Ada Kuaför", resp.Salons[0].Name)

	// The first result carries a valid point, so the map centers on it and
	// its pin lands on the center of the preview.
	assert.InDelta(t, 40.9876, resp.MapCenter.Lat, 1e-9)
	assert.InDelta(t, 29.0301, resp.MapCenter.Lng, 1e-9)
	require.NotNil(t, resp.Salons[0].Pin)
	assert.InDelta(t, 50, resp.Salons[0].Pin.XPct, 1e-9)
	assert.InDelta(t, 50, resp.Salons[0].Pin.YPct, 1e-9)
}

func TestListSalonsFallsBackToCityCenter(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	// Beta Berber has no coordinates; the selected city's reference point
	// takes over.
	rec := doRequest(s, http.MethodGet, "/api/v1/salons?city=Ankara", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListSalonsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, 1, resp.Total)
	assert.InDelta(t, 39.9334, resp.MapCenter.Lat, 1e-9)
	assert.Nil(t, resp.Salons[0].Pin)
}

func TestListSalonsCentersOnCityWhenFirstResultHasNoPoint(t *testing.T) {
	// The first result in serving order has no coordinates; a later result
	// does. The center must fall through to the selected city's reference
	// point, not skip ahead to the later result.
	salons := []*db.Salon{
		{
			Id: 1, Name: "Gamma Güzellik", CategorySlug: "kuafor",
			City: "İstanbul", District: "Şişli", Sponsored: true, Rating: 4.9,
		},
		{
			Id: 2, Name: "Delta Kuaför", CategorySlug: "kuafor",
			City: "İstanbul", District: "Kadıköy",
			Lat: ptr(40.5), Lng: ptr(29.5), Rating: 4.1,
		},
	}
	s := newTestServerWithSalons(t, &fakeStore{}, salons)

	rec := doRequest(s, http.MethodGet, "/api/v1/salons?city=%C4%B0stanbul", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListSalonsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, 2, resp.Total)
	assert.InDelta(t, 41.0082, resp.MapCenter.Lat, 1e-9)
	assert.InDelta(t, 28.9784, resp.MapCenter.Lng, 1e-9)

	// The second result still gets a pin, projected against the city center.
	assert.Nil(t, resp.Salons[0].Pin)
	require.NotNil(t, resp.Salons[1].Pin)
	assert.NotEqual(t, 50.0, resp.Salons[1].Pin.XPct)
}

func TestSuggestionsBelowMinLengthAreEmpty(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	rec := doRequest(s, http.MethodGet, "/api/v1/suggestions?search=a", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggest.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Suggestions)
	assert.Zero(t, resp.Total)
}

func TestAdminRequiresToken(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	rec := doRequest(s, http.MethodPost, "/api/v1/admin/salons/1/geocode", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(s, http.MethodPost, "/api/v1/admin/salons/1/geocode", "", map[string]string{
		"Authorization": "Bearer wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminSetPosition(t *testing.T) {
	store := &fakeStore{salon: testSalons()[0]}
	s := newTestServer(t, store)
	auth := map[string]string{"Authorization": "Bearer " + testAdminToken}

	rec := doRequest(s, http.MethodPost, "/api/v1/admin/salons/1/position",
		`{"x_pct": 60, "y_pct": 40}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, store.positionSets)

	// The click is inverted against the salon's city reference point.
	assert.InDelta(t, 41.0082+1.25, *store.positionLat, 1e-9)
	assert.InDelta(t, 28.9784+1.25, *store.positionLng, 1e-9)
}

func TestAdminSetPositionRejectsOutOfAreaClick(t *testing.T) {
	store := &fakeStore{salon: testSalons()[0]}
	s := newTestServer(t, store)
	auth := map[string]string{"Authorization": "Bearer " + testAdminToken}

	// Far off the preview: the inverted point leaves the service area, so
	// nothing is written.
	rec := doRequest(s, http.MethodPost, "/api/v1/admin/salons/1/position",
		`{"x_pct": 900, "y_pct": 40}`, auth)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, store.positionSets)
}
