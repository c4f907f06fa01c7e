package dataloader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/logger"
)

type fakeStore struct {
	salons      []*db.Salon
	categories  []*db.Category
	services    []*db.Service
	names       map[int64][]string
	failSalonID int64
	salonsErr   error
}

func (f *fakeStore) GetSalons(ctx context.Context) ([]*db.Salon, error) {
	return f.salons, f.salonsErr
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]*db.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) ListServices(ctx context.Context) ([]*db.Service, error) {
	return f.services, nil
}

func (f *fakeStore) GetServiceNamesBySalon(ctx context.Context, salonID int64) ([]string, error) {
	if salonID == f.failSalonID {
		return nil, errors.New("connection reset")
	}
	return f.names[salonID], nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		salons: []*db.Salon{
			{Id: 1, Name: "Ada Kuaför"},
			{Id: 2, Name: "Beta Berber"},
			{Id: 3, Name: "Gamma Güzellik"},
		},
		categories: []*db.Category{{Id: 1, Name: "Kuaför", Slug: "kuafor"}},
		services:   []*db.Service{{Id: 1, Name: "Saç Kesimi"}},
		names: map[int64][]string{
			1: {"saç kesimi"},
			2: {"sakal tıraşı"},
			3: {"cilt bakımı"},
		},
	}
}

func TestLoadBuildsSnapshot(t *testing.T) {
	loader := NewLoader(newFakeStore(), logger.NewNop())

	require.Nil(t, loader.Snapshot(), "no snapshot before first load")
	require.NoError(t, loader.Load(context.Background()))

	snap := loader.Snapshot()
	require.NotNil(t, snap)
	assert.Len(t, snap.Salons, 3)
	assert.Len(t, snap.Categories, 1)
	assert.Len(t, snap.Services, 1)
	assert.Equal(t, []string{"saç kesimi"}, snap.ServiceNames[1])
	assert.False(t, loader.Stats().PartialFailure)
}

func TestLoadPartialFailureIsolation(t *testing.T) {
	store := newFakeStore()
	store.failSalonID = 2

	loader := NewLoader(store, logger.NewNop())
	require.NoError(t, loader.Load(context.Background()), "one failing salon must not fail the batch")

	snap := loader.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, []string{}, snap.ServiceNames[2], "failed fetch substitutes an empty list")
	assert.Equal(t, []string{"saç kesimi"}, snap.ServiceNames[1])
	assert.Equal(t, []string{"cilt bakımı"}, snap.ServiceNames[3])

	stats := loader.Stats()
	assert.True(t, stats.PartialFailure)
	assert.Equal(t, 1, stats.FailedSalons)
}

func TestLoadPoolFailureKeepsPreviousSnapshot(t *testing.T) {
	store := newFakeStore()
	loader := NewLoader(store, logger.NewNop())
	require.NoError(t, loader.Load(context.Background()))
	first := loader.Snapshot()

	store.salonsErr = errors.New("db down")
	err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Same(t, first, loader.Snapshot(), "failed reload must not clobber the serving snapshot")
}
