package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	center := DefaultCenter
	points := []Point{
		{Lat: 41.0082, Lng: 28.9784},
		{Lat: 41.05, Lng: 29.03},
		{Lat: 40.96, Lng: 28.87},
	}

	for _, p := range points {
		x, y := Project(p, center)
		got, ok := Unproject(x, y, center)
		require.True(t, ok)
		assert.InDelta(t, p.Lat, got.Lat, 1e-9)
		assert.InDelta(t, p.Lng, got.Lng, 1e-9)
	}
}

func TestUnprojectRejectsNaN(t *testing.T) {
	_, ok := Unproject(math.NaN(), 50, DefaultCenter)
	assert.False(t, ok)

	_, ok = Unproject(50, math.NaN(), DefaultCenter)
	assert.False(t, ok)
}

func TestUnprojectRejectsOutOfBox(t *testing.T) {
	// A click mapping far outside Turkey means the center or input is junk.
	_, ok := Unproject(5000, 50, DefaultCenter)
	assert.False(t, ok)
}

func TestUnprojectCenterClick(t *testing.T) {
	got, ok := Unproject(50, 50, DefaultCenter)
	require.True(t, ok)
	assert.Equal(t, DefaultCenter, got)
}

func TestJitterGeocode(t *testing.T) {
	p, ok := JitterGeocode("İstanbul", 42)
	require.True(t, ok)
	assert.True(t, p.Valid())
	assert.InDelta(t, DefaultCenter.Lat, p.Lat, 0.011)
	assert.InDelta(t, DefaultCenter.Lng, p.Lng, 0.011)

	// Same seed, same placement.
	again, _ := JitterGeocode("İstanbul", 42)
	assert.Equal(t, p, again)

	_, ok = JitterGeocode("atlantis", 1)
	assert.False(t, ok)
}
