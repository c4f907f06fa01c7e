package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCoords(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"istanbul", 41.0082, 28.9784, true},
		{"ankara", 39.9334, 32.8597, true},
		{"zero pair", 0, 0, false},
		{"latitude out of box", 91, 28, false},
		{"longitude out of box", 41, 120, false},
		{"nan latitude", math.NaN(), 28, false},
		{"nan longitude", 41, math.NaN(), false},
		{"infinite latitude", math.Inf(1), 28, false},
		{"south of box", 34.9, 30, false},
		{"edge of box", 35.0, 25.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCoords(tt.lat, tt.lng))
		})
	}
}

func TestCityCenter(t *testing.T) {
	p, ok := CityCenter("İSTANBUL")
	assert.True(t, ok)
	assert.Equal(t, DefaultCenter, p)

	_, ok = CityCenter("atlantis")
	assert.False(t, ok)

	_, ok = CityCenter("")
	assert.False(t, ok)
}

func TestResolveMapCenter(t *testing.T) {
	valid := Point{Lat: 40.9909, Lng: 29.0303}
	invalid := Point{Lat: 0, Lng: 0}

	t.Run("first result wins", func(t *testing.T) {
		got := ResolveMapCenter(&valid, "Ankara")
		assert.Equal(t, valid, got)
	})

	t.Run("invalid first result falls through to city", func(t *testing.T) {
		got := ResolveMapCenter(&invalid, "Ankara")
		ankara, _ := CityCenter("ankara")
		assert.Equal(t, ankara, got)
	})

	t.Run("no result and no known city yields default", func(t *testing.T) {
		got := ResolveMapCenter(nil, "atlantis")
		assert.Equal(t, DefaultCenter, got)
	})

	t.Run("nothing at all yields default", func(t *testing.T) {
		got := ResolveMapCenter(nil, "")
		assert.Equal(t, DefaultCenter, got)
	})
}
