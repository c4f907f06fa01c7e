package geo

import (
	"math"
	"math/rand"
)

// projectionScale is the fixed linear scale used to place pins on the map
// preview. Changing it moves every stored pin, so it stays a named constant.
const projectionScale = 8.0

// Project maps a point to percentage screen coordinates relative to a city
// center using the linear forward projection:
//
//	x% = 50 + (lng − centerLng) · k
//	y% = 50 − (lat − centerLat) · k
//
// This is a deliberately crude, non-geodesic approximation: good enough for
// pin placement over a single metropolitan area, wrong at larger scales.
func Project(p, center Point) (xPct, yPct float64) {
	xPct = 50 + (p.Lng-center.Lng)*projectionScale
	yPct = 50 - (p.Lat-center.Lat)*projectionScale
	return xPct, yPct
}

// Unproject inverts Project: a percentage click position inside the map
// preview becomes an approximate point. The inverse is algebraically exact
// for the same center and scale. Returns false for non-finite input or when
// the resulting point fails validation; callers must not mutate state then.
func Unproject(xPct, yPct float64, center Point) (Point, bool) {
	lat := center.Lat + (50-yPct)/projectionScale
	lng := center.Lng + (xPct-50)/projectionScale

	if math.IsNaN(lat) || math.IsNaN(lng) {
		return Point{}, false
	}

	p := Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return Point{}, false
	}
	return p, true
}

// JitterGeocode produces a crude coordinate estimate for a salon with no
// precise address data: the city reference point plus a small pseudo-random
// offset so that multiple salons in one city don't stack on a single pin.
// The seed makes placement reproducible per salon.
func JitterGeocode(city string, seed int64) (Point, bool) {
	center, ok := CityCenter(city)
	if !ok {
		return Point{}, false
	}

	rng := rand.New(rand.NewSource(seed))
	p := Point{
		Lat: center.Lat + (rng.Float64()-0.5)*0.02,
		Lng: center.Lng + (rng.Float64()-0.5)*0.02,
	}
	if !p.Valid() {
		return center, true
	}
	return p, true
}
