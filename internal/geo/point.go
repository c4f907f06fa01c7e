package geo

import "math"

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounding box for Turkey. Anything outside is treated as bad data from the
// source records, not as a faraway salon.
const (
	MinLat = 35.0
	MaxLat = 43.0
	MinLng = 25.0
	MaxLng = 46.0
)

// ValidCoords reports whether the pair is usable: both finite, not exactly
// (0,0) and inside the bounding box. Invalid input yields false, never an
// error; every downstream geo computation is guarded by this check.
func ValidCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= MinLat && lat <= MaxLat && lng >= MinLng && lng <= MaxLng
}

// Valid reports whether the point passes ValidCoords.
func (p Point) Valid() bool {
	return ValidCoords(p.Lat, p.Lng)
}
