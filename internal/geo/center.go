package geo

// ResolveMapCenter picks the display coordinate for the map. Priority:
// the first filtered result's point, then the selected city's reference
// point, then DefaultCenter. The chosen candidate is re-validated before
// being returned, so the result is never an invalid point.
func ResolveMapCenter(first *Point, city string) Point {
	center := DefaultCenter

	if first != nil && first.Valid() {
		center = *first
	} else if cityPoint, ok := CityCenter(city); ok {
		center = cityPoint
	}

	if !center.Valid() {
		return DefaultCenter
	}
	return center
}
