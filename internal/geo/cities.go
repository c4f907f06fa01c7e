package geo

// Reference coordinates for the major cities, keyed by normalized name.
// This is a fallback layer beneath per-salon coordinates: when no listing
// in view carries a valid point, the map centers on the selected city.
var cityCenters = map[string]Point{
	"istanbul":      {Lat: 41.0082, Lng: 28.9784},
	"ankara":        {Lat: 39.9334, Lng: 32.8597},
	"izmir":         {Lat: 38.4237, Lng: 27.1428},
	"bursa":         {Lat: 40.1885, Lng: 29.0610},
	"antalya":       {Lat: 36.8969, Lng: 30.7133},
	"adana":         {Lat: 37.0000, Lng: 35.3213},
	"konya":         {Lat: 37.8667, Lng: 32.4833},
	"gaziantep":     {Lat: 37.0662, Lng: 37.3833},
	"mersin":        {Lat: 36.8000, Lng: 34.6333},
	"kayseri":       {Lat: 38.7312, Lng: 35.4787},
	"eskişehir":     {Lat: 39.7767, Lng: 30.5206},
	"samsun":        {Lat: 41.2867, Lng: 36.3300},
	"denizli":       {Lat: 37.7765, Lng: 29.0864},
	"trabzon":       {Lat: 41.0015, Lng: 39.7178},
	"diyarbakır":    {Lat: 37.9144, Lng: 40.2306},
	"şanlıurfa":     {Lat: 37.1591, Lng: 38.7969},
	"malatya":       {Lat: 38.3552, Lng: 38.3095},
	"erzurum":       {Lat: 39.9000, Lng: 41.2700},
	"van":           {Lat: 38.4891, Lng: 43.4089},
	"kahramanmaraş": {Lat: 37.5858, Lng: 36.9371},
}

// DefaultCenter is the unconditional fallback: Istanbul.
var DefaultCenter = Point{Lat: 41.0082, Lng: 28.9784}

// CityCenter returns the reference point for a city display name.
// Lookup is normalization-insensitive ("İSTANBUL" finds "istanbul").
func CityCenter(name string) (Point, bool) {
	p, ok := cityCenters[Normalize(name)]
	return p, ok
}

// CityNames returns the known city keys in normalized form.
func CityNames() []string {
	names := make([]string, 0, len(cityCenters))
	for name := range cityCenters {
		names = append(names, name)
	}
	return names
}
