// Package geo holds the replaceable airport dataset and great-circle
// distance computation.
package geo

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Airport is one record of the active airport dataset, keyed by IATA code.
// Coordinates are decimal degrees. Range bounds are not enforced on import;
// distances stay mathematically defined for any finite inputs.
type Airport struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm returns the great-circle distance between two airports in
// kilometres. It is symmetric and zero for identical coordinates.
func DistanceKm(a, b Airport) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// AirportSet is the active airport collection. Imports replace the whole
// collection atomically so readers never observe a half-imported set.
type AirportSet struct {
	mu       sync.RWMutex
	airports map[string]Airport
}

// defaultAirports seeds the set with the airports the marketplace launched
// with. Any import fully replaces these.
var defaultAirports = []Airport{
	{Code: "DXB", Name: "Dubai International", Latitude: 25.2532, Longitude: 55.3657},
	{Code: "AUH", Name: "Abu Dhabi International", Latitude: 24.4330, Longitude: 54.6511},
	{Code: "SHJ", Name: "Sharjah International", Latitude: 25.3286, Longitude: 55.5172},
	{Code: "RUH", Name: "King Khalid International", Latitude: 24.9576, Longitude: 46.6988},
	{Code: "JED", Name: "King Abdulaziz International", Latitude: 21.6796, Longitude: 39.1565},
	{Code: "DOH", Name: "Hamad International", Latitude: 25.2731, Longitude: 51.6081},
	{Code: "KWI", Name: "Kuwait International", Latitude: 29.2266, Longitude: 47.9689},
	{Code: "BAH", Name: "Bahrain International", Latitude: 26.2708, Longitude: 50.6336},
	{Code: "MCT", Name: "Muscat International", Latitude: 23.5933, Longitude: 58.2844},
	{Code: "CAI", Name: "Cairo International", Latitude: 30.1219, Longitude: 31.4056},
	{Code: "AMM", Name: "Queen Alia International", Latitude: 31.7226, Longitude: 35.9932},
	{Code: "BEY", Name: "Beirut Rafic Hariri", Latitude: 33.8209, Longitude: 35.4884},
	{Code: "BOM", Name: "Chhatrapati Shivaji Maharaj", Latitude: 19.0896, Longitude: 72.8656},
	{Code: "DEL", Name: "Indira Gandhi International", Latitude: 28.5562, Longitude: 77.1000},
	{Code: "KHI", Name: "Jinnah International", Latitude: 24.9065, Longitude: 67.1608},
	{Code: "NBO", Name: "Jomo Kenyatta International", Latitude: -1.3192, Longitude: 36.9278},
	{Code: "ADD", Name: "Addis Ababa Bole", Latitude: 8.9779, Longitude: 38.7993},
	{Code: "LHR", Name: "London Heathrow", Latitude: 51.4700, Longitude: -0.4543},
	{Code: "CDG", Name: "Paris Charles de Gaulle", Latitude: 49.0097, Longitude: 2.5479},
	{Code: "IST", Name: "Istanbul Airport", Latitude: 41.2753, Longitude: 28.7519},
	{Code: "JFK", Name: "John F. Kennedy International", Latitude: 40.6413, Longitude: -73.7781},
	{Code: "YYZ", Name: "Toronto Pearson", Latitude: 43.6777, Longitude: -79.6248},
}

// NewAirportSet creates the active set seeded with the default dataset.
func NewAirportSet() *AirportSet {
	s := &AirportSet{airports: make(map[string]Airport, len(defaultAirports))}
	for _, a := range defaultAirports {
		s.airports[a.Code] = a
	}
	return s
}

// Get looks up an airport by IATA code, case-insensitively.
func (s *AirportSet) Get(code string) (Airport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.airports[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// List returns a copy of every active airport.
func (s *AirportSet) List() []Airport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Airport, 0, len(s.airports))
	for _, a := range s.airports {
		out = append(out, a)
	}
	return out
}

// Len returns the number of active airports.
func (s *AirportSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.airports)
}

// Distance computes the great-circle distance between two active airports
// by IATA code.
func (s *AirportSet) Distance(fromCode, toCode string) (float64, error) {
	from, ok := s.Get(fromCode)
	if !ok {
		return 0, fmt.Errorf("unknown airport %q", fromCode)
	}
	to, ok := s.Get(toCode)
	if !ok {
		return 0, fmt.Errorf("unknown airport %q", toCode)
	}
	return DistanceKm(from, to), nil
}

// ImportResult summarises a dataset replacement.
type ImportResult struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

// valid reports whether a candidate record may enter the active set.
func valid(a Airport) bool {
	if strings.TrimSpace(a.Code) == "" {
		return false
	}
	if math.IsNaN(a.Latitude) || math.IsInf(a.Latitude, 0) {
		return false
	}
	if math.IsNaN(a.Longitude) || math.IsInf(a.Longitude, 0) {
		return false
	}
	return true
}

// Import replaces the active set wholesale with the accepted records.
// Records missing a code or carrying non-finite coordinates are dropped
// silently. When no record survives validation the previous set is retained
// unchanged and an error is returned.
func (s *AirportSet) Import(records []Airport) (ImportResult, error) {
	next := make(map[string]Airport, len(records))
	dropped := 0
	for _, a := range records {
		if !valid(a) {
			dropped++
			continue
		}
		a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
		next[a.Code] = a
	}

	if len(next) == 0 {
		return ImportResult{Dropped: dropped}, fmt.Errorf("import contains no valid airport records; previous set retained")
	}

	s.mu.Lock()
	s.airports = next
	s.mu.Unlock()

	return ImportResult{Accepted: len(next), Dropped: dropped}, nil
}
