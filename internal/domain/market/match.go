package market

import (
	"sort"
	"strings"
)

// MatchListings filters published listings to those on the exact route with
// enough remaining capacity, ordered by travel date ascending. Ties keep
// their original (creation) order. An empty result is a normal outcome.
func MatchListings(listings []Listing, originCode, destinationCode string, minCapacityKg float64) []Listing {
	origin := strings.ToUpper(strings.TrimSpace(originCode))
	destination := strings.ToUpper(strings.TrimSpace(destinationCode))

	matched := make([]Listing, 0)
	for _, l := range listings {
		if !strings.EqualFold(l.Origin, origin) || !strings.EqualFold(l.Destination, destination) {
			continue
		}
		if l.CapacityKg < minCapacityKg {
			continue
		}
		matched = append(matched, l)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].TravelDate.Before(matched[j].TravelDate)
	})
	return matched
}
