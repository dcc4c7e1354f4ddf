// Package region defines the fixed pricing regions and the directional
// per-kilogram base rate table between them.
package region

import (
	"fmt"
	"strings"
)

// Region is one of the seven fixed geographic pricing zones.
type Region string

const (
	UAE          Region = "UAE"
	GCC          Region = "GCC"
	MiddleEast   Region = "ME"
	SouthAsia    Region = "SA"
	Africa       Region = "AF"
	Europe       Region = "EU"
	NorthAmerica Region = "NA"
)

// All lists every region in display order.
var All = []Region{UAE, GCC, MiddleEast, SouthAsia, Africa, Europe, NorthAmerica}

// labels maps each region to its display label.
var labels = map[Region]string{
	UAE:          "United Arab Emirates",
	GCC:          "Gulf Cooperation Council",
	MiddleEast:   "Middle East",
	SouthAsia:    "South Asia",
	Africa:       "Africa",
	Europe:       "Europe",
	NorthAmerica: "North America",
}

// Label returns the display label for r, or the raw code when unknown.
func (r Region) Label() string {
	if l, ok := labels[r]; ok {
		return l
	}
	return string(r)
}

// Valid reports whether r is one of the seven fixed regions.
func (r Region) Valid() bool {
	_, ok := labels[r]
	return ok
}

// Parse resolves a region code case-insensitively.
func Parse(code string) (Region, error) {
	r := Region(strings.ToUpper(strings.TrimSpace(code)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown region code %q", code)
	}
	return r, nil
}

// route is an ordered origin/destination pair.
type route struct {
	origin      Region
	destination Region
}

// baseRates is the directional base rate sheet in currency units per
// kilogram. Values are taken verbatim from the commercial rate sheet;
// pairs are intentionally not symmetric and must not be "corrected".
var baseRates = map[route]float64{
	{UAE, UAE}: 20, {UAE, GCC}: 40, {UAE, MiddleEast}: 60, {UAE, SouthAsia}: 50, {UAE, Africa}: 70, {UAE, Europe}: 80, {UAE, NorthAmerica}: 100,
	{GCC, UAE}: 40, {GCC, GCC}: 25, {GCC, MiddleEast}: 60, {GCC, SouthAsia}: 55, {GCC, Africa}: 75, {GCC, Europe}: 85, {GCC, NorthAmerica}: 105,
	{MiddleEast, UAE}: 60, {MiddleEast, GCC}: 60, {MiddleEast, MiddleEast}: 30, {MiddleEast, SouthAsia}: 65, {MiddleEast, Africa}: 70, {MiddleEast, Europe}: 80, {MiddleEast, NorthAmerica}: 110,
	{SouthAsia, UAE}: 45, {SouthAsia, GCC}: 50, {SouthAsia, MiddleEast}: 65, {SouthAsia, SouthAsia}: 30, {SouthAsia, Africa}: 80, {SouthAsia, Europe}: 90, {SouthAsia, NorthAmerica}: 110,
	{Africa, UAE}: 70, {Africa, GCC}: 75, {Africa, MiddleEast}: 70, {Africa, SouthAsia}: 80, {Africa, Africa}: 35, {Africa, Europe}: 85, {Africa, NorthAmerica}: 115,
	{Europe, UAE}: 75, {Europe, GCC}: 85, {Europe, MiddleEast}: 80, {Europe, SouthAsia}: 90, {Europe, Africa}: 85, {Europe, Europe}: 30, {Europe, NorthAmerica}: 95,
	{NorthAmerica, UAE}: 100, {NorthAmerica, GCC}: 105, {NorthAmerica, MiddleEast}: 110, {NorthAmerica, SouthAsia}: 110, {NorthAmerica, Africa}: 115, {NorthAmerica, Europe}: 95, {NorthAmerica, NorthAmerica}: 40,
}

// BaseRate returns the directional base rate for the given ordered pair.
// The table is total over all 49 pairs; an unknown pair indicates a caller
// passing an invalid region, not a gap in the sheet.
func BaseRate(origin, destination Region) (float64, error) {
	rate, ok := baseRates[route{origin, destination}]
	if !ok {
		return 0, fmt.Errorf("no base rate for %s -> %s", origin, destination)
	}
	return rate, nil
}

// ValidateRateTable verifies at startup that the rate sheet defines a
// non-negative value for every ordered pair of regions.
func ValidateRateTable() error {
	for _, origin := range All {
		for _, destination := range All {
			rate, ok := baseRates[route{origin, destination}]
			if !ok {
				return fmt.Errorf("rate table missing entry %s -> %s", origin, destination)
			}
			if rate < 0 {
				return fmt.Errorf("rate table entry %s -> %s is negative: %v", origin, destination, rate)
			}
		}
	}
	return nil
}
