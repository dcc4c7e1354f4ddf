// Package pricing derives displayed shipment prices from the regional base
// rate sheet.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/carryspace/marketplace/internal/domain/region"
)

// DisplayRateFactor is the fixed share of the raw base rate shown to users.
// It is applied exactly once, between the sheet lookup and any display or
// storage of the price.
const DisplayRateFactor = 0.8

// Quote is a derived shipment price. It is never persisted as-is; the
// price-per-kg is copied onto listing and request records at creation time.
type Quote struct {
	Origin      region.Region `json:"origin"`
	Destination region.Region `json:"destination"`
	WeightKg    float64       `json:"weight_kg"`
	Currency    string        `json:"currency"`
	PricePerKg  float64       `json:"price_per_kg"`
	Subtotal    float64       `json:"subtotal"`
}

// PricePerKg returns the displayed per-kilogram price for a route.
func PricePerKg(origin, destination region.Region) (float64, error) {
	base, err := region.BaseRate(origin, destination)
	if err != nil {
		return 0, err
	}
	return base * DisplayRateFactor, nil
}

// NewQuote prices a shipment of weightKg between two regions. A negative or
// non-finite weight is a caller error, never clamped.
func NewQuote(origin, destination region.Region, weightKg float64, currency string) (Quote, error) {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return Quote{}, fmt.Errorf("weight must be a finite number")
	}
	if weightKg < 0 {
		return Quote{}, fmt.Errorf("weight must not be negative: %v", weightKg)
	}

	perKg, err := PricePerKg(origin, destination)
	if err != nil {
		return Quote{}, err
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "AED"
	}

	return Quote{
		Origin:      origin,
		Destination: destination,
		WeightKg:    weightKg,
		Currency:    currency,
		PricePerKg:  perKg,
		Subtotal:    perKg * weightKg,
	}, nil
}

// airportRegions maps IATA airport codes onto pricing regions for the
// airport-pair quoting path. Both paths share the same rate rule, so a
// quote by airport pair equals a quote by the mapped region pair.
var airportRegions = map[string]region.Region{
	"DXB": region.UAE,
	"AUH": region.UAE,
	"SHJ": region.UAE,
	"RUH": region.GCC,
	"JED": region.GCC,
	"DOH": region.GCC,
	"KWI": region.GCC,
	"BAH": region.GCC,
	"MCT": region.GCC,
	"CAI": region.MiddleEast,
	"AMM": region.MiddleEast,
	"BEY": region.MiddleEast,
	"BGW": region.MiddleEast,
	"BOM": region.SouthAsia,
	"DEL": region.SouthAsia,
	"KHI": region.SouthAsia,
	"DAC": region.SouthAsia,
	"CMB": region.SouthAsia,
	"NBO": region.Africa,
	"ADD": region.Africa,
	"LOS": region.Africa,
	"JNB": region.Africa,
	"LHR": region.Europe,
	"CDG": region.Europe,
	"FRA": region.Europe,
	"IST": region.Europe,
	"JFK": region.NorthAmerica,
	"ORD": region.NorthAmerica,
	"YYZ": region.NorthAmerica,
	"LAX": region.NorthAmerica,
}

// RegionForAirport resolves the pricing region of an IATA code.
func RegionForAirport(iata string) (region.Region, error) {
	r, ok := airportRegions[strings.ToUpper(strings.TrimSpace(iata))]
	if !ok {
		return "", fmt.Errorf("no pricing region for airport %q", iata)
	}
	return r, nil
}

// NewQuoteByAirports prices a shipment between two airports by mapping each
// IATA code to its pricing region and applying the regional rate rule.
func NewQuoteByAirports(originIATA, destinationIATA string, weightKg float64, currency string) (Quote, error) {
	origin, err := RegionForAirport(originIATA)
	if err != nil {
		return Quote{}, err
	}
	destination, err := RegionForAirport(destinationIATA)
	if err != nil {
		return Quote{}, err
	}
	return NewQuote(origin, destination, weightKg, currency)
}
