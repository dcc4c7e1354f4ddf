package pricing

import (
	"math"
	"testing"

	"github.com/carryspace/marketplace/internal/domain/region"
)

func TestQuoteAppliesDisplayFactorOnce(t *testing.T) {
	weights := []float64{0, 1, 5, 12.5, 100}
	for _, origin := range region.All {
		for _, destination := range region.All {
			base, err := region.BaseRate(origin, destination)
			if err != nil {
				t.Fatalf("base rate %s->%s: %v", origin, destination, err)
			}
			for _, w := range weights {
				q, err := NewQuote(origin, destination, w, "AED")
				if err != nil {
					t.Fatalf("quote %s->%s w=%v: %v", origin, destination, w, err)
				}
				if q.PricePerKg != base*0.8 {
					t.Fatalf("price per kg %s->%s = %v, want %v", origin, destination, q.PricePerKg, base*0.8)
				}
				if q.Subtotal != base*0.8*w {
					t.Fatalf("subtotal %s->%s w=%v = %v, want %v", origin, destination, w, q.Subtotal, base*0.8*w)
				}
			}
		}
	}
}

func TestQuoteUAEToMiddleEast(t *testing.T) {
	q, err := NewQuote(region.UAE, region.MiddleEast, 5, "AED")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.PricePerKg != 48 {
		t.Fatalf("price per kg = %v, want 48", q.PricePerKg)
	}
	if q.Subtotal != 240 {
		t.Fatalf("subtotal = %v, want 240", q.Subtotal)
	}
}

func TestQuoteRejectsBadWeight(t *testing.T) {
	for _, w := range []float64{-1, -0.001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := NewQuote(region.UAE, region.GCC, w, "AED"); err == nil {
			t.Fatalf("expected error for weight %v", w)
		}
	}
}

func TestQuoteZeroWeightAllowed(t *testing.T) {
	q, err := NewQuote(region.UAE, region.GCC, 0, "AED")
	if err != nil {
		t.Fatalf("zero weight: %v", err)
	}
	if q.Subtotal != 0 {
		t.Fatalf("subtotal = %v, want 0", q.Subtotal)
	}
}

func TestQuoteDefaultsCurrency(t *testing.T) {
	q, err := NewQuote(region.UAE, region.GCC, 1, "  usd ")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Currency != "USD" {
		t.Fatalf("currency = %q", q.Currency)
	}

	q, err = NewQuote(region.UAE, region.GCC, 1, "")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Currency != "AED" {
		t.Fatalf("default currency = %q", q.Currency)
	}
}

// The airport-pair path and the region-pair path share one rate rule; for a
// mapped airport pair the two quotes must be identical.
func TestAirportPathMatchesRegionPath(t *testing.T) {
	byAirport, err := NewQuoteByAirports("DXB", "CAI", 5, "AED")
	if err != nil {
		t.Fatalf("quote by airports: %v", err)
	}
	byRegion, err := NewQuote(region.UAE, region.MiddleEast, 5, "AED")
	if err != nil {
		t.Fatalf("quote by regions: %v", err)
	}
	if byAirport.PricePerKg != byRegion.PricePerKg || byAirport.Subtotal != byRegion.Subtotal {
		t.Fatalf("airport path %+v != region path %+v", byAirport, byRegion)
	}
}

func TestRegionForAirport(t *testing.T) {
	r, err := RegionForAirport("dxb")
	if err != nil {
		t.Fatalf("region for dxb: %v", err)
	}
	if r != region.UAE {
		t.Fatalf("region for DXB = %s", r)
	}

	if _, err := RegionForAirport("ZZZ"); err == nil {
		t.Fatal("expected error for unmapped airport")
	}
}
