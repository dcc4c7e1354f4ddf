package quotes

import (
	"math"
	"testing"

	"github.com/carryspace/marketplace/internal/domain/geo"
	"github.com/carryspace/marketplace/internal/errors"
)

const owner = "admin@carryspace.app"

func newService() *Service {
	return New(geo.NewAirportSet(), owner, nil)
}

func TestQuoteByRegions(t *testing.T) {
	svc := newService()
	q, err := svc.QuoteByRegions("UAE", "ME", 5, "AED")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.PricePerKg != 48 || q.Subtotal != 240 {
		t.Fatalf("quote = %+v, want 48/kg and 240 subtotal", q)
	}

	if _, err := svc.QuoteByRegions("UAE", "ME", -1, "AED"); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for negative weight, got %v", err)
	}
	if _, err := svc.QuoteByRegions("XX", "ME", 1, "AED"); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for unknown region, got %v", err)
	}
}

func TestQuoteByAirportsIncludesDistance(t *testing.T) {
	svc := newService()
	q, err := svc.QuoteByAirports("DXB", "CAI", 5, "AED")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.PricePerKg != 48 || q.Subtotal != 240 {
		t.Fatalf("quote = %+v, want the UAE->ME pricing", q)
	}
	if q.DistanceKm == nil {
		t.Fatal("expected a distance for two active airports")
	}
	if math.Abs(*q.DistanceKm-2416) > 5 {
		t.Fatalf("distance = %v km, want 2416 +/- 5", *q.DistanceKm)
	}
}

func TestPreviewSettlementGating(t *testing.T) {
	svc := newService()

	asOwner, err := svc.PreviewSettlement(240, owner)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if asOwner.PlatformShare == nil || *asOwner.PlatformShare != 96 {
		t.Fatalf("owner preview = %+v, want platform share 96", asOwner)
	}

	asVisitor, err := svc.PreviewSettlement(240, "visitor@example.com")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if asVisitor.PlatformShare != nil {
		t.Fatalf("visitor preview leaked platform share: %+v", asVisitor)
	}
	if asVisitor.CarrierShare != 144 {
		t.Fatalf("visitor carrier share = %v, want 144", asVisitor.CarrierShare)
	}

	if _, err := svc.PreviewSettlement(-1, owner); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for negative total, got %v", err)
	}
}

func TestImportAirportsRequiresOwner(t *testing.T) {
	svc := newService()
	records := []geo.Airport{{Code: "JFK", Latitude: 40.6413, Longitude: -73.7781}}

	if _, err := svc.ImportAirports(records, "visitor@example.com"); err == nil {
		t.Fatal("expected unauthorized error for non-owner import")
	}
	// The set must be untouched after the rejected import.
	if _, err := svc.Distance("DXB", "CAI"); err != nil {
		t.Fatalf("default set changed after rejected import: %v", err)
	}

	result, err := svc.ImportAirports(records, owner)
	if err != nil {
		t.Fatalf("owner import: %v", err)
	}
	if result.Accepted != 1 {
		t.Fatalf("result = %+v, want 1 accepted", result)
	}
	if _, err := svc.Distance("DXB", "CAI"); err == nil {
		t.Fatal("import should have replaced the default set")
	}
}

func TestImportAirportsText(t *testing.T) {
	svc := newService()
	result, err := svc.ImportAirportsText("JFK,John F. Kennedy International,40.6413,-73.7781\nBAD,No coords,,\n", owner)
	if err != nil {
		t.Fatalf("text import: %v", err)
	}
	if result.Accepted != 1 || result.Dropped != 1 {
		t.Fatalf("result = %+v, want 1 accepted / 1 dropped", result)
	}
}
