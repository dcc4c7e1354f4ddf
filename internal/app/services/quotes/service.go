// Package quotes prices shipments and previews escrow settlements.
package quotes

import (
	"github.com/carryspace/marketplace/internal/domain/escrow"
	"github.com/carryspace/marketplace/internal/domain/geo"
	"github.com/carryspace/marketplace/internal/domain/pricing"
	"github.com/carryspace/marketplace/internal/domain/region"
	"github.com/carryspace/marketplace/internal/errors"
	"github.com/carryspace/marketplace/pkg/logger"
)

// Service exposes the pricing and settlement computations. All operations
// are pure and synchronous; the airport set is the only shared state and is
// swapped atomically by imports.
type Service struct {
	airports   *geo.AirportSet
	ownerEmail string
	log        *logger.Logger
}

// New constructs a quotes service.
func New(airports *geo.AirportSet, ownerEmail string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("quotes")
	}
	return &Service{airports: airports, ownerEmail: ownerEmail, log: log}
}

// ShipmentQuote is a priced shipment with the route distance when both
// endpoints resolve to active airports.
type ShipmentQuote struct {
	pricing.Quote
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// QuoteByRegions prices a shipment between two region codes.
func (s *Service) QuoteByRegions(originCode, destinationCode string, weightKg float64, currency string) (ShipmentQuote, error) {
	origin, err := region.Parse(originCode)
	if err != nil {
		return ShipmentQuote{}, errors.Validation(err.Error())
	}
	destination, err := region.Parse(destinationCode)
	if err != nil {
		return ShipmentQuote{}, errors.Validation(err.Error())
	}

	q, err := pricing.NewQuote(origin, destination, weightKg, currency)
	if err != nil {
		return ShipmentQuote{}, errors.Validation(err.Error())
	}
	return ShipmentQuote{Quote: q}, nil
}

// QuoteByAirports prices a shipment between two IATA codes via the fixed
// airport-to-region mapping. The result matches QuoteByRegions for the
// mapped region pair.
func (s *Service) QuoteByAirports(originIATA, destinationIATA string, weightKg float64, currency string) (ShipmentQuote, error) {
	q, err := pricing.NewQuoteByAirports(originIATA, destinationIATA, weightKg, currency)
	if err != nil {
		return ShipmentQuote{}, errors.Validation(err.Error())
	}

	out := ShipmentQuote{Quote: q}
	if km, err := s.airports.Distance(originIATA, destinationIATA); err == nil {
		out.DistanceKm = &km
	}
	return out, nil
}

// PreviewSettlement computes the escrow split for a total and renders it for
// the calling identity. Non-owners silently receive no platform share.
func (s *Service) PreviewSettlement(total float64, callerEmail string) (escrow.Disclosure, error) {
	split, err := escrow.Settle(total)
	if err != nil {
		return escrow.Disclosure{}, errors.Validation(err.Error())
	}
	return split.Disclose(callerEmail, s.ownerEmail), nil
}

// Distance returns the great-circle distance between two active airports.
func (s *Service) Distance(fromCode, toCode string) (float64, error) {
	km, err := s.airports.Distance(fromCode, toCode)
	if err != nil {
		return 0, errors.Validation(err.Error())
	}
	return km, nil
}

// ImportAirports replaces the active airport dataset. Only the owner
// identity may import; malformed records are dropped silently and an
// import with no valid record leaves the previous set untouched.
func (s *Service) ImportAirports(records []geo.Airport, callerEmail string) (geo.ImportResult, error) {
	if !escrow.IsOwner(callerEmail, s.ownerEmail) {
		return geo.ImportResult{}, errors.Unauthorized("airport import is restricted to the platform owner")
	}

	result, err := s.airports.Import(records)
	if err != nil {
		return result, errors.Validation(err.Error())
	}
	s.log.WithField("accepted", result.Accepted).
		WithField("dropped", result.Dropped).
		Info("airport dataset replaced")
	return result, nil
}

// ImportAirportsText replaces the dataset from a delimited-text table with
// code, name, latitude, longitude columns.
func (s *Service) ImportAirportsText(text, callerEmail string) (geo.ImportResult, error) {
	return s.ImportAirports(geo.ParseDelimited(text), callerEmail)
}

// Airports lists the active airport dataset.
func (s *Service) Airports() []geo.Airport {
	return s.airports.List()
}
