// Package listings publishes provider capacity and answers shipper searches.
package listings

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/carryspace/marketplace/internal/app/storage"
	"github.com/carryspace/marketplace/internal/database"
	"github.com/carryspace/marketplace/internal/domain/market"
	"github.com/carryspace/marketplace/internal/domain/pricing"
	"github.com/carryspace/marketplace/internal/errors"
	"github.com/carryspace/marketplace/pkg/logger"
)

// Uploader stores a document and returns its URL. Implemented by the
// Supabase storage client.
type Uploader interface {
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
}

// Document is a KYC document supplied with a publish or submit flow.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service manages capacity listings.
type Service struct {
	store    storage.ListingStore
	uploader Uploader
	bucket   string
	log      *logger.Logger
}

// New constructs a listings service. The uploader may be nil when document
// uploads are handled elsewhere.
func New(store storage.ListingStore, uploader Uploader, bucket string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("listings")
	}
	return &Service{store: store, uploader: uploader, bucket: bucket, log: log}
}

// PublishInput is a provider's capacity announcement. KYC documents travel
// with the publish flow; the flight ticket is required for providers.
type PublishInput struct {
	ProviderID   string
	Origin       string
	Destination  string
	TravelDate   time.Time
	CapacityKg   float64
	Currency     string
	Passport     *Document
	Photo        *Document
	FlightTicket *Document
}

// Publish uploads the provider's documents and creates an immutable listing
// with the price-per-kg snapshot taken now. The flow is best-effort: a
// failure after some uploads leaves those objects behind and surfaces as
// one opaque error, with no compensating rollback.
func (s *Service) Publish(ctx context.Context, in PublishInput) (market.Listing, error) {
	in.Origin = strings.ToUpper(strings.TrimSpace(in.Origin))
	in.Destination = strings.ToUpper(strings.TrimSpace(in.Destination))

	if in.ProviderID == "" {
		return market.Listing{}, errors.Validation("provider id is required")
	}
	if in.Origin == "" || in.Destination == "" {
		return market.Listing{}, errors.Validation("origin and destination are required")
	}
	if math.IsNaN(in.CapacityKg) || math.IsInf(in.CapacityKg, 0) || in.CapacityKg <= 0 {
		return market.Listing{}, errors.Validation("capacity must be a positive number of kilograms")
	}
	if in.TravelDate.IsZero() {
		return market.Listing{}, errors.Validation("travel date is required")
	}

	originRegion, err := pricing.RegionForAirport(in.Origin)
	if err != nil {
		return market.Listing{}, errors.Validation(err.Error())
	}
	destinationRegion, err := pricing.RegionForAirport(in.Destination)
	if err != nil {
		return market.Listing{}, errors.Validation(err.Error())
	}

	// Price snapshot: copied onto the record now, never recomputed later.
	perKg, err := pricing.PricePerKg(originRegion, destinationRegion)
	if err != nil {
		return market.Listing{}, errors.Validation(err.Error())
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "AED"
	}

	docs, err := s.uploadDocuments(ctx, in.ProviderID, "provider", in.Passport, in.Photo, in.FlightTicket)
	if err != nil {
		return market.Listing{}, errors.Collaborator("publish listing", err)
	}

	listing := market.Listing{
		ProviderID:  in.ProviderID,
		Origin:      in.Origin,
		Destination: in.Destination,
		TravelDate:  in.TravelDate,
		CapacityKg:  in.CapacityKg,
		PricePerKg:  perKg,
		Currency:    currency,
		Documents:   docs,
	}

	listing, err = s.store.CreateListing(ctx, listing)
	if err != nil {
		if errors.GetServiceError(err) != nil {
			return market.Listing{}, err
		}
		return market.Listing{}, errors.Collaborator("publish listing", err)
	}

	s.log.WithField("listing_id", listing.ID).
		WithField("provider_id", listing.ProviderID).
		WithField("route", listing.Origin+"-"+listing.Destination).
		Info("listing published")
	return listing, nil
}

func (s *Service) uploadDocuments(ctx context.Context, userID, role string, passport, photo, ticket *Document) (market.KYCDocuments, error) {
	var docs market.KYCDocuments
	if s.uploader == nil {
		return docs, nil
	}

	now := time.Now().UTC()
	upload := func(d *Document) (string, error) {
		if d == nil {
			return "", nil
		}
		path := database.ObjectPath(userID, role, d.Filename, now)
		return s.uploader.Upload(ctx, s.bucket, path, d.ContentType, d.Data)
	}

	var err error
	if docs.PassportURL, err = upload(passport); err != nil {
		return market.KYCDocuments{}, err
	}
	if docs.PhotoURL, err = upload(photo); err != nil {
		return market.KYCDocuments{}, err
	}
	if docs.FlightTicketURL, err = upload(ticket); err != nil {
		return market.KYCDocuments{}, err
	}
	return docs, nil
}

// FindProviders answers a shipper's search: listings on the exact route
// with capacity for at least minCapacityKg, earliest travel date first.
// No match is an empty result, not an error.
func (s *Service) FindProviders(ctx context.Context, originCode, destinationCode string, minCapacityKg float64) ([]market.Listing, error) {
	if strings.TrimSpace(originCode) == "" || strings.TrimSpace(destinationCode) == "" {
		return nil, errors.Validation("origin and destination are required")
	}
	if math.IsNaN(minCapacityKg) || math.IsInf(minCapacityKg, 0) || minCapacityKg < 0 {
		return nil, errors.Validation("minimum capacity must be a non-negative number")
	}

	all, err := s.store.ListListings(ctx)
	if err != nil {
		if errors.GetServiceError(err) != nil {
			return nil, err
		}
		return nil, errors.Collaborator("search listings", err)
	}
	return market.MatchListings(all, originCode, destinationCode, minCapacityKg), nil
}

// Get returns a single listing.
func (s *Service) Get(ctx context.Context, id string) (market.Listing, error) {
	return s.store.GetListing(ctx, id)
}

// ListByProvider returns the provider's own listings in creation order.
func (s *Service) ListByProvider(ctx context.Context, providerID string) ([]market.Listing, error) {
	return s.store.ListListingsByProvider(ctx, providerID)
}
