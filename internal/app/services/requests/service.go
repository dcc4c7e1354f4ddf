// Package requests submits shipper capacity requests with quoted price
// snapshots.
package requests

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/carryspace/marketplace/internal/app/services/listings"
	"github.com/carryspace/marketplace/internal/app/storage"
	"github.com/carryspace/marketplace/internal/database"
	"github.com/carryspace/marketplace/internal/domain/market"
	"github.com/carryspace/marketplace/internal/domain/pricing"
	"github.com/carryspace/marketplace/internal/errors"
	"github.com/carryspace/marketplace/pkg/logger"
)

// Service manages shipment requests.
type Service struct {
	store    storage.RequestStore
	uploader listings.Uploader
	bucket   string
	log      *logger.Logger
}

// New constructs a requests service.
func New(store storage.RequestStore, uploader listings.Uploader, bucket string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("requests")
	}
	return &Service{store: store, uploader: uploader, bucket: bucket, log: log}
}

// SubmitInput is a shipper's need for capacity on a route.
type SubmitInput struct {
	ShipperID   string
	Origin      string
	Destination string
	ShipDate    time.Time
	WeightKg    float64
	ContentType string
	Currency    string
	Passport    *listings.Document
	Photo       *listings.Document
}

// Submit uploads the shipper's documents and creates the request with the
// price-per-kg quoted at submission time. The snapshot protects historical
// quotes from later rate sheet changes. The multi-step flow is best-effort:
// a partial failure surfaces as one opaque error with no rollback.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (market.Request, error) {
	in.Origin = strings.ToUpper(strings.TrimSpace(in.Origin))
	in.Destination = strings.ToUpper(strings.TrimSpace(in.Destination))

	if in.ShipperID == "" {
		return market.Request{}, errors.Validation("shipper id is required")
	}
	if in.Origin == "" || in.Destination == "" {
		return market.Request{}, errors.Validation("origin and destination are required")
	}
	if math.IsNaN(in.WeightKg) || math.IsInf(in.WeightKg, 0) || in.WeightKg <= 0 {
		return market.Request{}, errors.Validation("weight must be a positive number of kilograms")
	}
	if in.ShipDate.IsZero() {
		return market.Request{}, errors.Validation("ship date is required")
	}

	quote, err := pricing.NewQuoteByAirports(in.Origin, in.Destination, in.WeightKg, in.Currency)
	if err != nil {
		return market.Request{}, errors.Validation(err.Error())
	}

	var docs market.KYCDocuments
	if s.uploader != nil {
		now := time.Now().UTC()
		upload := func(d *listings.Document) (string, error) {
			if d == nil {
				return "", nil
			}
			path := database.ObjectPath(in.ShipperID, "shipper", d.Filename, now)
			return s.uploader.Upload(ctx, s.bucket, path, d.ContentType, d.Data)
		}
		if docs.PassportURL, err = upload(in.Passport); err != nil {
			return market.Request{}, errors.Collaborator("submit request", err)
		}
		if docs.PhotoURL, err = upload(in.Photo); err != nil {
			return market.Request{}, errors.Collaborator("submit request", err)
		}
	}

	req := market.Request{
		ShipperID:   in.ShipperID,
		Origin:      in.Origin,
		Destination: in.Destination,
		ShipDate:    in.ShipDate,
		WeightKg:    in.WeightKg,
		ContentType: strings.TrimSpace(in.ContentType),
		PricePerKg:  quote.PricePerKg,
		Subtotal:    quote.Subtotal,
		Currency:    quote.Currency,
		Documents:   docs,
	}

	req, err = s.store.CreateRequest(ctx, req)
	if err != nil {
		if errors.GetServiceError(err) != nil {
			return market.Request{}, err
		}
		return market.Request{}, errors.Collaborator("submit request", err)
	}

	s.log.WithField("request_id", req.ID).
		WithField("shipper_id", req.ShipperID).
		WithField("route", req.Origin+"-"+req.Destination).
		Info("shipment request submitted")
	return req, nil
}

// ListByShipper returns the shipper's own requests in creation order.
func (s *Service) ListByShipper(ctx context.Context, shipperID string) ([]market.Request, error) {
	return s.store.ListRequestsByShipper(ctx, shipperID)
}
