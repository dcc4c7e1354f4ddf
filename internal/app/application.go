// Package app wires the marketplace services together.
package app

import (
	"context"

	"github.com/carryspace/marketplace/internal/app/services/listings"
	"github.com/carryspace/marketplace/internal/app/services/orders"
	"github.com/carryspace/marketplace/internal/app/services/quotes"
	"github.com/carryspace/marketplace/internal/app/services/requests"
	"github.com/carryspace/marketplace/internal/app/storage"
	"github.com/carryspace/marketplace/internal/app/storage/memory"
	"github.com/carryspace/marketplace/internal/config"
	"github.com/carryspace/marketplace/internal/database"
	"github.com/carryspace/marketplace/internal/domain/geo"
	"github.com/carryspace/marketplace/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Listings storage.ListingStore
	Requests storage.RequestStore
	Orders   storage.OrderStore
	Tickets  storage.TicketStore
}

// IdentityResolver resolves an access token to a backend identity.
type IdentityResolver interface {
	GetUser(ctx context.Context, accessToken string) (*database.User, error)
}

// Collaborators holds the optional external service clients.
type Collaborators struct {
	Uploader listings.Uploader
	Identity IdentityResolver
	Health   func(ctx context.Context) error
}

// Application ties the domain services together.
type Application struct {
	log    *logger.Logger
	health func(ctx context.Context) error

	Airports *geo.AirportSet
	Identity IdentityResolver
	Quotes   *quotes.Service
	Listings *listings.Service
	Requests *requests.Service
	Orders   *orders.Service
}

// New builds a fully initialised application. Configuration must already
// have passed Validate.
func New(cfg config.Config, stores Stores, collab Collaborators, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Listings == nil {
		stores.Listings = mem
	}
	if stores.Requests == nil {
		stores.Requests = mem
	}
	if stores.Orders == nil {
		stores.Orders = mem
	}
	if stores.Tickets == nil {
		stores.Tickets = mem
	}

	airports := geo.NewAirportSet()
	bucket := cfg.Supabase.KYCBucket

	return &Application{
		log:      log,
		health:   collab.Health,
		Airports: airports,
		Identity: collab.Identity,
		Quotes:   quotes.New(airports, cfg.Owner.Email, log.WithField("service", "quotes")),
		Listings: listings.New(stores.Listings, collab.Uploader, bucket, log.WithField("service", "listings")),
		Requests: requests.New(stores.Requests, collab.Uploader, bucket, log.WithField("service", "requests")),
		Orders:   orders.New(stores.Orders, stores.Listings, stores.Requests, stores.Tickets, log.WithField("service", "orders")),
	}
}

// Health reports collaborator health; it always succeeds when no
// collaborator is configured.
func (a *Application) Health(ctx context.Context) error {
	if a.health == nil {
		return nil
	}
	return a.health(ctx)
}
