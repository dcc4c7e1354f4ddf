// Package storage defines the persistence interfaces for marketplace
// records. Implementations exist for in-memory use and for Supabase.
package storage

import (
	"context"

	"github.com/carryspace/marketplace/internal/domain/market"
)

// ListingStore persists published capacity listings. ListListings returns
// records in creation order; route filtering and date ordering live in the
// matching logic.
type ListingStore interface {
	CreateListing(ctx context.Context, l market.Listing) (market.Listing, error)
	GetListing(ctx context.Context, id string) (market.Listing, error)
	ListListings(ctx context.Context) ([]market.Listing, error)
	ListListingsByProvider(ctx context.Context, providerID string) ([]market.Listing, error)
}

// RequestStore persists shipment requests.
type RequestStore interface {
	CreateRequest(ctx context.Context, r market.Request) (market.Request, error)
	GetRequest(ctx context.Context, id string) (market.Request, error)
	ListRequestsByShipper(ctx context.Context, shipperID string) ([]market.Request, error)
}

// OrderStore persists orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o market.Order) (market.Order, error)
	GetOrder(ctx context.Context, id string) (market.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status market.OrderStatus) (market.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]market.Order, error)
}

// TicketStore persists support tickets.
type TicketStore interface {
	CreateTicket(ctx context.Context, t market.Ticket) (market.Ticket, error)
	ListTicketsByReporter(ctx context.Context, reporterID string) ([]market.Ticket, error)
}
