// Package supabase implements the storage interfaces against the Supabase
// PostgREST API.
package supabase

import (
	"context"
	"fmt"
	neturl "net/url"

	"github.com/google/uuid"

	"github.com/carryspace/marketplace/internal/app/storage"
	"github.com/carryspace/marketplace/internal/database"
	"github.com/carryspace/marketplace/internal/domain/market"
	"github.com/carryspace/marketplace/internal/errors"
)

const (
	tableListings = "listings"
	tableRequests = "requests"
	tableOrders   = "orders"
	tableTickets  = "tickets"
)

// Store runs every storage interface over one Supabase client.
type Store struct {
	client *database.Client
}

var _ storage.ListingStore = (*Store)(nil)
var _ storage.RequestStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.TicketStore = (*Store)(nil)

// New creates a Supabase-backed store.
func New(client *database.Client) *Store {
	return &Store{client: client}
}

func eq(column, value string) string {
	return neturl.QueryEscape(column) + "=eq." + neturl.QueryEscape(value)
}

// ListingStore implementation ------------------------------------------------

func (s *Store) CreateListing(ctx context.Context, l market.Listing) (market.Listing, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	var out []market.Listing
	if err := s.client.Insert(ctx, tableListings, l, &out); err != nil {
		return market.Listing{}, errors.Collaborator("create listing", err)
	}
	if len(out) > 0 {
		return out[0], nil
	}
	return l, nil
}

func (s *Store) GetListing(ctx context.Context, id string) (market.Listing, error) {
	var out []market.Listing
	if err := s.client.Select(ctx, tableListings, eq("id", id), &out); err != nil {
		return market.Listing{}, errors.Collaborator("get listing", err)
	}
	if len(out) == 0 {
		return market.Listing{}, errors.NotFound(fmt.Sprintf("listing %s not found", id))
	}
	return out[0], nil
}

func (s *Store) ListListings(ctx context.Context) ([]market.Listing, error) {
	var out []market.Listing
	// created_at order preserves the stable tie-break for matching.
	if err := s.client.Select(ctx, tableListings, "order=created_at.asc", &out); err != nil {
		return nil, errors.Collaborator("list listings", err)
	}
	return out, nil
}

func (s *Store) ListListingsByProvider(ctx context.Context, providerID string) ([]market.Listing, error) {
	var out []market.Listing
	query := eq("provider_id", providerID) + "&order=created_at.asc"
	if err := s.client.Select(ctx, tableListings, query, &out); err != nil {
		return nil, errors.Collaborator("list listings by provider", err)
	}
	return out, nil
}

// RequestStore implementation ------------------------------------------------

func (s *Store) CreateRequest(ctx context.Context, r market.Request) (market.Request, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	var out []market.Request
	if err := s.client.Insert(ctx, tableRequests, r, &out); err != nil {
		return market.Request{}, errors.Collaborator("create request", err)
	}
	if len(out) > 0 {
		return out[0], nil
	}
	return r, nil
}

func (s *Store) GetRequest(ctx context.Context, id string) (market.Request, error) {
	var out []market.Request
	if err := s.client.Select(ctx, tableRequests, eq("id", id), &out); err != nil {
		return market.Request{}, errors.Collaborator("get request", err)
	}
	if len(out) == 0 {
		return market.Request{}, errors.NotFound(fmt.Sprintf("request %s not found", id))
	}
	return out[0], nil
}

func (s *Store) ListRequestsByShipper(ctx context.Context, shipperID string) ([]market.Request, error) {
	var out []market.Request
	query := eq("shipper_id", shipperID) + "&order=created_at.asc"
	if err := s.client.Select(ctx, tableRequests, query, &out); err != nil {
		return nil, errors.Collaborator("list requests by shipper", err)
	}
	return out, nil
}

// OrderStore implementation --------------------------------------------------

func (s *Store) CreateOrder(ctx context.Context, o market.Order) (market.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	var out []market.Order
	if err := s.client.Insert(ctx, tableOrders, o, &out); err != nil {
		return market.Order{}, errors.Collaborator("create order", err)
	}
	if len(out) > 0 {
		return out[0], nil
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (market.Order, error) {
	var out []market.Order
	if err := s.client.Select(ctx, tableOrders, eq("id", id), &out); err != nil {
		return market.Order{}, errors.Collaborator("get order", err)
	}
	if len(out) == 0 {
		return market.Order{}, errors.NotFound(fmt.Sprintf("order %s not found", id))
	}
	return out[0], nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status market.OrderStatus) (market.Order, error) {
	patch := map[string]interface{}{"status": status}
	var out []market.Order
	if err := s.client.Update(ctx, tableOrders, eq("id", id), patch, &out); err != nil {
		return market.Order{}, errors.Collaborator("update order status", err)
	}
	if len(out) == 0 {
		return market.Order{}, errors.NotFound(fmt.Sprintf("order %s not found", id))
	}
	return out[0], nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]market.Order, error) {
	var out []market.Order
	escaped := neturl.QueryEscape(userID)
	query := "or=(shipper_id.eq." + escaped + ",provider_id.eq." + escaped + ")&order=created_at.asc"
	if err := s.client.Select(ctx, tableOrders, query, &out); err != nil {
		return nil, errors.Collaborator("list orders by user", err)
	}
	return out, nil
}

// TicketStore implementation -------------------------------------------------

func (s *Store) CreateTicket(ctx context.Context, t market.Ticket) (market.Ticket, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = market.TicketOpen
	}
	var out []market.Ticket
	if err := s.client.Insert(ctx, tableTickets, t, &out); err != nil {
		return market.Ticket{}, errors.Collaborator("create ticket", err)
	}
	if len(out) > 0 {
		return out[0], nil
	}
	return t, nil
}

func (s *Store) ListTicketsByReporter(ctx context.Context, reporterID string) ([]market.Ticket, error) {
	var out []market.Ticket
	query := eq("reporter_id", reporterID) + "&order=created_at.asc"
	if err := s.client.Select(ctx, tableTickets, query, &out); err != nil {
		return nil, errors.Collaborator("list tickets by reporter", err)
	}
	return out, nil
}
