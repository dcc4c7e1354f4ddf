// Package memory is an in-memory implementation of the storage interfaces.
// It is safe for concurrent use and is primarily intended for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carryspace/marketplace/internal/app/storage"
	"github.com/carryspace/marketplace/internal/domain/market"
	"github.com/carryspace/marketplace/internal/errors"
)

// Store holds every record type behind one lock. Listings keep a separate
// ordered slice so matching sees creation order.
type Store struct {
	mu           sync.RWMutex
	listings     map[string]market.Listing
	listingOrder []string
	requests     map[string]market.Request
	requestOrder []string
	orders       map[string]market.Order
	orderOrder   []string
	tickets      map[string]market.Ticket
	ticketOrder  []string
}

var _ storage.ListingStore = (*Store)(nil)
var _ storage.RequestStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.TicketStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		listings: make(map[string]market.Listing),
		requests: make(map[string]market.Request),
		orders:   make(map[string]market.Order),
		tickets:  make(map[string]market.Ticket),
	}
}

// ListingStore implementation ------------------------------------------------

func (s *Store) CreateListing(_ context.Context, l market.Listing) (market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	} else if _, exists := s.listings[l.ID]; exists {
		return market.Listing{}, fmt.Errorf("listing %s already exists", l.ID)
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	s.listings[l.ID] = l
	s.listingOrder = append(s.listingOrder, l.ID)
	return l, nil
}

func (s *Store) GetListing(_ context.Context, id string) (market.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return market.Listing{}, errors.NotFound(fmt.Sprintf("listing %s not found", id))
	}
	return l, nil
}

func (s *Store) ListListings(_ context.Context) ([]market.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]market.Listing, 0, len(s.listingOrder))
	for _, id := range s.listingOrder {
		out = append(out, s.listings[id])
	}
	return out, nil
}

func (s *Store) ListListingsByProvider(_ context.Context, providerID string) ([]market.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]market.Listing, 0)
	for _, id := range s.listingOrder {
		if l := s.listings[id]; l.ProviderID == providerID {
			out = append(out, l)
		}
	}
	return out, nil
}

// RequestStore implementation ------------------------------------------------

func (s *Store) CreateRequest(_ context.Context, r market.Request) (market.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if _, exists := s.requests[r.ID]; exists {
		return market.Request{}, fmt.Errorf("request %s already exists", r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	s.requests[r.ID] = r
	s.requestOrder = append(s.requestOrder, r.ID)
	return r, nil
}

func (s *Store) GetRequest(_ context.Context, id string) (market.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return market.Request{}, errors.NotFound(fmt.Sprintf("request %s not found", id))
	}
	return r, nil
}

func (s *Store) ListRequestsByShipper(_ context.Context, shipperID string) ([]market.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]market.Request, 0)
	for _, id := range s.requestOrder {
		if r := s.requests[id]; r.ShipperID == shipperID {
			out = append(out, r)
		}
	}
	return out, nil
}

// OrderStore implementation --------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o market.Order) (market.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	} else if _, exists := s.orders[o.ID]; exists {
		return market.Order{}, fmt.Errorf("order %s already exists", o.ID)
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	s.orders[o.ID] = o
	s.orderOrder = append(s.orderOrder, o.ID)
	return o, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (market.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return market.Order{}, errors.NotFound(fmt.Sprintf("order %s not found", id))
	}
	return o, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status market.OrderStatus) (market.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return market.Order{}, errors.NotFound(fmt.Sprintf("order %s not found", id))
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	return o, nil
}

func (s *Store) ListOrdersByUser(_ context.Context, userID string) ([]market.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]market.Order, 0)
	for _, id := range s.orderOrder {
		if o := s.orders[id]; o.ShipperID == userID || o.ProviderID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// TicketStore implementation -------------------------------------------------

func (s *Store) CreateTicket(_ context.Context, t market.Ticket) (market.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	} else if _, exists := s.tickets[t.ID]; exists {
		return market.Ticket{}, fmt.Errorf("ticket %s already exists", t.ID)
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = market.TicketOpen
	}

	s.tickets[t.ID] = t
	s.ticketOrder = append(s.ticketOrder, t.ID)
	return t, nil
}

func (s *Store) ListTicketsByReporter(_ context.Context, reporterID string) ([]market.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]market.Ticket, 0)
	for _, id := range s.ticketOrder {
		if t := s.tickets[id]; t.ReporterID == reporterID {
			out = append(out, t)
		}
	}
	return out, nil
}
