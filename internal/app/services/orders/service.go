// Package orders places orders against listings and tracks support tickets.
package orders

import (
	"context"
	"strings"

	"github.com/carryspace/marketplace/internal/app/storage"
	"github.com/carryspace/marketplace/internal/domain/escrow"
	"github.com/carryspace/marketplace/internal/domain/market"
	"github.com/carryspace/marketplace/internal/errors"
	"github.com/carryspace/marketplace/pkg/logger"
)

// Service manages orders and support tickets.
type Service struct {
	orders   storage.OrderStore
	listings storage.ListingStore
	requests storage.RequestStore
	tickets  storage.TicketStore
	log      *logger.Logger
}

// New constructs an orders service.
func New(orders storage.OrderStore, listings storage.ListingStore, requests storage.RequestStore, tickets storage.TicketStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{orders: orders, listings: listings, requests: requests, tickets: tickets, log: log}
}

// Place books a request onto a listing. The total comes from the request's
// quoted snapshot and the escrow split is copied onto the order so later
// rate changes never alter a placed order.
func (s *Service) Place(ctx context.Context, shipperID, listingID, requestID string) (market.Order, error) {
	if shipperID == "" {
		return market.Order{}, errors.Validation("shipper id is required")
	}

	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return market.Order{}, err
	}
	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return market.Order{}, err
	}

	if req.ShipperID != shipperID {
		return market.Order{}, errors.Unauthorized("request belongs to another shipper")
	}
	if !strings.EqualFold(listing.Origin, req.Origin) || !strings.EqualFold(listing.Destination, req.Destination) {
		return market.Order{}, errors.Validation("listing and request routes do not match")
	}
	if listing.CapacityKg < req.WeightKg {
		return market.Order{}, errors.Validation("listing capacity is below the requested weight")
	}

	split, err := escrow.Settle(req.Subtotal)
	if err != nil {
		return market.Order{}, errors.Validation(err.Error())
	}

	order := market.Order{
		ListingID:     listing.ID,
		RequestID:     req.ID,
		ShipperID:     req.ShipperID,
		ProviderID:    listing.ProviderID,
		Total:         split.Total,
		CarrierShare:  split.CarrierShare,
		PlatformShare: split.PlatformShare,
		Currency:      req.Currency,
		Status:        market.OrderPending,
	}

	order, err = s.orders.CreateOrder(ctx, order)
	if err != nil {
		if errors.GetServiceError(err) != nil {
			return market.Order{}, err
		}
		return market.Order{}, errors.Collaborator("place order", err)
	}

	s.log.WithField("order_id", order.ID).
		WithField("listing_id", order.ListingID).
		WithField("request_id", order.RequestID).
		Info("order placed")
	return order, nil
}

// transitions defines the allowed order status moves.
var transitions = map[market.OrderStatus]map[market.OrderStatus]bool{
	market.OrderPending:   {market.OrderConfirmed: true},
	market.OrderConfirmed: {market.OrderDelivered: true},
	market.OrderDelivered: {market.OrderSettled: true},
}

// Advance moves an order to the next status.
func (s *Service) Advance(ctx context.Context, orderID string, next market.OrderStatus) (market.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return market.Order{}, err
	}
	if !transitions[order.Status][next] {
		return market.Order{}, errors.Validation("order cannot move from " + string(order.Status) + " to " + string(next))
	}
	return s.orders.UpdateOrderStatus(ctx, orderID, next)
}

// ListByUser returns every order the user participates in, as shipper or
// provider.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]market.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

// OpenTicket files a support ticket.
func (s *Service) OpenTicket(ctx context.Context, reporterID, subject, body string) (market.Ticket, error) {
	subject = strings.TrimSpace(subject)
	if reporterID == "" {
		return market.Ticket{}, errors.Validation("reporter id is required")
	}
	if subject == "" {
		return market.Ticket{}, errors.Validation("subject is required")
	}

	ticket, err := s.tickets.CreateTicket(ctx, market.Ticket{
		ReporterID: reporterID,
		Subject:    subject,
		Body:       strings.TrimSpace(body),
		Status:     market.TicketOpen,
	})
	if err != nil {
		if errors.GetServiceError(err) != nil {
			return market.Ticket{}, err
		}
		return market.Ticket{}, errors.Collaborator("open ticket", err)
	}

	s.log.WithField("ticket_id", ticket.ID).Info("support ticket opened")
	return ticket, nil
}

// ListTickets returns the reporter's tickets.
func (s *Service) ListTickets(ctx context.Context, reporterID string) ([]market.Ticket, error) {
	return s.tickets.ListTicketsByReporter(ctx, reporterID)
}
