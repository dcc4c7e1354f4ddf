// Package market defines the marketplace records: published capacity
// listings, shipment requests, orders and support tickets.
package market

import "time"

// KYCDocuments references the identity documents uploaded before a listing
// or request may be created. Values are object-storage URLs.
type KYCDocuments struct {
	PassportURL     string `json:"passport_url,omitempty"`
	PhotoURL        string `json:"photo_url,omitempty"`
	FlightTicketURL string `json:"flight_ticket_url,omitempty"`
}

// Listing is a provider's published luggage capacity for a route and date.
// The price-per-kg is a snapshot copied in at creation time and is never
// recomputed from the rate sheet. Listings are immutable once created.
type Listing struct {
	ID          string       `json:"id"`
	ProviderID  string       `json:"provider_id"`
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	TravelDate  time.Time    `json:"travel_date"`
	CapacityKg  float64      `json:"capacity_kg"`
	PricePerKg  float64      `json:"price_per_kg"`
	Currency    string       `json:"currency"`
	Documents   KYCDocuments `json:"documents"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Request is a shipper's submitted need for capacity on a route and date.
// The quoted price-per-kg is the snapshot taken at submission time.
type Request struct {
	ID          string       `json:"id"`
	ShipperID   string       `json:"shipper_id"`
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	ShipDate    time.Time    `json:"ship_date"`
	WeightKg    float64      `json:"weight_kg"`
	ContentType string       `json:"content_type"`
	PricePerKg  float64      `json:"price_per_kg"`
	Subtotal    float64      `json:"subtotal"`
	Currency    string       `json:"currency"`
	Documents   KYCDocuments `json:"documents"`
	CreatedAt   time.Time    `json:"created_at"`
}

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderSettled   OrderStatus = "settled"
)

// Order joins a request to a listing with the escrow split snapshot taken
// when the order was placed.
type Order struct {
	ID            string      `json:"id"`
	ListingID     string      `json:"listing_id"`
	RequestID     string      `json:"request_id"`
	ShipperID     string      `json:"shipper_id"`
	ProviderID    string      `json:"provider_id"`
	Total         float64     `json:"total"`
	CarrierShare  float64     `json:"carrier_share"`
	PlatformShare float64     `json:"platform_share"`
	Currency      string      `json:"currency"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TicketStatus tracks a support ticket.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Ticket is a support ticket filed by a user.
type Ticket struct {
	ID         string       `json:"id"`
	ReporterID string       `json:"reporter_id"`
	Subject    string       `json:"subject"`
	Body       string       `json:"body"`
	Status     TicketStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
