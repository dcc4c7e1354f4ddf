// Package httpapi exposes the marketplace REST API.
package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carryspace/marketplace/internal/app"
	"github.com/carryspace/marketplace/internal/app/services/listings"
	"github.com/carryspace/marketplace/internal/app/services/requests"
	"github.com/carryspace/marketplace/internal/domain/geo"
	"github.com/carryspace/marketplace/internal/domain/market"
	"github.com/carryspace/marketplace/internal/errors"
	"github.com/carryspace/marketplace/internal/httputil"
	"github.com/carryspace/marketplace/internal/middleware"
	"github.com/carryspace/marketplace/internal/metrics"
	"github.com/carryspace/marketplace/pkg/logger"
)

const (
	maxJSONBody     = 1 << 20  // 1 MiB
	maxUploadMemory = 16 << 20 // 16 MiB
	maxDocumentSize = 8 << 20  // 8 MiB per document
	dateLayout      = "2006-01-02"
)

// handler bundles the HTTP endpoints for the application services.
type handler struct {
	app *app.Application
	m   *metrics.Metrics
	log *logger.Logger
}

// Options configures the router middleware chain.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
	Metrics        *metrics.Metrics
	Logger         *logger.Logger
}

// publicPaths never require authentication.
var publicPaths = []string{
	"/health",
	"/metrics",
	"/me",
	"/quotes",
	"/settlements/preview",
	"/providers",
	"/airports",
	"/airports/distance",
}

// NewRouter builds the REST API router with the full middleware chain.
func NewRouter(application *app.Application, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	h := &handler{app: application, m: m, log: log}

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.MetricsMiddleware(m))
	r.Use(middleware.NewCORSMiddleware(opts.AllowedOrigins).Handler)
	if opts.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, log).Handler)
	}
	r.Use(middleware.NewAuthMiddleware(opts.JWTSecret, log, publicPaths).Handler)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/me", h.me).Methods(http.MethodGet)

	r.HandleFunc("/quotes", h.quote).Methods(http.MethodPost)
	r.HandleFunc("/settlements/preview", h.previewSettlement).Methods(http.MethodPost)
	r.HandleFunc("/providers", h.findProviders).Methods(http.MethodGet)

	r.HandleFunc("/airports", h.listAirports).Methods(http.MethodGet)
	r.HandleFunc("/airports/distance", h.distance).Methods(http.MethodGet)
	r.HandleFunc("/airports/import", h.importAirports).Methods(http.MethodPost)

	r.HandleFunc("/listings", h.publishListing).Methods(http.MethodPost)
	r.HandleFunc("/listings", h.listListings).Methods(http.MethodGet)
	r.HandleFunc("/requests", h.submitRequest).Methods(http.MethodPost)
	r.HandleFunc("/requests", h.listRequests).Methods(http.MethodGet)

	r.HandleFunc("/orders", h.placeOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/status", h.advanceOrder).Methods(http.MethodPost)

	r.HandleFunc("/tickets", h.openTicket).Methods(http.MethodPost)
	r.HandleFunc("/tickets", h.listTickets).Methods(http.MethodGet)

	return r
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := errors.GetServiceError(err)
	if svcErr == nil {
		svcErr = errors.Internal("request failed", err)
	}
	if svcErr.HTTPStatus >= 500 {
		h.log.WithContext(r.Context()).WithError(err).Error("request failed")
	}
	httputil.WriteErrorResponse(w, r, svcErr.HTTPStatus, string(svcErr.Code), svcErr.Message, svcErr.Details)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Health(r.Context()); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// me resolves the caller's identity: against the auth backend when one is
// configured, otherwise from the validated token claims.
func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	if h.app.Identity != nil {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user, err := h.app.Identity.GetUser(r.Context(), token)
		if err != nil {
			h.writeError(w, r, errors.Collaborator("resolve identity", err))
			return
		}
		if user == nil {
			h.writeError(w, r, errors.Unauthorized("invalid or missing access token"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, user)
		return
	}

	userID := logger.GetUserID(r.Context())
	if userID == "" {
		h.writeError(w, r, errors.Unauthorized("invalid or missing access token"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"id":    userID,
		"email": logger.GetEmail(r.Context()),
	})
}

// Pricing and settlement -----------------------------------------------------

func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Origin             string  `json:"origin,omitempty"`
		Destination        string  `json:"destination,omitempty"`
		OriginAirport      string  `json:"origin_airport,omitempty"`
		DestinationAirport string  `json:"destination_airport,omitempty"`
		WeightKg           float64 `json:"weight_kg"`
		Currency           string  `json:"currency,omitempty"`
	}
	if err := httputil.DecodeJSON(r.Body, maxJSONBody, &payload); err != nil {
		h.writeError(w, r, errors.Validation(err.Error()))
		return
	}

	var (
		q   interface{}
		err error
	)
	switch {
	case payload.OriginAirport != "" && payload.DestinationAirport != "":
		q, err = h.app.Quotes.QuoteByAirports(payload.OriginAirport, payload.DestinationAirport, payload.WeightKg, payload.Currency)
	case payload.Origin != "" && payload.Destination != "":
		q, err = h.app.Quotes.QuoteByRegions(payload.Origin, payload.Destination, payload.WeightKg, payload.Currency)
	default:
		err = errors.Validation("a region pair or an airport pair is required")
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

func (h *handler) previewSettlement(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Total float64 `json:"total"`
	}
	if err := httputil.DecodeJSON(r.Body, maxJSONBody, &payload); err != nil {
		h.writeError(w, r, errors.Validation(err.Error()))
		return
	}

	disclosure, err := h.app.Quotes.PreviewSettlement(payload.Total, logger.GetEmail(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, disclosure)
}

// Matching -------------------------------------------------------------------

func (h *handler) findProviders(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	minCapacity := 0.0
	if raw := r.URL.Query().Get("min_capacity"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.writeError(w, r, errors.Validation("min_capacity must be a number"))
			return
		}
		minCapacity = v
	}

	matched, err := h.app.Listings.FindProviders(r.Context(), origin, destination, minCapacity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.m.RecordSearch(len(matched) > 0)
	httputil.WriteJSON(w, http.StatusOK, matched)
}

// Airports -------------------------------------------------------------------

func (h *handler) listAirports(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.app.Quotes.Airports())
}

func (h *handler) distance(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	km, err := h.app.Quotes.Distance(from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"from": strings.ToUpper(from), "to": strings.ToUpper(to), "distance_km": km})
}

func (h *handler) importAirports(w http.ResponseWriter, r *http.Request) {
	caller := logger.GetEmail(r.Context())

	contentType := r.Header.Get("Content-Type")
	var (
		result geo.ImportResult
		err    error
	)
	if strings.HasPrefix(contentType, "text/") {
		body, readErr := io.ReadAll(io.LimitReader(r.Body, maxUploadMemory))
		if readErr != nil {
			h.writeError(w, r, errors.Validation("read import body"))
			return
		}
		result, err = h.app.Quotes.ImportAirportsText(string(body), caller)
	} else {
		var records []geo.Airport
		if decodeErr := httputil.DecodeJSON(r.Body, maxUploadMemory, &records); decodeErr != nil {
			h.writeError(w, r, errors.Validation(decodeErr.Error()))
			return
		}
		result, err = h.app.Quotes.ImportAirports(records, caller)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// Listings and requests ------------------------------------------------------

// formDocument reads an optional uploaded file part.
func formDocument(r *http.Request, field string) (*listings.Document, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		return nil, err
	}
	return &listings.Document{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(value))
}

func (h *handler) publishListing(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.writeError(w, r, errors.Validation("listing publish expects multipart form data"))
		return
	}

	travelDate, err := parseDate(r.FormValue("travel_date"))
	if err != nil {
		h.writeError(w, r, errors.Validation("travel_date must be YYYY-MM-DD"))
		return
	}
	capacity, err := strconv.ParseFloat(r.FormValue("capacity_kg"), 64)
	if err != nil {
		h.writeError(w, r, errors.Validation("capacity_kg must be a number"))
		return
	}

	in := listings.PublishInput{
		ProviderID:  logger.GetUserID(r.Context()),
		Origin:      r.FormValue("origin"),
		Destination: r.FormValue("destination"),
		TravelDate:  travelDate,
		CapacityKg:  capacity,
		Currency:    r.FormValue("currency"),
	}
	for _, doc := range []struct {
		field  string
		target **listings.Document
	}{
		{"passport", &in.Passport},
		{"photo", &in.Photo},
		{"flight_ticket", &in.FlightTicket},
	} {
		d, err := formDocument(r, doc.field)
		if err != nil {
			h.writeError(w, r, errors.Validation("read uploaded "+doc.field))
			return
		}
		*doc.target = d
	}

	listing, err := h.app.Listings.Publish(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, listing)
}

func (h *handler) listListings(w http.ResponseWriter, r *http.Request) {
	out, err := h.app.Listings.ListByProvider(r.Context(), logger.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *handler) submitRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.writeError(w, r, errors.Validation("request submission expects multipart form data"))
		return
	}

	shipDate, err := parseDate(r.FormValue("ship_date"))
	if err != nil {
		h.writeError(w, r, errors.Validation("ship_date must be YYYY-MM-DD"))
		return
	}
	weight, err := strconv.ParseFloat(r.FormValue("weight_kg"), 64)
	if err != nil {
		h.writeError(w, r, errors.Validation("weight_kg must be a number"))
		return
	}

	passport, err := formDocument(r, "passport")
	if err != nil {
		h.writeError(w, r, errors.Validation("read uploaded passport"))
		return
	}
	photo, err := formDocument(r, "photo")
	if err != nil {
		h.writeError(w, r, errors.Validation("read uploaded photo"))
		return
	}

	in := requests.SubmitInput{
		ShipperID:   logger.GetUserID(r.Context()),
		Origin:      r.FormValue("origin"),
		Destination: r.FormValue("destination"),
		ShipDate:    shipDate,
		WeightKg:    weight,
		ContentType: r.FormValue("content_type"),
		Currency:    r.FormValue("currency"),
		Passport:    passport,
		Photo:       photo,
	}

	req, err := h.app.Requests.Submit(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, req)
}

func (h *handler) listRequests(w http.ResponseWriter, r *http.Request) {
	out, err := h.app.Requests.ListByShipper(r.Context(), logger.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// Orders and tickets ---------------------------------------------------------

func (h *handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ListingID string `json:"listing_id"`
		RequestID string `json:"request_id"`
	}
	if err := httputil.DecodeJSON(r.Body, maxJSONBody, &payload); err != nil {
		h.writeError(w, r, errors.Validation(err.Error()))
		return
	}

	order, err := h.app.Orders.Place(r.Context(), logger.GetUserID(r.Context()), payload.ListingID, payload.RequestID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, order)
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	out, err := h.app.Orders.ListByUser(r.Context(), logger.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *handler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := httputil.DecodeJSON(r.Body, maxJSONBody, &payload); err != nil {
		h.writeError(w, r, errors.Validation(err.Error()))
		return
	}

	order, err := h.app.Orders.Advance(r.Context(), mux.Vars(r)["id"], market.OrderStatus(payload.Status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

func (h *handler) openTicket(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := httputil.DecodeJSON(r.Body, maxJSONBody, &payload); err != nil {
		h.writeError(w, r, errors.Validation(err.Error()))
		return
	}

	ticket, err := h.app.Orders.OpenTicket(r.Context(), logger.GetUserID(r.Context()), payload.Subject, payload.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ticket)
}

func (h *handler) listTickets(w http.ResponseWriter, r *http.Request) {
	out, err := h.app.Orders.ListTickets(r.Context(), logger.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
