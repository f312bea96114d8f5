package routes

import (
	"net/http"

	"github.com/vetordigital/leadfunnel/internal/api/handlers"
	"github.com/vetordigital/leadfunnel/internal/api/middleware"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	bookingHandler      *handlers.BookingHandler
	adminHandler        *handlers.AdminHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	adminHandler *handlers.AdminHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		adminHandler:        adminHandler,
		allowedOrigins:      allowedOrigins,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Availability endpoints
	r.mux.HandleFunc("GET /api/availability", r.availabilityHandler.GetAvailability)

	// Booking endpoints
	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.CreateBooking)
	r.mux.HandleFunc("GET /api/bookings/{id}", r.bookingHandler.GetBooking)

	// Admin endpoints
	r.mux.HandleFunc("POST /api/admin/cache/clear", r.adminHandler.ClearAvailabilityCache)
	r.mux.HandleFunc("GET /api/admin/bookings", r.adminHandler.ListBookings)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
