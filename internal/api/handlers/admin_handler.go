package handlers

import (
	"net/http"
)

// AdminHandler handles operational endpoints
type AdminHandler struct {
	availability AvailabilityService
	bookings     BookingService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(availability AvailabilityService, bookings BookingService) *AdminHandler {
	return &AdminHandler{
		availability: availability,
		bookings:     bookings,
	}
}

// ClearAvailabilityCache handles POST /api/admin/cache/clear. Clearing an
// already empty cache succeeds the same way.
func (h *AdminHandler) ClearAvailabilityCache(w http.ResponseWriter, r *http.Request) {
	h.availability.ClearCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ListBookings handles GET /api/admin/bookings?date=YYYY-MM-DD
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	bookings, err := h.bookings.ListBookings(r.Context(), date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":     date,
		"bookings": bookings,
		"count":    len(bookings),
	})
}
