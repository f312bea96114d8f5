package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
)

// BookingService defines the interface for booking operations
type BookingService interface {
	CreateBooking(ctx context.Context, booking *entities.Booking) (*entities.BookingConfirmation, error)
	GetBooking(ctx context.Context, id string) (*entities.Booking, error)
	ListBookings(ctx context.Context, date string) ([]*entities.Booking, error)
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

// bookingRequest is the flat payload the funnel frontend submits.
type bookingRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Company         string `json:"company"`
	PageVariant     string `json:"page_variant"`
	Notes           string `json:"notes"`
	Date            string `json:"date"`
	Slot            string `json:"slot"`
	DurationMinutes int    `json:"duration_minutes"`
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking := &entities.Booking{
		Lead: entities.Lead{
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Company:     req.Company,
			PageVariant: req.PageVariant,
			Notes:       req.Notes,
		},
		Date:            req.Date,
		Slot:            req.Slot,
		DurationMinutes: req.DurationMinutes,
	}

	confirmation, err := h.service.CreateBooking(r.Context(), booking)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, confirmation)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}
