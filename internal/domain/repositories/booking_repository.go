package repositories

import (
	"context"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
)

// BookingRepository is the system of record for captured bookings.
type BookingRepository interface {
	// Create persists a booking with its lead fields.
	Create(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by its identifier.
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// ListByDate returns the bookings for a YYYY-MM-DD date, ascending by
	// start time.
	ListByDate(ctx context.Context, date string) ([]*entities.Booking, error)
}
