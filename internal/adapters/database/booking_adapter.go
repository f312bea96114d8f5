package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/repositories"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetordigital/leadfunnel/pkg/errors"
)

var bookingColumns = []interface{}{
	"id", "lead_name", "lead_email", "lead_phone", "lead_company",
	"page_variant", "notes", "booking_date", "slot", "duration_minutes",
	"starts_at", "ends_at", "event_id", "meeting_link",
	"created_at", "updated_at",
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a booking with its lead fields
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	record := goqu.Record{
		"id":               booking.ID,
		"lead_name":        booking.Lead.Name,
		"lead_email":       booking.Lead.Email,
		"lead_phone":       booking.Lead.Phone,
		"lead_company":     booking.Lead.Company,
		"page_variant":     booking.Lead.PageVariant,
		"notes":            booking.Lead.Notes,
		"booking_date":     booking.Date,
		"slot":             booking.Slot,
		"duration_minutes": booking.DurationMinutes,
		"starts_at":        booking.StartsAt,
		"ends_at":          booking.EndsAt,
		"event_id":         booking.EventID,
		"meeting_link":     booking.MeetingLink,
		"created_at":       booking.CreatedAt,
		"updated_at":       booking.UpdatedAt,
	}

	query, args, err := a.db.Insert("bookings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create booking", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := a.scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}
	return booking, nil
}

// ListByDate returns the bookings for a date, ascending by start time
func (a *BookingAdapter) ListByDate(ctx context.Context, date string) ([]*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(goqu.Ex{"booking_date": date}).
		Order(goqu.I("starts_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := a.scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bookings", err)
	}
	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *BookingAdapter) scanBooking(row rowScanner) (*entities.Booking, error) {
	booking := &entities.Booking{}
	var company, notes, eventID, meetingLink sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.Lead.Name,
		&booking.Lead.Email,
		&booking.Lead.Phone,
		&company,
		&booking.Lead.PageVariant,
		&notes,
		&booking.Date,
		&booking.Slot,
		&booking.DurationMinutes,
		&booking.StartsAt,
		&booking.EndsAt,
		&eventID,
		&meetingLink,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Lead.Company = company.String
	booking.Lead.Notes = notes.String
	booking.EventID = eventID.String
	booking.MeetingLink = meetingLink.String
	return booking, nil
}
