package services

import (
	"fmt"
	"time"

	"context"

	"github.com/google/uuid"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/internal/domain/repositories"
	"github.com/vetordigital/leadfunnel/internal/domain/schedule"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/observability"
	apperrors "github.com/vetordigital/leadfunnel/pkg/errors"
	"github.com/vetordigital/leadfunnel/pkg/retry"
)

// reminderMinutes is the fixed reminder policy for created events:
// 24 hours, 2 hours and 15 minutes before the session.
var reminderMinutes = []int{1440, 120, 15}

// BookingService turns a confirmed (date, slot) into a calendar event and
// fans the captured lead out to the downstream sinks. Booking is single-shot
// request/response; there is no pending/confirmed/cancelled lifecycle.
type BookingService struct {
	repo            repositories.BookingRepository
	calendar        providers.CalendarProvider
	crm             providers.CRMSink
	leadLog         providers.LeadLogSink
	notifications   *NotificationService
	defaultDuration time.Duration
	now             func() time.Time
}

// NewBookingService creates a new booking service. crm, leadLog and
// notifications may be nil when the corresponding sink is not configured.
func NewBookingService(
	repo repositories.BookingRepository,
	calendar providers.CalendarProvider,
	crm providers.CRMSink,
	leadLog providers.LeadLogSink,
	notifications *NotificationService,
	defaultDuration time.Duration,
) *BookingService {
	return NewBookingServiceWithClock(repo, calendar, crm, leadLog, notifications, defaultDuration, time.Now)
}

// NewBookingServiceWithClock creates a booking service with an explicit clock.
func NewBookingServiceWithClock(
	repo repositories.BookingRepository,
	calendar providers.CalendarProvider,
	crm providers.CRMSink,
	leadLog providers.LeadLogSink,
	notifications *NotificationService,
	defaultDuration time.Duration,
	now func() time.Time,
) *BookingService {
	return &BookingService{
		repo:            repo,
		calendar:        calendar,
		crm:             crm,
		leadLog:         leadLog,
		notifications:   notifications,
		defaultDuration: defaultDuration,
		now:             now,
	}
}

// CreateBooking validates the request, creates the calendar event and
// persists the booking. Input faults surface before any external call; a
// calendar failure surfaces as an external error with no retry here, since
// retrying is the caller's decision. Sink failures after the event exists
// are logged, never returned.
func (s *BookingService) CreateBooking(ctx context.Context, booking *entities.Booking) (*entities.BookingConfirmation, error) {
	if booking.Lead.Name == "" || booking.Lead.Email == "" {
		return nil, apperrors.NewValidationError("lead name and email are required")
	}

	day, err := schedule.ParseDate(booking.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date: expected YYYY-MM-DD")
	}

	if !schedule.IsTemplateSlot(booking.Slot) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("slot %q is not a bookable slot", booking.Slot))
	}

	duration := s.defaultDuration
	switch booking.DurationMinutes {
	case 0:
		booking.DurationMinutes = int(duration.Minutes())
	case 30, 60:
		duration = time.Duration(booking.DurationMinutes) * time.Minute
	default:
		return nil, apperrors.NewValidationError("duration must be 30 or 60 minutes")
	}

	start, end, err := schedule.SlotTimes(day, booking.Slot, duration)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if start.Before(s.now()) {
		return nil, apperrors.NewValidationError("cannot book a slot in the past")
	}
	booking.StartsAt = start
	booking.EndsAt = end

	callStart := time.Now()
	event, err := s.calendar.CreateEvent(ctx, &entities.EventRequest{
		Summary:         fmt.Sprintf("Sessão estratégica - %s", booking.Lead.Name),
		Description:     s.eventDescription(booking),
		Start:           start,
		End:             end,
		Attendees:       []string{booking.Lead.Email},
		ReminderMinutes: reminderMinutes,
		WithMeetingLink: true,
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to create calendar event", err)
	}
	observability.LoggerFromContext(ctx).Info().
		Str("event_id", event.ID).
		Dur("calendar_call", time.Since(callStart)).
		Msg("calendar event created")

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.EventID = event.ID
	booking.MeetingLink = event.MeetingLink
	booking.CreatedAt = s.now()
	booking.UpdatedAt = booking.CreatedAt

	if err := s.repo.Create(ctx, booking); err != nil {
		// The calendar event exists already; keep its id in the error so the
		// booking can be reconciled by hand.
		return nil, apperrors.NewInternalError(
			fmt.Sprintf("failed to save booking for event %s", event.ID), err)
	}

	s.dispatchSinks(ctx, booking)

	return &entities.BookingConfirmation{
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		MeetingLink: booking.MeetingLink,
	}, nil
}

// GetBooking returns a persisted booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*entities.Booking, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("booking id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// ListBookings returns the bookings captured for a YYYY-MM-DD date.
func (s *BookingService) ListBookings(ctx context.Context, date string) ([]*entities.Booking, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, apperrors.NewValidationError("invalid date: expected YYYY-MM-DD")
	}
	return s.repo.ListByDate(ctx, date)
}

// dispatchSinks pushes the booking to the lead log, the CRM and the
// confirmation email. All best-effort: the lead already has a confirmed
// event, so a sink failure only loses bookkeeping, not the appointment.
func (s *BookingService) dispatchSinks(ctx context.Context, booking *entities.Booking) {
	logger := observability.LoggerFromContext(ctx)

	if s.leadLog != nil {
		err := retry.Do(ctx, retry.SinkConfig(), func() error {
			return s.leadLog.Append(ctx, booking)
		})
		if err != nil {
			logger.Error().Str("booking_id", booking.ID).Err(err).Msg("lead log append failed")
		}
	}

	if s.crm != nil {
		contactID, err := s.crm.UpsertContact(ctx, &booking.Lead)
		if err != nil {
			logger.Error().Str("booking_id", booking.ID).Err(err).Msg("crm contact upsert failed")
		} else if err := s.crm.CreateOpportunity(ctx, contactID, booking); err != nil {
			logger.Error().
				Str("booking_id", booking.ID).
				Str("contact_id", contactID).
				Err(err).
				Msg("crm opportunity creation failed")
		}
	}

	if s.notifications != nil {
		if err := s.notifications.SendBookingConfirmation(ctx, booking); err != nil {
			logger.Error().Str("booking_id", booking.ID).Err(err).Msg("confirmation email failed")
		}
	}
}

func (s *BookingService) eventDescription(booking *entities.Booking) string {
	desc := fmt.Sprintf("Lead: %s\nEmail: %s\nTelefone: %s", booking.Lead.Name, booking.Lead.Email, booking.Lead.Phone)
	if booking.Lead.Company != "" {
		desc += fmt.Sprintf("\nEmpresa: %s", booking.Lead.Company)
	}
	if booking.Lead.PageVariant != "" {
		desc += fmt.Sprintf("\nOrigem: %s", booking.Lead.PageVariant)
	}
	if booking.Lead.Notes != "" {
		desc += fmt.Sprintf("\n\n%s", booking.Lead.Notes)
	}
	return desc
}
