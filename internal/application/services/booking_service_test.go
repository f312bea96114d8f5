package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vetordigital/leadfunnel/internal/application/services"
	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	apperrors "github.com/vetordigital/leadfunnel/pkg/errors"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByDate(ctx context.Context, date string) ([]*entities.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

type MockCRMSink struct {
	mock.Mock
}

func (m *MockCRMSink) UpsertContact(ctx context.Context, lead *entities.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

func (m *MockCRMSink) CreateOpportunity(ctx context.Context, contactID string, booking *entities.Booking) error {
	args := m.Called(ctx, contactID, booking)
	return args.Error(0)
}

type MockLeadLogSink struct {
	mock.Mock
}

func (m *MockLeadLogSink) Append(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func validBooking() *entities.Booking {
	return &entities.Booking{
		Lead: entities.Lead{
			Name:        "Ana Souza",
			Email:       "ana@example.com",
			Phone:       "+55 11 91234-5678",
			Company:     "Padaria Estrela",
			PageVariant: "trafego-pago",
		},
		Date: "2024-06-10",
		Slot: "14:00",
	}
}

func newBookingService(
	t *testing.T,
	repo *MockBookingRepository,
	calendar *MockCalendarProvider,
	crm *MockCRMSink,
	leadLog *MockLeadLogSink,
) *services.BookingService {
	t.Helper()
	// A nil *MockCRMSink stored directly in the interface parameter would
	// not compare equal to nil inside the service.
	var crmSink providers.CRMSink
	if crm != nil {
		crmSink = crm
	}
	var leadLogSink providers.LeadLogSink
	if leadLog != nil {
		leadLogSink = leadLog
	}
	return services.NewBookingServiceWithClock(
		repo, calendar, crmSink, leadLogSink, nil,
		time.Hour, fixedClock(t, "2024-06-03 08:00:00"),
	)
}

func TestBookingService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *entities.Booking)
		message string
	}{
		{
			name:    "missing lead name",
			mutate:  func(b *entities.Booking) { b.Lead.Name = "" },
			message: "lead name and email are required",
		},
		{
			name:    "missing lead email",
			mutate:  func(b *entities.Booking) { b.Lead.Email = "" },
			message: "lead name and email are required",
		},
		{
			name:    "malformed date",
			mutate:  func(b *entities.Booking) { b.Date = "10/06/2024" },
			message: "invalid date",
		},
		{
			name:    "slot off the hour grid",
			mutate:  func(b *entities.Booking) { b.Slot = "14:30" },
			message: "not a bookable slot",
		},
		{
			name:    "slot outside business hours",
			mutate:  func(b *entities.Booking) { b.Slot = "19:00" },
			message: "not a bookable slot",
		},
		{
			name:    "unsupported duration",
			mutate:  func(b *entities.Booking) { b.DurationMinutes = 45 },
			message: "duration must be 30 or 60 minutes",
		},
		{
			name: "slot in the past",
			mutate: func(b *entities.Booking) {
				b.Date = "2024-06-01"
			},
			message: "cannot book a slot in the past",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBookingRepository)
			calendar := new(MockCalendarProvider)
			service := newBookingService(t, repo, calendar, nil, nil)

			booking := validBooking()
			tt.mutate(booking)

			_, err := service.CreateBooking(context.Background(), booking)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.message)

			calendar.AssertNotCalled(t, "CreateEvent")
			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	t.Run("creates the event with meeting link and reminders", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		calendar := new(MockCalendarProvider)
		calendar.On("CreateEvent", mock.Anything, mock.MatchedBy(func(req *entities.EventRequest) bool {
			return req.WithMeetingLink &&
				assert.ObjectsAreEqual([]int{1440, 120, 15}, req.ReminderMinutes) &&
				req.Start.Hour() == 14 && req.End.Hour() == 15 &&
				len(req.Attendees) == 1 && req.Attendees[0] == "ana@example.com"
		})).Return(&entities.CalendarEvent{ID: "evt-123", MeetingLink: "https://meet.google.com/abc-defg-hij"}, nil)

		service := newBookingService(t, repo, calendar, nil, nil)

		confirmation, err := service.CreateBooking(context.Background(), validBooking())
		require.NoError(t, err)
		assert.NotEmpty(t, confirmation.BookingID)
		assert.Equal(t, "evt-123", confirmation.EventID)
		assert.Equal(t, "https://meet.google.com/abc-defg-hij", confirmation.MeetingLink)

		calendar.AssertExpectations(t)
		repo.AssertExpectations(t)

		saved := repo.Calls[0].Arguments.Get(1).(*entities.Booking)
		assert.Equal(t, "evt-123", saved.EventID)
		assert.Equal(t, 60, saved.DurationMinutes)
		assert.False(t, saved.CreatedAt.IsZero())
	})

	t.Run("calendar failure surfaces as an external error", func(t *testing.T) {
		repo := new(MockBookingRepository)
		calendar := new(MockCalendarProvider)
		calendar.On("CreateEvent", mock.Anything, mock.Anything).
			Return(nil, errors.New("quota exceeded"))

		service := newBookingService(t, repo, calendar, nil, nil)

		_, err := service.CreateBooking(context.Background(), validBooking())
		require.Error(t, err)
		assert.True(t, apperrors.IsExternal(err))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("persistence failure keeps the event id in the error", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		calendar := new(MockCalendarProvider)
		calendar.On("CreateEvent", mock.Anything, mock.Anything).
			Return(&entities.CalendarEvent{ID: "evt-orphan"}, nil)

		service := newBookingService(t, repo, calendar, nil, nil)

		_, err := service.CreateBooking(context.Background(), validBooking())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
		assert.Contains(t, err.Error(), "evt-orphan")
	})

	t.Run("accepts a 30 minute session", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		calendar := new(MockCalendarProvider)
		calendar.On("CreateEvent", mock.Anything, mock.MatchedBy(func(req *entities.EventRequest) bool {
			return req.End.Sub(req.Start) == 30*time.Minute
		})).Return(&entities.CalendarEvent{ID: "evt-short"}, nil)

		service := newBookingService(t, repo, calendar, nil, nil)

		booking := validBooking()
		booking.DurationMinutes = 30
		_, err := service.CreateBooking(context.Background(), booking)
		require.NoError(t, err)
		calendar.AssertExpectations(t)
	})
}

func TestBookingService_Lookups(t *testing.T) {
	t.Run("get booking requires an id", func(t *testing.T) {
		repo := new(MockBookingRepository)
		service := newBookingService(t, repo, new(MockCalendarProvider), nil, nil)

		_, err := service.GetBooking(context.Background(), "")
		assert.True(t, apperrors.IsValidation(err))
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("list bookings validates the date first", func(t *testing.T) {
		repo := new(MockBookingRepository)
		service := newBookingService(t, repo, new(MockCalendarProvider), nil, nil)

		_, err := service.ListBookings(context.Background(), "junho 10")
		assert.True(t, apperrors.IsValidation(err))
		repo.AssertNotCalled(t, "ListByDate")
	})

	t.Run("list bookings passes through the repository", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("ListByDate", mock.Anything, "2024-06-10").
			Return([]*entities.Booking{{ID: "bk-1"}, {ID: "bk-2"}}, nil)

		service := newBookingService(t, repo, new(MockCalendarProvider), nil, nil)

		bookings, err := service.ListBookings(context.Background(), "2024-06-10")
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})
}

func TestBookingService_Sinks(t *testing.T) {
	t.Run("fans the booking out to the lead log and the crm", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		calendar := new(MockCalendarProvider)
		calendar.On("CreateEvent", mock.Anything, mock.Anything).
			Return(&entities.CalendarEvent{ID: "evt-1"}, nil)

		crm := new(MockCRMSink)
		crm.On("UpsertContact", mock.Anything, mock.MatchedBy(func(lead *entities.Lead) bool {
			return lead.Email == "ana@example.com"
		})).Return("contact-9", nil)
		crm.On("CreateOpportunity", mock.Anything, "contact-9", mock.Anything).Return(nil)

		leadLog := new(MockLeadLogSink)
		leadLog.On("Append", mock.Anything, mock.Anything).Return(nil)

		service := newBookingService(t, repo, calendar, crm, leadLog)

		_, err := service.CreateBooking(context.Background(), validBooking())
		require.NoError(t, err)

		crm.AssertExpectations(t)
		leadLog.AssertExpectations(t)
	})

	t.Run("sink failures do not fail the booking", func(t *testing.T) {
		repo := new(MockBookingRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		calendar := new(MockCalendarProvider)
		calendar.On("CreateEvent", mock.Anything, mock.Anything).
			Return(&entities.CalendarEvent{ID: "evt-2"}, nil)

		crm := new(MockCRMSink)
		crm.On("UpsertContact", mock.Anything, mock.Anything).
			Return("", errors.New("crm unavailable"))

		leadLog := new(MockLeadLogSink)
		leadLog.On("Append", mock.Anything, mock.Anything).
			Return(errors.New("sheets unavailable"))

		service := newBookingService(t, repo, calendar, crm, leadLog)

		confirmation, err := service.CreateBooking(context.Background(), validBooking())
		require.NoError(t, err)
		assert.Equal(t, "evt-2", confirmation.EventID)
		crm.AssertNotCalled(t, "CreateOpportunity")
	})
}
