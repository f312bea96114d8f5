package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vetordigital/leadfunnel/internal/adapters/cache"
	"github.com/vetordigital/leadfunnel/internal/application/services"
	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/schedule"
	apperrors "github.com/vetordigital/leadfunnel/pkg/errors"
)

// Mocks

type MockCalendarProvider struct {
	mock.Mock
}

func (m *MockCalendarProvider) ListBusyIntervals(ctx context.Context, from, to time.Time) ([]entities.BusyInterval, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.BusyInterval), args.Error(1)
}

func (m *MockCalendarProvider) CreateEvent(ctx context.Context, req *entities.EventRequest) (*entities.CalendarEvent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CalendarEvent), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.CacheEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CacheEvent, error) {
	args := m.Called(ctx, channel)
	return args.Get(0).(<-chan *entities.CacheEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	return nil
}

func fixedClock(t *testing.T, value string) func() time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, schedule.BusinessLocation())
	require.NoError(t, err)
	return func() time.Time { return ts }
}

func busyAt(t *testing.T, start, end string) entities.BusyInterval {
	t.Helper()
	s, err := time.ParseInLocation("2006-01-02 15:04:05", start, schedule.BusinessLocation())
	require.NoError(t, err)
	e, err := time.ParseInLocation("2006-01-02 15:04:05", end, schedule.BusinessLocation())
	require.NoError(t, err)
	return entities.BusyInterval{Start: s, End: e}
}

// Tests

func TestAvailabilityService_GetAvailableSlots(t *testing.T) {
	t.Run("rejects malformed dates without calling the calendar", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		service := services.NewAvailabilityService(calendar, cache.NewMemoryCache(time.Minute), nil, nil)

		_, err := service.GetAvailableSlots(context.Background(), "03/06/2024")
		assert.True(t, apperrors.IsValidation(err))
		calendar.AssertNotCalled(t, "ListBusyIntervals")
	})

	t.Run("future date skips the cutoff and removes busy hours", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		calendar.On("ListBusyIntervals", mock.Anything, mock.Anything, mock.Anything).
			Return([]entities.BusyInterval{
				busyAt(t, "2024-06-10 10:00:00", "2024-06-10 11:30:00"),
			}, nil)

		service := services.NewAvailabilityServiceWithClock(
			calendar, cache.NewMemoryCache(time.Minute), nil, nil,
			fixedClock(t, "2024-06-03 08:00:00"),
		)

		slots, err := service.GetAvailableSlots(context.Background(), "2024-06-10")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, slots)
	})

	t.Run("same-day morning query offers slots after the buffer", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		calendar.On("ListBusyIntervals", mock.Anything, mock.Anything, mock.Anything).
			Return([]entities.BusyInterval{}, nil)

		service := services.NewAvailabilityServiceWithClock(
			calendar, cache.NewMemoryCache(time.Minute), nil, nil,
			fixedClock(t, "2024-06-03 08:00:00"),
		)

		slots, err := service.GetAvailableSlots(context.Background(), "2024-06-03")
		require.NoError(t, err)
		assert.Equal(t, []string{"11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, slots)
	})

	t.Run("late same-day query returns an empty day, not an error", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		calendar.On("ListBusyIntervals", mock.Anything, mock.Anything, mock.Anything).
			Return([]entities.BusyInterval{}, nil)

		service := services.NewAvailabilityServiceWithClock(
			calendar, cache.NewMemoryCache(time.Minute), nil, nil,
			fixedClock(t, "2024-06-03 15:00:00"),
		)

		slots, err := service.GetAvailableSlots(context.Background(), "2024-06-03")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestAvailabilityService_Cache(t *testing.T) {
	t.Run("second query within the TTL does not hit the calendar", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		calendar.On("ListBusyIntervals", mock.Anything, mock.Anything, mock.Anything).
			Return([]entities.BusyInterval{}, nil).
			Once()

		service := services.NewAvailabilityServiceWithClock(
			calendar, cache.NewMemoryCache(time.Minute), nil, nil,
			fixedClock(t, "2024-06-03 08:00:00"),
		)

		first, err := service.GetAvailableSlots(context.Background(), "2024-06-10")
		require.NoError(t, err)
		second, err := service.GetAvailableSlots(context.Background(), "2024-06-10")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		calendar.AssertExpectations(t)
	})

	t.Run("clear forces a recompute and broadcasts the invalidation", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		calendar.On("ListBusyIntervals", mock.Anything, mock.Anything, mock.Anything).
			Return([]entities.BusyInterval{}, nil)

		bus := new(MockEventBus)
		bus.On("Publish", mock.Anything, "availability:invalidate", mock.MatchedBy(func(e *entities.CacheEvent) bool {
			return e.Scope == "*" && e.ID != ""
		})).Return(nil)

		service := services.NewAvailabilityServiceWithClock(
			calendar, cache.NewMemoryCache(time.Minute), bus, nil,
			fixedClock(t, "2024-06-03 08:00:00"),
		)

		_, err := service.GetAvailableSlots(context.Background(), "2024-06-10")
		require.NoError(t, err)

		service.ClearCache(context.Background())
		// Clearing twice is harmless.
		service.ClearCache(context.Background())

		_, err = service.GetAvailableSlots(context.Background(), "2024-06-10")
		require.NoError(t, err)

		calendar.AssertNumberOfCalls(t, "ListBusyIntervals", 2)
		bus.AssertNumberOfCalls(t, "Publish", 2)
	})
}

func TestAvailabilityService_Degradation(t *testing.T) {
	t.Run("calendar failure degrades to the cutoff-filtered template", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		calendar.On("ListBusyIntervals", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("calendar timeout"))

		service := services.NewAvailabilityServiceWithClock(
			calendar, cache.NewMemoryCache(time.Minute), nil, nil,
			fixedClock(t, "2024-06-03 08:00:00"),
		)

		availability, err := service.ComputeAvailability(context.Background(), "2024-06-03")
		require.NoError(t, err)
		assert.True(t, availability.Degraded)
		assert.Contains(t, availability.Reason, "calendar timeout")
		assert.Equal(t, []string{"11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, availability.Slots)

		// The public boundary collapses degradation to a plain list.
		slots, err := service.GetAvailableSlots(context.Background(), "2024-06-03")
		require.NoError(t, err)
		assert.NotNil(t, slots)
	})

	t.Run("degraded results are not cached", func(t *testing.T) {
		calendar := new(MockCalendarProvider)
		calendar.On("ListBusyIntervals", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("boom"))

		service := services.NewAvailabilityServiceWithClock(
			calendar, cache.NewMemoryCache(time.Minute), nil, nil,
			fixedClock(t, "2024-06-03 08:00:00"),
		)

		_, err := service.GetAvailableSlots(context.Background(), "2024-06-10")
		require.NoError(t, err)
		_, err = service.GetAvailableSlots(context.Background(), "2024-06-10")
		require.NoError(t, err)

		calendar.AssertNumberOfCalls(t, "ListBusyIntervals", 2)
	})
}
