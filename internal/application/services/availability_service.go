package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/internal/domain/schedule"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/observability"
	apperrors "github.com/vetordigital/leadfunnel/pkg/errors"
)

// AvailabilityService computes the bookable slots for a date: fixed daily
// template, same-day cutoff, busy-interval reconciliation against the
// external calendar, bounded by a short-lived cache.
type AvailabilityService struct {
	calendar providers.CalendarProvider
	cache    providers.AvailabilityCache
	bus      providers.EventBus
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewAvailabilityService creates a new availability service. bus and metrics
// may be nil when Redis or OTEL are unavailable.
func NewAvailabilityService(
	calendar providers.CalendarProvider,
	cache providers.AvailabilityCache,
	bus providers.EventBus,
	metrics *observability.Metrics,
) *AvailabilityService {
	return NewAvailabilityServiceWithClock(calendar, cache, bus, metrics, time.Now)
}

// NewAvailabilityServiceWithClock creates an availability service with an
// explicit clock.
func NewAvailabilityServiceWithClock(
	calendar providers.CalendarProvider,
	cache providers.AvailabilityCache,
	bus providers.EventBus,
	metrics *observability.Metrics,
	now func() time.Time,
) *AvailabilityService {
	return &AvailabilityService{
		calendar: calendar,
		cache:    cache,
		bus:      bus,
		metrics:  metrics,
		now:      now,
	}
}

// ComputeAvailability returns the full availability outcome for a date,
// including whether the result was degraded by a calendar failure. Degraded
// results are never cached; only a successful busy fetch creates an entry.
func (s *AvailabilityService) ComputeAvailability(ctx context.Context, date string) (*entities.DayAvailability, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date: expected YYYY-MM-DD")
	}

	if slots, ok := s.cache.Get(date); ok {
		observability.RecordCacheHit(ctx, s.metrics, date)
		return &entities.DayAvailability{Date: date, Slots: slots}, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, date)

	now := s.now()
	candidates := schedule.FilterByCutoff(day, schedule.TemplateSlots(), now)

	dayStart, dayEnd := schedule.DayWindow(day)
	fetchStart := time.Now()
	busy, err := s.calendar.ListBusyIntervals(ctx, dayStart, dayEnd)
	observability.RecordCalendarCall(ctx, s.metrics, "freebusy", time.Since(fetchStart), err != nil)
	if err != nil {
		// Availability favors the funnel over the calendar: show the
		// cutoff-filtered template and let the booking step be the final
		// authority on conflicts.
		observability.LoggerFromContext(ctx).Warn().
			Str("date", date).
			Err(err).
			Msg("busy-interval fetch failed, serving degraded availability")
		observability.RecordDegradedResult(ctx, s.metrics, date)
		return &entities.DayAvailability{
			Date:       date,
			Slots:      candidates,
			Degraded:   true,
			Reason:     err.Error(),
			ComputedAt: now,
		}, nil
	}

	slots := schedule.RemoveBusy(candidates, busy)
	s.cache.Put(date, slots)

	return &entities.DayAvailability{
		Date:       date,
		Slots:      slots,
		ComputedAt: now,
	}, nil
}

// GetAvailableSlots collapses the availability outcome to the plain slot
// list the funnel renders. It never fails on calendar errors, only on
// malformed input.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, date string) ([]string, error) {
	availability, err := s.ComputeAvailability(ctx, date)
	if err != nil {
		return nil, err
	}
	return availability.Slots, nil
}

// ClearCache drops the local availability cache and broadcasts the
// invalidation to other instances. Idempotent; used after manual calendar
// edits.
func (s *AvailabilityService) ClearCache(ctx context.Context) {
	s.cache.Clear()

	if s.bus == nil {
		return
	}
	event := &entities.CacheEvent{
		ID:        uuid.New().String(),
		Scope:     providers.CacheScopeAll,
		EmittedAt: s.now(),
	}
	if err := s.bus.Publish(ctx, providers.EventChannelAvailability, event); err != nil {
		// The local clear already happened; other instances converge when
		// their TTL expires.
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Msg("failed to broadcast cache invalidation")
	}
}
