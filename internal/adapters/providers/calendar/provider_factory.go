package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/pkg/config"
)

// NewCalendarProvider creates the configured provider, defaulting to the
// mock when no access token is set. With AllowMockFallback, failed Google
// calls fall through to the mock; availability degradation handling in the
// engine is unaffected either way.
func NewCalendarProvider(cfg config.CalendarConfig) providers.CalendarProvider {
	if cfg.AccessToken == "" {
		return NewMockAdapter()
	}

	primary := NewGoogleAdapter(StaticTokenSource(cfg.AccessToken), cfg.CalendarID)
	if !cfg.AllowMockFallback {
		return primary
	}

	return &FallbackProvider{
		primary:  primary,
		fallback: NewMockAdapter(),
	}
}

// FallbackProvider wraps a primary calendar with a mock fallback for
// development environments without working credentials.
type FallbackProvider struct {
	primary  providers.CalendarProvider
	fallback providers.CalendarProvider
}

func (p *FallbackProvider) ListBusyIntervals(ctx context.Context, from, to time.Time) ([]entities.BusyInterval, error) {
	if p.primary == nil {
		if p.fallback != nil {
			return p.fallback.ListBusyIntervals(ctx, from, to)
		}
		return nil, errors.New("calendar provider not configured")
	}

	busy, err := p.primary.ListBusyIntervals(ctx, from, to)
	if err != nil && p.fallback != nil {
		return p.fallback.ListBusyIntervals(ctx, from, to)
	}
	return busy, err
}

func (p *FallbackProvider) CreateEvent(ctx context.Context, req *entities.EventRequest) (*entities.CalendarEvent, error) {
	if p.primary == nil {
		if p.fallback != nil {
			return p.fallback.CreateEvent(ctx, req)
		}
		return nil, errors.New("calendar provider not configured")
	}

	event, err := p.primary.CreateEvent(ctx, req)
	if err != nil && p.fallback != nil {
		return p.fallback.CreateEvent(ctx, req)
	}
	return event, err
}
