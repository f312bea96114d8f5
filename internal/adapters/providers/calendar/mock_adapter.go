package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
)

// MockAdapter provides a deterministic calendar for local development: no
// busy intervals until events are created through it.
type MockAdapter struct {
	mu     sync.Mutex
	events []entities.BusyInterval
}

// NewMockAdapter creates a mock calendar provider.
func NewMockAdapter() providers.CalendarProvider {
	return &MockAdapter{}
}

// ListBusyIntervals returns the intervals of events created so far that
// overlap the requested range.
func (m *MockAdapter) ListBusyIntervals(ctx context.Context, from, to time.Time) ([]entities.BusyInterval, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid time range")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var busy []entities.BusyInterval
	for _, e := range m.events {
		if e.Start.Before(to) && from.Before(e.End) {
			busy = append(busy, e)
		}
	}
	return busy, nil
}

// CreateEvent records the slot as busy and returns a mock reference.
func (m *MockAdapter) CreateEvent(ctx context.Context, req *entities.EventRequest) (*entities.CalendarEvent, error) {
	m.mu.Lock()
	m.events = append(m.events, entities.BusyInterval{Start: req.Start, End: req.End})
	m.mu.Unlock()

	id := fmt.Sprintf("mock-%d", time.Now().UnixNano())
	return &entities.CalendarEvent{
		ID:          id,
		MeetingLink: fmt.Sprintf("https://meet.example.com/%s", id),
	}, nil
}
