package providers

import (
	"context"
	"time"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
)

// CalendarProvider defines the interface for the external calendar the
// funnel books against (Google Calendar in production). Credential refresh
// is entirely the provider's responsibility.
type CalendarProvider interface {
	// ListBusyIntervals returns the occupied ranges between from and to.
	ListBusyIntervals(ctx context.Context, from, to time.Time) ([]entities.BusyInterval, error)

	// CreateEvent creates a calendar event with reminders and, when
	// requested, an auto-generated video-conference link.
	CreateEvent(ctx context.Context, req *entities.EventRequest) (*entities.CalendarEvent, error)
}
