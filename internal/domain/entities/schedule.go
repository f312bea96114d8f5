package entities

import (
	"time"
)

// BusyInterval is a half-open [Start, End) range occupied on the external
// calendar. Start < End always holds for intervals returned by providers.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayAvailability is the outcome of one availability computation. Degraded
// is set when the busy-interval fetch failed and the slots are the
// cutoff-filtered template only; Reason carries the cause for logs and tests.
type DayAvailability struct {
	Date       string    `json:"date"`
	Slots      []string  `json:"slots"`
	Degraded   bool      `json:"-"`
	Reason     string    `json:"-"`
	ComputedAt time.Time `json:"-"`
}

// EventRequest describes a calendar event to be created for a booking.
type EventRequest struct {
	Summary         string
	Description     string
	Start           time.Time
	End             time.Time
	Attendees       []string
	ReminderMinutes []int
	WithMeetingLink bool
}

// CalendarEvent is the provider's reference for a created event.
type CalendarEvent struct {
	ID          string
	MeetingLink string
}
