package providers

import (
	"context"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
)

// CRMSink pushes captured leads downstream as contacts and opportunities.
// Calls are best-effort from the booking flow's point of view; a sink
// failure never unwinds a created calendar event.
type CRMSink interface {
	// UpsertContact creates or updates the CRM contact for a lead and
	// returns the CRM's contact identifier.
	UpsertContact(ctx context.Context, lead *entities.Lead) (string, error)

	// CreateOpportunity attaches a pipeline opportunity for the booking to
	// an existing contact.
	CreateOpportunity(ctx context.Context, contactID string, booking *entities.Booking) error
}

// LeadLogSink is an append-only record of captured bookings (a spreadsheet
// in production).
type LeadLogSink interface {
	Append(ctx context.Context, booking *entities.Booking) error
}
