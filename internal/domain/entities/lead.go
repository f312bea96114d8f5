package entities

import (
	"time"
)

// Lead represents a prospect captured by one of the landing-page variants.
type Lead struct {
	Name        string `json:"name" db:"lead_name"`
	Email       string `json:"email" db:"lead_email"`
	Phone       string `json:"phone" db:"lead_phone"`
	Company     string `json:"company" db:"lead_company"`
	PageVariant string `json:"page_variant" db:"page_variant"`
	Notes       string `json:"notes" db:"notes"`
}

// Booking represents a confirmed appointment created from a lead's chosen
// date and slot. Date is a YYYY-MM-DD string interpreted in the business
// time zone; Slot is an "HH:00" label from the daily template.
type Booking struct {
	ID              string    `json:"id" db:"id"`
	Lead            Lead      `json:"lead"`
	Date            string    `json:"date" db:"booking_date"`
	Slot            string    `json:"slot" db:"slot"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	StartsAt        time.Time `json:"starts_at" db:"starts_at"`
	EndsAt          time.Time `json:"ends_at" db:"ends_at"`
	EventID         string    `json:"event_id,omitempty" db:"event_id"`
	MeetingLink     string    `json:"meeting_link,omitempty" db:"meeting_link"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// BookingConfirmation is the reference returned to the funnel after a
// successful booking.
type BookingConfirmation struct {
	BookingID   string `json:"booking_id"`
	EventID     string `json:"event_id"`
	MeetingLink string `json:"meeting_link,omitempty"`
}
