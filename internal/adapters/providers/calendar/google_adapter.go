package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/internal/domain/schedule"
)

// TokenSource supplies a bearer token for the calendar API. Refreshing
// expired credentials is the token source's problem, not this adapter's.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource wraps a fixed access token.
type StaticTokenSource string

// Token returns the wrapped token.
func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("calendar access token is not configured")
	}
	return string(s), nil
}

// GoogleAdapter implements CalendarProvider against the Google Calendar v3 API.
type GoogleAdapter struct {
	tokens     TokenSource
	calendarID string
	client     *http.Client
	baseURL    string
}

// NewGoogleAdapter creates a new Google Calendar adapter
func NewGoogleAdapter(tokens TokenSource, calendarID string) providers.CalendarProvider {
	return &GoogleAdapter{
		tokens:     tokens,
		calendarID: calendarID,
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://www.googleapis.com/calendar/v3",
	}
}

// ListBusyIntervals queries the freebusy endpoint for [from, to].
func (a *GoogleAdapter) ListBusyIntervals(ctx context.Context, from, to time.Time) ([]entities.BusyInterval, error) {
	payload := map[string]interface{}{
		"timeMin":  from.Format(time.RFC3339),
		"timeMax":  to.Format(time.RFC3339),
		"timeZone": schedule.BusinessLocation().String(),
		"items":    []map[string]string{{"id": a.calendarID}},
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}

	if err := a.doJSON(ctx, http.MethodPost, a.baseURL+"/freeBusy", payload, &result); err != nil {
		return nil, err
	}

	var intervals []entities.BusyInterval
	for _, item := range result.Calendars[a.calendarID].Busy {
		intervals = append(intervals, entities.BusyInterval{Start: item.Start, End: item.End})
	}
	return intervals, nil
}

// CreateEvent inserts an event with reminder overrides and, when requested,
// an auto-generated Meet link.
func (a *GoogleAdapter) CreateEvent(ctx context.Context, req *entities.EventRequest) (*entities.CalendarEvent, error) {
	tz := schedule.BusinessLocation().String()

	attendees := make([]map[string]string, 0, len(req.Attendees))
	for _, email := range req.Attendees {
		attendees = append(attendees, map[string]string{"email": email})
	}

	overrides := make([]map[string]interface{}, 0, len(req.ReminderMinutes))
	for i, minutes := range req.ReminderMinutes {
		method := "popup"
		if i == 0 {
			method = "email"
		}
		overrides = append(overrides, map[string]interface{}{
			"method":  method,
			"minutes": minutes,
		})
	}

	payload := map[string]interface{}{
		"summary":     req.Summary,
		"description": req.Description,
		"start":       map[string]string{"dateTime": req.Start.Format(time.RFC3339), "timeZone": tz},
		"end":         map[string]string{"dateTime": req.End.Format(time.RFC3339), "timeZone": tz},
		"attendees":   attendees,
		"reminders": map[string]interface{}{
			"useDefault": false,
			"overrides":  overrides,
		},
	}
	if req.WithMeetingLink {
		payload["conferenceData"] = map[string]interface{}{
			"createRequest": map[string]interface{}{
				"requestId":             uuid.New().String(),
				"conferenceSolutionKey": map[string]string{"type": "hangoutsMeet"},
			},
		}
	}

	url := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1&sendUpdates=all", a.baseURL, a.calendarID)

	var result struct {
		ID          string `json:"id"`
		HangoutLink string `json:"hangoutLink"`
	}
	if err := a.doJSON(ctx, http.MethodPost, url, payload, &result); err != nil {
		return nil, err
	}

	return &entities.CalendarEvent{ID: result.ID, MeetingLink: result.HangoutLink}, nil
}

func (a *GoogleAdapter) doJSON(ctx context.Context, method, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	token, err := a.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar api error: status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
