package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
)

func newTestAdapter(serverURL string) *GoogleAdapter {
	return &GoogleAdapter{
		tokens:     StaticTokenSource("test-token"),
		calendarID: "primary",
		client:     &http.Client{Timeout: 5 * time.Second},
		baseURL:    serverURL,
	}
}

func TestGoogleAdapter_ListBusyIntervals(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/freeBusy", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "America/Sao_Paulo", body["timeZone"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"calendars": {
				"primary": {
					"busy": [
						{"start": "2024-06-10T10:00:00-03:00", "end": "2024-06-10T11:30:00-03:00"}
					]
				}
			}
		}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	busy, err := adapter.ListBusyIntervals(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, 10, busy[0].Start.Hour())
	assert.True(t, busy[0].End.After(busy[0].Start))
}

func TestGoogleAdapter_ListBusyIntervals_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	_, err := adapter.ListBusyIntervals(context.Background(), time.Now(), time.Now().Add(time.Hour))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestGoogleAdapter_CreateEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotNil(t, body["conferenceData"])

		reminders, ok := body["reminders"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, false, reminders["useDefault"])
		assert.Len(t, reminders["overrides"], 3)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "evt-123", "hangoutLink": "https://meet.google.com/abc-defg-hij"}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	start := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)
	event, err := adapter.CreateEvent(context.Background(), &entities.EventRequest{
		Summary:         "Diagnóstico - Maria Silva",
		Start:           start,
		End:             start.Add(time.Hour),
		Attendees:       []string{"maria@example.com"},
		ReminderMinutes: []int{1440, 120, 15},
		WithMeetingLink: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-123", event.ID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", event.MeetingLink)
}

func TestGoogleAdapter_CreateEvent_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	_, err := adapter.CreateEvent(context.Background(), &entities.EventRequest{
		Summary: "x",
		Start:   time.Now(),
		End:     time.Now().Add(time.Hour),
	})
	assert.Error(t, err)
}
