package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/pkg/config"
)

// GoogleSheetsAdapter implements LeadLogSink by appending one row per
// booking to a spreadsheet. Append-only; nothing in the funnel reads back.
type GoogleSheetsAdapter struct {
	cfg     config.SheetsConfig
	client  *http.Client
	baseURL string
}

// NewGoogleSheetsAdapter creates a new sheets lead-log adapter
func NewGoogleSheetsAdapter(cfg config.SheetsConfig) providers.LeadLogSink {
	return &GoogleSheetsAdapter{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://sheets.googleapis.com/v4",
	}
}

// Append appends a booking row to the configured range.
func (a *GoogleSheetsAdapter) Append(ctx context.Context, booking *entities.Booking) error {
	row := []interface{}{
		booking.CreatedAt.Format(time.RFC3339),
		booking.Lead.Name,
		booking.Lead.Email,
		booking.Lead.Phone,
		booking.Lead.Company,
		booking.Lead.PageVariant,
		booking.Date,
		booking.Slot,
		booking.EventID,
		booking.MeetingLink,
	}

	payload := map[string]interface{}{
		"values": [][]interface{}{row},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		a.baseURL, a.cfg.SpreadsheetID, url.PathEscape(a.cfg.Range))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to append lead row: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets api error: status %d", resp.StatusCode)
	}
	return nil
}
