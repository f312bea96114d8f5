package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/pkg/config"
)

const apiVersion = "2021-07-28"

// HighLevelAdapter implements CRMSink against the HighLevel (LeadConnector)
// REST API. Calls run through a circuit breaker so a flapping CRM cannot
// slow every booking down to its timeout.
type HighLevelAdapter struct {
	cfg     config.CRMConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHighLevelAdapter creates a new HighLevel CRM adapter
func NewHighLevelAdapter(cfg config.CRMConfig) providers.CRMSink {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "highlevel-crm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &HighLevelAdapter{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		breaker: breaker,
	}
}

// UpsertContact creates or updates the CRM contact for a lead.
func (a *HighLevelAdapter) UpsertContact(ctx context.Context, lead *entities.Lead) (string, error) {
	payload := map[string]interface{}{
		"locationId":  a.cfg.LocationID,
		"name":        lead.Name,
		"email":       lead.Email,
		"phone":       lead.Phone,
		"companyName": lead.Company,
		"source":      lead.PageVariant,
		"tags":        []string{"leadfunnel", lead.PageVariant},
	}

	var result struct {
		Contact struct {
			ID string `json:"id"`
		} `json:"contact"`
	}
	if err := a.doJSON(ctx, a.cfg.BaseURL+"/contacts/upsert", payload, &result); err != nil {
		return "", fmt.Errorf("failed to upsert contact: %w", err)
	}
	if result.Contact.ID == "" {
		return "", fmt.Errorf("crm returned no contact id")
	}
	return result.Contact.ID, nil
}

// CreateOpportunity attaches a pipeline opportunity for the booking.
func (a *HighLevelAdapter) CreateOpportunity(ctx context.Context, contactID string, booking *entities.Booking) error {
	payload := map[string]interface{}{
		"locationId":      a.cfg.LocationID,
		"pipelineId":      a.cfg.PipelineID,
		"pipelineStageId": a.cfg.StageID,
		"contactId":       contactID,
		"status":          "open",
		"name":            fmt.Sprintf("%s - %s %s", booking.Lead.Name, booking.Date, booking.Slot),
	}

	var result struct {
		Opportunity struct {
			ID string `json:"id"`
		} `json:"opportunity"`
	}
	if err := a.doJSON(ctx, a.cfg.BaseURL+"/opportunities/", payload, &result); err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	return nil
}

func (a *HighLevelAdapter) doJSON(ctx context.Context, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = a.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
		req.Header.Set("Version", apiVersion)
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("crm api error: status %d", resp.StatusCode)
		}
		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	return err
}
