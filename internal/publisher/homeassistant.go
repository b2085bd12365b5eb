package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/jgoulah/feasibility/internal/config"
	"github.com/jgoulah/feasibility/internal/report"
	"github.com/jgoulah/feasibility/pkg/models"
)

// HAState is the body of a Home Assistant state update
type HAState struct {
	EntityID   string                `json:"-"`
	State      string                `json:"state"`
	Attributes report.TechnologyView `json:"attributes"`
}

// HAPublisher writes per-technology results as Home Assistant sensor states
type HAPublisher struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	entityPrefix string
}

// NewHA creates a Home Assistant publisher
func NewHA(cfg config.HAConfig, entityPrefix string) (*HAPublisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("Home Assistant URL is required when enabled")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("Home Assistant token is required when enabled")
	}
	if entityPrefix == "" {
		entityPrefix = "sensor.feasibility"
	}

	return &HAPublisher{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		token:        cfg.Token,
		entityPrefix: entityPrefix,
	}, nil
}

// States builds the state updates for a report. The state of each sensor
// is the payback period in years, or the outcome status when there is none.
func States(entityPrefix string, r *models.Report) []HAState {
	site := Slug(r.Location.Postcode)

	var states []HAState
	for _, tech := range models.Technologies {
		view := report.NewTechnologyView(tech, r.Outcome(tech))
		state := view.Status
		if view.PaybackYears != nil {
			state = fmt.Sprintf("%.1f", *view.PaybackYears)
		} else if view.Status == "ok" {
			state = "unavailable"
		}
		states = append(states, HAState{
			EntityID:   fmt.Sprintf("%s_%s_%s", entityPrefix, site, tech),
			State:      state,
			Attributes: view,
		})
	}
	return states
}

// Publish posts every technology state to the Home Assistant API
func (p *HAPublisher) Publish(ctx context.Context, r *models.Report) error {
	for _, st := range States(p.entityPrefix, r) {
		if err := p.post(ctx, st); err != nil {
			return fmt.Errorf("publishing %s: %w", st.EntityID, err)
		}
	}
	return nil
}

func (p *HAPublisher) post(ctx context.Context, st HAState) error {
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/api/states/%s", p.baseURL, st.EntityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
