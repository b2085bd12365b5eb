package ninja

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jgoulah/feasibility/pkg/models"
)

const ninjaAPIURL = "https://www.renewables.ninja/api/data"

// SolarOptions tunes the PV model. Nil fields are left to the API defaults.
type SolarOptions struct {
	Tilt     *float64
	Azimuth  *float64
	Tracking *int // 0 fixed, 1 single-axis, 2 dual-axis
}

// WindOptions tunes the wind model
type WindOptions struct {
	Height  float64 // hub height in meters
	Turbine string  // e.g. "Vestas V90 2000", empty for the API default
}

// Options configures requests to renewables.ninja
type Options struct {
	APIKey     string
	Timezone   string
	SystemLoss float64
	Solar      SolarOptions
	Wind       WindOptions
	UserAgent  string
}

// DefaultOptions returns the options the feasibility check has always used
func DefaultOptions() Options {
	return Options{
		Timezone:   "Europe/London",
		SystemLoss: 0.1,
		Wind:       WindOptions{Height: 100},
	}
}

// Client downloads modeled hourly generation from renewables.ninja
type Client struct {
	httpClient *http.Client
	baseURL    string
	opts       Options
}

// NewClient creates a new renewables.ninja client using the given transport.
// A nil transport uses http.DefaultTransport.
func NewClient(rt http.RoundTripper, opts Options) *Client {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &Client{
		httpClient: &http.Client{Transport: rt},
		baseURL:    ninjaAPIURL,
		opts:       opts,
	}
}

// SetBaseURL overrides the API endpoint
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

func endpoint(tech models.Technology) (string, error) {
	switch tech {
	case models.Solar:
		return "pv", nil
	case models.Wind:
		return "wind", nil
	default:
		return "", fmt.Errorf("tech must be either 'solar' or 'wind' (got %q)", tech)
	}
}

// params builds the query string for one request. Solar and wind share the
// location, period and output settings and differ only in model tuning.
func (c *Client) params(loc models.Location, tech models.Technology, year int) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	params.Set("date_from", fmt.Sprintf("%d-01-01", year))
	params.Set("date_to", fmt.Sprintf("%d-12-31", year))
	params.Set("format", "json")
	params.Set("header", "true")
	params.Set("capacity", "1")
	if c.opts.Timezone != "" {
		params.Set("tz", c.opts.Timezone)
	}
	params.Set("system_loss", strconv.FormatFloat(c.opts.SystemLoss, 'f', -1, 64))

	switch tech {
	case models.Solar:
		if s := c.opts.Solar; s.Tilt != nil {
			params.Set("tilt", strconv.FormatFloat(*s.Tilt, 'f', -1, 64))
		}
		if s := c.opts.Solar; s.Azimuth != nil {
			params.Set("azim", strconv.FormatFloat(*s.Azimuth, 'f', -1, 64))
		}
		if s := c.opts.Solar; s.Tracking != nil {
			params.Set("tracking", strconv.Itoa(*s.Tracking))
		}
	case models.Wind:
		if c.opts.Wind.Height > 0 {
			params.Set("height", strconv.FormatFloat(c.opts.Wind.Height, 'f', -1, 64))
		}
		if c.opts.Wind.Turbine != "" {
			params.Set("turbine", c.opts.Wind.Turbine)
		}
	}

	return params
}

// Fetch downloads one year of hourly generation per kW of capacity for the
// location. A non-200 response is returned as a *models.DataServiceError.
func (c *Client) Fetch(ctx context.Context, loc models.Location, tech models.Technology, year int) (models.RawSeries, error) {
	path, err := endpoint(tech)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, path, c.params(loc, tech, year).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Token "+c.opts.APIKey)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &models.DataServiceError{
			Technology: tech,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(body)),
		}
	}

	series, err := DecodeData(resp.Body)
	if err != nil {
		return nil, &models.DataServiceError{
			Technology: tech,
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("parsing response: %v", err),
		}
	}

	return series, nil
}
