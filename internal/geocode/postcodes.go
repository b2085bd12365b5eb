package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/jgoulah/feasibility/pkg/models"
)

const postcodesAPIURL = "https://api.postcodes.io/postcodes"

// Client resolves UK postcodes using postcodes.io
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new postcodes.io client using the given transport.
// A nil transport uses http.DefaultTransport.
func NewClient(rt http.RoundTripper) *Client {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &Client{
		httpClient: &http.Client{Transport: rt},
		baseURL:    postcodesAPIURL,
	}
}

// SetBaseURL overrides the API endpoint
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// SetUserAgent sets the User-Agent header sent with each request
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

type postcodeResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Result *struct {
		Postcode  string   `json:"postcode"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"result"`
}

// Resolve looks up the coordinates of a postcode. Any failure is reported as
// a *models.LocationNotFoundError.
func (c *Client) Resolve(ctx context.Context, postcode string) (models.Location, error) {
	notFound := func(reason string) (models.Location, error) {
		return models.Location{}, &models.LocationNotFoundError{Postcode: postcode, Reason: reason}
	}

	reqURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(strings.TrimSpace(postcode)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return notFound(fmt.Sprintf("creating request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return notFound(fmt.Sprintf("request error: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return notFound(fmt.Sprintf("reading response body: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		var errResp postcodeResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return notFound(errResp.Error)
		}
		return notFound(fmt.Sprintf("Invalid postcode or Postcodes.io API error (status %d)", resp.StatusCode))
	}

	var result postcodeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return notFound(fmt.Sprintf("parsing response: %v", err))
	}
	if result.Result == nil || result.Result.Latitude == nil || result.Result.Longitude == nil {
		return notFound("no coordinates for postcode")
	}

	pc := result.Result.Postcode
	if pc == "" {
		pc = strings.ToUpper(strings.TrimSpace(postcode))
	}

	return models.Location{
		Postcode:  pc,
		Latitude:  *result.Result.Latitude,
		Longitude: *result.Result.Longitude,
	}, nil
}
