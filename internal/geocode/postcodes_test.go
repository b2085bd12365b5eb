package geocode

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/jgoulah/feasibility/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper is a mock implementation of http.RoundTripper.
type MockRoundTripper struct {
	Handler func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Handler(req)
}

func respond(status int, body string) (*http.Response, error) {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}, nil
}

func TestResolve(t *testing.T) {
	var gotPath, gotUA string
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			gotPath = req.URL.EscapedPath()
			gotUA = req.Header.Get("User-Agent")
			return respond(http.StatusOK, `{
			  "status": 200,
			  "result": {
			    "postcode": "SW1A 1AA",
			    "quality": 1,
			    "country": "England",
			    "longitude": -0.141588,
			    "latitude": 51.501009,
			    "codes": {"admin_district": "E09000033"}
			  }
			}`)
		},
	})
	client.SetUserAgent("feasibility-test")

	loc, err := client.Resolve(context.Background(), " sw1a 1aa ")
	require.NoError(t, err)

	assert.Equal(t, "/postcodes/sw1a%201aa", gotPath)
	assert.Equal(t, "feasibility-test", gotUA)
	assert.Equal(t, "SW1A 1AA", loc.Postcode)
	assert.InDelta(t, 51.501009, loc.Latitude, 1e-9)
	assert.InDelta(t, -0.141588, loc.Longitude, 1e-9)
}

func TestResolveNotFound(t *testing.T) {
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			return respond(http.StatusNotFound, `{"status": 404, "error": "Invalid postcode"}`)
		},
	})

	_, err := client.Resolve(context.Background(), "ZZ99 9ZZ")

	var notFound *models.LocationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ZZ99 9ZZ", notFound.Postcode)
	assert.Equal(t, "Invalid postcode", notFound.Reason)
}

func TestResolveServerError(t *testing.T) {
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			return respond(http.StatusBadGateway, `<html>bad gateway</html>`)
		},
	})

	_, err := client.Resolve(context.Background(), "SW1A 1AA")

	var notFound *models.LocationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Invalid postcode or Postcodes.io API error (status 502)", notFound.Reason)
}

func TestResolveMissingCoordinates(t *testing.T) {
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			return respond(http.StatusOK, `{"status": 200, "result": {"postcode": "GY1 1AA", "latitude": null, "longitude": null}}`)
		},
	})

	_, err := client.Resolve(context.Background(), "GY1 1AA")

	var notFound *models.LocationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no coordinates for postcode", notFound.Reason)
}

func TestResolveTransportError(t *testing.T) {
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("no route to host")
		},
	})

	_, err := client.Resolve(context.Background(), "SW1A 1AA")

	var notFound *models.LocationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Reason, "no route to host")
}
