package ninja

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
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

var london = models.Location{Postcode: "SW1A 1AA", Latitude: 51.501009, Longitude: -0.141588}

func TestFetchSolar(t *testing.T) {
	var got *http.Request
	opts := DefaultOptions()
	opts.APIKey = "secret"
	tilt := 35.0
	opts.Solar.Tilt = &tilt

	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			got = req
			return respond(http.StatusOK, `{
			  "data": {
			    "1609459200000": {"electricity": 0.0},
			    "1609462800000": {"electricity": 0.125},
			    "1609466400000": {"electricity": 0.5}
			  },
			  "metadata": {"units": {"electricity": "kW"}}
			}`)
		},
	}, opts)

	series, err := client.Fetch(context.Background(), london, models.Solar, 2021)
	require.NoError(t, err)

	assert.Equal(t, "/api/data/pv", got.URL.Path)
	assert.Equal(t, "Token secret", got.Header.Get("Authorization"))
	q := got.URL.Query()
	assert.Equal(t, "51.501009", q.Get("lat"))
	assert.Equal(t, "-0.141588", q.Get("lon"))
	assert.Equal(t, "2021-01-01", q.Get("date_from"))
	assert.Equal(t, "2021-12-31", q.Get("date_to"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "true", q.Get("header"))
	assert.Equal(t, "Europe/London", q.Get("tz"))
	assert.Equal(t, "1", q.Get("capacity"))
	assert.Equal(t, "0.1", q.Get("system_loss"))
	assert.Equal(t, "35", q.Get("tilt"))
	assert.False(t, q.Has("height"))

	require.Len(t, series, 3)
	assert.Equal(t, "1609459200000", series[0].Key)
	assert.Equal(t, "1609466400000", series[2].Key)
	assert.JSONEq(t, `{"electricity": 0.5}`, string(series[2].Value))
}

func TestFetchWindParams(t *testing.T) {
	var got *http.Request
	opts := DefaultOptions()
	opts.Wind.Turbine = "Vestas V90 2000"

	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			got = req
			return respond(http.StatusOK, `{"data": {"1609459200000": 0.61}}`)
		},
	}, opts)

	series, err := client.Fetch(context.Background(), london, models.Wind, 2019)
	require.NoError(t, err)

	assert.Equal(t, "/api/data/wind", got.URL.Path)
	assert.Empty(t, got.Header.Get("Authorization"))
	q := got.URL.Query()
	assert.Equal(t, "100", q.Get("height"))
	assert.Equal(t, "Vestas V90 2000", q.Get("turbine"))
	assert.Equal(t, "2019-01-01", q.Get("date_from"))
	assert.False(t, q.Has("tilt"))

	require.Len(t, series, 1)
	assert.Equal(t, "0.61", string(series[0].Value))
}

func TestFetchErrorStatus(t *testing.T) {
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			return respond(http.StatusTooManyRequests, `{"detail": "Request was throttled."}`+"\n")
		},
	}, DefaultOptions())

	_, err := client.Fetch(context.Background(), london, models.Wind, 2021)

	var dse *models.DataServiceError
	require.ErrorAs(t, err, &dse)
	assert.Equal(t, models.Wind, dse.Technology)
	assert.Equal(t, http.StatusTooManyRequests, dse.StatusCode)
	assert.Equal(t, `{"detail": "Request was throttled."}`, dse.Detail)
}

func TestFetchInvalidJSON(t *testing.T) {
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			return respond(http.StatusOK, `{"data": {"1609459200000": `)
		},
	}, DefaultOptions())

	_, err := client.Fetch(context.Background(), london, models.Solar, 2021)

	var dse *models.DataServiceError
	require.ErrorAs(t, err, &dse)
	assert.True(t, strings.HasPrefix(dse.Detail, "parsing response"), dse.Detail)
}

func TestFetchUnknownTechnology(t *testing.T) {
	client := NewClient(&MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			t.Fatal("no request expected")
			return nil, nil
		},
	}, DefaultOptions())

	_, err := client.Fetch(context.Background(), london, models.Technology("hydro"), 2021)
	assert.Error(t, err)
}
