package publisher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-json-experiment/json"
	"github.com/jgoulah/feasibility/internal/config"
	"github.com/jgoulah/feasibility/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *models.Report {
	payback := 7.25
	return &models.Report{
		RequestID: "req-1",
		Location:  models.Location{Postcode: "SW1A 1AA"},
		Solar: &models.TechnologyResult{
			Tech:              models.Solar,
			AnnualYield:       950,
			InstalledCapacity: 10,
			CapitalCost:       10000,
			AnnualSavings:     1379,
			PaybackYears:      &payback,
		},
		Wind: models.Infeasible{Tech: models.Wind, AnnualYield: 2400, Reason: "Site too small for a full wind turbine with proper spacing."},
	}
}

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records publishes; other mqtt.Client methods are not used
type fakeClient struct {
	mqtt.Client
	mu           sync.Mutex
	msgs         []published
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{err: c.err}
}

func (c *fakeClient) IsConnected() bool { return !c.disconnected }

func (c *fakeClient) Disconnect(quiesce uint) { c.disconnected = true }

func TestSlug(t *testing.T) {
	assert.Equal(t, "sw1a1aa", Slug("SW1A 1AA"))
	assert.Equal(t, "eh11yz", Slug(" eh1-1yz "))
	assert.Equal(t, "", Slug(""))
}

func TestMessages(t *testing.T) {
	msgs, err := Messages("home/feasibility/", testReport())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "home/feasibility/sw1a1aa/solar", msgs[0].Topic)
	assert.Equal(t, "home/feasibility/sw1a1aa/wind", msgs[1].Topic)

	var solar map[string]any
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &solar))
	assert.Equal(t, "ok", solar["status"])
	assert.Equal(t, 7.25, solar["payback_years"])

	var wind map[string]any
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &wind))
	assert.Equal(t, "infeasible", wind["status"])
}

func TestMQTTPublish(t *testing.T) {
	client := &fakeClient{}
	p := newMQTTWithClient(client, "")

	require.NoError(t, p.Publish(testReport()))
	require.Len(t, client.msgs, 2)
	for _, m := range client.msgs {
		assert.True(t, m.retained)
		assert.Equal(t, byte(1), m.qos)
	}
	assert.Equal(t, "feasibility/sw1a1aa/solar", client.msgs[0].topic)

	p.Close()
	assert.True(t, client.disconnected)
}

func TestMQTTPublishError(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	p := newMQTTWithClient(client, "feasibility")

	err := p.Publish(testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feasibility/sw1a1aa/solar")
	assert.Len(t, client.msgs, 1)
}

func TestStates(t *testing.T) {
	r := testReport()
	r.Wind = &models.TechnologyResult{Tech: models.Wind}

	states := States("sensor.feasibility", r)
	require.Len(t, states, 2)

	assert.Equal(t, "sensor.feasibility_sw1a1aa_solar", states[0].EntityID)
	assert.Equal(t, "7.2", states[0].State)
	assert.Equal(t, "sensor.feasibility_sw1a1aa_wind", states[1].EntityID)
	assert.Equal(t, "unavailable", states[1].State)

	states = States("sensor.feasibility", testReport())
	assert.Equal(t, "infeasible", states[1].State)
}

func TestHAPublish(t *testing.T) {
	type call struct {
		path string
		auth string
		body map[string]any
	}
	var mu sync.Mutex
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(body, &decoded)

		mu.Lock()
		calls = append(calls, call{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: decoded})
		mu.Unlock()

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p, err := NewHA(config.HAConfig{Enabled: true, URL: srv.URL + "/", Token: "tok"}, "")
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), testReport()))

	require.Len(t, calls, 2)
	assert.Equal(t, "/api/states/sensor.feasibility_sw1a1aa_solar", calls[0].path)
	assert.Equal(t, "Bearer tok", calls[0].auth)
	assert.Equal(t, "7.2", calls[0].body["state"])
	attrs := calls[0].body["attributes"].(map[string]any)
	assert.Equal(t, "solar", attrs["technology"])
	assert.NotContains(t, calls[0].body, "EntityID")
}

func TestHAPublishError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Invalid access token"}`))
	}))
	defer srv.Close()

	p, err := NewHA(config.HAConfig{Enabled: true, URL: srv.URL, Token: "bad"}, "sensor.site")
	require.NoError(t, err)

	err = p.Publish(context.Background(), testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "sensor.site_sw1a1aa_solar")
}

func TestNewHAValidation(t *testing.T) {
	_, err := NewHA(config.HAConfig{Enabled: true, Token: "tok"}, "")
	assert.Error(t, err)
	_, err = NewHA(config.HAConfig{Enabled: true, URL: "http://ha"}, "")
	assert.Error(t, err)
}

func TestNewRequiresDestination(t *testing.T) {
	_, err := New(&config.Config{})
	assert.Error(t, err)

	p, err := New(&config.Config{HomeAssistant: config.HAConfig{Enabled: true, URL: "http://ha", Token: "tok"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"home_assistant"}, p.Destinations())
	p.Close()
}
