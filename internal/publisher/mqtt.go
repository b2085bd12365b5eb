package publisher

import (
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-json-experiment/json"

	"github.com/jgoulah/feasibility/internal/config"
	"github.com/jgoulah/feasibility/internal/report"
	"github.com/jgoulah/feasibility/pkg/models"
)

// Message is one retained MQTT message
type Message struct {
	Topic   string
	Payload []byte
}

// MQTTPublisher sends per-technology results to an MQTT broker
type MQTTPublisher struct {
	client      mqtt.Client
	topicPrefix string
}

// NewMQTT connects to the configured broker
func NewMQTT(cfg config.MQTTConfig, topicPrefix string) (*MQTTPublisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("feasibility")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return newMQTTWithClient(client, topicPrefix), nil
}

func newMQTTWithClient(client mqtt.Client, topicPrefix string) *MQTTPublisher {
	if topicPrefix == "" {
		topicPrefix = "feasibility"
	}
	return &MQTTPublisher{client: client, topicPrefix: topicPrefix}
}

// Publish sends one retained message per technology
func (p *MQTTPublisher) Publish(r *models.Report) error {
	msgs, err := Messages(p.topicPrefix, r)
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		token := p.client.Publish(msg.Topic, 1, true, msg.Payload)
		if !token.WaitTimeout(10 * time.Second) {
			return fmt.Errorf("publishing to %s: timed out", msg.Topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("publishing to %s: %w", msg.Topic, err)
		}
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// Messages builds the messages for a report. Topics have the form
// <prefix>/<postcode>/<technology>.
func Messages(prefix string, r *models.Report) ([]Message, error) {
	site := Slug(r.Location.Postcode)

	var msgs []Message
	for _, tech := range models.Technologies {
		payload, err := json.Marshal(report.NewTechnologyView(tech, r.Outcome(tech)))
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", tech, err)
		}
		msgs = append(msgs, Message{
			Topic:   fmt.Sprintf("%s/%s/%s", strings.TrimRight(prefix, "/"), site, tech),
			Payload: payload,
		})
	}
	return msgs, nil
}

// Slug turns a postcode into a topic and entity safe identifier,
// e.g. "SW1A 1AA" becomes "sw1a1aa"
func Slug(postcode string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(postcode) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
