package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jgoulah/feasibility/internal/config"
	"github.com/jgoulah/feasibility/pkg/models"
)

// Publisher fans a report out to every enabled destination
type Publisher struct {
	mqtt *MQTTPublisher
	ha   *HAPublisher
}

// New creates a publisher for the enabled destinations in cfg
func New(cfg *config.Config) (*Publisher, error) {
	p := &Publisher{}

	if cfg.MQTT.Enabled {
		m, err := NewMQTT(cfg.MQTT, cfg.GetTopicPrefix())
		if err != nil {
			return nil, err
		}
		p.mqtt = m
	}

	if cfg.HomeAssistant.Enabled {
		ha, err := NewHA(cfg.HomeAssistant, cfg.GetEntityPrefix())
		if err != nil {
			p.Close()
			return nil, err
		}
		p.ha = ha
	}

	if p.mqtt == nil && p.ha == nil {
		return nil, fmt.Errorf("no publish destination is enabled in config (mqtt or home_assistant)")
	}

	return p, nil
}

// Destinations lists the enabled destinations by name
func (p *Publisher) Destinations() []string {
	var names []string
	if p.mqtt != nil {
		names = append(names, "mqtt")
	}
	if p.ha != nil {
		names = append(names, "home_assistant")
	}
	return names
}

// Publish sends the report to every destination. A failing destination
// does not stop the others.
func (p *Publisher) Publish(ctx context.Context, r *models.Report) error {
	var errs []error
	if p.mqtt != nil {
		if err := p.mqtt.Publish(r); err != nil {
			errs = append(errs, fmt.Errorf("mqtt: %w", err))
		}
	}
	if p.ha != nil {
		if err := p.ha.Publish(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("home assistant: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases the broker connection
func (p *Publisher) Close() {
	if p.mqtt != nil {
		p.mqtt.Close()
	}
}
