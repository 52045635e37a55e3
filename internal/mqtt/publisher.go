package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/protocol/amalgam"
	"github.com/rs/zerolog/log"
)

// Publisher publishes decoded sensor state to per-device topics:
// <prefix>/<serial>/conditions and <prefix>/<serial>/safe.
type Publisher struct {
	client      *Client
	topicPrefix string
	serial      string
	timeout     time.Duration
}

func NewPublisher(client *Client, topicPrefix, serial string) *Publisher {
	return &Publisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
		serial:      serial,
		timeout:     5 * time.Second,
	}
}

type conditionsMessage struct {
	Serial    string             `json:"serial"`
	Timestamp time.Time          `json:"timestamp"`
	Fields    map[string]float64 `json:"fields"`
}

type safetyMessage struct {
	Serial    string    `json:"serial"`
	Timestamp time.Time `json:"timestamp"`
	Safe      bool      `json:"safe"`
}

// PublishConditions publishes one decoded ALL dump as JSON.
func (p *Publisher) PublishConditions(rec amalgam.Record) error {
	fields := make(map[string]float64)
	for _, v := range rec.Values() {
		fields[v.Name] = v.Number
	}
	return p.publish(p.topic("conditions"), conditionsMessage{
		Serial:    p.serial,
		Timestamp: time.Now().UTC(),
		Fields:    fields,
	})
}

// PublishSafety publishes the safety monitor state.
func (p *Publisher) PublishSafety(safe bool) error {
	return p.publish(p.topic("safe"), safetyMessage{
		Serial:    p.serial,
		Timestamp: time.Now().UTC(),
		Safe:      safe,
	})
}

func (p *Publisher) topic(suffix string) string {
	return fmt.Sprintf("%s/%s/%s", p.topicPrefix, p.serial, suffix)
}

func (p *Publisher) publish(topic string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("mqtt: marshal %s: %w", topic, err)
	}
	token := p.client.client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("mqtt: publish %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Int("bytes", len(payload)).Msg("mqtt: published")
	return nil
}
