// Package mqttpub forwards status change events to an MQTT broker, one topic
// per entity: <prefix>/<entityType>/<entityID>/status.
package mqttpub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet/internal/core/application/notifier"
	"fleet/internal/core/domain/model/history"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	DefaultTopicPrefix = "fleet"
	defaultTimeout     = 5 * time.Second
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Client is the part of mqtt.Client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Connect dials broker and waits for the session, giving up after timeout.
func Connect(broker, clientID string, timeout time.Duration) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return client, nil
}

// Publisher is a notifier.Listener. Events are published with QoS 1 and
// retained, so a new subscriber sees the last status of every entity.
type Publisher struct {
	client  Client
	prefix  string
	timeout time.Duration
}

var _ notifier.Listener = (*Publisher)(nil)

func NewPublisher(client Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Publisher{client: client, prefix: prefix, timeout: defaultTimeout}
}

// Topic returns the topic an event is published to.
func (p *Publisher) Topic(event history.StatusChanged) string {
	return fmt.Sprintf("%s/%s/%s/status", p.prefix, event.EntityType, event.EntityID)
}

func (p *Publisher) OnStatusChanged(ctx context.Context, event history.StatusChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.Topic(event), 1, true, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return ErrPublishTimeout
	}
}
