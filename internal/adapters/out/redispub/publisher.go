// Package redispub forwards status change events to a Redis pub/sub channel.
package redispub

import (
	"context"
	"encoding/json"
	"fmt"

	"fleet/internal/core/application/notifier"
	"fleet/internal/core/domain/model/history"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "fleet:status-changes"

// NewClient returns a client for addr. The connection is made lazily.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Publisher is a notifier.Listener publishing every event as JSON.
type Publisher struct {
	client  redis.UniversalClient
	channel string
}

var _ notifier.Listener = (*Publisher)(nil)

func NewPublisher(client redis.UniversalClient, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: client, channel: channel}
}

func (p *Publisher) Channel() string {
	return p.channel
}

func (p *Publisher) OnStatusChanged(ctx context.Context, event history.StatusChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", p.channel, err)
	}
	return nil
}
