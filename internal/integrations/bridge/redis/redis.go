// Package redis bridges feedback actions across processes over a Redis
// pub/sub channel: one side publishes whatever it Sends locally, the other
// subscribes and replays each message as a local Send, so two Actomaton
// instances in different processes observe each other's actions as
// ordinary feedback.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Bridge relays marshaled actions to and from a single Redis channel.
type Bridge[A any] struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// Option configures a Bridge.
type Option[A any] func(*Bridge[A])

// WithLogger injects a structured logger for publish/decode failures.
// Defaults to a discarding logger.
func WithLogger[A any](logger *slog.Logger) Option[A] {
	return func(b *Bridge[A]) { b.logger = logger }
}

// New builds a Bridge over an existing Redis client and channel name.
func New[A any](client *redis.Client, channel string, opts ...Option[A]) *Bridge[A] {
	b := &Bridge[A]{client: client, channel: channel, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish marshals action and publishes it to the bridge's channel, for
// every other process subscribed to it to pick up.
func (b *Bridge[A]) Publish(ctx context.Context, action A) error {
	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("actomaton/bridge/redis: marshal action: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, body).Err(); err != nil {
		return fmt.Errorf("actomaton/bridge/redis: publish: %w", err)
	}
	return nil
}

// Run subscribes to the bridge's channel and calls send for every action
// received, until ctx is done. Typically run in its own goroutine, with
// send set to an Actomaton's Send method (ignoring the returned Handle).
func (b *Bridge[A]) Run(ctx context.Context, send func(A)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var action A
			if err := json.Unmarshal([]byte(msg.Payload), &action); err != nil {
				b.logger.Error("actomaton/bridge/redis: decode message", "error", err)
				continue
			}
			send(action)
		}
	}
}
