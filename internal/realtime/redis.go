package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// envelope is the wire form of a relayed event. The instance tag lets each
// server ignore its own publications.
type envelope struct {
	Instance string          `json:"instance"`
	Topic    string          `json:"topic"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// RedisBridge relays hub events between server instances over a Redis
// pub/sub channel, so a subscriber connected to one instance still sees
// mutations made through another.
type RedisBridge struct {
	hub        *Hub
	client     *redis.Client
	channel    string
	instanceID string
}

// NewRedisBridge connects to Redis and attaches itself as the hub's relay.
func NewRedisBridge(hub *Hub, addr, channel string) (*RedisBridge, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}

	b := &RedisBridge{
		hub:        hub,
		client:     client,
		channel:    channel,
		instanceID: uuid.New().String(),
	}
	hub.SetRelay(b)
	return b, nil
}

// Relay publishes an event envelope to the shared channel.
func (b *RedisBridge) Relay(e Event) {
	snapshot, err := json.Marshal(e.Snapshot)
	if err != nil {
		slog.Warn("failed to marshal relayed snapshot", "topic", e.Topic, "error", err)
		return
	}
	payload, err := json.Marshal(envelope{
		Instance: b.instanceID,
		Topic:    e.Topic,
		Snapshot: snapshot,
	})
	if err != nil {
		slog.Warn("failed to marshal relay envelope", "topic", e.Topic, "error", err)
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, payload).Err(); err != nil {
		slog.Warn("failed to relay event", "topic", e.Topic, "error", err)
	}
}

// Run consumes the shared channel and re-broadcasts events that originated
// on other instances. Blocks until the context is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis subscription closed")
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				slog.Warn("dropping malformed relay envelope", "error", err)
				continue
			}
			if env.Instance == b.instanceID {
				continue // our own publication
			}
			b.hub.broadcast(Event{Topic: env.Topic, Snapshot: env.Snapshot})
		}
	}
}

// Close releases the Redis connection.
func (b *RedisBridge) Close() error {
	return b.client.Close()
}
