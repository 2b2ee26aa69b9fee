// Package realtime pushes record snapshots to live subscribers.
//
// The hub is a topic-keyed observer registry: mutations publish a full
// snapshot of the affected record, and every subscriber of that topic
// receives it. Consumers re-derive their projections from each snapshot;
// there is no incremental patching.
package realtime

import (
	"log/slog"
	"sync"
)

// Event is one pushed snapshot.
type Event struct {
	Topic    string      `json:"topic"`
	Snapshot interface{} `json:"snapshot"`
}

// subscriberBuffer is the per-subscription channel depth. A subscriber that
// falls this far behind starts losing events; it is expected to re-read the
// record on reconnect.
const subscriberBuffer = 16

// Subscription is a live feed for one topic. Cancel tears it down; the
// event channel is closed afterwards.
type Subscription struct {
	C <-chan Event

	topic string
	ch    chan Event
	hub   *Hub
	once  sync.Once
}

// Cancel removes the subscription from the hub and closes its channel.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Relay forwards events to other server instances. The Redis bridge
// implements it; a single-instance deployment runs without one.
type Relay interface {
	Relay(e Event)
}

// Hub maintains topic subscriptions and broadcasts published snapshots.
type Hub struct {
	mu    sync.RWMutex
	subs  map[string]map[*Subscription]struct{}
	relay Relay
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// SetRelay attaches a cross-instance relay. Must be called before the hub
// is in use.
func (h *Hub) SetRelay(r Relay) { h.relay = r }

// Subscribe registers interest in a topic and returns a cancellation
// handle.
func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, topic: topic, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*Subscription]struct{})
	}
	h.subs[topic][sub] = struct{}{}
	return sub
}

// Publish delivers a snapshot to all local subscribers of the topic and
// hands it to the relay, if any.
func (h *Hub) Publish(topic string, snapshot interface{}) {
	e := Event{Topic: topic, Snapshot: snapshot}
	h.broadcast(e)
	if h.relay != nil {
		h.relay.Relay(e)
	}
}

// broadcast fans an event out locally. Slow subscribers are skipped rather
// than blocking the publisher.
func (h *Hub) broadcast(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[e.Topic] {
		select {
		case sub.ch <- e:
		default:
			slog.Warn("dropping event for slow subscriber", "topic", e.Topic)
		}
	}
}

// SubscriberCount reports the number of live subscriptions across all
// topics. Exposed as a metrics gauge.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[s.topic]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.topic)
		}
	}
	close(s.ch)
}
