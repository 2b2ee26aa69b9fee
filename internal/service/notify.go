package service

// Notifier pushes full record snapshots to live subscribers after each
// successful mutation. The realtime hub implements it; tests use a no-op or
// a recording fake.
type Notifier interface {
	Publish(topic string, snapshot interface{})
}

// NopNotifier discards all snapshots.
type NopNotifier struct{}

func (NopNotifier) Publish(string, interface{}) {}
