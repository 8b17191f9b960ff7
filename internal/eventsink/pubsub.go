package eventsink

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cloud.google.com/go/pubsub"
)

// PubSub publishes every event as a JSON message to a Google Cloud Pub/Sub
// topic, for deployments that fan events out to external consumers instead
// of (or alongside) structured logs.
type PubSub struct {
	topic *pubsub.Topic
}

// NewPubSub wraps an existing Pub/Sub topic handle.
func NewPubSub(topic *pubsub.Topic) *PubSub {
	return &PubSub{topic: topic}
}

// Emit publishes evt without blocking the caller on publish confirmation;
// a publish failure is logged and swallowed, since the core never depends on
// a sink's side effects.
func (p *PubSub) Emit(evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		slog.Warn("eventsink: failed to marshal event for pubsub", "error", err)
		return
	}

	result := p.topic.Publish(context.Background(), &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": evt.Type,
			"severity":   string(evt.Severity),
		},
	})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := result.Get(ctx); err != nil {
			slog.Warn("eventsink: pubsub publish failed", "error", err, "event_type", evt.Type)
		}
	}()
}
