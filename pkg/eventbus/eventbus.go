// Package eventbus broadcasts graph change events to in-process
// subscribers (canvas layers, autosave, anything watching the graph)
// over a watermill gochannel pub/sub.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/nodeloom/nodeloom/pkg/events"
)

// Topic carries every graph change event.
const Topic = "nodeloom.graph"

// Bus wraps the in-memory pub/sub.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// New creates an event bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

// Publish emits one graph event. Failures are returned, not fatal; a
// slow subscriber must never block editing.
func (b *Bus) Publish(ev events.GraphEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", ev.Type, err)
	}

	msg := message.NewMessage(ev.ID, payload)

	if err := b.pubSub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", ev.Type, err)
	}

	return nil
}

// Subscribe returns a channel of raw messages on the graph topic.
// Payloads unmarshal into events.GraphEvent.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	ch, err := b.pubSub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Topic, err)
	}

	return ch, nil
}

// Close shuts the pub/sub down.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
