package eventbus

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/pkg/events"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()

	bus := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() {
		require.NoError(t, bus.Close())
	})

	return bus
}

func receiveEvent(t *testing.T, ch <-chan *message.Message) events.GraphEvent {
	t.Helper()

	select {
	case msg := <-ch:
		var ev events.GraphEvent

		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		msg.Ack()

		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")

		return events.GraphEvent{}
	}
}

func TestPublishSubscribe(t *testing.T) {
	bus := newTestBus(t)

	ch, err := bus.Subscribe(t.Context())
	require.NoError(t, err)

	ev := events.NewGraphEvent(events.NodeAdded, "doc-1")
	ev.NodeID = "n1"
	require.NoError(t, bus.Publish(ev))

	got := receiveEvent(t, ch)
	assert.Equal(t, events.NodeAdded, got.Type)
	assert.Equal(t, "doc-1", got.DocumentID)
	assert.Equal(t, "n1", got.NodeID)
}

func TestPublish_MultipleSubscribersEachReceive(t *testing.T) {
	bus := newTestBus(t)

	first, err := bus.Subscribe(t.Context())
	require.NoError(t, err)

	second, err := bus.Subscribe(t.Context())
	require.NoError(t, err)

	require.NoError(t, bus.Publish(events.NewGraphEvent(events.DocumentSaved, "doc-1")))

	assert.Equal(t, events.DocumentSaved, receiveEvent(t, first).Type)
	assert.Equal(t, events.DocumentSaved, receiveEvent(t, second).Type)
}

func TestPublish_OrderPreservedPerSubscriber(t *testing.T) {
	bus := newTestBus(t)

	ch, err := bus.Subscribe(t.Context())
	require.NoError(t, err)

	sequence := []events.Type{events.NodeAdded, events.EdgeAdded, events.NodeRemoved}
	for _, eventType := range sequence {
		require.NoError(t, bus.Publish(events.NewGraphEvent(eventType, "doc-1")))
	}

	for _, want := range sequence {
		assert.Equal(t, want, receiveEvent(t, ch).Type)
	}
}
