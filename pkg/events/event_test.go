package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionEvent(t *testing.T) {
	e := NewSessionEvent(SessionMatched, "s1", map[string]interface{}{"target_count": 3})

	assert.Equal(t, SessionMatched, e.EventType())
	assert.Equal(t, "s1", e.Payload()["session_id"])
	assert.Equal(t, 3, e.Payload()["target_count"])
	assert.WithinDuration(t, time.Now(), e.Timestamp(), time.Second)
}

func TestMarshalRoundTrip(t *testing.T) {
	in := NewSessionEvent(SessionAnalyzed, "abc", nil)
	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, SessionAnalyzed, out.Type)
	assert.Equal(t, "abc", out.Data["session_id"])
	assert.True(t, in.OccurredAt.Equal(out.OccurredAt))
}

func TestChannelBus_PublishSubscribe(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	bus := NewChannelBus(pubSub, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ctx, func(ctx context.Context, e Event) error {
		received <- e
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, NewSessionEvent(SessionCompleted, "s9", nil)))

	select {
	case e := <-received:
		assert.Equal(t, SessionCompleted, e.EventType())
		assert.Equal(t, "s9", e.Payload()["session_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), BaseEvent{}))
}
