package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const DefaultTopic = "advising_session_events"

// ChannelBus is an in-process bus on a watermill go channel.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewChannelBus(pubSub *gochannel.GoChannel, topic string) *ChannelBus {
	if topic == "" {
		topic = DefaultTopic
	}
	return &ChannelBus{pubSub: pubSub, topic: topic}
}

func (b *ChannelBus) Publish(ctx context.Context, event Event) error {
	data, err := Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", event.EventType())
	return b.pubSub.Publish(b.topic, msg)
}

// Subscribe consumes until ctx is cancelled. Messages that fail to decode are acked and dropped.
func (b *ChannelBus) Subscribe(ctx context.Context, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, b.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			event, err := Unmarshal(msg.Payload)
			if err != nil {
				msg.Ack()
				continue
			}
			if err := handler(msg.Context(), event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}
