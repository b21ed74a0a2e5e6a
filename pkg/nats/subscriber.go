package nats

import (
	"context"
	"fmt"
	"log"

	"edupath-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Subscriber consumes events from the EVENTS stream with a durable consumer.
type Subscriber struct {
	nc          *nats.Conn
	js          jetstream.JetStream
	subject     string
	durableName string
	consumeCtx  jetstream.ConsumeContext
}

// NewSubscriber filters on subject (e.g. "events.SESSION_>") under durableName.
func NewSubscriber(url, subject, durableName string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js, subject: subject, durableName: durableName}, nil
}

func (s *Subscriber) Subscribe(ctx context.Context, handler events.Handler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       s.durableName,
		FilterSubject: s.subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := events.Unmarshal(msg.Data())
		if err != nil {
			log.Printf("Error unmarshalling event data on %s: %v", msg.Subject(), err)
			// A malformed message will never decode; drop it.
			_ = msg.Term()
			return
		}

		if err := handler(ctx, event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.consumeCtx = cc

	log.Printf("Subscribed to %s with durable %s", s.subject, s.durableName)
	return nil
}

func (s *Subscriber) Close() {
	if s.consumeCtx != nil {
		s.consumeCtx.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
