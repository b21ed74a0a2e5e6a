package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_MATCHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Advising session lifecycle.
const (
	SessionAnalyzed  = "SESSION_ANALYZED"
	SessionMatched   = "SESSION_MATCHED"
	SessionCompleted = "SESSION_COMPLETED"
	SessionAdjusted  = "SESSION_ADJUSTED"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewSessionEvent stamps an event for one session. data may be nil.
func NewSessionEvent(eventType, sessionID string, data map[string]interface{}) BaseEvent {
	payload := map[string]interface{}{"session_id": sessionID}
	for k, v := range data {
		payload[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now(),
	}
}

// Publisher sends events to a bus. Publishing is best effort for callers:
// a failed publish never rolls back a persisted stage.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler processes one delivered event. A non-nil error asks the bus to redeliver.
type Handler func(ctx context.Context, event Event) error

type Subscriber interface {
	Subscribe(ctx context.Context, handler Handler) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// Marshal encodes an event with its type and timestamp so subscribers can rebuild it.
func Marshal(event Event) ([]byte, error) {
	return json.Marshal(envelope{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
		Data:       event.Payload(),
	})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, err
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
