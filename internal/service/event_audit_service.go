package service

import (
	"context"

	"edupath-be/internal/pkg/logger"
	"edupath-be/pkg/events"
)

// IEventAuditService records every session lifecycle event in the event log.
type IEventAuditService interface {
	Start(ctx context.Context) error
}

type eventAuditService struct {
	subscriber events.Subscriber
	logger     logger.ILogger
}

func NewEventAuditService(subscriber events.Subscriber, log logger.ILogger) IEventAuditService {
	return &eventAuditService{subscriber: subscriber, logger: log}
}

func (s *eventAuditService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, s.handle)
}

func (s *eventAuditService) handle(ctx context.Context, event events.Event) error {
	details := map[string]interface{}{
		"event":       event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	s.logger.Info("EVENTS", "Session event", details)
	return nil
}
