package observability

import (
	"context"
	"log"
)

// EventPublisher is the broker surface domain events go out on. The
// rabbitmq publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// MailEvent is the broker envelope for mail lifecycle events.
type MailEvent struct {
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	Payload   any    `json:"payload"`
}

var (
	eventPublisher EventPublisher
	eventPrefix    string
)

// SetEventPublisher installs the publisher domain events are emitted
// through. Routing keys become "<prefix>.<event name>".
func SetEventPublisher(publisher EventPublisher, prefix string) {
	eventPublisher = publisher
	eventPrefix = prefix
}

// PublishMailEvent emits one mail lifecycle event. Without an installed
// publisher it only counts the event.
func PublishMailEvent(ctx context.Context, name, requestID, traceID string, payload any) {
	IncMailEvent(name)
	if eventPublisher == nil {
		return
	}

	event := MailEvent{
		EventType: "mail",
		EventName: name,
		RequestID: requestID,
		TraceID:   traceID,
		Payload:   payload,
	}
	if err := eventPublisher.Publish(ctx, eventPrefix+"."+name, event); err != nil {
		IncAMQPPublishError()
		log.Printf("mail event publish failed event=%s: %v", name, err)
	}
}
