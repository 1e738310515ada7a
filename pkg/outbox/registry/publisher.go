package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate, routing key and payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Exchange       string
	RoutingKey     string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

// NewEventRegistry builds the registry against the configured exchange.
// Routing keys take the form <aggregate>.<event_type>.
func NewEventRegistry(cfg config.AMQPConfig) (*EventRegistry, error) {
	exchange := strings.TrimSpace(cfg.Exchange)
	if exchange == "" {
		return nil, fmt.Errorf("amqp exchange is required")
	}

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventOrderCreated,
			AggregateType:  enums.AggregateOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderCreatedEvent{} },
		},
		{
			EventType:      enums.EventOrderStatusChanged,
			AggregateType:  enums.AggregateOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderStatusChangedEvent{} },
		},
		{
			EventType:      enums.EventOrderCancelled,
			AggregateType:  enums.AggregateOrder,
			PayloadFactory: func() interface{} { return &payloads.OrderCancelledEvent{} },
		},
		{
			EventType:      enums.EventPaymentCompleted,
			AggregateType:  enums.AggregateOrder,
			PayloadFactory: func() interface{} { return &payloads.PaymentOutcomeEvent{} },
		},
		{
			EventType:      enums.EventPaymentFailed,
			AggregateType:  enums.AggregateOrder,
			PayloadFactory: func() interface{} { return &payloads.PaymentOutcomeEvent{} },
		},
		{
			EventType:      enums.EventAppointmentBooked,
			AggregateType:  enums.AggregateAppointment,
			PayloadFactory: func() interface{} { return &payloads.AppointmentBookedEvent{} },
		},
		{
			EventType:      enums.EventAppointmentCancelled,
			AggregateType:  enums.AggregateAppointment,
			PayloadFactory: func() interface{} { return &payloads.AppointmentCancelledEvent{} },
		},
		{
			EventType:      enums.EventTestimonialSubmitted,
			AggregateType:  enums.AggregateTestimonial,
			PayloadFactory: func() interface{} { return &payloads.TestimonialSubmittedEvent{} },
		},
	} {
		desc.Exchange = exchange
		desc.RoutingKey = routingKey(desc.AggregateType, desc.EventType)
		reg.register(desc)
	}
	return reg, nil
}

func routingKey(aggregate enums.OutboxAggregateType, event enums.OutboxEventType) string {
	return string(aggregate) + "." + string(event)
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Descriptor returns the registered descriptor for the event type.
func (r *EventRegistry) Descriptor(eventType enums.OutboxEventType) (EventDescriptor, bool) {
	desc, ok := r.entries[eventType]
	return desc, ok
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}
