package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/payloads"
)

func TestEventRegistryResolveSuccess(t *testing.T) {
	reg := newTestEventRegistry(t)

	orderID := uuid.New()
	payloadBytes := mustMarshal(t, payloads.OrderCreatedEvent{
		OrderID:       orderID,
		OrderNumber:   "ORD-20250101120000-abcdef123456",
		UserID:        uuid.New(),
		FinalAmount:   decimal.RequireFromString("1500.00"),
		PaymentMethod: enums.PaymentMethodPayHere,
		ItemCount:     2,
	})

	event := models.OutboxEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Payload:       mustEnvelope(t, payloadBytes),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Descriptor.Exchange != "clinic.events" {
		t.Fatalf("unexpected exchange %q", resolved.Descriptor.Exchange)
	}
	if resolved.Descriptor.RoutingKey != "order.order_created" {
		t.Fatalf("unexpected routing key %q", resolved.Descriptor.RoutingKey)
	}
	payload, ok := resolved.Payload.(*payloads.OrderCreatedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.OrderID != orderID || payload.ItemCount != 2 {
		t.Fatalf("payload mismatch %+v", payload)
	}
	if !payload.FinalAmount.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("amount mismatch %s", payload.FinalAmount)
	}
	if resolved.Envelope.EventID == "" {
		t.Fatalf("envelope missing event id")
	}
}

func TestEventRegistryCoversEveryEventType(t *testing.T) {
	reg := newTestEventRegistry(t)
	for _, eventType := range []enums.OutboxEventType{
		enums.EventOrderCreated,
		enums.EventOrderStatusChanged,
		enums.EventOrderCancelled,
		enums.EventPaymentCompleted,
		enums.EventPaymentFailed,
		enums.EventAppointmentBooked,
		enums.EventAppointmentCancelled,
		enums.EventTestimonialSubmitted,
	} {
		if _, ok := reg.Descriptor(eventType); !ok {
			t.Fatalf("missing descriptor for %s", eventType)
		}
	}
}

func TestEventRegistryResolveRejectsBadRows(t *testing.T) {
	reg := newTestEventRegistry(t)

	cases := map[string]models.OutboxEvent{
		"unknown event": {
			EventType:     enums.OutboxEventType("vet_retired"),
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, []byte(`{}`)),
		},
		"aggregate mismatch": {
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, []byte(`{}`)),
		},
		"missing aggregate id": {
			EventType:     enums.EventAppointmentBooked,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   uuid.Nil,
			Payload:       mustEnvelope(t, []byte(`{}`)),
		},
		"null payload": {
			EventType:     enums.EventTestimonialSubmitted,
			AggregateType: enums.AggregateTestimonial,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, []byte("null")),
		},
		"broken envelope": {
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Payload:       json.RawMessage(`{"data":`),
		},
	}

	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Resolve(event)
			if err == nil {
				t.Fatalf("expected error")
			}
			var nonRetry NonRetryableError
			if !errors.As(err, &nonRetry) {
				t.Fatalf("expected non-retryable error, got %T", err)
			}
		})
	}
}

func TestNewEventRegistryRequiresExchange(t *testing.T) {
	if _, err := NewEventRegistry(config.AMQPConfig{Exchange: "  "}); err == nil {
		t.Fatalf("expected error for blank exchange")
	}
}

func newTestEventRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.AMQPConfig{Exchange: "clinic.events"})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func mustEnvelope(t *testing.T, payload []byte) json.RawMessage {
	t.Helper()
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}
