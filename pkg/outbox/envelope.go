package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const envelopeVersion = 1

// ActorRef identifies who produced the event.
type ActorRef struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
}

// PayloadEnvelope is stored in outbox_events.payload and published verbatim
// as the AMQP message body. Consumers dedupe on EventID.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// newEnvelope stamps a fresh event id and fills version and time defaults.
func newEnvelope(event DomainEvent, now time.Time) (PayloadEnvelope, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return PayloadEnvelope{}, fmt.Errorf("encode %s data: %w", event.EventType, err)
	}
	env := PayloadEnvelope{
		Version:    event.Version,
		EventID:    uuid.NewString(),
		EventType:  string(event.EventType),
		OccurredAt: event.OccurredAt,
		Actor:      event.Actor,
		Data:       data,
	}
	if env.Version == 0 {
		env.Version = envelopeVersion
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = now
	}
	return env, nil
}
