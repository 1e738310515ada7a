package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

var errNoTx = errors.New("outbox: transaction required")

// DomainEvent is what services hand to Emit. Data is JSON-encoded into the
// envelope; Version and OccurredAt default when zero.
type DomainEvent struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	AggregateID   uuid.UUID
	Actor         *ActorRef
	Data          any
	Version       int
	OccurredAt    time.Time
}

// Service queues events in outbox_events using the caller's transaction, so
// an event exists exactly when the state change that produced it commits.
type Service struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return errNoTx
	}
	if !event.EventType.IsValid() {
		return fmt.Errorf("outbox: unknown event type %q", event.EventType)
	}
	if event.AggregateType != "" && !event.AggregateType.IsValid() {
		return fmt.Errorf("outbox: unknown aggregate type %q", event.AggregateType)
	}

	env, err := newEnvelope(event, s.now())
	if err != nil {
		return err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := s.repo.Insert(tx, models.OutboxEvent{
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       payload,
	}); err != nil {
		return fmt.Errorf("insert outbox event %s: %w", event.EventType, err)
	}

	if s.logg != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"event_id":       env.EventID,
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID.String(),
		}), "outbox event queued")
	}
	return nil
}

// EmitIfNotExists is Emit guarded by a lookup on (type, aggregate), used for
// events that must fire once per aggregate such as payment outcomes.
func (s *Service) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return errNoTx
	}
	exists, err := s.repo.ExistsTx(tx, event.EventType, event.AggregateType, event.AggregateID)
	if err != nil || exists {
		return err
	}
	return s.Emit(ctx, tx, event)
}
