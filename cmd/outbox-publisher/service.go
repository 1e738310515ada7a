package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/amqp"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/registry"
)

const (
	defaultBatchSize      = 50
	defaultPollInterval   = 500 * time.Millisecond
	defaultPublishTimeout = 15 * time.Second
	defaultMaxAttempts    = 10
)

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type broker interface {
	Ping(context.Context) error
	Publish(context.Context, amqp.Message) error
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error) error
}

type dlqRepository interface {
	InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error
}

type registryResolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

type ServiceParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            dbClient
	Broker        broker
	Repository    outboxRepository
	Registry      registryResolver
	DLQRepository dlqRepository
	Metrics       *metrics.OutboxMetrics
}

// Service drains outbox_events to RabbitMQ. Rows are locked per batch inside
// one transaction, so several publishers can run side by side.
type Service struct {
	logg         *logger.Logger
	db           dbClient
	repo         outboxRepository
	broker       broker
	registry     registryResolver
	dlq          dlqRepository
	metrics      *metrics.OutboxMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	required := []struct {
		ok   bool
		name string
	}{
		{params.Config != nil, "config"},
		{params.Logger != nil, "logger"},
		{params.DB != nil, "database client"},
		{params.Broker != nil, "amqp broker"},
		{params.Repository != nil, "outbox repository"},
		{params.Registry != nil, "event registry"},
		{params.DLQRepository != nil, "dlq repository"},
	}
	for _, r := range required {
		if !r.ok {
			return nil, fmt.Errorf("%s is required", r.name)
		}
	}

	cfg := params.Config.Outbox
	s := &Service{
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		broker:       params.Broker,
		registry:     params.Registry,
		dlq:          params.DLQRepository,
		metrics:      params.Metrics,
		batchSize:    cfg.BatchSize,
		maxAttempts:  cfg.MaxAttempts,
		pollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultBatchSize
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxAttempts
	}
	if s.pollInterval <= 0 {
		s.pollInterval = defaultPollInterval
	}
	return s, nil
}

// Run polls until ctx is cancelled. A full batch is followed immediately by
// another poll; an empty one waits a poll interval.
func (s *Service) Run(ctx context.Context) error {
	deps := []struct {
		name string
		ping func(context.Context) error
	}{{"database", s.db.Ping}, {"amqp", s.broker.Ping}}
	for _, d := range deps {
		if err := d.ping(ctx); err != nil {
			s.logg.Error(ctx, d.name+" ping failed", err)
			return fmt.Errorf("%s ping failed: %w", d.name, err)
		}
	}

	pace := newPacer(s.pollInterval)
	for {
		if err := ctx.Err(); err != nil {
			s.logg.Info(ctx, "outbox publisher context canceled")
			return err
		}

		processed, err := s.processBatch(ctx)
		var wait time.Duration
		switch {
		case err != nil:
			s.logg.Error(ctx, "outbox publisher batch error", err)
			wait = pace.failed()
		case processed:
			pace.reset()
			continue
		default:
			pace.reset()
			wait = pace.idle()
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
}

// outcome is what happened to one event in a batch.
type outcome int

const (
	outcomePublished outcome = iota
	outcomeRetry
	outcomeDeadLettered
)

// processBatch reports whether any rows were claimed.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	processed := false
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if err != nil {
			return err
		}
		processed = len(events) > 0
		var tally [outcomeDeadLettered + 1]int
		for _, event := range events {
			out, err := s.dispatch(ctx, tx, event)
			if err != nil {
				return err
			}
			tally[out]++
		}
		if processed {
			s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
				"published":     tally[outcomePublished],
				"retrying":      tally[outcomeRetry],
				"dead_lettered": tally[outcomeDeadLettered],
			}), "outbox batch done")
		}
		return nil
	})
	return processed, err
}

// dispatch publishes one event and records the result. The returned error is
// only for bookkeeping failures, which abort the batch.
func (s *Service) dispatch(ctx context.Context, tx *gorm.DB, event models.OutboxEvent) (outcome, error) {
	fields := s.eventFields(event)

	resolved, err := s.registry.Resolve(event)
	if err != nil {
		return outcomeDeadLettered, s.deadLetter(ctx, tx, event, enums.OutboxDLQReasonNonRetryable, err, fields)
	}
	fields["event_id"] = resolved.Envelope.EventID
	fields["occurred_at"] = resolved.Envelope.OccurredAt.Format(time.RFC3339Nano)
	fields["routing_key"] = resolved.Descriptor.RoutingKey

	pubErr := s.publish(ctx, event, resolved)
	if pubErr == nil {
		if err := s.repo.MarkPublishedTx(tx, event.ID); err != nil {
			return outcomePublished, fmt.Errorf("mark published %s: %w", event.ID, err)
		}
		s.metrics.ObservePublished(string(event.EventType))
		s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event published")
		return outcomePublished, nil
	}

	var nonRetry registry.NonRetryableError
	if errors.As(pubErr, &nonRetry) {
		return outcomeDeadLettered, s.deadLetter(ctx, tx, event, enums.OutboxDLQReasonNonRetryable, pubErr, fields)
	}

	attempt := event.AttemptCount + 1
	fields["attempt_count"] = attempt
	if attempt >= s.maxAttempts {
		fields["terminal_reason"] = "max_attempts"
		return outcomeDeadLettered, s.deadLetter(ctx, tx, event, enums.OutboxDLQReasonMaxAttempts,
			fmt.Errorf("max publish attempts reached: %w", pubErr), fields)
	}

	fields["error"] = pubErr.Error()
	s.logg.Warn(s.logg.WithFields(ctx, fields), "outbox publish failed")
	s.metrics.ObserveFailed(string(event.EventType))
	if err := s.repo.MarkFailedTx(tx, event.ID, pubErr); err != nil {
		return outcomeRetry, fmt.Errorf("mark failure %s: %w", event.ID, err)
	}
	return outcomeRetry, nil
}

// deadLetter copies event into outbox_dlq and stops further attempts.
func (s *Service) deadLetter(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, reason enums.OutboxDLQErrorReason, cause error, fields map[string]any) error {
	fields["error_reason"] = reason
	fields["error"] = cause.Error()
	s.logg.Warn(s.logg.WithFields(ctx, fields), "outbox event will not be retried")

	msg := cause.Error()
	if err := s.dlq.InsertTx(tx, models.OutboxDLQ{
		EventID:       event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		ErrorReason:   reason,
		ErrorMessage:  &msg,
		AttemptCount:  event.AttemptCount,
		FailedAt:      time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("insert dlq %s: %w", event.ID, err)
	}
	if err := s.repo.MarkTerminalTx(tx, event.ID, cause); err != nil {
		return fmt.Errorf("mark terminal %s: %w", event.ID, err)
	}
	s.metrics.ObserveDeadLettered(string(event.EventType), string(reason))
	return nil
}

func (s *Service) publish(ctx context.Context, event models.OutboxEvent, resolved *registry.ResolvedEvent) error {
	if resolved.Descriptor.RoutingKey == "" {
		return registry.NewNonRetryableError(fmt.Errorf("routing key not configured for %s", event.EventType))
	}

	ctx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	return s.broker.Publish(ctx, amqp.Message{
		Exchange:   resolved.Descriptor.Exchange,
		RoutingKey: resolved.Descriptor.RoutingKey,
		Body:       event.Payload,
		MessageID:  resolved.Envelope.EventID,
		Type:       string(event.EventType),
		Timestamp:  resolved.Envelope.OccurredAt,
		Headers: map[string]string{
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
			"outbox_id":      event.ID.String(),
			"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		},
	})
}

func (s *Service) eventFields(event models.OutboxEvent) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"batch_size":     s.batchSize,
		"attempt_count":  event.AttemptCount,
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}
