package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/amqp"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/payloads"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/registry"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			newOrderEvent(t, "event-one", 0),
			newOrderEvent(t, "event-two", 0),
		},
	}
	broker := &fakeBroker{errs: []error{errors.New("transient"), nil}}
	service := newTestService(t, repo, broker, &fakeRegistry{resolved: orderResolved()}, &fakeDLQRepo{}, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != repo.events[1].ID {
		t.Fatalf("published row recorded wrong ID")
	}
}

func TestPublishResolvedSendsRoutingKeyAndHeaders(t *testing.T) {
	event := newOrderEvent(t, "routing", 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	broker := &fakeBroker{}
	service := newTestService(t, repo, broker, &fakeRegistry{resolved: orderResolved()}, &fakeDLQRepo{}, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if len(broker.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(broker.sent))
	}
	msg := broker.sent[0]
	if msg.Exchange != "petcare.events" || msg.RoutingKey != "order.order_created" {
		t.Fatalf("unexpected destination %s/%s", msg.Exchange, msg.RoutingKey)
	}
	if msg.Type != string(enums.EventOrderCreated) {
		t.Fatalf("unexpected type %s", msg.Type)
	}
	if msg.Headers["aggregate_id"] != event.AggregateID.String() {
		t.Fatalf("aggregate header mismatch")
	}
	if !bytes.Equal(msg.Body, event.Payload) {
		t.Fatalf("body should be the stored envelope")
	}
}

func TestServiceProcessBatchWritesDLQOnNonRetryable(t *testing.T) {
	event := newOrderEvent(t, "nonretryable", 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	eventRegistry := &fakeRegistry{err: registry.NewNonRetryableError(errors.New("invalid payload"))}
	dlqRepo := &fakeDLQRepo{}
	service := newTestService(t, repo, &fakeBroker{}, eventRegistry, dlqRepo, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	entry := dlqRepo.entries[0]
	if entry.EventID != event.ID {
		t.Fatalf("dlq event_id mismatch: %s", entry.EventID)
	}
	if !bytes.Equal(entry.Payload, event.Payload) {
		t.Fatalf("dlq payload mismatch")
	}
	if entry.ErrorReason != enums.OutboxDLQReasonNonRetryable {
		t.Fatalf("unexpected error reason: %s", entry.ErrorReason)
	}
	if len(repo.terminal) != 1 {
		t.Fatalf("expected row closed as terminal")
	}
}

func TestServiceProcessBatchWritesDLQOnMaxAttempts(t *testing.T) {
	event := newOrderEvent(t, "max-attempts", 1)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	broker := &fakeBroker{errs: []error{errors.New("transient")}}
	dlqRepo := &fakeDLQRepo{}
	service := newTestService(t, repo, broker, &fakeRegistry{resolved: orderResolved()}, dlqRepo, &config.OutboxConfig{
		BatchSize:      1,
		PollIntervalMS: 100,
		MaxAttempts:    2,
	})

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	if dlqRepo.entries[0].ErrorReason != enums.OutboxDLQReasonMaxAttempts {
		t.Fatalf("unexpected error reason: %s", dlqRepo.entries[0].ErrorReason)
	}
}

func TestServiceProcessBatchEmpty(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakeBroker{}, &fakeRegistry{}, &fakeDLQRepo{}, nil)
	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed {
		t.Fatalf("empty batch should not report processed")
	}
}

func TestNextBackoffCaps(t *testing.T) {
	if got := nextBackoff(0, time.Second, 10*time.Second); got != 2*time.Second {
		t.Fatalf("unexpected backoff %s", got)
	}
	if got := nextBackoff(8*time.Second, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("expected cap, got %s", got)
	}
}

func newTestService(t *testing.T, repo outboxRepository, b broker, reg registryResolver, dlq dlqRepository, outboxCfgOverride *config.OutboxConfig) *Service {
	t.Helper()
	outboxCfg := config.OutboxConfig{
		BatchSize:      2,
		PollIntervalMS: 100,
		MaxAttempts:    5,
	}
	if outboxCfgOverride != nil {
		outboxCfg = *outboxCfgOverride
	}
	logg := logger.New(logger.Options{
		ServiceName: "outbox-publisher-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:        &config.Config{Outbox: outboxCfg},
		Logger:        logg,
		DB:            &fakeDB{},
		Broker:        b,
		Repository:    repo,
		Registry:      reg,
		DLQRepository: dlq,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func newOrderEvent(tb testing.TB, eventID string, attempts int) models.OutboxEvent {
	tb.Helper()
	env := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		EventType:  string(enums.EventOrderCreated),
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{}`),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		tb.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       payload,
		AttemptCount:  attempts,
	}
}

func orderResolved() *registry.ResolvedEvent {
	return &registry.ResolvedEvent{
		Descriptor: registry.EventDescriptor{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			Exchange:      "petcare.events",
			RoutingKey:    "order.order_created",
		},
		Payload: &payloads.OrderCreatedEvent{},
	}
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	terminal  []uuid.UUID
}

func (f *fakeRepo) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error) error {
	f.terminal = append(f.terminal, id)
	return nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakeBroker struct {
	errs []error
	sent []amqp.Message
}

func (f *fakeBroker) Ping(context.Context) error {
	return nil
}

func (f *fakeBroker) Publish(_ context.Context, msg amqp.Message) error {
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	if err == nil {
		f.sent = append(f.sent, msg)
	}
	return err
}

type fakeRegistry struct {
	resolved *registry.ResolvedEvent
	err      error
}

func (f *fakeRegistry) Resolve(event models.OutboxEvent) (*registry.ResolvedEvent, error) {
	if f.resolved == nil {
		return nil, f.err
	}
	resolved := *f.resolved
	resolved.Descriptor.AggregateType = event.AggregateType
	resolved.Envelope.EventID = event.ID.String()
	resolved.Envelope.OccurredAt = time.Now()
	return &resolved, f.err
}

type fakeDLQRepo struct {
	entries []models.OutboxDLQ
}

func (f *fakeDLQRepo) InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error {
	f.entries = append(f.entries, entry)
	return nil
}

func TestPacerBacksOffOnErrorsAndResets(t *testing.T) {
	p := newPacer(time.Second)
	if d := p.failed(); d < 2*time.Second || d >= 2*time.Second+jitterWindow {
		t.Fatalf("first failure should wait ~2s, got %s", d)
	}
	for i := 0; i < 5; i++ {
		p.failed()
	}
	if p.current != maxBackoff {
		t.Fatalf("expected backoff capped at %s, got %s", maxBackoff, p.current)
	}
	p.reset()
	if d := p.idle(); d < time.Second || d >= time.Second+jitterWindow {
		t.Fatalf("idle wait should be the base interval plus jitter, got %s", d)
	}
}
