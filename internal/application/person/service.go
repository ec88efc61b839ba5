// Package person implements the person creation saga: decode, validate,
// store, publish and, when publishing fails, a compensating delete.
package person

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/person-service/backend/internal/domain/person"
	"github.com/person-service/backend/internal/domain/shared"
	"github.com/person-service/backend/internal/infrastructure/logger"
	"github.com/person-service/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CreatePersonService runs the person creation saga.
// It holds no per-request state and is safe for concurrent use.
type CreatePersonService struct {
	store     person.RecordStore
	publisher shared.EventPublisher
	ids       IDGenerator
	source    string
	busName   string
	logger    *zap.Logger
	metrics   *telemetry.SagaMetrics
}

// ServiceOption configures a CreatePersonService
type ServiceOption func(*CreatePersonService)

// WithIDGenerator replaces the default UUID generator
func WithIDGenerator(ids IDGenerator) ServiceOption {
	return func(s *CreatePersonService) {
		s.ids = ids
	}
}

// WithLogger sets the logger used when the request context carries none
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *CreatePersonService) {
		s.logger = l
	}
}

// WithSagaMetrics enables outcome metrics
func WithSagaMetrics(m *telemetry.SagaMetrics) ServiceOption {
	return func(s *CreatePersonService) {
		s.metrics = m
	}
}

// WithEventSource overrides the event source (default "person.service")
func WithEventSource(source string) ServiceOption {
	return func(s *CreatePersonService) {
		s.source = source
	}
}

// NewCreatePersonService creates a CreatePersonService that publishes
// creation events to busName.
func NewCreatePersonService(store person.RecordStore, publisher shared.EventPublisher, busName string, opts ...ServiceOption) *CreatePersonService {
	s := &CreatePersonService{
		store:     store,
		publisher: publisher,
		ids:       UUIDGenerator{},
		source:    person.EventSource,
		busName:   busName,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create runs the saga for a raw request body and returns its terminal outcome.
//
// Store and bus calls run on a context detached from ctx's cancellation, so a
// caller that disconnects mid-flight does not leave a write or publish half
// applied. No retries are attempted at any step; a failed compensation is
// logged and reported in the outcome only.
func (s *CreatePersonService) Create(ctx context.Context, body []byte) Outcome {
	start := time.Now()
	ctx, step := telemetry.StartStep(ctx, "person.create", trace.SpanKindInternal, "")
	defer step.End()

	log := logger.For(ctx, s.logger)

	outcome := s.run(ctx, body, log)

	state := outcome.State()
	step.Annotate(attribute.String("saga.state", state.String()))
	if state == StateCompleted {
		step.Succeed()
	}
	s.metrics.RecordOutcome(ctx, state.String(), time.Since(start))

	return outcome
}

func (s *CreatePersonService) run(ctx context.Context, body []byte, log *logger.ContextLogger) Outcome {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Info("Rejected malformed person body", zap.Error(err))
		return ParseFailed{Err: &ParseError{Err: err}}
	}

	p, fieldErrs := ValidatePerson(payload)
	if len(fieldErrs) > 0 {
		log.Info("Person validation failed", zap.Int("error_count", len(fieldErrs)))
		return ValidationFailed{Err: &ValidationError{Errors: fieldErrs}}
	}

	rec := person.NewRecord(s.ids.NewID(), p)
	log = log.With(zap.String("person_id", rec.ID))
	ctx = context.WithoutCancel(ctx)

	if err := s.persist(ctx, rec); err != nil {
		persistErr := &PersistenceError{ID: rec.ID, Err: err}
		log.Error("Failed to persist person", zap.Error(err))
		return PersistFailed{Err: persistErr}
	}

	if err := s.publish(ctx, rec); err != nil {
		publishErr := &PublishError{ID: rec.ID, Err: err}
		log.Error("Failed to publish person event", zap.Error(err))
		return PublishFailed{
			Err:          publishErr,
			Compensation: s.compensate(ctx, rec.ID, log),
		}
	}

	log.Info("Person created")
	return Completed{ID: rec.ID}
}

func (s *CreatePersonService) persist(ctx context.Context, rec person.Record) error {
	ctx, step := telemetry.StartStep(ctx, "person.persist", trace.SpanKindClient, rec.ID)
	err := s.store.Put(ctx, rec)
	step.Finish(err)
	return err
}

func (s *CreatePersonService) publish(ctx context.Context, rec person.Record) error {
	ctx, step := telemetry.StartStep(ctx, "person.publish", trace.SpanKindProducer, rec.ID)
	envelope, err := person.NewCreatedEvent(rec).Envelope(s.source, s.busName)
	if err == nil {
		err = s.publisher.Publish(ctx, envelope)
	}
	step.Finish(err)
	return err
}

// compensate deletes the record written for id. A nil result means the
// record was deleted. There is no retry: a failure leaves the record
// orphaned and is only surfaced through logs and metrics.
func (s *CreatePersonService) compensate(ctx context.Context, id string, log *logger.ContextLogger) *CompensationError {
	ctx, step := telemetry.StartStep(ctx, "person.compensate", trace.SpanKindClient, id)
	defer step.End()

	err := s.store.DeleteIfExists(ctx, id)
	if err == nil {
		step.Succeed()
		s.metrics.RecordCompensation(ctx, true)
		log.Warn("Compensation succeeded, person record deleted after publish failure")
		return nil
	}

	compErr := &CompensationError{ID: id, Err: err}
	step.Fail(compErr)
	s.metrics.RecordCompensation(ctx, false)
	log.Error("Compensation failed, person record may be orphaned without a creation event",
		zap.Bool("critical", true),
		zap.Bool("record_not_found", compErr.RecordNotFound()),
		zap.Error(err),
	)
	return compErr
}

// PersonQueryService reads person records.
type PersonQueryService struct {
	store person.RecordStore
}

// NewPersonQueryService creates a PersonQueryService
func NewPersonQueryService(store person.RecordStore) *PersonQueryService {
	return &PersonQueryService{store: store}
}

// Get returns the record with id or an error wrapping person.ErrRecordNotFound.
func (q *PersonQueryService) Get(ctx context.Context, id string) (*person.Record, error) {
	ctx, step := telemetry.StartStep(ctx, "person.get", trace.SpanKindInternal, id)
	defer step.End()

	rec, err := q.store.FindByID(ctx, id)
	if err != nil && !errors.Is(err, person.ErrRecordNotFound) {
		step.Fail(err)
	}
	return rec, err
}
