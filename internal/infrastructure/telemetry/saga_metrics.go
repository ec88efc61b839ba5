package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is constructed without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Compensation results
const (
	CompensationSucceeded = "succeeded"
	CompensationFailed    = "failed"
)

// SagaMetrics records outcomes of the person creation saga.
// A nil *SagaMetrics is valid and records nothing.
type SagaMetrics struct {
	outcomes      *Counter
	compensations *Counter
	duration      *Histogram
}

// NewSagaMetrics registers the saga instruments on meter.
func NewSagaMetrics(meter metric.Meter) (*SagaMetrics, error) {
	in := NewInstruments(meter)
	m := &SagaMetrics{
		outcomes: in.Counter("person_create_outcomes_total",
			"Person creation attempts by terminal outcome", "{attempts}"),
		compensations: in.Counter("person_compensations_total",
			"Compensating deletes after a failed publish, by result", "{compensations}"),
		duration: in.Histogram("person_create_duration_seconds",
			"Duration of person creation from decode to terminal outcome", "s", SagaDurationBuckets...),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordOutcome counts one saga run ending in outcome and records its duration.
func (m *SagaMetrics) RecordOutcome(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.Inc(ctx, AttrSagaOutcome.String(outcome))
	m.duration.RecordDuration(ctx, d, AttrSagaOutcome.String(outcome))
}

// RecordCompensation counts one compensating delete with its result.
func (m *SagaMetrics) RecordCompensation(ctx context.Context, succeeded bool) {
	if m == nil {
		return
	}
	result := CompensationSucceeded
	if !succeeded {
		result = CompensationFailed
	}
	m.compensations.Inc(ctx, AttrCompensationResult.String(result))
}
