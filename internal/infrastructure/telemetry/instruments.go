package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Attribute keys shared by the service's instruments
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrSagaOutcome        = attribute.Key("saga.outcome")
	AttrCompensationResult = attribute.Key("compensation.result")
)

// Histogram bucket boundaries
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	SagaDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5}
	BodySizeBuckets     = []float64{100, 250, 500, 1000, 2500, 5000, 10000, 100000, 1000000}
)

// Instruments declares a set of instruments on one meter and keeps the
// first registration error, so a set is checked once with Err.
// After a failure the remaining instruments are no-ops.
type Instruments struct {
	meter metric.Meter
	err   error
}

// NewInstruments starts a set on meter
func NewInstruments(meter metric.Meter) *Instruments {
	if meter == nil {
		return &Instruments{meter: noop.Meter{}, err: ErrMeterNil}
	}
	return &Instruments{meter: meter}
}

// Err returns the first registration error
func (in *Instruments) Err() error {
	return in.err
}

func (in *Instruments) fail(kind, name string, err error) {
	if in.err == nil {
		in.err = fmt.Errorf("failed to create %s %s: %w", kind, name, err)
	}
}

// Counter declares a monotonically increasing int64 counter
func (in *Instruments) Counter(name, description, unit string) *Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail("counter", name, err)
		return &Counter{counter: noop.Int64Counter{}}
	}
	return &Counter{counter: c}
}

// Histogram declares a float64 histogram with explicit bucket boundaries
func (in *Instruments) Histogram(name, description, unit string, boundaries ...float64) *Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(description),
		metric.WithUnit(unit),
	}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	if err != nil {
		in.fail("histogram", name, err)
		return &Histogram{histogram: noop.Float64Histogram{}}
	}
	return &Histogram{histogram: h}
}

// Gauge declares an int64 up-down counter for in-flight values
func (in *Instruments) Gauge(name, description, unit string) *Gauge {
	g, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.fail("up-down counter", name, err)
		return &Gauge{counter: noop.Int64UpDownCounter{}}
	}
	return &Gauge{counter: g}
}

// Counter wraps an int64 counter
type Counter struct {
	counter metric.Int64Counter
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram wraps a float64 histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// Record records value
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

// Gauge wraps an int64 up-down counter
type Gauge struct {
	counter metric.Int64UpDownCounter
}

// Track increments the gauge and returns a func that decrements it
func (g *Gauge) Track(ctx context.Context, attrs ...attribute.KeyValue) (done func()) {
	opt := metric.WithAttributes(attrs...)
	g.counter.Add(ctx, 1, opt)
	return func() { g.counter.Add(ctx, -1, opt) }
}
