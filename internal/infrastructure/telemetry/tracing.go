package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for spans started by this service
const TracerName = "github.com/person-service/backend"

// AttrPersonID tags a step span with the record it acts on
const AttrPersonID = attribute.Key("person.id")

// Step is the span of one stage of a person operation (persist, publish,
// compensate, lookup). The zero value is inert.
type Step struct {
	span trace.Span
}

// StartStep starts a step span from the global tracer provider. personID is
// recorded as person.id when known. The caller must End the step, or use
// Finish.
//
//	ctx, step := telemetry.StartStep(ctx, "person.persist", trace.SpanKindClient, rec.ID)
//	err := store.Put(ctx, rec)
//	step.Finish(err)
func StartStep(ctx context.Context, name string, kind trace.SpanKind, personID string) (context.Context, Step) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(kind)}
	if personID != "" {
		opts = append(opts, trace.WithAttributes(AttrPersonID.String(personID)))
	}
	ctx, span := otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name, opts...)
	return ctx, Step{span: span}
}

// Span returns the underlying span, a no-op span for the zero Step.
func (s Step) Span() trace.Span {
	if s.span == nil {
		return trace.SpanFromContext(context.Background())
	}
	return s.span
}

// Annotate adds attributes to the step.
func (s Step) Annotate(attrs ...attribute.KeyValue) {
	s.Span().SetAttributes(attrs...)
}

// Fail records err as an exception event and sets the error status. A nil
// err is ignored.
func (s Step) Fail(err error) {
	if err == nil {
		return
	}
	span := s.Span()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Succeed sets the Ok status.
func (s Step) Succeed() {
	s.Span().SetStatus(codes.Ok, "")
}

// End ends the step without touching its status.
func (s Step) End() {
	s.Span().End()
}

// Finish sets the status from err and ends the step.
func (s Step) Finish(err error) {
	if err != nil {
		s.Fail(err)
	} else {
		s.Succeed()
	}
	s.End()
}
