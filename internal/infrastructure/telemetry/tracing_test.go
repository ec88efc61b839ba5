package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestStartStep(t *testing.T) {
	t.Run("tags the person and sets ok on finish", func(t *testing.T) {
		recorder := installRecorder(t)

		_, step := StartStep(context.Background(), "person.persist", trace.SpanKindClient, "p-1")
		step.Finish(nil)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "person.persist", spans[0].Name())
		assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
		assert.Equal(t, codes.Ok, spans[0].Status().Code)
		assert.Contains(t, spans[0].Attributes(), AttrPersonID.String("p-1"))
		assert.Equal(t, TracerName, spans[0].InstrumentationScope().Name)
	})

	t.Run("no person id before one is generated", func(t *testing.T) {
		recorder := installRecorder(t)

		_, step := StartStep(context.Background(), "person.create", trace.SpanKindInternal, "")
		step.Annotate(attribute.String("saga.state", "ParseFailed"))
		step.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status().Code)
		assert.Equal(t, []attribute.KeyValue{attribute.String("saga.state", "ParseFailed")}, spans[0].Attributes())
	})

	t.Run("child steps share the trace", func(t *testing.T) {
		recorder := installRecorder(t)

		ctx, parent := StartStep(context.Background(), "person.create", trace.SpanKindInternal, "")
		_, child := StartStep(ctx, "person.publish", trace.SpanKindProducer, "p-2")
		child.End()
		parent.End()

		spans := recorder.Ended()
		require.Len(t, spans, 2)
		assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
		assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	})
}

func TestStep_Fail(t *testing.T) {
	recorder := installRecorder(t)

	_, step := StartStep(context.Background(), "person.publish", trace.SpanKindProducer, "p-1")
	step.Fail(nil)
	step.Finish(errors.New("bus unavailable"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "bus unavailable", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestStep_Zero(t *testing.T) {
	var step Step
	assert.NotPanics(t, func() {
		step.Annotate(attribute.Bool("x", true))
		step.Finish(errors.New("x"))
	})
}
