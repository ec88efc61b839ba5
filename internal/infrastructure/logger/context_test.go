package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	base := zap.NewExample()

	assert.Same(t, base, FromContext(WithContext(context.Background(), base)))
	assert.NotNil(t, FromContext(context.Background()))
	assert.Same(t, base, FromContextOr(context.Background(), base))
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-123")
	l.Info("hello")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-123", recorded.All()[0].ContextMap()["request_id"])
}

func TestTraceFields(t *testing.T) {
	fields := traceFields(spanContext(t))
	require.Len(t, fields, 2)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields[0].String)
	assert.Equal(t, "00f067aa0ba902b7", fields[1].String)

	assert.Empty(t, traceFields(context.Background()))
}

func countField(entry observer.LoggedEntry, key string) int {
	n := 0
	for _, f := range entry.Context {
		if f.Key == key {
			n++
		}
	}
	return n
}

func TestContextLogger(t *testing.T) {
	t.Run("explicit logger gets trace and request ids", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx, _ := WithRequestID(spanContext(t), zap.NewNop(), "req-1")

		WithLogger(ctx, zap.New(core)).With(zap.String("person_id", "p-1")).Warn("compensating")

		require.Equal(t, 1, recorded.Len())
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "p-1", fields["person_id"])
	})

	t.Run("context logger does not duplicate request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-2")

		L(ctx).Info("hello")

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, 1, countField(recorded.All()[0], "request_id"))
	})

	t.Run("for prefers the request logger over the fallback", func(t *testing.T) {
		reqCore, reqRecorded := observer.New(zapcore.DebugLevel)
		fallbackCore, fallbackRecorded := observer.New(zapcore.DebugLevel)
		ctx, _ := WithRequestID(context.Background(), zap.New(reqCore), "req-3")

		For(ctx, zap.New(fallbackCore)).Info("in request")

		assert.Zero(t, fallbackRecorded.Len())
		require.Equal(t, 1, reqRecorded.Len())
		assert.Equal(t, 1, countField(reqRecorded.All()[0], "request_id"))
	})

	t.Run("for falls back outside a request", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)

		For(context.Background(), zap.New(core)).With(zap.String("person_id", "p-9")).Info("background")

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "p-9", recorded.All()[0].ContextMap()["person_id"])
		assert.Zero(t, countField(recorded.All()[0], "request_id"))
	})

	t.Run("missing logger is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			L(context.Background()).Error("nothing")
		})
	})
}
