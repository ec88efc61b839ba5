package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Entry points (GinMiddleware, the Lambda adapter) put a logger tagged with
// request_id into the request context. Services log through L or For, which
// add trace_id and span_id of the active span to every entry.

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// WithContext stores l in ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	return FromContextOr(ctx, zap.NewNop())
}

// FromContextOr returns the logger stored in ctx, or fallback
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// WithRequestID records requestID in ctx and stores a child of l tagged with it.
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	tagged := l.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, tagged), tagged
}

// GetRequestID returns the request id recorded by WithRequestID
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// ContextLogger writes entries correlated with the request and span in ctx.
type ContextLogger struct {
	ctx  context.Context
	base *zap.Logger
	// base came from ctx and already carries request_id
	fromCtx bool
}

// L logs through the logger stored in ctx; entries are dropped when there is none.
//
//	logger.L(ctx).Info("Person created", zap.String("person_id", id))
func L(ctx context.Context) *ContextLogger {
	return For(ctx, nil)
}

// For logs through the logger stored in ctx, or through fallback when ctx has
// none. Services built with their own logger use this so request scoped
// fields win when a request is in flight.
func For(ctx context.Context, fallback *zap.Logger) *ContextLogger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return &ContextLogger{ctx: ctx, base: l, fromCtx: true}
	}
	return WithLogger(ctx, fallback)
}

// WithLogger logs through l, adding request_id from ctx when present.
func WithLogger(ctx context.Context, l *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, base: l}
}

// With returns a child with extra fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	child := *cl
	if child.base != nil {
		child.base = child.base.With(fields...)
	}
	return &child
}

// Zap returns the correlated zap.Logger.
func (cl *ContextLogger) Zap() *zap.Logger {
	if cl.base == nil {
		return zap.NewNop()
	}
	fields := traceFields(cl.ctx)
	if !cl.fromCtx {
		if id := GetRequestID(cl.ctx); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
	}
	if len(fields) == 0 {
		return cl.base
	}
	return cl.base.With(fields...)
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.Zap().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.Zap().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.Zap().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.Zap().Error(msg, fields...) }
