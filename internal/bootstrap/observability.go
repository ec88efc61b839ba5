package bootstrap

import (
	"context"
	"fmt"

	"github.com/person-service/backend/internal/infrastructure/logger"
	"github.com/person-service/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initObservability creates the logger and the tracing, metrics, logs and
// profiling providers. The logs bridge is tee'd into the final logger.
func (a *App) initObservability(ctx context.Context) error {
	cfg := a.Config
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}

	base, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.Logger = base

	var extra []zapcore.Core
	if cfg.Telemetry.LogsEnabled {
		lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, base)
		if err != nil {
			return fmt.Errorf("failed to create logger provider: %w", err)
		}
		a.onShutdown("otel logs", lp.Shutdown)

		level, err := logger.ParseLevel(cfg.Telemetry.LogsLevel)
		if err != nil {
			return err
		}
		extra = append(extra, lp.ZapCore(level))
	}
	if len(extra) > 0 {
		if a.Logger, err = logger.New(logCfg, extra...); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	a.onShutdown("logger", func(context.Context) error {
		_ = logger.Sync(a.Logger)
		return nil
	})

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		Exporter:          cfg.Telemetry.Exporter,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create tracer provider: %w", err)
	}
	a.onShutdown("tracer", tp.Shutdown)

	if cfg.Telemetry.MetricsEnabled {
		mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ExportInterval:    cfg.Telemetry.MetricsInterval,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create meter provider: %w", err)
		}
		a.onShutdown("meter", mp.Shutdown)
		a.Meter = mp.Meter(cfg.Telemetry.ServiceName)
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Profiling.ProfileTypes,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to start profiler: %w", err)
	}
	a.onShutdown("profiler", func(context.Context) error { return profiler.Stop() })

	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles && tp.IsEnabled() {
		if err := tp.EnableSpanProfiles(); err != nil {
			a.Logger.Warn("Span profiles not enabled", zap.Error(err))
		}
	}
	return nil
}
