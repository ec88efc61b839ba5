// Package bootstrap wires configuration into a ready-to-serve person
// service: logger, telemetry, record store, event publisher and the
// application services. It is shared by the HTTP server and the Lambda
// entrypoint.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	personapp "github.com/person-service/backend/internal/application/person"
	"github.com/person-service/backend/internal/domain/person"
	"github.com/person-service/backend/internal/domain/shared"
	"github.com/person-service/backend/internal/infrastructure/awsclient"
	"github.com/person-service/backend/internal/infrastructure/config"
	"github.com/person-service/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Version is reported by the system info endpoint
var Version = "dev"

// App holds the wired components and their shutdown hooks
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     person.RecordStore
	Publisher shared.EventPublisher
	Creator   *personapp.CreatePersonService
	Query     *personapp.PersonQueryService
	// Meter is nil when metrics are disabled
	Meter metric.Meter

	aws *awsclient.Factory

	redisOnce   sync.Once
	redisClient *redis.Client
	redisErr    error

	closers []closer
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

// New builds an App from cfg. On error, everything started so far is shut
// down again.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}
	if err := app.wire(ctx); err != nil {
		_ = app.Shutdown(context.WithoutCancel(ctx))
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config
	if err := a.initObservability(ctx); err != nil {
		return err
	}

	var err error
	if a.Store, err = a.newStore(ctx); err != nil {
		return fmt.Errorf("failed to create %s record store: %w", cfg.Store.Backend, err)
	}
	if a.Publisher, err = a.newPublisher(ctx); err != nil {
		return fmt.Errorf("failed to create %s event publisher: %w", cfg.Bus.Backend, err)
	}

	opts := []personapp.ServiceOption{
		personapp.WithLogger(a.Logger),
		personapp.WithEventSource(cfg.Bus.Source),
	}
	if a.Meter != nil {
		sagaMetrics, err := telemetry.NewSagaMetrics(a.Meter)
		if err != nil {
			return fmt.Errorf("failed to create saga metrics: %w", err)
		}
		opts = append(opts, personapp.WithSagaMetrics(sagaMetrics))
	}
	a.Creator = personapp.NewCreatePersonService(a.Store, a.Publisher, cfg.Bus.Name, opts...)
	a.Query = personapp.NewPersonQueryService(a.Store)

	a.Logger.Info("Person service wired",
		zap.String("store", cfg.Store.Backend),
		zap.String("bus", cfg.Bus.Backend),
		zap.String("bus_name", cfg.Bus.Name),
	)
	return nil
}

// onShutdown registers fn to run during Shutdown, in reverse order
func (a *App) onShutdown(name string, fn func(ctx context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Shutdown stops components in reverse start order and returns all errors
// joined.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			if a.Logger != nil {
				a.Logger.Error("Shutdown step failed", zap.String("component", c.name), zap.Error(err))
			}
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// sharedRedis returns one client for both the redis store and the redis bus
func (a *App) sharedRedis(ctx context.Context, dial func(context.Context) (*redis.Client, error)) (*redis.Client, error) {
	a.redisOnce.Do(func() {
		a.redisClient, a.redisErr = dial(ctx)
		if a.redisErr == nil {
			a.onShutdown("redis", func(context.Context) error { return a.redisClient.Close() })
		}
	})
	return a.redisClient, a.redisErr
}
