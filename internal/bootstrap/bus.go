package bootstrap

import (
	"context"
	"fmt"

	"github.com/person-service/backend/internal/domain/shared"
	"github.com/person-service/backend/internal/infrastructure/cache"
	"github.com/person-service/backend/internal/infrastructure/config"
	"github.com/person-service/backend/internal/infrastructure/event"
	"github.com/redis/go-redis/v9"
)

func (a *App) newPublisher(ctx context.Context) (shared.EventPublisher, error) {
	cfg := a.Config
	switch cfg.Bus.Backend {
	case config.BusEventBridge:
		aws, err := a.awsFactory(ctx)
		if err != nil {
			return nil, err
		}
		return event.NewEventBridgePublisher(aws.EventBridge()), nil

	case config.BusRedis:
		client, err := a.sharedRedis(ctx, func(ctx context.Context) (*redis.Client, error) {
			return cache.NewRedisClient(ctx, cfg.Redis)
		})
		if err != nil {
			return nil, err
		}
		return event.NewRedisStreamPublisher(client, cfg.Bus.StreamMaxLen), nil

	case config.BusMemory:
		bus := event.NewInMemoryEventBus(a.Logger)
		bus.Subscribe(event.NewLoggingHandler(a.Logger))
		if err := bus.Start(ctx); err != nil {
			return nil, err
		}
		a.onShutdown("event bus", bus.Stop)
		a.Logger.Warn("Using in-memory event bus, events are only logged")
		return bus, nil

	default:
		return nil, fmt.Errorf("unknown bus backend %q", cfg.Bus.Backend)
	}
}
