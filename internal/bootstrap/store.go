package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/person-service/backend/internal/domain/person"
	"github.com/person-service/backend/internal/infrastructure/awsclient"
	"github.com/person-service/backend/internal/infrastructure/cache"
	"github.com/person-service/backend/internal/infrastructure/config"
	"github.com/person-service/backend/internal/infrastructure/logger"
	"github.com/person-service/backend/internal/infrastructure/migration"
	"github.com/person-service/backend/internal/infrastructure/persistence"
	"github.com/person-service/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func (a *App) newStore(ctx context.Context) (person.RecordStore, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.StoreDynamoDB:
		aws, err := a.awsFactory(ctx)
		if err != nil {
			return nil, err
		}
		return persistence.NewDynamoDBPersonStore(aws.DynamoDB(), cfg.Store.TableName), nil

	case config.StoreS3:
		aws, err := a.awsFactory(ctx)
		if err != nil {
			return nil, err
		}
		return persistence.NewS3PersonStore(aws.S3(), cfg.Store.Bucket, cfg.Store.KeyPrefix), nil

	case config.StorePostgres, config.StoreSQLite:
		return a.newGormStore(ctx)

	case config.StoreRedis:
		client, err := a.sharedRedis(ctx, func(ctx context.Context) (*redis.Client, error) {
			return cache.NewRedisClient(ctx, cfg.Redis)
		})
		if err != nil {
			return nil, err
		}
		return persistence.NewRedisPersonStore(client, persistence.DefaultRedisKeyPrefix), nil

	case config.StoreMemory:
		a.Logger.Warn("Using in-memory record store, records are lost on restart")
		return persistence.NewMemoryPersonStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (a *App) newGormStore(ctx context.Context) (person.RecordStore, error) {
	cfg := a.Config
	gormLog := logger.NewGormLogger(a.Logger,
		logger.WithGormLevel(logger.MapGormLogLevel(cfg.Log.Level)),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(cfg.Store.Backend, &cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		return nil, err
	}
	a.onShutdown("database", func(context.Context) error { return db.Close() })

	if cfg.Telemetry.DBTraceEnabled {
		dbSystem := "postgresql"
		if cfg.Store.Backend == config.StoreSQLite {
			dbSystem = "sqlite"
		}
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem,
		}, a.Logger)
		if err := plugin.Register(db.DB); err != nil {
			return nil, fmt.Errorf("failed to register db tracing: %w", err)
		}
	}

	store := persistence.NewGormPersonStore(db.DB)
	if cfg.Database.AutoMigrate {
		if cfg.Store.Backend == config.StoreSQLite {
			if err := store.AutoMigrate(); err != nil {
				return nil, err
			}
		} else if err := a.migratePostgres(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// migratePostgres applies the embedded migrations on a dedicated
// connection, since closing the migrator closes its *sql.DB.
func (a *App) migratePostgres(ctx context.Context) error {
	sqlDB, err := sql.Open("postgres", a.Config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping migration connection: %w", err)
	}

	m, err := migration.New(sqlDB, a.Logger)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			a.Logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

func (a *App) awsFactory(ctx context.Context) (*awsclient.Factory, error) {
	if a.aws != nil {
		return a.aws, nil
	}
	f, err := awsclient.NewFactory(ctx, a.Config.AWS)
	if err != nil {
		return nil, err
	}
	if ep := f.Endpoint(); ep != "" {
		a.Logger.Info("Using custom AWS endpoint", zap.String("endpoint", ep))
	} else if ep := f.DynamoDBEndpoint(); ep != "" {
		a.Logger.Info("Using local DynamoDB endpoint", zap.String("endpoint", ep))
	}
	a.aws = f
	return f, nil
}
