package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	personapp "github.com/person-service/backend/internal/application/person"
	"github.com/person-service/backend/internal/infrastructure/config"
	"github.com/person-service/backend/internal/infrastructure/event"
	"github.com/person-service/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPerson = `{"firstName":"Jane","lastName":"Roe","phoneNumber":"555-0101",` +
	`"address":{"street":"Elm St","houseNumber":"7","apartmentNumber":"3B","city":"Portland","state":"OR","country":"US","postalCode":"97201"}}`

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "person-service", Env: "development"},
		Log: config.LogConfig{Level: "debug", Format: "console", Output: "stdout"},
		Store: config.StoreConfig{
			Backend:   config.StoreMemory,
			TableName: "PersonTable",
		},
		Bus: config.BusConfig{
			Backend: config.BusMemory,
			Name:    "PersonEvents",
			Source:  "person.service",
		},
		Telemetry: config.TelemetryConfig{Exporter: "grpc", ServiceName: "person-service", LogsLevel: "info"},
	}
}

func TestNew_MemoryBackends(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig())
	require.NoError(t, err)

	assert.IsType(t, &persistence.MemoryPersonStore{}, app.Store)
	bus, ok := app.Publisher.(*event.InMemoryEventBus)
	require.True(t, ok)
	assert.Nil(t, app.Meter)

	outcome := app.Creator.Create(ctx, []byte(validPerson))
	completed, ok := outcome.(personapp.Completed)
	require.True(t, ok, "got %T", outcome)
	assert.Equal(t, int64(1), bus.Published())

	rec, err := app.Query.Get(ctx, completed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", rec.FirstName)
	require.NotNil(t, rec.Address.ApartmentNumber)
	assert.Equal(t, "3B", *rec.Address.ApartmentNumber)

	require.NoError(t, app.Shutdown(ctx))

	// the bus is stopped, so a later create fails to publish and compensates
	outcome = app.Creator.Create(ctx, []byte(validPerson))
	failed, ok := outcome.(personapp.PublishFailed)
	require.True(t, ok, "got %T", outcome)
	assert.True(t, failed.Compensated())
	assert.Equal(t, 1, app.Store.(*persistence.MemoryPersonStore).Len())
}

func TestNew_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Store.Backend = config.StoreSQLite
	cfg.Database = config.DatabaseConfig{
		SQLitePath:   filepath.Join(t.TempDir(), "persons.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}
	cfg.Telemetry.DBTraceEnabled = true

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(ctx) })

	assert.IsType(t, &persistence.GormPersonStore{}, app.Store)
	require.NoError(t, app.Store.Ping(ctx))

	completed, ok := app.Creator.Create(ctx, []byte(validPerson)).(personapp.Completed)
	require.True(t, ok)

	rec, err := app.Query.Get(ctx, completed.ID)
	require.NoError(t, err)
	assert.Equal(t, "97201", rec.Address.PostalCode)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown store", func(c *config.Config) { c.Store.Backend = "cassandra" }, "unknown store backend"},
		{"unknown bus", func(c *config.Config) { c.Bus.Backend = "kafka" }, "unknown bus backend"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }, "failed to initialize logger"},
		{"unreachable redis", func(c *config.Config) {
			c.Store.Backend = config.StoreRedis
			c.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1}
		}, "failed to create redis record store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			app, err := New(context.Background(), cfg)
			require.Error(t, err)
			assert.Nil(t, app)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApp_Shutdown(t *testing.T) {
	var order []string
	app := &App{}
	app.onShutdown("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	app.onShutdown("second", func(context.Context) error {
		order = append(order, "second")
		return errors.New("boom")
	})

	err := app.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second: boom")
	assert.Equal(t, []string{"second", "first"}, order)

	assert.NoError(t, app.Shutdown(context.Background()), "closers run once")
}
