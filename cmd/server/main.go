package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/person-service/backend/internal/bootstrap"
	"github.com/person-service/backend/internal/infrastructure/config"
	"github.com/person-service/backend/internal/interfaces/http/handler"
	"github.com/person-service/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/person-service/backend/docs"
)

//	@title			Person Service API
//	@version		1.0
//	@description	Creates persons, stores them and publishes PersonCreated events.

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		panic("Failed to start person service: " + err.Error())
	}
	log := app.Logger

	log.Info("Starting person service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("base_path", cfg.HTTP.BasePath),
	)

	engine := router.NewEngine(cfg, router.EngineDeps{
		Person: handler.NewPersonHandler(app.Creator, app.Query),
		System: handler.NewSystemHandler(cfg.App.Name, bootstrap.Version, app.Store),
		Logger: log,
		Meter:  app.Meter,
	})

	srv := &http.Server{
		Addr:           cfg.HTTP.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		srvErr := srv.Shutdown(shutdownCtx)
		return errors.Join(srvErr, app.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}
