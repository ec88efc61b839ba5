package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/person-service/backend/internal/bootstrap"
	"github.com/person-service/backend/internal/infrastructure/config"
	lambdaadapter "github.com/person-service/backend/internal/interfaces/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		panic("Failed to start person service: " + err.Error())
	}

	app.Logger.Info("Lambda handler ready",
		zap.String("table", cfg.Store.TableName),
		zap.String("bus", cfg.Bus.Name),
	)

	h := lambdaadapter.NewCreatePersonHandler(app.Creator, app.Logger)
	lambda.StartWithOptions(h.Handle,
		lambda.WithContext(ctx),
		lambda.WithEnableSIGTERM(func() {
			if err := app.Shutdown(context.Background()); err != nil {
				app.Logger.Error("Shutdown failed", zap.Error(err))
			}
		}),
	)
}
