package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/everlightos/federation/internal/app"
	"github.com/everlightos/federation/internal/edge"
	"github.com/everlightos/federation/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTelemetry := app.InitTelemetry(cfg, logger)
	defer shutdownTelemetry()

	// Migrations run from federationd; cold starts only connect.
	a, err := app.New(ctx, cfg, logger, app.Options{Migrate: false})
	if err != nil {
		logger.Fatal("failed to assemble app", zap.Error(err))
	}
	defer a.Close()

	lambda.Start(edge.New(a.Handler).Handle)
}
