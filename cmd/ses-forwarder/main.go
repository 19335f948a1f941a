// Package main is the Lambda entry point of the SES mail forwarder.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/shineum/ses-mail-forwarder/internal/app"
	"github.com/shineum/ses-mail-forwarder/internal/awsconf"
	"github.com/shineum/ses-mail-forwarder/internal/handler"
	"github.com/shineum/ses-mail-forwarder/internal/storage"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML configuration file (optional)")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	app.SetupLogger(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	awsCfg, err := awsconf.Load(ctx, awsconf.Options{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		slog.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	prov, err := app.NewProvider(cfg, awsCfg)
	if err != nil {
		slog.Error("failed to create provider", "error", err)
		os.Exit(1)
	}

	store := storage.NewS3(awsCfg, cfg.Storage.Bucket, cfg.Storage.Prefix)

	fwd, err := app.NewForwarder(cfg, store, prov)
	if err != nil {
		slog.Error("failed to create forwarder", "error", err)
		os.Exit(1)
	}

	slog.Info("starting ses-forwarder",
		"provider", prov.Name(),
		"bucket", cfg.Storage.Bucket,
		"prefix", cfg.Storage.Prefix,
		"source_mode", cfg.Forward.SourceMode,
		"forward_mode", cfg.Forward.Mode,
	)

	lambda.Start(handler.New(fwd).Handle)
}
