// Package main forwards a message stored in a local directory, for testing a
// configuration without an SES receipt rule.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"

	"github.com/shineum/ses-mail-forwarder/internal/app"
	"github.com/shineum/ses-mail-forwarder/internal/awsconf"
	"github.com/shineum/ses-mail-forwarder/internal/config"
	"github.com/shineum/ses-mail-forwarder/internal/email"
	"github.com/shineum/ses-mail-forwarder/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	dir := flag.String("dir", ".", "directory holding <prefix>/<message-id> files")
	messageID := flag.String("message-id", "", "id of the stored message to forward")
	source := flag.String("source", "", "envelope sender used when the message has no From header")
	providerName := flag.String("provider", config.ProviderStdout, "delivery provider (stdout or ses)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.Provider = *providerName

	app.SetupLogger(cfg.Logging.Level)

	if *messageID == "" {
		slog.Error("-message-id is required")
		os.Exit(1)
	}
	if err := cfg.ValidateForward(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var awsCfg aws.Config
	if cfg.Provider == config.ProviderSES {
		awsCfg, err = awsconf.Load(ctx, awsconf.Options{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			slog.Error("failed to load AWS configuration", "error", err)
			os.Exit(1)
		}
	}

	prov, err := app.NewProvider(cfg, awsCfg)
	if err != nil {
		slog.Error("failed to create provider", "error", err)
		os.Exit(1)
	}

	fwd, err := app.NewForwarder(cfg, storage.NewDir(*dir, cfg.Storage.Prefix), prov)
	if err != nil {
		slog.Error("failed to create forwarder", "error", err)
		os.Exit(1)
	}

	res, err := fwd.Forward(ctx, email.Trigger{MessageID: *messageID, Source: *source})
	if err != nil {
		slog.Error("forward failed", "error", err)
		os.Exit(1)
	}

	slog.Info("forward complete",
		"message_id", res.MessageID,
		"forwarded_message_id", res.DeliveryID,
	)
}
