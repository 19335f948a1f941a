// Package app wires configuration into the forwarding pipeline for the
// binaries under cmd/.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/shineum/ses-mail-forwarder/internal/config"
	"github.com/shineum/ses-mail-forwarder/internal/forward"
	"github.com/shineum/ses-mail-forwarder/internal/provider"
	"github.com/shineum/ses-mail-forwarder/internal/provider/ses"
	"github.com/shineum/ses-mail-forwarder/internal/provider/stdout"
)

// LoadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// ParseLevel maps a configured level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger configures the global slog logger with JSON output and the
// specified log level.
func SetupLogger(level string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}

// NewProvider chooses the delivery backend named by cfg.Provider. awsCfg is
// only used by the SES provider.
func NewProvider(cfg *config.Config, awsCfg aws.Config) (provider.Provider, error) {
	switch cfg.Provider {
	case config.ProviderSES:
		slog.Info("using AWS SES provider",
			"region", awsCfg.Region,
			"source", cfg.Forward.SourceAddress,
		)
		return ses.New(awsCfg), nil

	case config.ProviderStdout:
		slog.Info("using stdout provider")
		return stdout.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewBuilder creates the forward builder described by cfg.
func NewBuilder(cfg *config.Config) (*forward.Builder, error) {
	return forward.NewBuilder(forward.BuilderConfig{
		To:            cfg.Forward.To,
		SourceAddress: cfg.Forward.SourceAddress,
		Templated:     cfg.Templated(),
		NameFormat:    cfg.Forward.SourceNameFormat,
		Raw:           cfg.Raw(),
	})
}

// NewForwarder assembles a Forwarder reading from fetcher and delivering
// through prov.
func NewForwarder(cfg *config.Config, fetcher forward.Fetcher, prov provider.Provider) (*forward.Forwarder, error) {
	b, err := NewBuilder(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create builder: %w", err)
	}
	return forward.New(fetcher, prov, b, cfg.MaxEmailSize()), nil
}
