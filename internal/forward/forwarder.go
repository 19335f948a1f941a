// Package forward turns a stored inbound message into an outgoing forward and
// hands it to a delivery provider.
package forward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shineum/ses-mail-forwarder/internal/email"
	"github.com/shineum/ses-mail-forwarder/internal/parser"
	"github.com/shineum/ses-mail-forwarder/internal/provider"
)

var (
	// ErrMessageTooLarge is returned when a stored message exceeds the size limit.
	ErrMessageTooLarge = errors.New("message exceeds maximum size")

	// ErrMissingMessageID is returned for triggers without a message id.
	ErrMissingMessageID = errors.New("trigger has no message id")
)

// Fetcher loads the raw bytes of a stored message.
type Fetcher interface {
	Fetch(ctx context.Context, messageID string) ([]byte, error)
}

// Result describes one completed forward.
type Result struct {
	MessageID  string
	DeliveryID string
}

// Forwarder runs the fetch, parse, build and send chain for one trigger.
type Forwarder struct {
	fetcher  Fetcher
	provider provider.Provider
	builder  *Builder
	maxSize  int64
}

// New creates a Forwarder. A maxSize of zero or less disables the size check.
func New(fetcher Fetcher, prov provider.Provider, builder *Builder, maxSize int64) *Forwarder {
	return &Forwarder{
		fetcher:  fetcher,
		provider: prov,
		builder:  builder,
		maxSize:  maxSize,
	}
}

// Forward fetches the message named by t and delivers its forward. Fetch and
// delivery errors are returned as is, wrapped; nothing is retried here.
func (f *Forwarder) Forward(ctx context.Context, t email.Trigger) (Result, error) {
	if t.MessageID == "" {
		return Result{}, ErrMissingMessageID
	}

	log := slog.With("message_id", t.MessageID)
	log.Info("processing email",
		"source", t.Source,
		"destinations", t.Destinations,
	)

	raw, err := f.fetcher.Fetch(ctx, t.MessageID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch message %s: %w", t.MessageID, err)
	}

	if f.maxSize > 0 && int64(len(raw)) > f.maxSize {
		return Result{}, fmt.Errorf("%w: %d bytes, limit %d", ErrMessageTooLarge, len(raw), f.maxSize)
	}

	msg := parser.Parse(raw, t.Source)
	fwd := f.builder.Build(msg)

	deliveryID, err := f.provider.Send(ctx, fwd)
	if err != nil {
		return Result{}, fmt.Errorf("failed to deliver message %s via %s: %w", t.MessageID, f.provider.Name(), err)
	}

	log.Info("email forwarded successfully",
		"provider", f.provider.Name(),
		"forwarded_message_id", deliveryID,
		"reply_to", fwd.ReplyTo,
	)

	return Result{MessageID: t.MessageID, DeliveryID: deliveryID}, nil
}
