// Package provider declares the delivery side of the forwarder.
package provider

import (
	"context"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

// Provider delivers built forwards. Implementations make exactly one delivery
// attempt per call.
type Provider interface {
	// Send delivers fwd and returns the id the backend assigned to it.
	Send(ctx context.Context, fwd *email.Forward) (string, error)

	// Name identifies the backend in logs.
	Name() string
}
