// Package stdout implements a Provider that prints forwards instead of
// sending them, for local runs.
package stdout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

const separator = "========================================\n"

// Provider writes a readable dump of every forward to w.
type Provider struct {
	w io.Writer
}

// New returns a Provider printing to os.Stdout.
func New() *Provider {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter returns a Provider printing to w.
func NewWithWriter(w io.Writer) *Provider {
	return &Provider{w: w}
}

// Send prints fwd and returns a locally generated delivery id.
func (p *Provider) Send(_ context.Context, fwd *email.Forward) (string, error) {
	id := "stdout-" + uuid.NewString()

	var buf bytes.Buffer
	buf.WriteString(separator)
	field(&buf, "Id", id)
	field(&buf, "From", fwd.Source)
	field(&buf, "To", fwd.Destination)
	if fwd.ReplyTo != "" {
		field(&buf, "Reply-To", fwd.ReplyTo)
	}
	field(&buf, "Subject", fwd.Subject)
	if n := len(fwd.Raw); n > 0 {
		field(&buf, "Raw", formatSize(n))
	}
	fmt.Fprintf(&buf, "Body:\n%s\n", fwd.Body)
	buf.WriteString(separator)

	if _, err := buf.WriteTo(p.w); err != nil {
		return "", fmt.Errorf("failed to write forward: %w", err)
	}
	return id, nil
}

// Name returns "stdout".
func (p *Provider) Name() string {
	return "stdout"
}

func field(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, "%s: %s\n", name, value)
}

// formatSize renders n bytes with a binary unit.
func formatSize(n int) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
