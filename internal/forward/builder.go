package forward

import (
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

// ErrMissingDestination is returned when a Builder is created without a
// forward-to address.
var ErrMissingDestination = errors.New("forward-to address is required")

// BuilderConfig holds the configuration for creating a Builder.
type BuilderConfig struct {
	// To is the fixed destination of every forward.
	To string

	// SourceAddress is the verified address forwards are sent from.
	SourceAddress string

	// Templated makes the source identity carry the original sender's name,
	// rendered through NameFormat. Otherwise SourceAddress is used as is.
	Templated bool

	// NameFormat is the display name template; its first "%s" is replaced
	// with the sender name.
	NameFormat string

	// Raw forwards the original message with rewritten address headers
	// instead of a plain-text copy.
	Raw bool
}

// Builder turns parsed messages into forwards.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if strings.TrimSpace(cfg.To) == "" {
		return nil, ErrMissingDestination
	}
	if cfg.NameFormat == "" {
		cfg.NameFormat = "%s"
	}
	return &Builder{cfg: cfg}, nil
}

// Build composes the outgoing forward for msg. It never fails: if the raw
// headers cannot be rewritten the forward degrades to plain text.
func (b *Builder) Build(msg *email.Message) *email.Forward {
	fwd := &email.Forward{
		Source:      b.sourceIdentity(msg.Sender),
		ReplyTo:     msg.Sender.Address,
		Destination: b.cfg.To,
		Subject:     msg.Headers.Subject,
		Body:        strings.TrimSpace(msg.Body),
		Charset:     email.Charset,
	}

	if b.cfg.Raw {
		raw, err := rewriteHeaders(msg.Raw, fwd)
		if err != nil {
			slog.Warn("failed to rewrite message headers, forwarding plain text",
				"error", err,
			)
		} else {
			fwd.Raw = raw
		}
	}

	return fwd
}

// sourceIdentity renders the From identity of the forward.
func (b *Builder) sourceIdentity(sender email.Sender) string {
	if !b.cfg.Templated {
		return b.cfg.SourceAddress
	}

	name := strings.Replace(b.cfg.NameFormat, "%s", sender.Name, 1)
	addr := mail.Address{Name: name, Address: b.cfg.SourceAddress}
	return addr.String()
}
