package forward

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/emersion/go-message/textproto"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

// strippedHeaders are removed from the original before re-sending. Address
// headers are replaced; the rest would be rejected or duplicated by SES.
var strippedHeaders = []string{
	"From",
	"To",
	"Reply-To",
	"DKIM-Signature",
	"Return-Path",
	"Sender",
	"Message-ID",
	"X-SES-Message-ID",
	"X-SES-Outgoing",
}

// rewriteHeaders returns raw with its address headers pointing at fwd and
// the body left byte for byte.
func rewriteHeaders(raw []byte, fwd *email.Forward) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(raw))

	h, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}

	for _, k := range strippedHeaders {
		h.Del(k)
	}
	h.Set("From", fwd.Source)
	h.Set("To", fwd.Destination)
	if fwd.ReplyTo != "" {
		h.Set("Reply-To", fwd.ReplyTo)
	}

	var buf bytes.Buffer
	buf.Grow(len(raw))
	if err := textproto.WriteHeader(&buf, h); err != nil {
		return nil, fmt.Errorf("failed to write message header: %w", err)
	}
	if _, err := io.Copy(&buf, br); err != nil {
		return nil, fmt.Errorf("failed to copy message body: %w", err)
	}
	return buf.Bytes(), nil
}
