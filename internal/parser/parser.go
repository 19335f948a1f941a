// Package parser extracts the display fields of a forwarded email from its raw
// RFC 5322 text: subject, sender identity and a decoded plain-text body.
//
// Every step is a pure function with a defined fallback, so parsing never
// fails. Only the single-part and simple multipart/text-plain layouts are
// supported; anything else degrades to the raw body.
package parser

import (
	"log/slog"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

// Parse runs the extraction pipeline over a raw message. envelopeSource is
// the sender reported by the mail notification and is used whenever the
// message itself does not identify its sender.
func Parse(raw []byte, envelopeSource string) *email.Message {
	text := string(raw)

	headers, hasFrom := extractHeaders(text, envelopeSource)
	sender := email.Sender{Name: envelopeSource, Address: envelopeSource}
	if hasFrom {
		sender = ParseSender(headers.From, envelopeSource)
	}
	body := DecodeQuotedPrintable(LocatePlainText(text))

	slog.Debug("parsed message",
		"subject", headers.Subject,
		"sender_name", sender.Name,
		"sender_address", sender.Address,
		"body_length", len(body),
	)

	return &email.Message{
		Headers: headers,
		Sender:  sender,
		Body:    body,
		Raw:     raw,
	}
}
