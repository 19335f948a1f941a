package parser

import (
	"regexp"
	"strings"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

// headerBodySeparator is the blank line ending the header block.
const headerBodySeparator = "\r\n\r\n"

var (
	subjectLine = regexp.MustCompile(`(?m)^Subject: ?([^\r\n]*)`)
	fromLine    = regexp.MustCompile(`(?m)^From:[ \t]*([^\r\n]*)`)
)

// ExtractHeaders returns the first Subject and From header values of raw.
// Only the header block is searched; a message without a blank line is
// searched in full. A missing Subject falls back to email.DefaultSubject and
// a missing or empty From to envelopeSource.
func ExtractHeaders(raw, envelopeSource string) email.Headers {
	h, _ := extractHeaders(raw, envelopeSource)
	return h
}

// extractHeaders is ExtractHeaders that also reports whether the message
// carried a usable From value.
func extractHeaders(raw, envelopeSource string) (email.Headers, bool) {
	block := headerBlock(raw)

	h := email.Headers{
		Subject: email.DefaultSubject,
		From:    envelopeSource,
	}
	if m := subjectLine.FindStringSubmatch(block); m != nil {
		h.Subject = m[1]
	}

	m := fromLine.FindStringSubmatch(block)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return h, false
	}
	h.From = m[1]
	return h, true
}

// headerBlock returns the text preceding the first blank line, or raw itself
// when there is none.
func headerBlock(raw string) string {
	if i := strings.Index(raw, headerBodySeparator); i >= 0 {
		return raw[:i]
	}
	return raw
}
