package parser

import (
	"mime"
	"regexp"
	"strings"

	"github.com/emersion/go-message/charset"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

var (
	// `Name <addr>`, `"Name" <addr>`, `<addr>`; the closing bracket may be missing.
	bracketedSender = regexp.MustCompile(`^"?([^"<]*?)"?\s*<\s*([^<>\s@]+@[^<>\s]+)\s*>?$`)

	// `Name addr` and `"Name" addr` with no opening bracket.
	bareSender = regexp.MustCompile(`^"?([^"<]+?)"?\s+([^\s<>"]+@[^\s<>"]+)>?$`)

	addressToken = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}
)

// ParseSender splits a raw From header value into a display name and an
// address. It is a best-effort heuristic, not an RFC 5322 grammar:
//
//  1. a display name followed by an address, with or without quotes and
//     angle brackets; encoded-words in the name are decoded;
//  2. otherwise the first address-like token, named after its local part;
//  3. otherwise fallback for both fields.
//
// The returned address is never empty unless fallback is.
func ParseSender(from, fallback string) email.Sender {
	value := strings.TrimSpace(from)

	for _, re := range []*regexp.Regexp{bracketedSender, bareSender} {
		if m := re.FindStringSubmatch(value); m != nil {
			address := strings.TrimSpace(m[2])
			name := decodeName(strings.TrimSpace(m[1]))
			if name == "" {
				name = localPart(address)
			}
			return email.Sender{Name: name, Address: address}
		}
	}

	if token := addressToken.FindString(value); token != "" {
		return email.Sender{Name: localPart(token), Address: token}
	}

	return email.Sender{Name: fallback, Address: fallback}
}

// decodeName decodes RFC 2047 encoded-words in a display name. Names that
// fail to decode are returned unchanged.
func decodeName(name string) string {
	if !strings.Contains(name, "=?") {
		return name
	}
	decoded, err := wordDecoder.DecodeHeader(name)
	if err != nil {
		return name
	}
	return strings.TrimSpace(decoded)
}

// localPart returns the text before the first "@" of address.
func localPart(address string) string {
	if i := strings.Index(address, "@"); i >= 0 {
		return address[:i]
	}
	return address
}
