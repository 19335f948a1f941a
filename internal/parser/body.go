package parser

import (
	"regexp"
	"strings"
)

// plainTextMarker identifies the text/plain part of a multipart body.
const plainTextMarker = "Content-Type: text/plain"

var blankLine = regexp.MustCompile(`\r?\n\r?\n`)

// LocatePlainText returns the undecoded plain-text body of raw.
//
// The body is everything after the first blank line, or all of raw when the
// message has no blank line. If the body contains a text/plain part header,
// the result is the text between the blank line following that header and the
// next line starting with "--" (or the end of input). Otherwise the whole body
// is treated as plain text.
func LocatePlainText(raw string) string {
	body := raw
	if i := strings.Index(raw, headerBodySeparator); i >= 0 {
		body = raw[i+len(headerBodySeparator):]
	}

	i := strings.Index(body, plainTextMarker)
	if i < 0 {
		return body
	}

	part := body[i:]
	loc := blankLine.FindStringIndex(part)
	if loc == nil {
		return body
	}
	return untilBoundary(part[loc[1]:])
}

// untilBoundary cuts s before the first line that starts with "--",
// excluding the line terminator preceding it.
func untilBoundary(s string) string {
	if strings.HasPrefix(s, "--") {
		return ""
	}
	i := strings.Index(s, "\n--")
	if i < 0 {
		return s
	}
	return strings.TrimSuffix(s[:i], "\r")
}
