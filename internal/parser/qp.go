package parser

import (
	"regexp"
	"strconv"
)

var (
	softLineBreak = regexp.MustCompile(`=\r?\n`)
	hexEscape     = regexp.MustCompile(`=([0-9A-F]{2})`)
)

// DecodeQuotedPrintable removes soft line breaks and then replaces every
// "=XX" escape (uppercase hex) with the character of code point XX. Soft
// breaks go first so an escape split across a break is still decoded.
// Malformed and lowercase escapes are left as they are.
func DecodeQuotedPrintable(s string) string {
	s = softLineBreak.ReplaceAllString(s, "")
	return hexEscape.ReplaceAllStringFunc(s, func(m string) string {
		v, err := strconv.ParseUint(m[1:], 16, 8)
		if err != nil {
			return m
		}
		return string(rune(v))
	})
}
