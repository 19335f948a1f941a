package parser

import (
	"testing"
)

func TestDecodeQuotedPrintable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hex escapes and soft break", "Caf=E9 soir=\r\n=E9e", "Café soirée"},
		{"soft break with bare LF", "long=\nline", "longline"},
		{"equals sign escape", "a=3Db", "a=b"},
		{"escape split by soft break", "x=\r\n=3D=\r\n=41", "x=A"},
		{"lowercase hex is left alone", "caf=e9", "caf=e9"},
		{"incomplete escape is left alone", "50=", "50="},
		{"invalid hex is left alone", "=ZZ=G1", "=ZZ=G1"},
		{"hard line breaks are kept", "one\r\ntwo", "one\r\ntwo"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DecodeQuotedPrintable(tt.in); got != tt.want {
				t.Errorf("DecodeQuotedPrintable(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeQuotedPrintable_IdempotentOnCleanText(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Hello, World!",
		"Multi\r\nline\r\ntext",
		"x = y + z",
		"trailing =",
		"Ünïcödé text",
	}

	for _, in := range inputs {
		if got := DecodeQuotedPrintable(in); got != in {
			t.Errorf("DecodeQuotedPrintable(%q): got %q, want unchanged", in, got)
		}
		once := DecodeQuotedPrintable(in)
		if twice := DecodeQuotedPrintable(once); twice != once {
			t.Errorf("second decode of %q changed it: got %q", in, twice)
		}
	}
}
