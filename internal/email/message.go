// Package email defines the core data model used throughout the forwarder.
package email

// DefaultSubject is used when the original message carries no Subject header.
const DefaultSubject = "Forwarded Email"

// Charset is the character set declared on all outgoing content.
const Charset = "UTF-8"

// Trigger is the part of an inbound mail notification the forwarder needs.
type Trigger struct {
	MessageID    string
	Source       string
	Destinations []string
}

// Headers holds the raw header values extracted from a message.
type Headers struct {
	Subject string
	From    string
}

// Sender is the parsed identity of the original sender.
type Sender struct {
	Name    string
	Address string
}

// Message is the result of running the extraction pipeline over a raw message.
type Message struct {
	Headers Headers
	Sender  Sender
	// Body is the decoded plain-text body, not yet trimmed.
	Body string
	Raw  []byte
}

// Forward is the complete description of one outgoing forwarded message.
type Forward struct {
	Source      string
	ReplyTo     string
	Destination string
	Subject     string
	Body        string
	Charset     string

	// Raw, when set, is the rewritten original message to send verbatim
	// instead of the simple Subject/Body content.
	Raw []byte
}
