package forward

import (
	"context"
	"errors"
	"testing"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

// mockFetcher serves messages from memory.
type mockFetcher struct {
	messages map[string][]byte
	err      error
	calls    []string
}

func (m *mockFetcher) Fetch(_ context.Context, messageID string) ([]byte, error) {
	m.calls = append(m.calls, messageID)
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.messages[messageID]
	if !ok {
		return nil, errors.New("not found")
	}
	return raw, nil
}

// mockProvider records every forward it is asked to send.
type mockProvider struct {
	sent []*email.Forward
	id   string
	err  error
}

func (m *mockProvider) Send(_ context.Context, fwd *email.Forward) (string, error) {
	m.sent = append(m.sent, fwd)
	if m.err != nil {
		return "", m.err
	}
	return m.id, nil
}

func (m *mockProvider) Name() string { return "mock" }

const exampleMessage = "Subject: Hello\r\nFrom: \"Bob\" <bob@x.com>\r\n\r\nHi there=\r\n friend!"

func newTestForwarder(t *testing.T, fetcher Fetcher, prov *mockProvider, maxSize int64) *Forwarder {
	t.Helper()
	b := newTestBuilder(t, BuilderConfig{
		To:            "me@example.com",
		SourceAddress: "forwarder@example.org",
	})
	return New(fetcher, prov, b, maxSize)
}

func TestForward_Success(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{messages: map[string][]byte{"abc123": []byte(exampleMessage)}}
	prov := &mockProvider{id: "ses-0001"}
	f := newTestForwarder(t, fetcher, prov, 1024)

	res, err := f.Forward(context.Background(), email.Trigger{
		MessageID:    "abc123",
		Source:       "bounce@x.com",
		Destinations: []string{"inbox@example.org"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.MessageID != "abc123" {
		t.Errorf("MessageID: got %q, want %q", res.MessageID, "abc123")
	}
	if res.DeliveryID != "ses-0001" {
		t.Errorf("DeliveryID: got %q, want %q", res.DeliveryID, "ses-0001")
	}
	if len(prov.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(prov.sent))
	}

	fwd := prov.sent[0]
	if fwd.Subject != "Hello" {
		t.Errorf("Subject: got %q, want %q", fwd.Subject, "Hello")
	}
	if fwd.ReplyTo != "bob@x.com" {
		t.Errorf("ReplyTo: got %q, want %q", fwd.ReplyTo, "bob@x.com")
	}
	if fwd.Body != "Hi there friend!" {
		t.Errorf("Body: got %q, want %q", fwd.Body, "Hi there friend!")
	}
	if fwd.Destination != "me@example.com" {
		t.Errorf("Destination: got %q, want %q", fwd.Destination, "me@example.com")
	}
}

func TestForward_EnvelopeSourceFallback(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{messages: map[string][]byte{"m1": []byte("Subject: Hi\r\n\r\nbody")}}
	prov := &mockProvider{id: "x"}
	f := newTestForwarder(t, fetcher, prov, 0)

	if _, err := f.Forward(context.Background(), email.Trigger{MessageID: "m1", Source: "bounce@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := prov.sent[0].ReplyTo; got != "bounce@x.com" {
		t.Errorf("ReplyTo: got %q, want %q", got, "bounce@x.com")
	}
}

func TestForward_MissingMessageID(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{}
	prov := &mockProvider{}
	f := newTestForwarder(t, fetcher, prov, 0)

	_, err := f.Forward(context.Background(), email.Trigger{Source: "bounce@x.com"})
	if !errors.Is(err, ErrMissingMessageID) {
		t.Errorf("expected ErrMissingMessageID, got %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("expected no fetch, got %d", len(fetcher.calls))
	}
}

func TestForward_FetchError(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("access denied")
	fetcher := &mockFetcher{err: fetchErr}
	prov := &mockProvider{}
	f := newTestForwarder(t, fetcher, prov, 0)

	_, err := f.Forward(context.Background(), email.Trigger{MessageID: "abc"})
	if !errors.Is(err, fetchErr) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
	if len(prov.sent) != 0 {
		t.Errorf("expected no send after fetch failure, got %d", len(prov.sent))
	}
}

func TestForward_MessageTooLarge(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{messages: map[string][]byte{"big": make([]byte, 2048)}}
	prov := &mockProvider{}
	f := newTestForwarder(t, fetcher, prov, 1024)

	_, err := f.Forward(context.Background(), email.Trigger{MessageID: "big"})
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}
	if len(prov.sent) != 0 {
		t.Errorf("expected no send for oversized message, got %d", len(prov.sent))
	}
}

func TestForward_SizeAtLimit(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{messages: map[string][]byte{"edge": make([]byte, 1024)}}
	prov := &mockProvider{id: "ok"}
	f := newTestForwarder(t, fetcher, prov, 1024)

	if _, err := f.Forward(context.Background(), email.Trigger{MessageID: "edge"}); err != nil {
		t.Errorf("expected message at the limit to be accepted, got %v", err)
	}
}

func TestForward_SendErrorNotRetried(t *testing.T) {
	t.Parallel()

	sendErr := errors.New("throttled")
	fetcher := &mockFetcher{messages: map[string][]byte{"abc": []byte(exampleMessage)}}
	prov := &mockProvider{err: sendErr}
	f := newTestForwarder(t, fetcher, prov, 0)

	_, err := f.Forward(context.Background(), email.Trigger{MessageID: "abc"})
	if !errors.Is(err, sendErr) {
		t.Errorf("expected wrapped send error, got %v", err)
	}
	if len(prov.sent) != 1 {
		t.Errorf("expected exactly 1 send attempt, got %d", len(prov.sent))
	}
}
