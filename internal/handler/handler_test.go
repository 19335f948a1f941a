package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/shineum/ses-mail-forwarder/internal/email"
	"github.com/shineum/ses-mail-forwarder/internal/forward"
)

// mockForwarder records triggers and fails on the configured message id.
type mockForwarder struct {
	triggers []email.Trigger
	failOn   string
	err      error
}

func (m *mockForwarder) Forward(_ context.Context, t email.Trigger) (forward.Result, error) {
	m.triggers = append(m.triggers, t)
	if t.MessageID == m.failOn {
		return forward.Result{}, m.err
	}
	return forward.Result{MessageID: t.MessageID, DeliveryID: "fwd-" + t.MessageID}, nil
}

func record(id, source string, dest ...string) events.SimpleEmailRecord {
	return events.SimpleEmailRecord{
		EventSource: "aws:ses",
		SES: events.SimpleEmailService{
			Mail: events.SimpleEmailMessage{
				MessageID:   id,
				Source:      source,
				Destination: dest,
			},
		},
	}
}

func TestHandle_SingleRecord(t *testing.T) {
	t.Parallel()

	f := &mockForwarder{}
	h := New(f)

	resp, err := h.Handle(context.Background(), events.SimpleEmailEvent{
		Records: []events.SimpleEmailRecord{record("abc123", "bob@x.com", "inbox@example.org")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("StatusCode: got %d, want 200", resp.StatusCode)
	}

	if len(f.triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(f.triggers))
	}
	got := f.triggers[0]
	if got.MessageID != "abc123" {
		t.Errorf("MessageID: got %q, want %q", got.MessageID, "abc123")
	}
	if got.Source != "bob@x.com" {
		t.Errorf("Source: got %q, want %q", got.Source, "bob@x.com")
	}
	if len(got.Destinations) != 1 || got.Destinations[0] != "inbox@example.org" {
		t.Errorf("Destinations: got %v, want [inbox@example.org]", got.Destinations)
	}

	var body responseBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	if body.Message != "Email forwarded successfully" {
		t.Errorf("message: got %q", body.Message)
	}
	if body.OriginalMessageID != "abc123" {
		t.Errorf("originalMessageId: got %q, want %q", body.OriginalMessageID, "abc123")
	}
	if body.ForwardedMessageID != "fwd-abc123" {
		t.Errorf("forwardedMessageId: got %q, want %q", body.ForwardedMessageID, "fwd-abc123")
	}
	if len(body.OriginalMessageIDs) != 1 || body.OriginalMessageIDs[0] != "abc123" {
		t.Errorf("originalMessageIds: got %v", body.OriginalMessageIDs)
	}
	if len(body.ForwardedMessageIDs) != 1 || body.ForwardedMessageIDs[0] != "fwd-abc123" {
		t.Errorf("forwardedMessageIds: got %v", body.ForwardedMessageIDs)
	}
}

func TestHandle_MultipleRecords(t *testing.T) {
	t.Parallel()

	f := &mockForwarder{}
	h := New(f)

	resp, err := h.Handle(context.Background(), events.SimpleEmailEvent{
		Records: []events.SimpleEmailRecord{
			record("m1", "a@x.com"),
			record("m2", "b@x.com"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body responseBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	if strings.Contains(resp.Body, `"forwardedMessageId"`) {
		t.Errorf("multi-record response should not carry singular ids: %s", resp.Body)
	}

	want := []string{"fwd-m1", "fwd-m2"}
	if len(body.ForwardedMessageIDs) != len(want) {
		t.Fatalf("forwardedMessageIds: got %v, want %v", body.ForwardedMessageIDs, want)
	}
	for i := range want {
		if body.ForwardedMessageIDs[i] != want[i] {
			t.Errorf("forwardedMessageIds[%d]: got %q, want %q", i, body.ForwardedMessageIDs[i], want[i])
		}
	}
}

func TestHandle_NoRecords(t *testing.T) {
	t.Parallel()

	f := &mockForwarder{}
	h := New(f)

	_, err := h.Handle(context.Background(), events.SimpleEmailEvent{})
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
	if len(f.triggers) != 0 {
		t.Errorf("expected no forwards, got %d", len(f.triggers))
	}
}

func TestHandle_StopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	fwdErr := errors.New("SES SendEmail failed")
	f := &mockForwarder{failOn: "m1", err: fwdErr}
	h := New(f)

	_, err := h.Handle(context.Background(), events.SimpleEmailEvent{
		Records: []events.SimpleEmailRecord{
			record("m1", "a@x.com"),
			record("m2", "b@x.com"),
		},
	})
	if !errors.Is(err, fwdErr) {
		t.Errorf("expected forward error, got %v", err)
	}
	if len(f.triggers) != 1 {
		t.Errorf("expected processing to stop after first failure, got %d forwards", len(f.triggers))
	}
}
