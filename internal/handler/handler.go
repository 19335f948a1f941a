// Package handler adapts SES receipt notifications to the forwarding pipeline.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/shineum/ses-mail-forwarder/internal/email"
	"github.com/shineum/ses-mail-forwarder/internal/forward"
)

// ErrNoRecords is returned for events that carry no mail records.
var ErrNoRecords = errors.New("event contains no SES records")

// Forwarder forwards a single stored message.
type Forwarder interface {
	Forward(ctx context.Context, t email.Trigger) (forward.Result, error)
}

// Response is returned to the Lambda runtime after a successful invocation.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// responseBody is the JSON document carried in Response.Body. The singular
// ids are only set for single-record events, the common case for SES.
type responseBody struct {
	Message             string   `json:"message"`
	OriginalMessageID   string   `json:"originalMessageId,omitempty"`
	ForwardedMessageID  string   `json:"forwardedMessageId,omitempty"`
	OriginalMessageIDs  []string `json:"originalMessageIds"`
	ForwardedMessageIDs []string `json:"forwardedMessageIds"`
}

// Handler processes SES receipt events.
type Handler struct {
	forwarder Forwarder
}

// New creates a Handler that forwards through f.
func New(f Forwarder) *Handler {
	return &Handler{forwarder: f}
}

// Handle forwards every record of event in order. The first failure aborts
// the invocation and is returned so the runtime can report it.
func (h *Handler) Handle(ctx context.Context, event events.SimpleEmailEvent) (Response, error) {
	if len(event.Records) == 0 {
		return Response{}, ErrNoRecords
	}

	slog.Info("received SES event", "records", len(event.Records))

	body := responseBody{
		Message:             "Email forwarded successfully",
		OriginalMessageIDs:  make([]string, 0, len(event.Records)),
		ForwardedMessageIDs: make([]string, 0, len(event.Records)),
	}

	for i, rec := range event.Records {
		res, err := h.forwarder.Forward(ctx, triggerFromRecord(rec))
		if err != nil {
			slog.Error("failed to forward email",
				"record", i,
				"message_id", rec.SES.Mail.MessageID,
				"error", err,
			)
			return Response{}, err
		}
		body.OriginalMessageIDs = append(body.OriginalMessageIDs, res.MessageID)
		body.ForwardedMessageIDs = append(body.ForwardedMessageIDs, res.DeliveryID)
	}

	if len(event.Records) == 1 {
		body.OriginalMessageID = body.OriginalMessageIDs[0]
		body.ForwardedMessageID = body.ForwardedMessageIDs[0]
	}

	data, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode response: %w", err)
	}

	return Response{StatusCode: http.StatusOK, Body: string(data)}, nil
}

func triggerFromRecord(rec events.SimpleEmailRecord) email.Trigger {
	m := rec.SES.Mail
	return email.Trigger{
		MessageID:    m.MessageID,
		Source:       m.Source,
		Destinations: m.Destination,
	}
}
