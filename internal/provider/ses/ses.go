// Package ses implements a Provider that sends emails via AWS SES v2.
package ses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/shineum/ses-mail-forwarder/internal/email"
)

// ErrNoDestination is returned when a forward has no destination address.
var ErrNoDestination = errors.New("forward has no destination address")

// SESProvider sends emails via the AWS SES v2 API.
// @MX:ANCHOR: [AUTO] External system integration point for AWS SES
// @MX:REASON: Every forwarded message leaves through this provider in production
type SESProvider struct {
	client SendEmailAPI
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// New creates a new SESProvider using the given AWS configuration.
func New(cfg aws.Config) *SESProvider {
	return NewWithClient(sesv2.NewFromConfig(cfg))
}

// NewWithClient creates a SESProvider with a custom client, used for testing.
func NewWithClient(client SendEmailAPI) *SESProvider {
	return &SESProvider{client: client}
}

// Send delivers a forward via AWS SES v2.
// A forward carrying Raw content is sent as a raw MIME message; otherwise
// the SES simple email format is used. Failures are not retried.
func (s *SESProvider) Send(ctx context.Context, msg *email.Forward) (string, error) {
	if msg.Destination == "" {
		return "", ErrNoDestination
	}

	var input *sesv2.SendEmailInput
	if len(msg.Raw) > 0 {
		input = buildRawInput(msg)
	} else {
		input = buildSimpleInput(msg)
	}

	slog.Info("sending email via SES",
		"destination", msg.Destination,
		"reply_to", msg.ReplyTo,
		"raw", input.Content.Raw != nil,
	)

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("SES SendEmail failed: %w", err)
	}

	id := aws.ToString(out.MessageId)
	if id == "" {
		id = "unknown"
	}
	return id, nil
}

// Name returns the provider name.
func (s *SESProvider) Name() string {
	return "ses"
}

// buildSimpleInput creates a SES SendEmailInput with a plain-text body.
func buildSimpleInput(msg *email.Forward) *sesv2.SendEmailInput {
	charset := msg.Charset
	if charset == "" {
		charset = email.Charset
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.Source),
		Destination:      destination(msg),
		ReplyToAddresses: replyTo(msg),
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String(charset),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(msg.Body),
						Charset: aws.String(charset),
					},
				},
			},
		},
	}
}

// buildRawInput creates a SES SendEmailInput carrying the rewritten original message.
func buildRawInput(msg *email.Forward) *sesv2.SendEmailInput {
	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.Source),
		Destination:      destination(msg),
		Content: &types.EmailContent{
			Raw: &types.RawMessage{
				Data: msg.Raw,
			},
		},
	}
}

func destination(msg *email.Forward) *types.Destination {
	return &types.Destination{
		ToAddresses: []string{msg.Destination},
	}
}

func replyTo(msg *email.Forward) []string {
	if msg.ReplyTo == "" {
		return nil
	}
	return []string{msg.ReplyTo}
}
