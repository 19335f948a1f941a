package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GetObjectAPI is the interface for the S3 GetObject operation.
// Used for testing with mock implementations.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads stored messages from an S3 bucket.
type S3Store struct {
	client GetObjectAPI
	bucket string
	prefix string
}

// NewS3 creates an S3Store using the given AWS configuration.
func NewS3(cfg aws.Config, bucket, prefix string) *S3Store {
	return NewS3WithClient(s3.NewFromConfig(cfg), bucket, prefix)
}

// NewS3WithClient creates an S3Store with a custom client, used for testing.
func NewS3WithClient(client GetObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Fetch returns the raw bytes of the message stored under messageID.
func (s *S3Store) Fetch(ctx context.Context, messageID string) ([]byte, error) {
	if messageID == "" {
		return nil, ErrEmptyMessageID
	}

	key := Key(s.prefix, messageID)
	slog.Info("retrieving email from S3",
		"bucket", s.bucket,
		"key", key,
	)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, key, err)
	}

	slog.Debug("retrieved email from S3",
		"key", key,
		"bytes", len(data),
	)
	return data, nil
}
