package repository

import (
	"context"
)

// AWSRepository defines the AWS interactions used to publish reports.
type AWSRepository interface {
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)
	PutObject(ctx context.Context, profile, bucket, key, contentType string, body []byte) error
	BucketExists(ctx context.Context, profile, bucket string) (bool, error)
}
