// Package artifacts handles durable storage of job outputs and generation
// of time-limited signed read URLs over the fixed artifact set.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobClient defines the object storage operations used by the worker and
// the artifact access layer.
type BlobClient interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	SignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	BaseURL() string
}

// ClientConfig holds connection settings for the S3-compatible backend.
type ClientConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Configured reports whether enough settings are present to reach the
// backend at all.
func (c ClientConfig) Configured() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// S3Client implements BlobClient against any S3-compatible object store.
type S3Client struct {
	s3Client  *s3.Client
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
}

// NewS3Client creates a blob client from static credentials.
func NewS3Client(ctx context.Context, cfg ClientConfig) (*S3Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("blob storage configuration incomplete")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		s3Client:  client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		endpoint:  cfg.Endpoint,
	}, nil
}

// Upload writes one named byte stream under the bucket.
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// SignedGetURL generates a presigned, read-only URL for the given key.
// URL generation is unconditional: it does not verify that the blob
// exists, a 404 on fetch is the consumer's problem to interpret.
func (c *S3Client) SignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// BaseURL returns the bucket location recorded into job logs on completion.
func (c *S3Client) BaseURL() string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s", c.endpoint, c.bucket)
	}
	return fmt.Sprintf("s3://%s", c.bucket)
}
