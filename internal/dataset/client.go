// Package dataset loads the majors catalog from an S3-compatible bucket
// (Cloudflare R2 or AWS S3) so the curated data can be updated without a
// redeploy. When the remote source is disabled or unavailable the embedded
// catalog is used instead.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ready4uni/advisor-go/internal/config"
)

// ErrNotFound is returned when the dataset object does not exist.
var ErrNotFound = errors.New("dataset: object not found")

// maxObjectSize caps the dataset download at 8MB. The curated catalog is a
// few KB; anything larger means a misconfigured object key.
const maxObjectSize = 8 << 20

// Client fetches dataset objects from an S3-compatible bucket.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewClient creates a dataset client from the dataset configuration.
// When AccountID is set the R2 endpoint for that account is used;
// otherwise the client resolves the standard AWS endpoints.
func NewClient(ctx context.Context, cfg config.DatasetConfig) (*Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, errors.New("dataset: access key, secret key, and bucket are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("dataset: load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AccountID != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
			o.UsePathStyle = true // Required for R2
		}
	})

	return &Client{
		s3:     s3Client,
		bucket: cfg.BucketName,
	}, nil
}

// Fetch downloads an object and returns its contents.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("dataset: fetch %q: %w", key, err)
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(result.Body, maxObjectSize))
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", key, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	return strings.Contains(err.Error(), "NoSuchKey")
}
