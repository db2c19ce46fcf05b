package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader accepts raw image bytes and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, contentType string, data []byte) (string, error)
}

// Options configures the S3-compatible object storage client.
type Options struct {
	Endpoint  string // Custom endpoint for S3-compatible stores (e.g. MinIO)
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // Base URL under which stored objects are served
}

// S3Uploader stores objects in an S3-compatible bucket.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Uploader builds the storage client once at startup.
func NewS3Uploader(ctx context.Context, opts Options) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("%s/%s", strings.TrimRight(opts.Endpoint, "/"), opts.Bucket)
	}

	return &S3Uploader{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// randomStorageKey partitions objects by upload date.
func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("hotels/%d/%02d/%v", d.Year(), d.Month(), uuid.New())
}

// Upload puts the object and returns the URL it is served under.
// No retries; a failed put surfaces directly to the caller.
func (u *S3Uploader) Upload(ctx context.Context, contentType string, data []byte) (string, error) {
	key := randomStorageKey()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicURL + "/" + key, nil
}
