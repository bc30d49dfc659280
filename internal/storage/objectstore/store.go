// Package objectstore uploads images and videos to S3-compatible buckets and
// hands back their public URLs.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mensbreakfast/breakfast-backend/config"
)

// Buckets used by the app.
const (
	BucketEventImages   = "event-images"
	BucketMediaImages   = "media-images"
	BucketThoughtVideos = "thought-videos"
	BucketBlogImages    = "blog-images"
)

type Store struct {
	client        *s3.Client
	publicBaseURL string
}

func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = cfg.Endpoint
	}

	return &Store{client: client, publicBaseURL: strings.TrimRight(base, "/")}, nil
}

// Upload stores body under a fresh key in bucket and returns its public URL.
// The original file name only contributes its extension.
func (s *Store) Upload(ctx context.Context, bucket, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := uuid.NewString() + strings.ToLower(path.Ext(filename))

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload to %s: %w", bucket, err)
	}

	return s.PublicURL(bucket, key), nil
}

// PublicURL follows the platform's public object layout.
func (s *Store) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, key)
}
