// Package storage provides object storage for uploaded assets (logos,
// generated receipt images).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/receiptforge/receiptforge/internal/config"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// ObjectStore stores binary assets and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, filename, contentType string, body []byte) (string, error)
}

// S3API is the slice of the AWS S3 client this package uses. It exists so
// tests can substitute the SDK client.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements ObjectStore on an S3-compatible bucket.
type S3Store struct {
	client S3API
	cfg    *config.StorageConfig
	logger logger.Logger
}

// NewS3Store creates an ObjectStore using the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg *config.StorageConfig, log logger.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(awsCfg), cfg, log), nil
}

// NewS3StoreWithClient creates an S3Store with an injected client.
func NewS3StoreWithClient(client S3API, cfg *config.StorageConfig, log logger.Logger) *S3Store {
	return &S3Store{
		client: client,
		cfg:    cfg,
		logger: log.WithComponent("S3Store"),
	}
}

// Put uploads the body under a collision-free key derived from the
// filename and returns the public URL.
func (s *S3Store) Put(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	key := s.objectKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error(ctx, "failed to upload object", err, logger.String("key", key))
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	url := strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	s.logger.Info(ctx, "object uploaded",
		logger.String("key", key),
		logger.Int("bytes", len(body)),
	)
	return url, nil
}

// objectKey builds a date-partitioned, uuid-prefixed key so uploads never
// collide and the original extension survives.
func (s *S3Store) objectKey(filename string) string {
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx:])
	}
	prefix := s.cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%s%s/%s%s",
		prefix,
		time.Now().UTC().Format("2006/01/02"),
		uuid.NewString(),
		ext,
	)
}
