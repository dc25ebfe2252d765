// Package storage uploads pipeline artifacts to S3-compatible blob storage
// and derives their deterministic object keys.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/edulingo/backend/internal/apperr"
)

// Config holds S3 client configuration.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// S3 uploads named buffers to one bucket and returns their object URLs.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client from static credentials, falling back to the
// default credential chain when none are configured.
func NewS3(ctx context.Context, cfg Config, logger *zap.Logger) (*S3, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else {
		logger.Warn("s3 client using default credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageConfig, "load aws config", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	return &S3{client: client, uploader: uploader, cfg: cfg, logger: logger}, nil
}

// EnsureBucket creates the artifact bucket if it does not exist. Creation is
// idempotent, so calling it before every upload is safe.
func (s *S3) EnsureBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(s.cfg.Bucket)}
	if s.cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.cfg.Region),
		}
	}
	_, err := s.client.CreateBucket(ctx, input)
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return apperr.Wrap(apperr.KindStorageConfig, fmt.Sprintf("ensure bucket %q", s.cfg.Bucket), err)
	}
	s.logger.Info("artifact bucket created", zap.String("bucket", s.cfg.Bucket))
	return nil
}

// Upload puts the full buffer under key with the given content type and
// returns the object URL. The bucket is ensured first. Single attempt.
func (s *S3) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if err := s.EnsureBucket(ctx); err != nil {
		return "", err
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindStorage, fmt.Sprintf("upload artifact %q", key), err)
	}
	return s.ObjectURL(key), nil
}

// ObjectURL returns the canonical URL for an object in the artifact bucket.
func (s *S3) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// Disabled is an artifact store used when blob storage is not configured.
// Every upload fails fast with a storage-config error.
type Disabled struct{}

// Upload always fails: there is no configured backend.
func (Disabled) Upload(context.Context, string, string, []byte) (string, error) {
	return "", apperr.New(apperr.KindStorageConfig, "blob storage is not configured: set S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
}
