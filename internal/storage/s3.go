package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3KeyPrefix is where archived originals land inside the bucket.
const s3KeyPrefix = "completed/"

// S3Config holds the configuration for the S3 archive.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// S3Archiver wraps LocalArchiver and additionally uploads each archived
// original to an S3 bucket. The local move is authoritative: an upload
// failure is logged, not returned, so the archive never blocks the batch.
type S3Archiver struct {
	*LocalArchiver
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// NewS3Archiver creates a new S3Archiver.
// The completedDir parameter specifies the local archive directory and the
// cfg parameter contains S3 configuration.
func NewS3Archiver(completedDir string, cfg S3Config, logger *slog.Logger) (*S3Archiver, error) {
	local, err := NewLocalArchiver(completedDir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)

	return &S3Archiver{
		LocalArchiver: local,
		client:        client,
		bucket:        cfg.Bucket,
		logger:        logger,
	}, nil
}

// Archive moves the file locally, then uploads the archived copy to
// s3://bucket/completed/filename.
func (a *S3Archiver) Archive(ctx context.Context, srcPath, filename string) error {
	if err := a.LocalArchiver.Archive(ctx, srcPath, filename); err != nil {
		return err
	}

	archived := filepath.Join(a.CompletedDir(), filename)
	if err := a.upload(ctx, archived, filename); err != nil {
		a.logger.Warn("S3 archive upload failed",
			slog.String("filename", filename),
			slog.String("bucket", a.bucket),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// upload streams the archived file to the bucket.
func (a *S3Archiver) upload(ctx context.Context, archivedPath, filename string) error {
	f, err := os.Open(archivedPath) // #nosec G304 - path is built from the configured archive dir
	if err != nil {
		return fmt.Errorf("open archived file: %w", err)
	}
	defer func() { _ = f.Close() }()

	key := path.Join(s3KeyPrefix, filename)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
