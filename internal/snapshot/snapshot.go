// Package snapshot uploads a compressed copy of the directory database to
// S3-compatible object storage (e.g. Cloudflare R2) after a pipeline run.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/storage"
)

// Config holds object storage configuration.
type Config struct {
	Endpoint    string // e.g. https://account-id.r2.cloudflarestorage.com
	AccessKeyID string
	SecretKey   string
	BucketName  string
	SnapshotKey string // object key, e.g. "snapshots/directory.db.zst"
}

// Uploader writes database snapshots to a bucket.
type Uploader struct {
	s3     *s3.Client
	bucket string
	key    string
	log    *logger.Logger
}

// New creates an uploader. All config fields are required.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretKey == "" || cfg.BucketName == "" || cfg.SnapshotKey == "" {
		return nil, errors.New("snapshot: all config fields are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // Required for R2
	})

	return &Uploader{
		s3:     client,
		bucket: cfg.BucketName,
		key:    cfg.SnapshotKey,
		log:    log.WithModule("snapshot"),
	}, nil
}

// Upload snapshots the database with VACUUM INTO, compresses the copy with
// zstd, and uploads it under the configured key.
func (u *Uploader) Upload(ctx context.Context, db *storage.DB, tempDir string) error {
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	snapshotPath := filepath.Join(tempDir, fmt.Sprintf("snapshot-%s.db", uuid.NewString()))
	defer func() { _ = os.Remove(snapshotPath) }()

	if err := db.CreateSnapshot(ctx, snapshotPath); err != nil {
		return err
	}

	compressedPath := snapshotPath + ".zst"
	defer func() { _ = os.Remove(compressedPath) }()

	if err := compress(snapshotPath, compressedPath); err != nil {
		return err
	}

	file, err := os.Open(compressedPath)
	if err != nil {
		return fmt.Errorf("snapshot: open compressed snapshot: %w", err)
	}
	defer func() { _ = file.Close() }()

	result, err := u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(u.key),
		Body:        file,
		ContentType: aws.String("application/zstd"),
	})
	if err != nil {
		return fmt.Errorf("snapshot: upload %q: %w", u.key, err)
	}

	etag := ""
	if result.ETag != nil {
		etag = *result.ETag
	}
	u.log.InfoContext(ctx, "Snapshot uploaded", "key", u.key, "etag", etag)
	return nil
}

func compress(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("snapshot: open snapshot: %w", err)
	}
	defer func() { _ = src.Close() }()

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("snapshot: create compressed snapshot: %w", err)
	}
	defer func() { _ = dest.Close() }()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return fmt.Errorf("snapshot: create zstd writer: %w", err)
	}

	if _, err := encoder.ReadFrom(src); err != nil {
		_ = encoder.Close()
		return fmt.Errorf("snapshot: compress snapshot: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("snapshot: finish compression: %w", err)
	}

	return nil
}
