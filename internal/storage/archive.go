// Package storage optionally archives the raw uploaded spreadsheets to an
// S3-compatible object store so an analysis batch can be replayed later.
// Archival is best effort: a failure is logged by the caller and never
// blocks the analysis run.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/itechlabs/comercial-insights/internal/config"
)

// Archiver stores one uploaded file under a batch prefix.
type Archiver interface {
	Archive(ctx context.Context, batch, filename string, data []byte) error
}

type minioArchiver struct {
	client *minio.Client
	bucket string
}

type noopArchiver struct{}

// NewArchiver returns a MinIO-backed archiver when storage is enabled,
// otherwise a noop.
func NewArchiver(cfg config.StorageConfig) (Archiver, error) {
	if !cfg.Enabled {
		return &noopArchiver{}, nil
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided when storage is enabled")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &minioArchiver{client: client, bucket: cfg.Bucket}, nil
}

// NewNoopArchiver returns an archiver that drops everything.
func NewNoopArchiver() Archiver {
	return &noopArchiver{}
}

func (a *minioArchiver) Archive(ctx context.Context, batch, filename string, data []byte) error {
	key := path.Join(time.Now().Format("2006-01-02"), batch, filename)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}
	return nil
}

func (n *noopArchiver) Archive(ctx context.Context, batch, filename string, data []byte) error {
	return nil
}
