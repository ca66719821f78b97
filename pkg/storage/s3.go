package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/noah-isme/doc-vault-api/pkg/config"
)

// S3Storage stores documents in an S3-compatible bucket behind the same
// surface as LocalStorage. Object keys always carry a random prefix, so key
// uniqueness holds without an exclusive-create primitive.
type S3Storage struct {
	client *minio.Client
	bucket string
	region string
}

// NewS3Storage creates a MinIO-backed store and ensures the bucket exists.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.S3Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.S3Bucket, err)
		}
	}

	return &S3Storage{client: client, bucket: cfg.S3Bucket, region: cfg.S3Region}, nil
}

// Store uploads the content under user_<owner>/<uuid8>_<name>.
func (s *S3Storage) Store(ctx context.Context, ownerID, displayName string, r io.Reader, size int64) (string, error) {
	name := sanitizeFilename(displayName)
	key := path.Join(ownerSegment(ownerID), fmt.Sprintf("%s_%s", uuid.NewString()[:8], name))

	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{}); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// Open fetches the object and reports its size.
func (s *S3Storage) Open(ctx context.Context, relPath string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, relPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("get object %s: %w", relPath, err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close() //nolint:errcheck
		return nil, 0, fmt.Errorf("stat object %s: %w", relPath, err)
	}
	return obj, info.Size, nil
}

// Delete removes the object. Removing a missing key is not an error in S3.
func (s *S3Storage) Delete(ctx context.Context, relPath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, relPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", relPath, err)
	}
	return nil
}
