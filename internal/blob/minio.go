// internal/blob/minio.go
package blob

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"inkwell/internal/apperr"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds object storage connection settings
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// MinioFileStore stores blobs in an S3-compatible bucket
type MinioFileStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ FileStore = (*MinioFileStore)(nil)

func NewMinioFileStore(ctx context.Context, cfg MinioConfig) (*MinioFileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %v", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %v", err)
		}
	}

	return &MinioFileStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
	}, nil
}

func (s *MinioFileStore) Store(ctx context.Context, filename, contentType string, data []byte) (*models.Media, error) {
	key := ObjectKey(filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, apperr.NewUpstreamFailure("blob upload", err)
	}

	return &models.Media{
		ID:          uuid.New(),
		ObjectKey:   key,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		URL:         fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key),
		CreatedAt:   time.Now(),
	}, nil
}

func (s *MinioFileStore) Delete(ctx context.Context, media *models.Media) error {
	err := s.client.RemoveObject(ctx, s.bucket, media.ObjectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return apperr.NewUpstreamFailure("blob delete", err)
	}
	return nil
}
