// Package storage is the object-store adapter holding document payloads.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"dossier/internal/domain"
	"dossier/internal/domain/repositories"
)

// MinIOConfig carries the object store connection settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore is a thin wrapper around the minio client implementing
// repositories.BlobStore.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore creates a new MinIO blob store and ensures the bucket exists.
func NewMinIOStore(cfg *MinIOConfig) (repositories.BlobStore, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}

	s := &MinIOStore{client: mc, bucket: cfg.Bucket}

	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}

	return s, nil
}

// Delete removes the object at the given storage path. Failures come back
// as *domain.StorageError with the tolerated classes flagged so callers can
// keep blob cleanup best-effort.
func (s *MinIOStore) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return classify("delete", path, err)
	}
	return nil
}

// PresignedURL returns a time-limited download URL for the object.
func (s *MinIOStore) PresignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, path, expiry, reqParams)
	if err != nil {
		return "", classify("presign", path, err)
	}
	return presigned.String(), nil
}

func classify(op, path string, err error) *domain.StorageError {
	se := &domain.StorageError{Op: op, Path: path, Err: err}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		se.NotFound = true
	case "AccessDenied":
		se.AccessDenied = true
	}
	return se
}
