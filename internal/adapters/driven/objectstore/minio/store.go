// Package minio implements the object store port against a MinIO or
// S3-compatible bucket using the official MinIO Go client.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driven"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

// Config holds the connection settings for the destination bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ObjectStore is a thin wrapper around the MinIO client scoped to one
// bucket. It translates client errors into domain errors where callers
// care about the distinction.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// New creates an object store for the configured bucket.
func New(cfg Config) (*ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name must not be empty")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist. An already
// existing or already owned bucket is not an error.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyExists" || code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("creating bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put writes an object, overwriting any previous content under key.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("putting object %s: %w", key, err)
	}
	return nil
}

// IsEmpty reports whether the bucket holds no objects. A missing bucket
// counts as empty.
func (s *ObjectStore) IsEmpty(ctx context.Context) (bool, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return true, nil
	}

	// One key is enough to decide.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{MaxKeys: 1}) {
		if object.Err != nil {
			if minio.ToErrorResponse(object.Err).Code == "NoSuchBucket" {
				return true, nil
			}
			return false, fmt.Errorf("inspecting bucket %s: %w", s.bucket, object.Err)
		}
		return false, nil
	}
	return true, nil
}

// List returns metadata for all objects in the bucket. A missing bucket
// yields an empty list.
func (s *ObjectStore) List(ctx context.Context) ([]domain.ObjectInfo, error) {
	var objects []domain.ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			if minio.ToErrorResponse(object.Err).Code == "NoSuchBucket" {
				return nil, nil
			}
			return nil, fmt.Errorf("listing bucket %s: %w", s.bucket, object.Err)
		}
		objects = append(objects, domain.ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}
	return objects, nil
}

// Get downloads one object. Missing key and missing bucket both map to
// domain.ErrObjectNotFound.
func (s *ObjectStore) Get(ctx context.Context, key string) (*domain.ObjectContent, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateGetError(key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, translateGetError(key, err)
	}

	stat, err := object.Stat()
	if err != nil {
		return nil, translateGetError(key, err)
	}

	return &domain.ObjectContent{Data: data, ContentType: stat.ContentType}, nil
}

// translateGetError maps not-found client errors to the domain sentinel.
func translateGetError(key string, err error) error {
	code := minio.ToErrorResponse(err).Code
	if code == "NoSuchKey" || code == "NoSuchBucket" {
		return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
	}
	return fmt.Errorf("reading object %s: %w", key, err)
}
