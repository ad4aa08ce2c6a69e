package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"medialib/domain/ports"
	"medialib/pkg/config"
)

// S3Backend stores objects in an S3-compatible bucket via the MinIO client.
type S3Backend struct {
	client *minio.Client
	bucket string
}

func NewS3Backend(cfg config.S3DiskConfig) (*S3Backend, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("storage: s3 endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create s3 client: %w", err)
	}

	return &S3Backend{client: client, bucket: cfg.Bucket}, nil
}

// Client exposes the underlying MinIO client for presigned URL generation.
func (s *S3Backend) Client() *minio.Client {
	return s.client
}

func (s *S3Backend) Bucket() string {
	return s.bucket
}

func (s *S3Backend) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	// Size -1 streams with multipart upload when the length is unknown.
	_, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: put s3 object: %w", err)
	}
	return nil
}

func (s *S3Backend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: get s3 object: %w", err)
	}
	// GetObject is lazy; stat to surface missing keys now.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, ports.ErrObjectNotFound
		}
		return nil, fmt.Errorf("storage: stat s3 object: %w", err)
	}
	return obj, nil
}

func (s *S3Backend) Size(ctx context.Context, key string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return 0, ports.ErrObjectNotFound
		}
		return 0, fmt.Errorf("storage: stat s3 object: %w", err)
	}
	return info.Size, nil
}

func (s *S3Backend) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("storage: delete s3 object: %w", err)
	}
	return nil
}

func (s *S3Backend) DeleteAll(ctx context.Context, prefix string) error {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix + "/",
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("storage: list s3 objects: %w", obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("storage: delete s3 object %q: %w", obj.Key, err)
		}
	}
	return nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey"
	}
	return false
}
