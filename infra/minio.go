package infra

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/skydrive-cloud/sky-drive-service/config"
)

// MinioClient is the blob coordination shim. All user content lives in a
// single bucket; tenant segregation happens through the object key
// convention {ownerId}/{parentId|root}/{uniqueFileName}.
type MinioClient struct {
	Client   *minio.Client
	Bucket   string
	Endpoint string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	client := &MinioClient{
		Client:   minioClient,
		Bucket:   cfg.Minio.Bucket,
		Endpoint: endpoint,
	}

	if err := client.EnsureBucket(context.Background(), cfg.Minio.Bucket); err != nil {
		panic(fmt.Sprintf("Failed to ensure MinIO bucket: %v", err))
	}

	return client
}

// EnsureBucket creates the bucket if it doesn't exist.
func (m *MinioClient) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := m.Client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err := m.Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores the object and returns its ETag. An upload failure is
// fatal to the enclosing registration: metadata without a backing blob
// is meaningless.
func (m *MinioClient) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key cannot be empty")
	}

	info, err := m.Client.PutObject(ctx, m.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return info.ETag, nil
}

// Remove deletes a single backing object.
func (m *MinioClient) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("object key cannot be empty")
	}

	err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}

	return nil
}

// PresignedGet returns a short-lived download URL for the object.
func (m *MinioClient) PresignedGet(ctx context.Context, key string, expiry time.Duration) (*url.URL, error) {
	if key == "" {
		return nil, fmt.Errorf("object key cannot be empty")
	}

	presigned, err := m.Client.PresignedGetObject(ctx, m.Bucket, key, expiry, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("failed to presign object %s: %w", key, err)
	}

	return presigned, nil
}
