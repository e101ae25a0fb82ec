package service

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/skydrive-cloud/sky-drive-service/config"
	"github.com/skydrive-cloud/sky-drive-service/infra/produce"
	"github.com/skydrive-cloud/sky-drive-service/repository"
)

// BlobStore is the narrow surface the service needs from the external
// object store. infra.MinioClient satisfies it.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (*url.URL, error)
}

// CleanupQueue receives blob-cleanup jobs for objects whose synchronous
// deletion failed. produce.BlobCleanupService satisfies it.
type CleanupQueue interface {
	PublishBlobCleanup(ctx context.Context, msg produce.BlobCleanupMessage) error
}

// StatsCache is the per-owner statistics cache. infra.RedisClient
// satisfies it.
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service implements the metadata core: hierarchy validation, the
// star/trash/restore/delete state machine, and aggregation. It holds no
// state between calls; the store is the single source of truth.
type Service struct {
	cfg   *config.EnvConfig
	repo  *repository.Repository
	blobs BlobStore
	queue CleanupQueue
	cache StatsCache
	log   *slog.Logger
}

func InitService(
	cfg *config.EnvConfig,
	repo *repository.Repository,
	blobs BlobStore,
	queue CleanupQueue,
	cache StatsCache,
	log *slog.Logger,
) *Service {
	return &Service{
		cfg:   cfg,
		repo:  repo,
		blobs: blobs,
		queue: queue,
		cache: cache,
		log:   log,
	}
}
