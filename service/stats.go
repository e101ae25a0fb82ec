package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skydrive-cloud/sky-drive-service/entity"
)

const statsCacheTTL = 60 * time.Second

func statsCacheKey(ownerID uuid.UUID) string {
	return "drive:stats:" + ownerID.String()
}

// ComputeStats aggregates the owner's tree. Results are cached briefly
// per owner; every mutation invalidates the cache, so the TTL only
// bounds staleness across instances.
func (s *Service) ComputeStats(ctx context.Context, ownerID uuid.UUID) (*entity.Stats, error) {
	key := statsCacheKey(ownerID)

	var cached entity.Stats
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	stats, err := s.repo.EntryRepo.Aggregate(ownerID)
	if err != nil {
		return nil, err
	}
	stats.StorageLimit = s.cfg.Storage.LimitBytes

	if err := s.cache.Set(ctx, key, stats, statsCacheTTL); err != nil {
		s.log.WarnContext(ctx, "failed to cache stats", "owner_id", ownerID, "error", err)
	}

	return stats, nil
}

func (s *Service) invalidateStats(ctx context.Context, ownerID uuid.UUID) {
	if err := s.cache.Delete(ctx, statsCacheKey(ownerID)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate stats cache", "owner_id", ownerID, "error", err)
	}
}
