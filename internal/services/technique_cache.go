package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
	"github.com/yarnwise/yarnwise-backend/internal/utils"
)

// CachedTechniqueService wraps a TechniqueService with a redis read-through
// for the two hot list-view reads. Cache failures degrade to the store;
// redis is never on the write path and never a source of errors for reads.
type cachedTechniqueService struct {
	TechniqueService
	log *logger.Logger
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedTechniqueService(log *logger.Logger, inner TechniqueService) (TechniqueService, error) {
	serviceLog := log.With("service", "CachedTechniqueService")
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("TECHNIQUE_CACHE_TTL_SECONDS", 300, serviceLog)

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cachedTechniqueService{
		TechniqueService: inner,
		log:              serviceLog,
		rdb:              rdb,
		ttl:              time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (s *cachedTechniqueService) ListByCategory(ctx context.Context, category string) ([]*types.Technique, error) {
	key := "technique:category:" + category
	var cached []*types.Technique
	if s.readCached(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.TechniqueService.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	s.writeCached(ctx, key, rows)
	return rows, nil
}

func (s *cachedTechniqueService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	key := "technique:category_counts"
	var cached map[string]int
	if s.readCached(ctx, key, &cached) {
		return cached, nil
	}
	counts, err := s.TechniqueService.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCached(ctx, key, counts)
	return counts, nil
}

// Related is uncached: it depends on per-technique id lists that change
// with seeds, and the list views above dominate read traffic.
func (s *cachedTechniqueService) Related(ctx context.Context, id uuid.UUID) ([]*types.Technique, error) {
	return s.TechniqueService.Related(ctx, id)
}

func (s *cachedTechniqueService) readCached(ctx context.Context, key string, out any) bool {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("Cache entry undecodable, falling through", "key", key, "error", err)
		return false
	}
	return true
}

func (s *cachedTechniqueService) writeCached(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warn("Cache write failed", "key", key, "error", err)
	}
}
