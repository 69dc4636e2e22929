package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sohan0019/PlantNet/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	plantCachePrefix     = "plant:detail:"
	plantListCachePrefix = "plants:v:"
	cacheVersionKey      = "plants:version"

	defaultCacheTTL = 5 * time.Minute
)

// CacheManager caches plant reads in Redis. List entries are keyed by
// a version counter; bumping the counter on any write invalidates all
// cached lists without scanning keys.
type CacheManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheManager(redis *redis.Client, logger *zap.Logger) *CacheManager {
	return &CacheManager{redis: redis, ttl: defaultCacheTTL, logger: logger}
}

// GetPlantList returns the cached full plant list, if present.
func (cm *CacheManager) GetPlantList(ctx context.Context) ([]models.Plant, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listKey(version)).Result()
	if err != nil {
		return nil, false
	}

	var plants []models.Plant
	if err := json.Unmarshal([]byte(cached), &plants); err != nil {
		cm.logger.Warn("Failed to unmarshal cached plant list", zap.Error(err))
		return nil, false
	}
	return plants, true
}

// SetPlantListAsync caches the plant list without blocking the request.
func (cm *CacheManager) SetPlantListAsync(plants []models.Plant) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		data, err := json.Marshal(plants)
		if err != nil {
			cm.logger.Warn("Failed to marshal plant list for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(bgCtx, cm.listKey(version), data, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache plant list", zap.Error(err))
		}
	}()
}

// GetPlant returns a cached plant detail, if present.
func (cm *CacheManager) GetPlant(ctx context.Context, plantID string) (*models.Plant, bool) {
	cached, err := cm.redis.Get(ctx, plantCachePrefix+plantID).Result()
	if err != nil {
		return nil, false
	}
	var plant models.Plant
	if err := json.Unmarshal([]byte(cached), &plant); err != nil {
		return nil, false
	}
	return &plant, true
}

// SetPlantAsync caches a plant detail without blocking the request.
func (cm *CacheManager) SetPlantAsync(plantID string, plant *models.Plant) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(plant)
		if err != nil {
			cm.logger.Warn("Failed to marshal plant for cache", zap.Error(err), zap.String("plant_id", plantID))
			return
		}
		if err := cm.redis.Set(bgCtx, plantCachePrefix+plantID, data, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache plant", zap.Error(err), zap.String("plant_id", plantID))
		}
	}()
}

// InvalidatePlant bumps the list version and drops the plant's detail
// entry. Called on plant creation and on settlement (quantity change).
func (cm *CacheManager) InvalidatePlant(ctx context.Context, plantID string) {
	if _, err := cm.redis.Incr(ctx, cacheVersionKey).Result(); err != nil {
		cm.logger.Error("Failed to bump plant cache version", zap.Error(err), zap.String("plant_id", plantID))
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cm.redis.Del(bgCtx, plantCachePrefix+plantID).Err(); err != nil {
			cm.logger.Warn("Failed to delete plant cache", zap.Error(err), zap.String("plant_id", plantID))
		}
	}()
}

func (cm *CacheManager) listKey(version int64) string {
	return fmt.Sprintf("%s%d:all", plantListCachePrefix, version)
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("failed to read cache version: %w", err)
}
