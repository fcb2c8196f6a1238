package logics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schoolhub-server/internal/models"
	"schoolhub-server/internal/repositories"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keys for the named settings groups.
const (
	cacheKeySystemSettings = "cache:system_settings"
	cacheKeySessionYearFmt = "cache:session_year:%d"
	settingsCacheTTL       = 12 * time.Hour
)

// SettingsCache is the get/set/invalidate collaborator keyed by named
// settings groups.
type SettingsCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, key string)
}

// redisSettingsCache backs SettingsCache with Redis. Cache failures are
// logged and treated as misses.
type redisSettingsCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSettingsCache creates a Redis-backed SettingsCache.
func NewSettingsCache(client *redis.Client, logger *zap.Logger) SettingsCache {
	return &redisSettingsCache{client: client, logger: logger}
}

func (c *redisSettingsCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Settings cache read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, true
}

func (c *redisSettingsCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("Settings cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisSettingsCache) Del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Settings cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// SettingsService provides cached access to system settings and session year
// lookups.
type SettingsService struct {
	repo   repositories.SettingsRepository
	cache  SettingsCache
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo repositories.SettingsRepository, cache SettingsCache, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, cache: cache, logger: logger}
}

// SystemSettings returns all settings as a name->value map, cached in Redis.
func (s *SettingsService) SystemSettings(ctx context.Context) (map[string]string, error) {
	if cached, ok := s.cache.Get(ctx, cacheKeySystemSettings); ok {
		settings := map[string]string{}
		if err := json.Unmarshal([]byte(cached), &settings); err == nil {
			return settings, nil
		}
	}

	rows, err := s.repo.AllSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Name] = row.Data
	}

	if encoded, err := json.Marshal(settings); err == nil {
		s.cache.Set(ctx, cacheKeySystemSettings, string(encoded), settingsCacheTTL)
	}
	return settings, nil
}

// UpsertSuperAdminName mirrors the Super Admin display name into the global
// settings table and invalidates the cached settings group.
func (s *SettingsService) UpsertSuperAdminName(ctx context.Context, fullName string) error {
	if err := s.repo.UpsertSetting(ctx, models.SettingSuperAdminName, fullName, "string"); err != nil {
		return err
	}
	s.cache.Del(ctx, cacheKeySystemSettings)
	return nil
}

// DefaultSessionYear returns the school's default session year, cached per
// school.
func (s *SettingsService) DefaultSessionYear(ctx context.Context, schoolID uint) (*models.SessionYear, error) {
	key := fmt.Sprintf(cacheKeySessionYearFmt, schoolID)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var year models.SessionYear
		if err := json.Unmarshal([]byte(cached), &year); err == nil {
			return &year, nil
		}
	}

	year, err := s.repo.DefaultSessionYear(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(year); err == nil {
		s.cache.Set(ctx, key, string(encoded), settingsCacheTTL)
	}
	return year, nil
}
