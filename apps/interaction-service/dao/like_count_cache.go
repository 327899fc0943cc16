package dao

import (
	"context"
	"strconv"
	"time"

	"collide-social/apps/interaction-service/model"
	"collide-social/pkg/logger"
	"collide-social/pkg/redis"
)

// LikeCountCache 点赞数缓存存储
type LikeCountCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedLikeCounter 带Redis缓存的点赞计数器
type CachedLikeCounter struct {
	likeDAO LikeDAO
	cache   LikeCountCache
	ttl     time.Duration
	logger  logger.Logger
}

// NewCachedLikeCounter 创建点赞计数器，cache为nil时直接查库
func NewCachedLikeCounter(likeDAO LikeDAO, cache LikeCountCache, ttl time.Duration, log logger.Logger) *CachedLikeCounter {
	return &CachedLikeCounter{
		likeDAO: likeDAO,
		cache:   cache,
		ttl:     ttl,
		logger:  log,
	}
}

// CountTargetLikes 获取目标的有效点赞数
func (c *CachedLikeCounter) CountTargetLikes(ctx context.Context, targetID int64, likeType string) (int64, error) {
	key := model.GetLikeCountKey(likeType, targetID)

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key)
		if err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
			c.logger.Warn(ctx, "Invalid cached like count", logger.F("key", key), logger.F("value", cached))
		} else if !redis.IsNil(err) {
			c.logger.Warn(ctx, "Failed to read like count cache", logger.F("key", key), logger.F("error", err.Error()))
		}
	}

	count, err := c.likeDAO.CountTargetLikes(ctx, targetID, likeType)
	if err != nil {
		return 0, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, count, c.ttl); err != nil {
			c.logger.Warn(ctx, "Failed to write like count cache", logger.F("key", key), logger.F("error", err.Error()))
		}
	}
	return count, nil
}

// Invalidate 删除目标点赞数缓存
func (c *CachedLikeCounter) Invalidate(ctx context.Context, likeType string, targetID int64) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Del(ctx, model.GetLikeCountKey(likeType, targetID))
}
