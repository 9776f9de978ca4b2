package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service Redis 快取，多個實例共用建議結果
type Service struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	hits   int64
	misses int64
}

// NewService 創建 Redis 緩存服務並測試連線
func NewService(ctx context.Context, cacheCfg config.CacheConfig, redisCfg config.RedisConfig) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線",
		zap.String("addr", redisCfg.Addr),
		zap.Duration("ttl", cacheCfg.TTL),
	)

	return newService(client, redisCfg.Prefix, cacheCfg.TTL), nil
}

func newService(client *redis.Client, prefix string, ttl time.Duration) *Service {
	return &Service{client: client, prefix: prefix, ttl: ttl}
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.generateKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&s.misses, 1)
			common.LogCacheMiss("suggestion")
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	atomic.AddInt64(&s.hits, 1)
	common.LogCacheHit("suggestion")
	return val, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.generateKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 命中統計
func (s *Service) Stats() map[string]interface{} {
	return map[string]interface{}{
		"backend": "redis",
		"hits":    atomic.LoadInt64(&s.hits),
		"misses":  atomic.LoadInt64(&s.misses),
	}
}

// Close 關閉連線
func (s *Service) Close() error {
	return s.client.Close()
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(key string) string {
	return s.prefix + key
}
