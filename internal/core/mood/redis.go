package mood

import (
	"context"
	"fmt"
	"time"

	"foodmood-ai/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// redisStore Redis 快取後端；多實例部署時可共用同一份情緒推論結果
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisStore(addr string, ttl time.Duration) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]Result, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("Redis 快取讀取失敗", zap.Error(err))
		}
		return nil, false
	}

	var results []Result
	if err := common.ParseJSONBytes(data, &results); err != nil {
		common.LogWarn("Redis 快取內容解析失敗", zap.Error(err))
		return nil, false
	}
	return results, true
}

func (s *redisStore) Add(ctx context.Context, key string, results []Result) bool {
	data, err := common.ToJSON(results)
	if err != nil {
		common.LogWarn("Redis 快取序列化失敗", zap.Error(err))
		return false
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		common.LogWarn("Redis 快取寫入失敗", zap.Error(err))
	}
	// Redis 以 TTL 管理容量，不回報 LRU 淘汰
	return false
}

func (s *redisStore) Len() int {
	n, err := s.client.DBSize(context.Background()).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
