package mood

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"foodmood-ai/internal/infrastructure/config"
	"foodmood-ai/internal/pkg/common"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store 快取儲存後端
type Store interface {
	// Get 取得快取值；回傳是否命中
	Get(ctx context.Context, key string) ([]Result, bool)
	// Add 寫入快取值；回傳是否觸發淘汰
	Add(ctx context.Context, key string, results []Result) bool
	// Len 目前快取條目數
	Len() int
	// Close 關閉後端
	Close() error
}

// CacheManager 情緒推論快取管理器：包裝一個 Classifier，
// 以 (text, top_k) 為鍵記憶成功的分類結果
type CacheManager struct {
	config     *config.Config
	classifier Classifier
	store      Store
	group      singleflight.Group
	mu         sync.RWMutex
	stats      cacheStats
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewCacheManager 創建快取管理器；快取停用時直接透傳到底層分類器
func NewCacheManager(cfg *config.Config, classifier Classifier) (*CacheManager, error) {
	m := &CacheManager{
		config:     cfg,
		classifier: classifier,
	}

	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return m, nil
	}

	var err error
	switch cfg.Cache.Backend {
	case "redis":
		m.store, err = newRedisStore(cfg.Cache.RedisAddr, cfg.Cache.TTL)
	default:
		m.store, err = newMemoryStore(cfg.Cache.MaxSize)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache store: %w", err)
	}

	common.LogInfo("快取管理員已初始化",
		zap.String("後端", cfg.Cache.Backend),
		zap.Int("最大容量", cfg.Cache.MaxSize),
	)

	return m, nil
}

// Classify 先查快取，未命中才呼叫底層分類器；
// 相同鍵的併發未命中以 singleflight 合併為單一上游呼叫，
// 分類失敗不寫入快取，下次相同請求會重試
func (m *CacheManager) Classify(ctx context.Context, text string, topK int) ([]Result, error) {
	if m.store == nil {
		return m.classifier.Classify(ctx, text, topK)
	}

	key := m.generateKey(text, topK)

	if results, ok := m.store.Get(ctx, key); ok {
		m.recordHit()
		common.LogCacheHit("mood", key)
		return cloneResults(results), nil
	}

	m.recordMiss()
	common.LogCacheMiss("mood", key)

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		// 等待期間可能已有其他請求寫入
		if results, ok := m.store.Get(ctx, key); ok {
			return results, nil
		}

		results, err := m.classifier.Classify(ctx, text, topK)
		if err != nil {
			return nil, err
		}

		if evicted := m.store.Add(ctx, key, results); evicted {
			m.recordEviction()
			common.LogInfo("快取已淘汰(LRU)",
				zap.String("鍵", key),
			)
		}
		return results, nil
	})
	if err != nil {
		m.recordError()
		return nil, err
	}

	return cloneResults(v.([]Result)), nil
}

// generateKey 生成緩存鍵
func (m *CacheManager) generateKey(text string, topK int) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("mood:%d:%s", topK, hex.EncodeToString(hash[:]))
}

// cloneResults 複製結果切片，避免呼叫端改動到快取內容
func cloneResults(results []Result) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	return out
}

func (m *CacheManager) recordHit() {
	m.mu.Lock()
	m.stats.hits++
	m.mu.Unlock()
}

func (m *CacheManager) recordMiss() {
	m.mu.Lock()
	m.stats.misses++
	m.mu.Unlock()
}

func (m *CacheManager) recordEviction() {
	m.mu.Lock()
	m.stats.evictions++
	m.mu.Unlock()
}

func (m *CacheManager) recordError() {
	m.mu.Lock()
	m.stats.errors++
	m.mu.Unlock()
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := 0
	if m.store != nil {
		size = m.store.Len()
	}

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"size":      size,
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉快取管理器
func (m *CacheManager) Close() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)

	if m.store == nil {
		return nil
	}
	return m.store.Close()
}

// memoryStore 行程內固定容量 LRU 後端
type memoryStore struct {
	cache *lru.Cache[string, []Result]
}

func newMemoryStore(maxSize int) (*memoryStore, error) {
	c, err := lru.New[string, []Result](maxSize)
	if err != nil {
		return nil, err
	}
	return &memoryStore{cache: c}, nil
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]Result, bool) {
	return s.cache.Get(key)
}

func (s *memoryStore) Add(ctx context.Context, key string, results []Result) bool {
	return s.cache.Add(key, results)
}

func (s *memoryStore) Len() int {
	return s.cache.Len()
}

func (s *memoryStore) Close() error {
	s.cache.Purge()
	return nil
}
