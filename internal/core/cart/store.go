package cart

import (
	"fmt"
	"sync"

	"foodmood-ai/internal/core/catalog"
	"foodmood-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 購物車儲存：單一會話的有序菜品列表。
// 所有變更都經過互斥鎖序列化，避免併發請求互相覆蓋
type Store struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog
	items   []catalog.Dish
}

// NewStore 創建購物車
func NewStore(cat *catalog.Catalog) *Store {
	return &Store{
		catalog: cat,
		items:   make([]catalog.Dish, 0),
	}
}

// List 目前購物車內容（插入順序的複本）
func (s *Store) List() []catalog.Dish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Add 依 ID 將菜品加入購物車；未知 ID 不改動購物車並回傳 NotFoundError。
// 重複加入同一菜品是允許的，每次 Add 都追加一筆
func (s *Store) Add(dishID string) ([]catalog.Dish, error) {
	dish, ok := s.catalog.FindByID(dishID)
	if !ok {
		return nil, common.NewNotFoundError(fmt.Sprintf("dish %s not found", dishID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, dish)
	common.LogInfo("菜品已加入購物車",
		zap.String("dish_id", dishID),
		zap.Int("cart_size", len(s.items)),
	)
	return s.snapshotLocked(), nil
}

// Remove 移除購物車中所有符合 ID 的項目（不只第一筆）
func (s *Store) Remove(dishID string) []catalog.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, d := range s.items {
		if d.ID != dishID {
			kept = append(kept, d)
		}
	}
	s.items = kept

	common.LogInfo("菜品已移出購物車",
		zap.String("dish_id", dishID),
		zap.Int("cart_size", len(s.items)),
	)
	return s.snapshotLocked()
}

// Snapshot 取得目前內容的值複本；後續購物車變更不影響複本
func (s *Store) Snapshot() []catalog.Dish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Clear 清空購物車
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]catalog.Dish, 0)
}

// SnapshotAndClear 在同一臨界區內取得值複本並清空購物車。
// 結帳時必須用這個而非 Snapshot+Clear 兩段呼叫：兩段呼叫之間
// 穿插的 Add 會既不在快照、也不在清空後的購物車
func (s *Store) SnapshotAndClear() []catalog.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshotLocked()
	s.items = make([]catalog.Dish, 0)
	return snapshot
}

// Len 目前項目數
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) snapshotLocked() []catalog.Dish {
	out := make([]catalog.Dish, len(s.items))
	copy(out, s.items)
	return out
}
