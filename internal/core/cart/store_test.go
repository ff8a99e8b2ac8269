package cart

import (
	"os"
	"sync"
	"testing"

	"foodmood-ai/internal/core/catalog"
	"foodmood-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Dish{
		{ID: "samosa", Name: "Samosa", Price: 40},
		{ID: "mango-lassi", Name: "Mango Lassi", Price: 110},
	}, map[string][]string{}, map[string][]string{})
}

func TestAddAndList(t *testing.T) {
	s := NewStore(testCatalog())

	assert.Empty(t, s.List())

	items, err := s.Add("samosa")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Samosa", items[0].Name)

	// 重複加入同一菜品，每次都追加一筆
	items, err = s.Add("samosa")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = s.Add("mango-lassi")
	require.NoError(t, err)
	require.Len(t, items, 3)
	// 保留插入順序
	assert.Equal(t, "samosa", items[0].ID)
	assert.Equal(t, "samosa", items[1].ID)
	assert.Equal(t, "mango-lassi", items[2].ID)
}

func TestAddUnknownDish(t *testing.T) {
	s := NewStore(testCatalog())

	_, err := s.Add("no-such-dish")
	require.Error(t, err)
	assert.True(t, common.IsNotFoundError(err))
	assert.Zero(t, s.Len())
}

func TestRemoveAllMatching(t *testing.T) {
	s := NewStore(testCatalog())
	_, _ = s.Add("samosa")
	_, _ = s.Add("mango-lassi")
	_, _ = s.Add("samosa")

	// 移除所有符合 ID 的項目，不只第一筆
	items := s.Remove("samosa")
	require.Len(t, items, 1)
	assert.Equal(t, "mango-lassi", items[0].ID)

	// 移除不存在的 ID 是 no-op
	items = s.Remove("no-such-dish")
	assert.Len(t, items, 1)
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewStore(testCatalog())
	_, _ = s.Add("samosa")

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)

	// 之後的變更不影響既有快照
	_, _ = s.Add("mango-lassi")
	s.Clear()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "samosa", snapshot[0].ID)
}

func TestClear(t *testing.T) {
	s := NewStore(testCatalog())
	_, _ = s.Add("samosa")
	_, _ = s.Add("mango-lassi")

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.List())
}

func TestSnapshotAndClear(t *testing.T) {
	s := NewStore(testCatalog())
	_, _ = s.Add("samosa")
	_, _ = s.Add("mango-lassi")

	snapshot := s.SnapshotAndClear()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "samosa", snapshot[0].ID)
	assert.Zero(t, s.Len())

	// 快照是值複本，與之後的購物車脫鉤
	_, _ = s.Add("samosa")
	assert.Len(t, snapshot, 2)
}

func TestSnapshotAndClearAtomicWithAdds(t *testing.T) {
	s := NewStore(testCatalog())

	// 每個併發 Add 必須落在快照或清空後的購物車其中一邊，
	// 不允許兩邊都沒有
	const goroutines = 64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Add("samosa")
			assert.NoError(t, err)
		}()
	}

	snapshot := s.SnapshotAndClear()
	wg.Wait()

	assert.Equal(t, goroutines, len(snapshot)+s.Len())
}

func TestConcurrentMutations(t *testing.T) {
	s := NewStore(testCatalog())

	const goroutines = 32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Add("samosa")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 每次 Add 都生效，不會互相覆蓋
	assert.Equal(t, goroutines, s.Len())
}
