package catalog

import (
	"fmt"
	"os"

	"foodmood-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// Dish 菜品
type Dish struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Price       int      `json:"price"`
	Tags        []string `json:"tags,omitempty"`
}

// HasTag 檢查菜品是否帶有指定標籤
func (d Dish) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog 菜品目錄：啟動時載入一次，之後只讀
type Catalog struct {
	Dishes      []Dish              `json:"dishes"`
	MoodToTaste map[string][]string `json:"mood_to_taste"`
	TasteToFood map[string][]string `json:"taste_to_food"`

	byID map[string]Dish
}

// New 以現成的資料建立目錄（測試或內嵌資料用）
func New(dishes []Dish, moodToTaste, tasteToFood map[string][]string) *Catalog {
	cat := &Catalog{
		Dishes:      dishes,
		MoodToTaste: moodToTaste,
		TasteToFood: tasteToFood,
		byID:        make(map[string]Dish, len(dishes)),
	}
	for _, d := range dishes {
		cat.byID[d.ID] = d
	}
	return cat
}

// Load 從 JSON 檔案載入菜品目錄與口味對照表；檔案缺失或內容不完整視為致命錯誤
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var cat Catalog
	if err := common.ParseJSONBytes(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	// 驗證必要內容
	if len(cat.Dishes) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no dishes", path)
	}
	if len(cat.MoodToTaste) == 0 {
		return nil, fmt.Errorf("catalog file %s missing mood_to_taste table", path)
	}
	if len(cat.TasteToFood) == 0 {
		return nil, fmt.Errorf("catalog file %s missing taste_to_food table", path)
	}

	// 建立 ID 索引
	cat.byID = make(map[string]Dish, len(cat.Dishes))
	for _, d := range cat.Dishes {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog file %s contains a dish without id", path)
		}
		if _, exists := cat.byID[d.ID]; exists {
			return nil, fmt.Errorf("catalog file %s contains duplicate dish id %s", path, d.ID)
		}
		cat.byID[d.ID] = d
	}

	common.LogInfo("菜品目錄已載入",
		zap.String("路徑", path),
		zap.Int("菜品數量", len(cat.Dishes)),
		zap.Int("情緒對照數量", len(cat.MoodToTaste)),
		zap.Int("口味對照數量", len(cat.TasteToFood)),
	)

	return &cat, nil
}

// FindByID 依 ID 查找菜品
func (c *Catalog) FindByID(id string) (Dish, bool) {
	d, ok := c.byID[id]
	return d, ok
}
