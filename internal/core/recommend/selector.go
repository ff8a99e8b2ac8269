package recommend

import (
	"foodmood-ai/internal/core/catalog"
)

// MaxSuggestions 單次推薦的菜品數量上限
const MaxSuggestions = 6

// fallbackTag 候選集合為空時的後備標籤
const fallbackTag = "comfort"

// SelectDishes 將候選識別名對到菜品目錄：依目錄順序（而非候選順序）
// 過濾，依 ID 去重（先見先留），截斷到上限；
// 無任何匹配時改推所有帶 comfort 標籤的菜品。
// 純函數：相同輸入必得相同輸出
func SelectDishes(cat *catalog.Catalog, candidates []string) []catalog.Dish {
	want := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		want[c] = struct{}{}
	}

	seen := make(map[string]struct{}, MaxSuggestions)
	dishes := make([]catalog.Dish, 0, MaxSuggestions)
	for _, d := range cat.Dishes {
		if _, okID := want[d.ID]; !okID {
			if _, okName := want[d.Name]; !okName {
				continue
			}
		}
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		dishes = append(dishes, d)
		if len(dishes) == MaxSuggestions {
			return dishes
		}
	}

	if len(dishes) > 0 {
		return dishes
	}

	// 後備：目錄順序下所有 comfort 菜品
	for _, d := range cat.Dishes {
		if !d.HasTag(fallbackTag) {
			continue
		}
		dishes = append(dishes, d)
		if len(dishes) == MaxSuggestions {
			break
		}
	}
	return dishes
}
