package recommend

import (
	"foodmood-ai/internal/core/mood"
)

// FallbackTaste 未知情緒固定回退 comfort，與資料表的預設一致
const FallbackTaste = "comfort"

// TastesForMoods 依情緒順序串接各情緒對應的口味列表；
// 查無對應的情緒以單一後備口味代替，重複口味保留
func TastesForMoods(table map[string][]string, moods []mood.Result) []string {
	tastes := make([]string, 0, len(moods))
	for _, m := range moods {
		if list, ok := table[m.Label]; ok && len(list) > 0 {
			tastes = append(tastes, list...)
			continue
		}
		tastes = append(tastes, FallbackTaste)
	}
	return tastes
}

// FoodsForTastes 依口味順序串接候選菜品識別名；
// 查無對應的口味不產生候選
func FoodsForTastes(table map[string][]string, tastes []string) []string {
	foods := make([]string, 0, len(tastes))
	for _, t := range tastes {
		foods = append(foods, table[t]...)
	}
	return foods
}
