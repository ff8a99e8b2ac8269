package mood

import (
	"context"
	"math"
)

// Result 單筆情緒分類結果；Label 一律小寫，Confidence 介於 0 與 1
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier 情緒分類能力
type Classifier interface {
	Classify(ctx context.Context, text string, topK int) ([]Result, error)
}

// DefaultLabel 無法解析分類結果時的預設情緒
const DefaultLabel = "neutral"

// Round3 將信心值四捨五入到小數點後三位（僅在對外輸出時使用，
// 快取中保留完整精度）
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
