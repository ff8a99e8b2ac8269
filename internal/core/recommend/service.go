package recommend

import (
	"context"
	"strings"

	"foodmood-ai/internal/core/catalog"
	"foodmood-ai/internal/core/mood"
	"foodmood-ai/internal/infrastructure/config"
	"foodmood-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// Suggestion 推薦結果
type Suggestion struct {
	Moods  []mood.Result  `json:"moods"`
	Tastes []string       `json:"tastes"`
	Dishes []catalog.Dish `json:"dishes"`
}

// Service 情緒選餐服務：文字 → 情緒 → 口味 → 菜品
type Service struct {
	classifier mood.Classifier
	catalog    *catalog.Catalog
	topK       int
}

// NewService 創建情緒選餐服務；classifier 通常是包了快取的分類器
func NewService(cfg *config.Config, classifier mood.Classifier, cat *catalog.Catalog) *Service {
	return &Service{
		classifier: classifier,
		catalog:    cat,
		topK:       cfg.HuggingFace.TopK,
	}
}

// Suggest 依輸入文字推薦菜品
func (s *Service) Suggest(ctx context.Context, text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.NewValidationError("text is required")
	}

	moods, err := s.classifier.Classify(ctx, text, s.topK)
	if err != nil {
		return nil, err
	}

	tastes := TastesForMoods(s.catalog.MoodToTaste, moods)
	candidates := FoodsForTastes(s.catalog.TasteToFood, tastes)
	dishes := SelectDishes(s.catalog, candidates)

	common.LogDebug("推薦完成",
		zap.Int("情緒數量", len(moods)),
		zap.Int("候選數量", len(candidates)),
		zap.Int("推薦數量", len(dishes)),
	)

	// 信心值只在對外輸出時取到小數點後三位
	rounded := make([]mood.Result, len(moods))
	for i, m := range moods {
		rounded[i] = mood.Result{
			Label:      m.Label,
			Confidence: mood.Round3(m.Confidence),
		}
	}

	return &Suggestion{
		Moods:  rounded,
		Tastes: tastes,
		Dishes: dishes,
	}, nil
}
