package recommend

import (
	"os"
	"testing"

	"foodmood-ai/internal/core/mood"
	"foodmood-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestTastesForMoods(t *testing.T) {
	table := map[string][]string{
		"joy":     {"sweet", "fresh"},
		"sadness": {"comfort", "sweet"},
		"empty":   {},
	}

	tests := []struct {
		name  string
		moods []mood.Result
		want  []string
	}{
		{
			name:  "known mood",
			moods: []mood.Result{{Label: "joy"}},
			want:  []string{"sweet", "fresh"},
		},
		{
			name:  "moods concatenated in order with duplicates kept",
			moods: []mood.Result{{Label: "joy"}, {Label: "sadness"}},
			want:  []string{"sweet", "fresh", "comfort", "sweet"},
		},
		{
			name:  "unknown mood falls back",
			moods: []mood.Result{{Label: "ennui"}},
			want:  []string{FallbackTaste},
		},
		{
			name:  "empty mapping treated as unknown",
			moods: []mood.Result{{Label: "empty"}},
			want:  []string{FallbackTaste},
		},
		{
			name:  "no moods",
			moods: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TastesForMoods(table, tt.moods))
		})
	}
}

func TestFoodsForTastes(t *testing.T) {
	table := map[string][]string{
		"sweet":   {"gulab-jamun", "rasmalai"},
		"comfort": {"dal-khichdi", "gulab-jamun"},
	}

	// 依口味順序串接，重複候選保留
	foods := FoodsForTastes(table, []string{"sweet", "comfort"})
	assert.Equal(t, []string{"gulab-jamun", "rasmalai", "dal-khichdi", "gulab-jamun"}, foods)

	// 未知口味不產生候選
	foods = FoodsForTastes(table, []string{"umami", "sweet"})
	assert.Equal(t, []string{"gulab-jamun", "rasmalai"}, foods)

	assert.Empty(t, FoodsForTastes(table, nil))
}
