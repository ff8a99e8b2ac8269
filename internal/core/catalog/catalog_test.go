package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"foodmood-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foods.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogFile(t, `{
		"dishes": [
			{"id": "gulab-jamun", "name": "Gulab Jamun", "price": 90, "tags": ["sweet", "comfort"]},
			{"id": "samosa", "name": "Samosa", "price": 40, "tags": ["savory"]}
		],
		"mood_to_taste": {"joy": ["sweet"]},
		"taste_to_food": {"sweet": ["gulab-jamun"]}
	}`)

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cat.Dishes, 2)
	assert.Equal(t, []string{"sweet"}, cat.MoodToTaste["joy"])
	assert.Equal(t, []string{"gulab-jamun"}, cat.TasteToFood["sweet"])

	d, ok := cat.FindByID("samosa")
	require.True(t, ok)
	assert.Equal(t, "Samosa", d.Name)

	_, ok = cat.FindByID("no-such-dish")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadInvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no dishes",
			content: `{"dishes": [], "mood_to_taste": {"joy": ["sweet"]}, "taste_to_food": {"sweet": ["a"]}}`,
		},
		{
			name:    "missing mood table",
			content: `{"dishes": [{"id": "a", "name": "A"}], "taste_to_food": {"sweet": ["a"]}}`,
		},
		{
			name:    "missing taste table",
			content: `{"dishes": [{"id": "a", "name": "A"}], "mood_to_taste": {"joy": ["sweet"]}}`,
		},
		{
			name:    "dish without id",
			content: `{"dishes": [{"name": "A"}], "mood_to_taste": {"joy": ["sweet"]}, "taste_to_food": {"sweet": ["a"]}}`,
		},
		{
			name:    "duplicate dish id",
			content: `{"dishes": [{"id": "a", "name": "A"}, {"id": "a", "name": "B"}], "mood_to_taste": {"joy": ["sweet"]}, "taste_to_food": {"sweet": ["a"]}}`,
		},
		{
			name:    "not json",
			content: `not json at all`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCatalogFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDishHasTag(t *testing.T) {
	d := Dish{ID: "a", Tags: []string{"sweet", "comfort"}}
	assert.True(t, d.HasTag("comfort"))
	assert.False(t, d.HasTag("spicy"))
	assert.False(t, Dish{ID: "b"}.HasTag("comfort"))
}
