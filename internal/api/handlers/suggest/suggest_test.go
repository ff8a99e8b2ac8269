package suggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"foodmood-ai/internal/core/catalog"
	"foodmood-ai/internal/core/mood"
	"foodmood-ai/internal/core/recommend"
	"foodmood-ai/internal/infrastructure/config"
	"foodmood-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubClassifier 回傳固定結果的測試分類器
type stubClassifier struct {
	results []mood.Result
	err     error
}

func (s *stubClassifier) Classify(ctx context.Context, text string, topK int) ([]mood.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func setupRouter(classifier mood.Classifier) *gin.Engine {
	cat := catalog.New(
		[]catalog.Dish{
			{ID: "gulab-jamun", Name: "Gulab Jamun", Tags: []string{"sweet", "comfort"}},
			{ID: "mango-lassi", Name: "Mango Lassi", Tags: []string{"sweet"}},
		},
		map[string][]string{"joy": {"sweet"}},
		map[string][]string{"sweet": {"gulab-jamun", "mango-lassi"}},
	)
	cfg := &config.Config{HuggingFace: config.HuggingFaceConfig{TopK: 1}}

	h := NewHandler(recommend.NewService(cfg, classifier, cat))
	r := gin.New()
	r.POST("/api/suggest", h.HandleSuggest)
	return r
}

func postSuggest(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleSuggest(t *testing.T) {
	r := setupRouter(&stubClassifier{results: []mood.Result{{Label: "joy", Confidence: 0.93149}}})

	w := postSuggest(r, `{"text": "what a lovely morning"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"joy"`)
	assert.Contains(t, body, `0.931`)
	assert.Contains(t, body, `"gulab-jamun"`)
	assert.Contains(t, body, `"mango-lassi"`)
}

func TestHandleSuggestEmptyText(t *testing.T) {
	r := setupRouter(&stubClassifier{results: []mood.Result{{Label: "joy", Confidence: 0.9}}})

	for _, body := range []string{`{"text": ""}`, `{"text": "   "}`, `{}`} {
		w := postSuggest(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %q", body)
	}
}

func TestHandleSuggestInvalidBody(t *testing.T) {
	r := setupRouter(&stubClassifier{})

	w := postSuggest(r, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSuggestClassifierFailure(t *testing.T) {
	r := setupRouter(&stubClassifier{
		err: common.NewClassificationError("failed to call classifier", "connection refused", nil),
	})

	w := postSuggest(r, `{"text": "hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeClassifierError)
	assert.Contains(t, w.Body.String(), "connection refused")
}
