package mood

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"foodmood-ai/internal/infrastructure/config"
	"foodmood-ai/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://api-inference.huggingface.co"

// HFClient Hugging Face Inference API 客戶端
type HFClient struct {
	config *config.Config
	client *resty.Client
}

// NewHFClient 創建情緒分類客戶端
func NewHFClient(cfg *config.Config) *HFClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.HuggingFace.Timeout)

	if cfg.HuggingFace.APIKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.HuggingFace.APIKey))
	}

	return &HFClient{
		config: cfg,
		client: client,
	}
}

// labelScore 上游回應的單筆 label/score
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify 呼叫分類模型並將回應正規化為排序後的情緒結果
func (c *HFClient) Classify(ctx context.Context, text string, topK int) ([]Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewValidationError("text is required")
	}
	if topK < 1 {
		topK = 1
	}

	// 構建請求
	req := map[string]interface{}{
		"inputs": text,
	}

	// 發送請求
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/models/" + c.config.HuggingFace.Model)
	common.LogClassifierCall(text, time.Since(start), err, "")

	if err != nil {
		// 傳輸層失敗（含超時）不可降級，帶上游細節向上傳遞
		return nil, common.NewClassificationError("failed to call classifier", err.Error(), err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("分類服務回傳錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.HuggingFace.Model),
		)
		return nil, common.NewClassificationError("classifier returned non-success status",
			fmt.Sprintf("status %d: %s", resp.StatusCode(), resp.String()), nil)
	}

	// 解析回應；無法辨識的形狀降級為 neutral，而非失敗
	items, ok := decodeLabelScores(resp.Body())
	if !ok {
		common.LogWarn("分類回應形狀無法辨識，回退為 neutral",
			zap.String("model", c.config.HuggingFace.Model),
		)
		return []Result{{Label: DefaultLabel, Confidence: 1.0}}, nil
	}

	return normalizeResults(items, topK), nil
}

// decodeLabelScores 以明確的三分支解析回應形狀：
// (a) 平面列表 (b) 單層巢狀列表 (c) 無法辨識
func decodeLabelScores(body []byte) ([]labelScore, bool) {
	// (a) 平面列表：[{"label":...,"score":...}, ...]
	var flat []labelScore
	if err := common.ParseJSONBytes(body, &flat); err == nil && len(flat) > 0 && flat[0].Label != "" {
		return flat, true
	}

	// (b) 巢狀列表：[[{"label":...,"score":...}, ...]]
	var nested [][]labelScore
	if err := common.ParseJSONBytes(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 && nested[0][0].Label != "" {
		return nested[0], true
	}

	// (c) 無法辨識
	return nil, false
}

// normalizeResults 小寫化標籤、依信心值穩定排序（同分保留上游順序）並截斷到 topK
func normalizeResults(items []labelScore, topK int) []Result {
	results := make([]Result, 0, len(items))
	for _, it := range items {
		results = append(results, Result{
			Label:      strings.ToLower(it.Label),
			Confidence: it.Score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// Close 關閉客戶端
func (c *HFClient) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
