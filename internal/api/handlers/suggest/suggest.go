package suggest

import (
	"errors"
	"net/http"

	"foodmood-ai/internal/core/recommend"
	"foodmood-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuggestRequest 情緒選餐請求
type SuggestRequest struct {
	Text string `json:"text"` // 使用者輸入的心情描述
}

// Handler 情緒選餐處理程序
type Handler struct {
	recommendService *recommend.Service
}

// NewHandler 創建新的情緒選餐處理程序
func NewHandler(recommendService *recommend.Service) *Handler {
	return &Handler{
		recommendService: recommendService,
	}
}

// HandleSuggest 依心情文字推薦菜品
func (h *Handler) HandleSuggest(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理情緒選餐請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	suggestion, err := h.recommendService.Suggest(c.Request.Context(), req.Text)
	if err != nil {
		// 輸入問題回 400，分類器問題回 500
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var ce *common.ClassificationError
		if errors.As(err, &ce) {
			common.LogError("情緒分類失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(common.ErrClassifierError.Status, common.ErrClassifierError.Response(ce.Detail))
			return
		}
		common.LogError("推薦服務錯誤",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	common.LogInfo("情緒選餐完成",
		zap.String("request_id", requestID),
		zap.Int("dishes", len(suggestion.Dishes)),
	)

	c.JSON(http.StatusOK, suggestion)
}
