package cart

import (
	"net/http"

	cartStore "foodmood-ai/internal/core/cart"
	"foodmood-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartRequest 購物車變更請求
type CartRequest struct {
	ID string `json:"id" binding:"required"` // 菜品 ID
}

// Handler 購物車處理程序
type Handler struct {
	store *cartStore.Store
}

// NewHandler 創建新的購物車處理程序
func NewHandler(store *cartStore.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// HandleList 取得購物車內容
func (h *Handler) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cart": h.store.List(),
	})
}

// HandleAdd 將菜品加入購物車
func (h *Handler) HandleAdd(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	items, err := h.store.Add(req.ID)
	if err != nil {
		if common.IsNotFoundError(err) {
			c.JSON(common.ErrDishNotFound.Status, common.ErrDishNotFound.Response(err.Error()))
			return
		}
		common.LogError("加入購物車失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": items,
	})
}

// HandleRemove 移除購物車中所有符合 ID 的項目
func (h *Handler) HandleRemove(c *gin.Context) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": h.store.Remove(req.ID),
	})
}
