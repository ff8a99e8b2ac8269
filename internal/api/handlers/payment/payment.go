package payment

import (
	"net/http"

	"foodmood-ai/internal/core/order"
	"foodmood-ai/internal/core/payment"
	"foodmood-ai/internal/infrastructure/config"
	"foodmood-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrderRequest 建立支付訂單請求；金額以最小貨幣單位計
type CreateOrderRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// VerifyPaymentRequest 支付回調驗證請求
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Handler 支付處理程序
type Handler struct {
	config         *config.Config
	paymentService *payment.Service
	verifier       *order.Verifier
}

// NewHandler 創建新的支付處理程序
func NewHandler(cfg *config.Config, paymentService *payment.Service, verifier *order.Verifier) *Handler {
	return &Handler{
		config:         cfg,
		paymentService: paymentService,
		verifier:       verifier,
	}
}

// HandleCreateOrder 在支付網關建立訂單
func (h *Handler) HandleCreateOrder(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	body, err := h.paymentService.CreateOrder(req.Amount)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("建立支付訂單失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrPaymentGatewayDown.Status, common.ErrPaymentGatewayDown.Response(""))
		return
	}

	// 回傳網關訂單與前端結帳所需的公開金鑰
	c.JSON(http.StatusOK, gin.H{
		"order":  body,
		"key_id": h.config.Razorpay.KeyID,
	})
}

// HandleVerifyPayment 驗證支付回調簽章
func (h *Handler) HandleVerifyPayment(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	status, err := h.verifier.Verify(req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("支付驗證錯誤",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// 簽章不符是正常的負向結果，仍回 200
	if status == order.StatusVerified {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "failed"})
}
