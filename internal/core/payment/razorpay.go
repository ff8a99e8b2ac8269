package payment

import (
	"fmt"

	"foodmood-ai/internal/infrastructure/config"
	"foodmood-ai/internal/pkg/common"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// Service 支付網關服務：只負責下單，回應原樣透傳給前端
type Service struct {
	config *config.Config
	client *razorpay.Client
}

// NewService 創建支付網關服務
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
	}
}

// CreateOrder 在支付網關建立訂單；amount 以最小貨幣單位（paise）計
func (s *Service) CreateOrder(amount int64) (map[string]interface{}, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("amount must be a positive integer")
	}

	data := map[string]interface{}{
		"amount":          amount,
		"currency":        s.config.Razorpay.Currency,
		"payment_capture": 1, // 自動請款
	}

	body, err := s.client.Order.Create(data, nil)
	if err != nil {
		common.LogError("支付網關下單失敗",
			zap.Error(err),
			zap.Int64("amount", amount),
		)
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	common.LogInfo("支付網關訂單已建立",
		zap.Int64("amount", amount),
		zap.String("currency", s.config.Razorpay.Currency),
	)
	return body, nil
}
