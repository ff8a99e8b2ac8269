package order

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"foodmood-ai/internal/core/cart"
	"foodmood-ai/internal/core/catalog"
	"foodmood-ai/internal/pkg/common"

	"go.uber.org/zap"
)

// Status 訂單狀態機：
// PENDING_ORDER_CREATED → VERIFYING → VERIFIED 或 REJECTED
type Status string

const (
	StatusPendingOrderCreated Status = "PENDING_ORDER_CREATED"
	StatusVerifying           Status = "VERIFYING"
	StatusVerified            Status = "VERIFIED"
	StatusRejected            Status = "REJECTED"
)

// Order 驗證通過的交易紀錄；CartSnapshot 是驗證當下購物車的值複本，
// 與之後的購物車變更脫鉤
type Order struct {
	OrderID      string         `json:"order_id"`
	PaymentID    string         `json:"payment_id"`
	CartSnapshot []catalog.Dish `json:"cart_snapshot"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Verifier 支付驗證引擎：核對回調簽章，通過後把購物車升級為訂單紀錄。
// 訂單列表只追加，不修改、不刪除
type Verifier struct {
	secret []byte
	cart   *cart.Store
	mu     sync.Mutex
	orders []Order
}

// NewVerifier 創建支付驗證引擎
func NewVerifier(secret string, cartStore *cart.Store) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		cart:   cartStore,
		orders: make([]Order, 0),
	}
}

// Sign 計算參考簽章：以部署密鑰對 "{order_id}|{payment_id}" 的
// UTF-8 位元組做 HMAC-SHA256，十六進位編碼
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify 驗證支付回調。三個欄位皆為必填，缺一即回傳 ValidationError，
// 不做任何密碼學運算。簽章吻合：先快照購物車、追加訂單、再清空購物車
// （順序固定，避免遺失內容）；不吻合：REJECTED，購物車不動、不產生訂單。
// 簽章不符是正常的負向結果，不是錯誤
func (v *Verifier) Verify(orderID, paymentID, signature string) (Status, error) {
	if orderID == "" {
		return StatusRejected, common.NewValidationError("order_id is required")
	}
	if paymentID == "" {
		return StatusRejected, common.NewValidationError("payment_id is required")
	}
	if signature == "" {
		return StatusRejected, common.NewValidationError("signature is required")
	}

	// 驗證、快照與清空在同一臨界區內，與其他回調序列化
	v.mu.Lock()
	defer v.mu.Unlock()

	status := StatusVerifying
	expected := v.Sign(orderID, paymentID)

	// 常數時間比較
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		status = StatusRejected
		common.LogWarn("支付簽章驗證失敗",
			zap.String("order_id", orderID),
			zap.String("payment_id", paymentID),
		)
		return status, nil
	}

	status = StatusVerified

	// 快照與清空在購物車的單一臨界區內完成，
	// 併發的 Add 不會落在快照之後、清空之前而遺失
	snapshot := v.cart.SnapshotAndClear()
	v.orders = append(v.orders, Order{
		OrderID:      orderID,
		PaymentID:    paymentID,
		CartSnapshot: snapshot,
		CreatedAt:    time.Now(),
	})

	common.LogInfo("支付驗證成功，訂單已建立",
		zap.String("order_id", orderID),
		zap.String("payment_id", paymentID),
		zap.Int("items", len(snapshot)),
	)
	return status, nil
}

// Orders 目前的訂單紀錄（複本）
func (v *Verifier) Orders() []Order {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Order, len(v.orders))
	copy(out, v.orders)
	return out
}
