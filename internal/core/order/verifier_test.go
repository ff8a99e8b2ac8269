package order

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"testing"

	"foodmood-ai/internal/core/cart"
	"foodmood-ai/internal/core/catalog"
	"foodmood-ai/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testCart(t *testing.T, dishIDs ...string) *cart.Store {
	t.Helper()
	cat := catalog.New([]catalog.Dish{
		{ID: "samosa", Name: "Samosa", Price: 40},
		{ID: "mango-lassi", Name: "Mango Lassi", Price: 110},
	}, map[string][]string{}, map[string][]string{})

	s := cart.NewStore(cat)
	for _, id := range dishIDs {
		_, err := s.Add(id)
		require.NoError(t, err)
	}
	return s
}

func TestSign(t *testing.T) {
	v := NewVerifier("test-secret", testCart(t))

	// 參考簽章：HMAC-SHA256(secret, "order|payment") 的十六進位編碼
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte("order_123|pay_456"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, v.Sign("order_123", "pay_456"))

	// 相同輸入必得相同簽章
	assert.Equal(t, v.Sign("order_123", "pay_456"), v.Sign("order_123", "pay_456"))

	// 不同密鑰產生不同簽章
	other := NewVerifier("other-secret", testCart(t))
	assert.NotEqual(t, v.Sign("order_123", "pay_456"), other.Sign("order_123", "pay_456"))
}

func TestVerifySuccess(t *testing.T) {
	c := testCart(t, "samosa", "mango-lassi")
	v := NewVerifier("test-secret", c)

	status, err := v.Verify("order_123", "pay_456", v.Sign("order_123", "pay_456"))
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, status)

	// 購物車已清空，訂單帶著清空前的快照
	assert.Zero(t, c.Len())
	orders := v.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "order_123", orders[0].OrderID)
	assert.Equal(t, "pay_456", orders[0].PaymentID)
	require.Len(t, orders[0].CartSnapshot, 2)
	assert.Equal(t, "samosa", orders[0].CartSnapshot[0].ID)
	assert.False(t, orders[0].CreatedAt.IsZero())
}

func TestVerifyInvalidSignature(t *testing.T) {
	c := testCart(t, "samosa")
	v := NewVerifier("test-secret", c)

	status, err := v.Verify("order_123", "pay_456", "deadbeef")
	// 簽章不符是正常的負向結果，不是錯誤
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, status)

	// 購物車不動、不產生訂單
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, v.Orders())
}

func TestVerifySignatureForDifferentIDs(t *testing.T) {
	c := testCart(t, "samosa")
	v := NewVerifier("test-secret", c)

	// 別的交易的有效簽章，對這筆交易無效
	status, err := v.Verify("order_123", "pay_456", v.Sign("order_999", "pay_456"))
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, status)
}

func TestVerifyMissingFields(t *testing.T) {
	v := NewVerifier("test-secret", testCart(t, "samosa"))
	sig := v.Sign("order_123", "pay_456")

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"missing order_id", "", "pay_456", sig},
		{"missing payment_id", "order_123", "", sig},
		{"missing signature", "order_123", "pay_456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := v.Verify(tt.orderID, tt.paymentID, tt.signature)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
			assert.Equal(t, StatusRejected, status)
			assert.Empty(t, v.Orders())
		})
	}
}

func TestVerifyDoesNotLoseConcurrentAdds(t *testing.T) {
	c := testCart(t)
	v := NewVerifier("test-secret", c)

	// 驗證期間的併發 Add 必須落在訂單快照或驗證後的購物車，
	// 任何一筆都不能憑空消失
	const goroutines = 64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err := c.Add("samosa")
			assert.NoError(t, err)
		}()
	}

	close(start)
	status, err := v.Verify("order_123", "pay_456", v.Sign("order_123", "pay_456"))
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, StatusVerified, status)

	orders := v.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, goroutines, len(orders[0].CartSnapshot)+c.Len())
}

func TestOrdersAppendOnly(t *testing.T) {
	c := testCart(t, "samosa")
	v := NewVerifier("test-secret", c)

	_, err := v.Verify("order_1", "pay_1", v.Sign("order_1", "pay_1"))
	require.NoError(t, err)

	_, err = c.Add("mango-lassi")
	require.NoError(t, err)
	_, err = v.Verify("order_2", "pay_2", v.Sign("order_2", "pay_2"))
	require.NoError(t, err)

	orders := v.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "order_1", orders[0].OrderID)
	assert.Equal(t, "order_2", orders[1].OrderID)

	// 第一筆訂單的快照不受後續購物車活動影響
	require.Len(t, orders[0].CartSnapshot, 1)
	assert.Equal(t, "samosa", orders[0].CartSnapshot[0].ID)
	require.Len(t, orders[1].CartSnapshot, 1)
	assert.Equal(t, "mango-lassi", orders[1].CartSnapshot[0].ID)
}

func TestOrdersReturnsCopy(t *testing.T) {
	c := testCart(t, "samosa")
	v := NewVerifier("test-secret", c)

	_, err := v.Verify("order_1", "pay_1", v.Sign("order_1", "pay_1"))
	require.NoError(t, err)

	orders := v.Orders()
	orders[0].OrderID = "mutated"

	assert.Equal(t, "order_1", v.Orders()[0].OrderID)
}
