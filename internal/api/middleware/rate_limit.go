package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"foodmood-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 呼叫外部分類模型的路徑，消耗上游配額，限流必須比一般路徑嚴格
const classifierPath = "/api/suggest"

// 一般路徑（購物車、結帳、查詢）相對分類路徑的額度倍數
const generalBudgetFactor = 4

// tokenBucket 令牌桶
type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // 每秒補充的令牌數
	last     time.Time
}

func newTokenBucket(requests int, window time.Duration) *tokenBucket {
	capacity := float64(requests)
	return &tokenBucket{
		tokens:   capacity,
		capacity: capacity,
		rate:     capacity / window.Seconds(),
		last:     time.Now(),
	}
}

func (b *tokenBucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RateLimit 限流中間件。設定值給的是分類路徑的額度；
// 其餘路徑不打上游模型，共用一個放寬數倍的桶
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	classifierBucket := newTokenBucket(requests, window)
	generalBucket := newTokenBucket(requests*generalBudgetFactor, window)

	return func(c *gin.Context) {
		bucket := generalBucket
		if c.Request.URL.Path == classifierPath {
			bucket = classifierBucket
		}

		if !bucket.allow() {
			common.LogWarn("限流拒絕請求",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "Too many requests",
				Details: fmt.Sprintf("retry after %s", window),
			})
			return
		}

		c.Next()
	}
}
