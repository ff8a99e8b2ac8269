package api

import (
	"context"
	"fmt"
	"time"

	cartHandler "foodmood-ai/internal/api/handlers/cart"
	"foodmood-ai/internal/api/handlers/health"
	paymentHandler "foodmood-ai/internal/api/handlers/payment"
	suggestHandler "foodmood-ai/internal/api/handlers/suggest"
	"foodmood-ai/internal/api/middleware"
	cartStore "foodmood-ai/internal/core/cart"
	"foodmood-ai/internal/core/catalog"
	"foodmood-ai/internal/core/mood"
	"foodmood-ai/internal/core/order"
	"foodmood-ai/internal/core/payment"
	"foodmood-ai/internal/core/recommend"
	"foodmood-ai/internal/infrastructure/config"
	"foodmood-ai/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cat *catalog.Catalog, cacheManager *mood.CacheManager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求去重與限流
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.HuggingFace.Model),
		zap.Int("dishes", len(cat.Dishes)),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化情緒選餐服務；分類器統一經過快取管理器
	recommendSvc := recommend.NewService(cfg, cacheManager, cat)
	if recommendSvc == nil {
		common.LogError("Failed to initialize recommend service")
		return nil, fmt.Errorf("failed to initialize recommend service")
	}

	// 初始化購物車與訂單驗證
	cart := cartStore.NewStore(cat)
	verifier := order.NewVerifier(cfg.Razorpay.KeySecret, cart)

	// 初始化支付網關服務
	paymentSvc := payment.NewService(cfg)
	if paymentSvc == nil {
		common.LogError("Failed to initialize payment service")
		return nil, fmt.Errorf("failed to initialize payment service")
	}

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置與快取管理器（供健康檢查使用）
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(common.ErrRequestTimeout.Status, common.ErrRequestTimeout.Response(timeoutDuration.String()))
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/ping", health.Ping)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api")
	{
		suggestHandlerInstance := suggestHandler.NewHandler(recommendSvc)
		cartHandlerInstance := cartHandler.NewHandler(cart)
		paymentHandlerInstance := paymentHandler.NewHandler(cfg, paymentSvc, verifier)

		// 情緒選餐
		api.POST("/suggest", suggestHandlerInstance.HandleSuggest)

		// 購物車
		api.GET("/cart", cartHandlerInstance.HandleList)
		api.POST("/cart", cartHandlerInstance.HandleAdd)
		api.DELETE("/cart", cartHandlerInstance.HandleRemove)

		// 支付
		api.POST("/create_order", paymentHandlerInstance.HandleCreateOrder)
		api.POST("/verify_payment", paymentHandlerInstance.HandleVerifyPayment)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
