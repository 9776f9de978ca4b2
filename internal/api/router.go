// Package api 組裝 HTTP 路由與中間件
package api

import (
	"net/http"
	"time"

	"nutritrack/internal/api/handlers"
	"nutritrack/internal/api/handlers/health"
	recipeHandler "nutritrack/internal/api/handlers/recipe"
	trackerHandler "nutritrack/internal/api/handlers/tracker"
	"nutritrack/internal/api/middleware"
	"nutritrack/internal/core/ai/cache"
	"nutritrack/internal/core/ai/queue"
	recipeService "nutritrack/internal/core/recipe"
	trackerService "nutritrack/internal/core/tracker"
	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/infrastructure/monitoring"
	"nutritrack/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務，Queue、Cache、FoodLookup、Metrics 可為 nil
type Dependencies struct {
	Config      *config.Config
	Suggestions *recipeService.SuggestionService
	Tracker     *trackerService.Service
	FoodLookup  trackerHandler.BarcodeLookup
	Queue       *queue.Manager
	Cache       cache.Cache
	Metrics     *monitoring.Metrics
}

// SetupRouter 設置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Use(func(c *gin.Context) {
		c.Set(handlers.ConfigKey, cfg)
		c.Next()
	})

	// 健康檢查路由
	var cacheStats health.StatsProvider
	if deps.Cache != nil {
		cacheStats = deps.Cache
	}
	healthHandler := health.NewHandler(cfg, deps.Queue, deps.Tracker, cacheStats)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	api.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow)))

	recipes := recipeHandler.NewHandler(deps.Suggestions)
	tracker := trackerHandler.NewHandler(deps.Tracker, deps.FoodLookup)

	{
		api.POST("/ingredients/recognize", recipes.HandleRecognize)

		recipeGroup := api.Group("/recipes")
		recipeGroup.POST("/suggest", recipes.HandleSuggest)
		recipeGroup.GET("/templates", recipes.HandleTemplates)

		foodGroup := api.Group("/foods")
		foodGroup.GET("", tracker.HandleListFoods)
		foodGroup.GET("/barcode/:code", tracker.HandleBarcode)

		logGroup := api.Group("/log/:date")
		logGroup.GET("/entries", tracker.HandleListEntries)
		logGroup.POST("/entries", tracker.HandleAddEntry)
		logGroup.POST("/suggestion", tracker.HandleLogSuggestion)
		logGroup.GET("/summary", tracker.HandleDaySummary)

		api.PUT("/entries/:id", tracker.HandleUpdateEntry)
		api.DELETE("/entries/:id", tracker.HandleDeleteEntry)

		api.GET("/weights", tracker.HandleWeights)
		api.POST("/weights", tracker.HandleAddWeight)
		api.GET("/goals", tracker.HandleGoals)
		api.PUT("/goals", tracker.HandleUpdateGoals)
		api.GET("/insights", tracker.HandleInsights)
		api.GET("/export", tracker.HandleExport)
		api.DELETE("/data", tracker.HandleClear)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: common.ErrNotFound.Message,
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("queue_enabled", deps.Queue != nil),
		zap.Bool("food_lookup_enabled", deps.FoodLookup != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
