package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutritrack/internal/api"
	trackerHandler "nutritrack/internal/api/handlers/tracker"
	"nutritrack/internal/core/ai/cache"
	"nutritrack/internal/core/ai/queue"
	"nutritrack/internal/core/ingredient"
	"nutritrack/internal/core/recipe"
	"nutritrack/internal/core/tracker"
	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/infrastructure/foodlookup"
	"nutritrack/internal/infrastructure/monitoring"
	"nutritrack/internal/infrastructure/persistence/sqlite"
	"nutritrack/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("storage_path", cfg.Storage.Path),
	)

	// 食材分類與食譜模板
	taxonomy, err := ingredient.LoadTaxonomyFile(cfg.Catalog.TaxonomyFile)
	if err != nil {
		common.LogFatal("Failed to load ingredient taxonomy", zap.Error(err))
	}
	catalog, err := recipe.LoadCatalogFile(cfg.Catalog.TemplatesFile)
	if err != nil {
		common.LogFatal("Failed to load recipe templates", zap.Error(err))
	}
	common.LogInfo("Catalog loaded",
		zap.Int("ingredients", taxonomy.Len()),
		zap.Int("templates", len(catalog.Templates())),
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	suggestionCache, err := cache.New(initCtx, cfg)
	initCancel()
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if suggestionCache != nil {
		defer suggestionCache.Close()
	}

	var queueManager *queue.Manager
	if cfg.Queue.Enabled {
		queueManager = queue.NewManager(cfg.Queue)
		queueManager.Start()
		defer queueManager.Close()
	}

	store, err := sqlite.NewStore(cfg.Storage.Path)
	if err != nil {
		common.LogFatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	var lookup trackerHandler.BarcodeLookup
	if cfg.FoodLookup.Enabled {
		lookup = foodlookup.NewClient(cfg.FoodLookup)
	}

	metrics := monitoring.NewMetrics()

	suggestions := recipe.NewSuggestionService(
		ingredient.NewRecognizer(taxonomy),
		recipe.NewGenerator(catalog),
		recipe.SuggestionOptions{
			Cache:           suggestionCache,
			Queue:           queueManager,
			ProcessingDelay: cfg.Suggestion.ProcessingDelay,
			Metrics:         metrics,
		},
	)

	router := api.SetupRouter(api.Dependencies{
		Config:      cfg,
		Suggestions: suggestions,
		Tracker:     tracker.NewService(store),
		FoodLookup:  lookup,
		Queue:       queueManager,
		Cache:       suggestionCache,
		Metrics:     metrics,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
