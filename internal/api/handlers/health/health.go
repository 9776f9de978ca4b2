// Package health 健康檢查處理器
package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"nutritrack/internal/core/ai/queue"
	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readyTimeout 就緒檢查中儲存層 ping 的期限
const readyTimeout = 2 * time.Second

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider 可回報統計的依賴
type StatsProvider interface {
	Stats() map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg     *config.Config
	queue   *queue.Manager
	store   Pinger
	cache   StatsProvider
	started time.Time
}

// NewHandler queue 與 cache 可為 nil
func NewHandler(cfg *config.Config, q *queue.Manager, store Pinger, cache StatsProvider) *Handler {
	return &Handler{
		cfg:     cfg,
		queue:   q,
		store:   store,
		cache:   cache,
		started: time.Now(),
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.queue != nil {
		response.Queue = h.queue.GetQueueStatus()
	}
	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 儲存層可連線且隊列未關閉才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	checks := gin.H{}
	ready := true

	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		common.LogWarn("Readiness check failed", zap.String("component", "storage"), zap.Error(err))
		checks["storage"] = "unavailable"
		ready = false
	} else {
		checks["storage"] = "ok"
	}

	if h.queue != nil {
		if status := h.queue.GetQueueStatus(); status.Closed {
			checks["queue"] = "closed"
			ready = false
		} else {
			checks["queue"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "alive",
		"goroutines": runtime.NumGoroutine(),
	})
}
