// Package recipe 食材辨識與食譜建議的 HTTP 處理器
package recipe

import (
	"net/http"

	"nutritrack/internal/api/handlers"
	recipeService "nutritrack/internal/core/recipe"
	"nutritrack/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	suggestions *recipeService.SuggestionService
}

// NewHandler 創建新的食譜處理程序
func NewHandler(suggestions *recipeService.SuggestionService) *Handler {
	return &Handler{suggestions: suggestions}
}

// HandleSuggest 依食材與偏好推薦食譜
func (h *Handler) HandleSuggest(c *gin.Context) {
	requestID := requestid.Get(c)

	var req recipeService.SuggestionRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	result, err := h.suggestions.Suggest(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("食譜推薦完成",
		zap.String("request_id", requestID),
		zap.String("status", result.Status),
		zap.Int("recognized", len(result.Recognized)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Bool("cache_hit", result.CacheHit),
	)

	c.JSON(http.StatusOK, result)
}

// HandleTemplates 列出食譜模板
func (h *Handler) HandleTemplates(c *gin.Context) {
	templates := h.suggestions.Templates()
	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"count":     len(templates),
	})
}
