package recipe

import (
	"net/http"

	"nutritrack/internal/api/handlers"
	"nutritrack/internal/core/ingredient"
	"nutritrack/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecognizeRequest 食材辨識請求
type RecognizeRequest struct {
	Ingredients string `json:"ingredients"`
}

// RecognizeResponse 食材辨識響應
type RecognizeResponse struct {
	Recognized []ingredient.RecognizedIngredient `json:"recognized"`
	Count      int                               `json:"count"`
}

// HandleRecognize 處理食材辨識請求
func (h *Handler) HandleRecognize(c *gin.Context) {
	var req RecognizeRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	recognized, err := h.suggestions.RecognizeOnly(c.Request.Context(), req.Ingredients)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogDebug("Ingredients recognized",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("count", len(recognized)),
	)

	c.JSON(http.StatusOK, RecognizeResponse{
		Recognized: recognized,
		Count:      len(recognized),
	})
}
