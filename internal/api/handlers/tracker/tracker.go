// Package tracker 飲食紀錄、體重、目標與統計的 HTTP 處理器
package tracker

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"nutritrack/internal/api/handlers"
	recipeService "nutritrack/internal/core/recipe"
	trackerService "nutritrack/internal/core/tracker"
	"nutritrack/internal/infrastructure/foodlookup"
	"nutritrack/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// BarcodeLookup 條碼查詢
type BarcodeLookup interface {
	Lookup(ctx context.Context, barcode string) (*foodlookup.Product, error)
}

// Handler 追蹤處理程序
type Handler struct {
	svc    *trackerService.Service
	lookup BarcodeLookup
}

// NewHandler lookup 為 nil 時條碼查詢回傳 503
func NewHandler(svc *trackerService.Service, lookup BarcodeLookup) *Handler {
	return &Handler{svc: svc, lookup: lookup}
}

// dateParam 路徑中的日期，today 視為今日
func dateParam(c *gin.Context) string {
	d := c.Param("date")
	if strings.EqualFold(d, "today") {
		return ""
	}
	return d
}

// HandleListEntries GET /log/:date/entries
func (h *Handler) HandleListEntries(c *gin.Context) {
	entries, err := h.svc.ListEntries(c.Request.Context(), dateParam(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// HandleAddEntry POST /log/:date/entries
func (h *Handler) HandleAddEntry(c *gin.Context) {
	var in trackerService.FoodEntryInput
	if err := handlers.BindJSON(c, &in); err != nil {
		handlers.RespondError(c, err)
		return
	}

	entry, err := h.svc.AddEntry(c.Request.Context(), dateParam(c), in)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// HandleUpdateEntry PUT /entries/:id
func (h *Handler) HandleUpdateEntry(c *gin.Context) {
	var in trackerService.FoodEntryInput
	if err := handlers.BindJSON(c, &in); err != nil {
		handlers.RespondError(c, err)
		return
	}

	entry, err := h.svc.UpdateEntry(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// HandleDeleteEntry DELETE /entries/:id
func (h *Handler) HandleDeleteEntry(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogSuggestionRequest 將建議記為一餐
type LogSuggestionRequest struct {
	Meal       trackerService.MealSlot  `json:"meal"`
	Suggestion recipeService.Suggestion `json:"suggestion"`
}

// HandleLogSuggestion POST /log/:date/suggestion
func (h *Handler) HandleLogSuggestion(c *gin.Context) {
	var req LogSuggestionRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	entry, err := h.svc.LogSuggestion(c.Request.Context(), dateParam(c), req.Meal, req.Suggestion)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// HandleDaySummary GET /log/:date/summary
func (h *Handler) HandleDaySummary(c *gin.Context) {
	summary, err := h.svc.DaySummary(c.Request.Context(), dateParam(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// WeightRequest 新增體重
type WeightRequest struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// HandleWeights GET /weights
func (h *Handler) HandleWeights(c *gin.Context) {
	summary, err := h.svc.WeightSummary(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleAddWeight POST /weights
func (h *Handler) HandleAddWeight(c *gin.Context) {
	var req WeightRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	entry, err := h.svc.AddWeight(c.Request.Context(), req.Date, req.Weight)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// HandleGoals GET /goals
func (h *Handler) HandleGoals(c *gin.Context) {
	goals, err := h.svc.Goals(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals, "macro_targets": goals.MacroTargets()})
}

// HandleUpdateGoals PUT /goals
func (h *Handler) HandleUpdateGoals(c *gin.Context) {
	var goals trackerService.Goals
	if err := handlers.BindJSON(c, &goals); err != nil {
		handlers.RespondError(c, err)
		return
	}

	saved, err := h.svc.UpdateGoals(c.Request.Context(), goals)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": saved, "macro_targets": saved.MacroTargets()})
}

// HandleInsights GET /insights?from=&to=
func (h *Handler) HandleInsights(c *gin.Context) {
	insights, err := h.svc.Insights(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// HandleExport GET /export?format=json|csv
func (h *Handler) HandleExport(c *gin.Context) {
	ctx := c.Request.Context()
	filename := "nutrition-data-" + common.Today()

	switch format := strings.ToLower(c.DefaultQuery("format", "json")); format {
	case "json":
		data, err := h.svc.Export(ctx)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, filename))
		c.JSON(http.StatusOK, data)
	case "csv":
		var buf bytes.Buffer
		if err := h.svc.ExportCSV(ctx, &buf); err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		handlers.RespondError(c, common.NewFieldValidationError("format", "format must be json or csv"))
	}
}

// HandleClear DELETE /data
func (h *Handler) HandleClear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
