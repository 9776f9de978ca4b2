package tracker

import (
	"net/http"

	"nutritrack/internal/api/handlers"
	trackerService "nutritrack/internal/core/tracker"
	"nutritrack/internal/infrastructure/foodlookup"
	"nutritrack/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BarcodeResponse 條碼查詢結果與可直接新增的紀錄
type BarcodeResponse struct {
	Product *foodlookup.Product           `json:"product"`
	Entry   trackerService.FoodEntryInput `json:"entry"`
}

// HandleListFoods GET /foods?q=
func (h *Handler) HandleListFoods(c *gin.Context) {
	foods := trackerService.SampleFoods(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"foods": foods, "count": len(foods)})
}

// HandleBarcode GET /foods/barcode/:code
func (h *Handler) HandleBarcode(c *gin.Context) {
	if h.lookup == nil {
		handlers.RespondError(c, common.ErrServiceUnavailable)
		return
	}

	product, err := h.lookup.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("Barcode resolved",
		zap.String("request_id", requestid.Get(c)),
		zap.String("barcode", product.Barcode),
	)

	c.JSON(http.StatusOK, BarcodeResponse{
		Product: product,
		Entry: trackerService.FoodEntryInput{
			Meal:     trackerService.SlotBreakfast,
			Name:     product.Name,
			Calories: product.Calories,
			Protein:  product.Protein,
			Fat:      product.Fat,
			Carbs:    product.Carbs,
			Quantity: 1,
			Source:   trackerService.SourceBarcode,
		},
	})
}
