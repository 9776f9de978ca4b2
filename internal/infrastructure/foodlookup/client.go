// Package foodlookup 以條碼查詢 Open Food Facts 產品營養資訊
package foodlookup

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// barcodePattern EAN-8、UPC-A、EAN-13、GTIN-14
var barcodePattern = regexp.MustCompile(`^[0-9]{8,14}$`)

// Product 條碼查詢結果，營養值為每 100g
type Product struct {
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Serving  string  `json:"serving"`
}

// productResponse Open Food Facts v0 產品回應
type productResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		Nutriments  struct {
			EnergyKcal100g    float64 `json:"energy-kcal_100g"`
			Proteins100g      float64 `json:"proteins_100g"`
			Fat100g           float64 `json:"fat_100g"`
			Carbohydrates100g float64 `json:"carbohydrates_100g"`
		} `json:"nutriments"`
	} `json:"product"`
}

// Client 條碼查詢客戶端
type Client struct {
	client *resty.Client
}

// NewClient 創建查詢客戶端
func NewClient(cfg config.FoodLookupConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "nutritrack/1.0")

	return &Client{client: client}
}

// ValidBarcode 條碼是否為 8 到 14 位數字
func ValidBarcode(code string) bool {
	return barcodePattern.MatchString(code)
}

// Lookup 依條碼查詢產品
func (c *Client) Lookup(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if !ValidBarcode(barcode) {
		return nil, common.NewFieldValidationError("barcode", "barcode must be 8 to 14 digits")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("code", barcode).
		Get("/api/v0/product/{code}.json")
	if err != nil {
		common.LogError("Food lookup request failed", zap.String("barcode", barcode), zap.Error(err))
		return nil, common.ErrLookupFailed.Wrap(fmt.Errorf("failed to send lookup request: %w", err))
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, common.ErrFoodNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrLookupFailed.Wrap(fmt.Errorf("lookup returned status %d", resp.StatusCode()))
	}

	var result productResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.ErrLookupFailed.Wrap(fmt.Errorf("failed to parse lookup response: %w", err))
	}

	// status 0 表示查無此產品
	if result.Status != 1 {
		return nil, common.ErrFoodNotFound
	}

	name := strings.TrimSpace(result.Product.ProductName)
	if name == "" {
		name = "Product " + barcode
	}

	n := result.Product.Nutriments
	product := &Product{
		Barcode:  barcode,
		Name:     name,
		Brand:    strings.TrimSpace(result.Product.Brands),
		Calories: n.EnergyKcal100g,
		Protein:  n.Proteins100g,
		Fat:      n.Fat100g,
		Carbs:    n.Carbohydrates100g,
		Serving:  "100g",
	}

	common.LogDebug("Food lookup succeeded", zap.String("barcode", barcode), zap.String("name", name))
	return product, nil
}
