package recipe

import (
	"nutritrack/internal/core/ingredient"
	"nutritrack/internal/pkg/common"
)

// 建議結果狀態
const (
	StatusOK      = "ok"
	StatusNoMatch = "no_match"
)

// SuggestionRequest 食譜建議請求
type SuggestionRequest struct {
	Ingredients string `json:"ingredients"`
	MealType    string `json:"meal_type"`
	Cuisine     string `json:"cuisine"`
}

// SuggestionResult 食譜建議結果，沒有可行食譜時 Status 為 no_match 而非錯誤
type SuggestionResult struct {
	Recognized  []ingredient.RecognizedIngredient `json:"recognized"`
	Suggestions []Suggestion                      `json:"suggestions"`
	MealType    common.MealType                   `json:"meal_type"`
	Cuisine     string                            `json:"cuisine,omitempty"`
	Status      string                            `json:"status"`
	Message     string                            `json:"message"`
	CacheHit    bool                              `json:"cache_hit"`
}

// MetricsRecorder 建議流程指標
type MetricsRecorder interface {
	RecordSuggestion(outcome string)
	ObserveRecognized(count int)
}

// 指標結果標籤
const (
	OutcomeOK       = "ok"
	OutcomeNoMatch  = "no_match"
	OutcomeInvalid  = "invalid"
	OutcomeCacheHit = "cache_hit"
	OutcomeError    = "error"
)
