package recipe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"nutritrack/internal/core/ai/cache"
	"nutritrack/internal/core/ai/queue"
	"nutritrack/internal/core/ingredient"
	"nutritrack/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	messageNoIngredients = "No recognizable ingredients found. Try more common ingredients like chicken, rice or broccoli."
	messageNoRecipes     = "No recipes match these ingredients. Try adding more common ingredients."
)

// SuggestionOptions 建議服務的可選元件，皆可為零值
type SuggestionOptions struct {
	Cache           cache.Cache
	Queue           *queue.Manager
	ProcessingDelay time.Duration
	Metrics         MetricsRecorder
}

// SuggestionService 食譜推薦服務
type SuggestionService struct {
	recognizer *ingredient.Recognizer
	generator  *Generator
	cache      cache.Cache
	queue      *queue.Manager
	delay      time.Duration
	metrics    MetricsRecorder
}

// NewSuggestionService 創建新的食譜推薦服務
func NewSuggestionService(recognizer *ingredient.Recognizer, generator *Generator, opts SuggestionOptions) *SuggestionService {
	return &SuggestionService{
		recognizer: recognizer,
		generator:  generator,
		cache:      opts.Cache,
		queue:      opts.Queue,
		delay:      opts.ProcessingDelay,
		metrics:    opts.Metrics,
	}
}

// Templates 目前的食譜模板
func (s *SuggestionService) Templates() []Template {
	return s.generator.Catalog().Templates()
}

// RecognizeOnly 只執行食材辨識
func (s *SuggestionService) RecognizeOnly(ctx context.Context, text string) ([]ingredient.RecognizedIngredient, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewFieldValidationError("ingredients", "please enter at least one ingredient")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recognized := s.recognizer.Recognize(text)
	s.observeRecognized(len(recognized))
	return recognized, nil
}

// Suggest 根據輸入食材推薦食譜
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestionRequest) (*SuggestionResult, error) {
	// 驗證必要欄位
	if strings.TrimSpace(req.Ingredients) == "" {
		s.record(OutcomeInvalid)
		return nil, common.NewFieldValidationError("ingredients", "please enter at least one ingredient")
	}
	mealPref, err := common.ParseMealType(req.MealType)
	if err != nil {
		s.record(OutcomeInvalid)
		return nil, err
	}
	cuisine := strings.ToLower(strings.TrimSpace(req.Cuisine))

	key := buildSuggestionKey(req.Ingredients, mealPref, cuisine)

	if cached, ok := s.fromCache(ctx, key); ok {
		s.record(OutcomeCacheHit)
		return cached, nil
	}

	run := func(ctx context.Context) (interface{}, error) {
		if err := s.simulateProcessing(ctx); err != nil {
			return nil, err
		}
		return s.generate(req.Ingredients, mealPref, cuisine), nil
	}

	var value interface{}
	if s.queue != nil {
		value, err = s.queue.Submit(ctx, run)
	} else {
		value, err = run(ctx)
	}
	if err != nil {
		s.record(OutcomeError)
		common.LogWarn("Suggestion processing failed", zap.Error(err))
		return nil, err
	}

	result, ok := value.(*SuggestionResult)
	if !ok {
		s.record(OutcomeError)
		return nil, fmt.Errorf("unexpected suggestion result type %T", value)
	}

	s.record(result.Status)
	s.toCache(ctx, key, result)

	common.LogInfo("Recipe suggestions generated",
		zap.Int("recognized", len(result.Recognized)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.String("meal_type", string(mealPref)),
		zap.String("status", result.Status),
	)

	return result, nil
}

func (s *SuggestionService) generate(text string, mealPref common.MealType, cuisine string) *SuggestionResult {
	recognized := s.recognizer.Recognize(text)
	s.observeRecognized(len(recognized))

	result := &SuggestionResult{
		Recognized: recognized,
		MealType:   mealPref,
		Cuisine:    cuisine,
	}

	result.Suggestions = s.generator.Generate(recognized, mealPref, cuisine)

	switch {
	case len(recognized) == 0:
		result.Status = StatusNoMatch
		result.Message = messageNoIngredients
	case len(result.Suggestions) == 0:
		result.Status = StatusNoMatch
		result.Message = messageNoRecipes
	default:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Found %d recipe suggestions", len(result.Suggestions))
	}

	return result
}

// simulateProcessing 模擬 AI 處理時間，可被 ctx 取消
func (s *SuggestionService) simulateProcessing(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SuggestionService) fromCache(ctx context.Context, key string) (*SuggestionResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("Suggestion cache lookup failed", zap.Error(err))
		}
		return nil, false
	}

	var result SuggestionResult
	if err := common.ParseJSON(val, &result); err != nil {
		common.LogWarn("Discarding unreadable cached suggestion", zap.Error(err))
		return nil, false
	}
	result.CacheHit = true
	return &result, true
}

func (s *SuggestionService) toCache(ctx context.Context, key string, result *SuggestionResult) {
	if s.cache == nil {
		return
	}

	data, err := common.ToJSON(result)
	if err != nil {
		common.LogWarn("Failed to encode suggestion for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		common.LogWarn("Failed to store suggestion in cache", zap.Error(err))
	}
}

func (s *SuggestionService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordSuggestion(outcome)
	}
}

func (s *SuggestionService) observeRecognized(n int) {
	if s.metrics != nil {
		s.metrics.ObserveRecognized(n)
	}
}

// buildSuggestionKey 正規化後的輸入產生快取鍵
func buildSuggestionKey(text string, mealPref common.MealType, cuisine string) string {
	normalized := strings.Join(ingredient.Tokenize(text), ",")
	sum := sha256.Sum256([]byte(normalized + "|" + string(mealPref) + "|" + cuisine))
	return hex.EncodeToString(sum[:])
}
