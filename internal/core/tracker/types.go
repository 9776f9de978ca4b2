// Package tracker 管理每日飲食紀錄、體重紀錄、目標設定與統計分析。
package tracker

import (
	"context"
	"time"

	"nutritrack/internal/core/nutrition"
)

// MealSlot 一天中的餐別時段
type MealSlot string

const (
	SlotBreakfast      MealSlot = "breakfast"
	SlotMorningSnack   MealSlot = "morning_snack"
	SlotLunch          MealSlot = "lunch"
	SlotAfternoonSnack MealSlot = "afternoon_snack"
	SlotDinner         MealSlot = "dinner"
	SlotEveningSnack   MealSlot = "evening_snack"
)

// SlotInfo 時段顯示資訊
type SlotInfo struct {
	ID    MealSlot `json:"id"`
	Name  string   `json:"name"`
	Order int      `json:"order"`
}

// Slots 依顯示順序排列的時段
var Slots = []SlotInfo{
	{SlotBreakfast, "Breakfast", 1},
	{SlotMorningSnack, "After Breakfast Snack", 2},
	{SlotLunch, "Lunch", 3},
	{SlotAfternoonSnack, "After Lunch Snack", 4},
	{SlotDinner, "Dinner", 5},
	{SlotEveningSnack, "After Dinner Snack", 6},
}

// Valid 是否為已知時段
func (s MealSlot) Valid() bool {
	for _, info := range Slots {
		if info.ID == s {
			return true
		}
	}
	return false
}

// 紀錄來源
const (
	SourceManual     = "manual"
	SourceSample     = "sample"
	SourceSuggestion = "suggestion"
	SourceBarcode    = "barcode"
)

// FoodEntry 一筆飲食紀錄，營養值為單份數值
type FoodEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Meal      MealSlot  `json:"meal"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Fat       float64   `json:"fat"`
	Carbs     float64   `json:"carbs"`
	Quantity  float64   `json:"quantity"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Item 轉為加總用項目
func (e FoodEntry) Item() nutrition.Item {
	return nutrition.Item{
		PerUnit:  nutrition.Nutrition{Calories: e.Calories, Protein: e.Protein, Fat: e.Fat, Carbs: e.Carbs},
		Quantity: e.Quantity,
	}
}

// FoodEntryInput 新增或修改紀錄的輸入
type FoodEntryInput struct {
	Meal     MealSlot `json:"meal"`
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Fat      float64  `json:"fat"`
	Carbs    float64  `json:"carbs"`
	Quantity float64  `json:"quantity"`
	Source   string   `json:"source"`
}

// WeightEntry 體重紀錄
type WeightEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Weight    float64   `json:"weight"`
	Week      int       `json:"week"`
	CreatedAt time.Time `json:"created_at"`
}

// Goals 每日目標
type Goals struct {
	CalorieTarget  float64 `json:"calorie_target"`
	ProteinPercent float64 `json:"protein_percent"`
	FatPercent     float64 `json:"fat_percent"`
	CarbPercent    float64 `json:"carb_percent"`
	WeightGoal     float64 `json:"weight_goal"`
}

// DefaultGoals 預設目標
func DefaultGoals() Goals {
	return Goals{
		CalorieTarget:  2000,
		ProteinPercent: 30,
		FatPercent:     30,
		CarbPercent:    40,
		WeightGoal:     160,
	}
}

// MacroTargets 目標克數
func (g Goals) MacroTargets() nutrition.MacroGrams {
	return nutrition.MacroTargets(g.CalorieTarget, g.ProteinPercent, g.FatPercent, g.CarbPercent)
}

// Store 紀錄儲存介面
type Store interface {
	AddEntry(ctx context.Context, e *FoodEntry) error
	UpdateEntry(ctx context.Context, e *FoodEntry) error
	DeleteEntry(ctx context.Context, id string) error
	GetEntry(ctx context.Context, id string) (*FoodEntry, error)
	// ListEntries 回傳 [from, to] 區間內的紀錄，依日期與建立時間排序
	ListEntries(ctx context.Context, from, to string) ([]FoodEntry, error)

	AddWeight(ctx context.Context, w *WeightEntry) error
	CountWeights(ctx context.Context) (int, error)
	// ListWeights 依新增順序回傳
	ListWeights(ctx context.Context) ([]WeightEntry, error)

	// GetGoals 尚未設定時 ok 為 false
	GetGoals(ctx context.Context) (goals Goals, ok bool, err error)
	SaveGoals(ctx context.Context, g Goals) error

	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
