package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"nutritrack/internal/core/nutrition"
	"nutritrack/internal/core/recipe"
	"nutritrack/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 飲食追蹤服務
type Service struct {
	store Store
	now   func() time.Time
}

// NewService 創建追蹤服務
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Ping 檢查儲存層
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) today() string {
	return s.now().Format(common.DateLayout)
}

func (s *Service) parseDate(date string) (string, error) {
	if date == "" {
		return s.today(), nil
	}
	return common.ParseDate(date)
}

// validateEntryInput 驗證並補齊預設值
func validateEntryInput(in FoodEntryInput) (FoodEntryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, common.NewFieldValidationError("name", "food name is required")
	}
	if in.Meal == "" {
		in.Meal = SlotBreakfast
	}
	if !in.Meal.Valid() {
		return in, common.NewFieldValidationError("meal", fmt.Sprintf("unknown meal slot %q", in.Meal))
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"calories", in.Calories},
		{"protein", in.Protein},
		{"fat", in.Fat},
		{"carbs", in.Carbs},
		{"quantity", in.Quantity},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return in, common.NewFieldValidationError(f.name, f.name+" must be a non-negative number")
		}
	}

	// 未填份量視為 1
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Source == "" {
		in.Source = SourceManual
	}
	return in, nil
}

// AddEntry 新增飲食紀錄
func (s *Service) AddEntry(ctx context.Context, date string, in FoodEntryInput) (*FoodEntry, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	in, err = validateEntryInput(in)
	if err != nil {
		return nil, err
	}

	entry := &FoodEntry{
		ID:        common.GenerateUUID(),
		Date:      day,
		Meal:      in.Meal,
		Name:      in.Name,
		Calories:  in.Calories,
		Protein:   in.Protein,
		Fat:       in.Fat,
		Carbs:     in.Carbs,
		Quantity:  in.Quantity,
		Source:    in.Source,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddEntry(ctx, entry); err != nil {
		return nil, err
	}

	common.LogInfo("Food entry added",
		zap.String("id", entry.ID),
		zap.String("date", entry.Date),
		zap.String("meal", string(entry.Meal)),
	)
	return entry, nil
}

// UpdateEntry 修改飲食紀錄，日期與建立時間不變
func (s *Service) UpdateEntry(ctx context.Context, id string, in FoodEntryInput) (*FoodEntry, error) {
	existing, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Source == "" {
		in.Source = existing.Source
	}
	in, err = validateEntryInput(in)
	if err != nil {
		return nil, err
	}

	existing.Meal = in.Meal
	existing.Name = in.Name
	existing.Calories = in.Calories
	existing.Protein = in.Protein
	existing.Fat = in.Fat
	existing.Carbs = in.Carbs
	existing.Quantity = in.Quantity
	existing.Source = in.Source

	if err := s.store.UpdateEntry(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteEntry 刪除飲食紀錄
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	common.LogInfo("Food entry deleted", zap.String("id", id))
	return nil
}

// ListEntries 某日的所有紀錄
func (s *Service) ListEntries(ctx context.Context, date string) ([]FoodEntry, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, day, day)
}

// LogSuggestion 將食譜建議記為一筆飲食紀錄
func (s *Service) LogSuggestion(ctx context.Context, date string, meal MealSlot, suggestion recipe.Suggestion) (*FoodEntry, error) {
	if meal == "" {
		meal = slotForMealType(suggestion.MealType)
	}
	return s.AddEntry(ctx, date, FoodEntryInput{
		Meal:     meal,
		Name:     suggestion.Name,
		Calories: suggestion.Nutrition.Calories,
		Protein:  suggestion.Nutrition.Protein,
		Fat:      suggestion.Nutrition.Fat,
		Carbs:    suggestion.Nutrition.Carbs,
		Quantity: 1,
		Source:   SourceSuggestion,
	})
}

func slotForMealType(m common.MealType) MealSlot {
	switch m {
	case common.MealTypeBreakfast:
		return SlotBreakfast
	case common.MealTypeLunch:
		return SlotLunch
	default:
		return SlotDinner
	}
}

// MealSummary 單一時段的紀錄與小計
type MealSummary struct {
	SlotInfo
	Entries []FoodEntry         `json:"entries"`
	Totals  nutrition.Nutrition `json:"totals"`
}

// MacroProgress 營養素達成百分比
type MacroProgress struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// DaySummary 每日摘要
type DaySummary struct {
	Date              string               `json:"date"`
	Meals             []MealSummary        `json:"meals"`
	Totals            nutrition.Nutrition  `json:"totals"`
	CalorieTarget     float64              `json:"calorie_target"`
	RemainingCalories float64              `json:"remaining_calories"`
	MacroTargets      nutrition.MacroGrams `json:"macro_targets"`
	Progress          MacroProgress        `json:"progress"`
}

// DaySummary 依時段彙整某日紀錄並與目標比較
func (s *Service) DaySummary(ctx context.Context, date string) (*DaySummary, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, day, day)
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}

	bySlot := make(map[MealSlot][]FoodEntry, len(Slots))
	for _, e := range entries {
		bySlot[e.Meal] = append(bySlot[e.Meal], e)
	}

	summary := &DaySummary{
		Date:          day,
		Meals:         make([]MealSummary, 0, len(Slots)),
		CalorieTarget: goals.CalorieTarget,
		MacroTargets:  goals.MacroTargets(),
	}

	all := make([]nutrition.Item, 0, len(entries))
	for _, slot := range Slots {
		slotEntries := bySlot[slot.ID]
		items := make([]nutrition.Item, len(slotEntries))
		for i, e := range slotEntries {
			items[i] = e.Item()
		}
		all = append(all, items...)

		if slotEntries == nil {
			slotEntries = []FoodEntry{}
		}
		summary.Meals = append(summary.Meals, MealSummary{
			SlotInfo: slot,
			Entries:  slotEntries,
			Totals:   nutrition.Sum(items),
		})
	}

	summary.Totals = nutrition.Sum(all)
	summary.RemainingCalories = nutrition.Remaining(goals.CalorieTarget, summary.Totals.Calories)
	summary.Progress = MacroProgress{
		Calories: nutrition.Progress(summary.Totals.Calories, goals.CalorieTarget),
		Protein:  nutrition.Progress(summary.Totals.Protein, summary.MacroTargets.Protein),
		Fat:      nutrition.Progress(summary.Totals.Fat, summary.MacroTargets.Fat),
		Carbs:    nutrition.Progress(summary.Totals.Carbs, summary.MacroTargets.Carbs),
	}

	return summary, nil
}

// AddWeight 新增體重紀錄，週數為既有筆數加一
func (s *Service) AddWeight(ctx context.Context, date string, weight float64) (*WeightEntry, error) {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return nil, common.NewFieldValidationError("weight", "weight must be greater than zero")
	}
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountWeights(ctx)
	if err != nil {
		return nil, err
	}

	entry := &WeightEntry{
		ID:        common.GenerateUUID(),
		Date:      day,
		Weight:    weight,
		Week:      count + 1,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddWeight(ctx, entry); err != nil {
		return nil, err
	}

	common.LogInfo("Weight logged", zap.String("date", day), zap.Int("week", entry.Week))
	return entry, nil
}

// recentWeightCount 摘要中顯示的最近筆數
const recentWeightCount = 5

// WeightSummary 體重摘要
type WeightSummary struct {
	Latest      *WeightEntry  `json:"latest"`
	Goal        float64       `json:"goal"`
	ToGoal      float64       `json:"to_goal"`
	TotalChange float64       `json:"total_change"`
	Recent      []WeightEntry `json:"recent"`
	Entries     []WeightEntry `json:"entries"`
}

// WeightSummary 最新體重、距離目標與最近紀錄（新到舊）
func (s *Service) WeightSummary(ctx context.Context) (*WeightSummary, error) {
	weights, err := s.store.ListWeights(ctx)
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}

	summary := &WeightSummary{
		Goal:    goals.WeightGoal,
		Recent:  []WeightEntry{},
		Entries: weights,
	}
	if summary.Entries == nil {
		summary.Entries = []WeightEntry{}
	}
	if len(weights) == 0 {
		return summary, nil
	}

	latest := weights[len(weights)-1]
	summary.Latest = &latest
	summary.ToGoal = round1(math.Abs(latest.Weight - goals.WeightGoal))
	summary.TotalChange = round1(latest.Weight - weights[0].Weight)

	for i := len(weights) - 1; i >= 0 && len(summary.Recent) < recentWeightCount; i-- {
		summary.Recent = append(summary.Recent, weights[i])
	}
	return summary, nil
}

// Goals 目前目標，未設定時為預設值
func (s *Service) Goals(ctx context.Context) (Goals, error) {
	g, ok, err := s.store.GetGoals(ctx)
	if err != nil {
		return Goals{}, err
	}
	if !ok {
		return DefaultGoals(), nil
	}
	return g, nil
}

// UpdateGoals 驗證並儲存目標
func (s *Service) UpdateGoals(ctx context.Context, g Goals) (Goals, error) {
	if g.CalorieTarget <= 0 {
		return Goals{}, common.NewFieldValidationError("calorie_target", "calorie target must be greater than zero")
	}
	if g.ProteinPercent < 0 || g.FatPercent < 0 || g.CarbPercent < 0 {
		return Goals{}, common.NewFieldValidationError("macros", "macronutrient percentages must not be negative")
	}
	if math.Abs(g.ProteinPercent+g.FatPercent+g.CarbPercent-100) > 1e-9 {
		return Goals{}, common.NewFieldValidationError("macros", "macronutrient percentages must add up to 100%")
	}
	if g.WeightGoal <= 0 {
		return Goals{}, common.NewFieldValidationError("weight_goal", "weight goal must be greater than zero")
	}

	if err := s.store.SaveGoals(ctx, g); err != nil {
		return Goals{}, err
	}
	common.LogInfo("Goals updated", zap.Float64("calorie_target", g.CalorieTarget))
	return g, nil
}

// Clear 刪除所有紀錄並還原預設目標
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	common.LogInfo("All tracker data cleared")
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
