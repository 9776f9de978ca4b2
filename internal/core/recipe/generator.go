package recipe

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"nutritrack/internal/core/ingredient"
	"nutritrack/internal/core/nutrition"
	"nutritrack/internal/pkg/common"
)

// MaxSuggestions 每次最多回傳的建議數
const MaxSuggestions = 3

// minSelectedIngredients 組成一道菜所需的最少食材數
const minSelectedIngredients = 2

// mealTypeMatchBonus 符合餐別偏好的加分
const mealTypeMatchBonus = 10

// categoryNutrition 各分類每份的近似營養值
var categoryNutrition = map[ingredient.Category]nutrition.Nutrition{
	ingredient.CategoryProteins:   {Calories: 150, Protein: 25, Fat: 5, Carbs: 0},
	ingredient.CategoryVegetables: {Calories: 25, Protein: 2, Fat: 0, Carbs: 5},
	ingredient.CategoryGrains:     {Calories: 200, Protein: 6, Fat: 1, Carbs: 45},
	ingredient.CategoryDairy:      {Calories: 100, Protein: 8, Fat: 6, Carbs: 8},
	ingredient.CategoryOils:       {Calories: 120, Protein: 0, Fat: 14, Carbs: 0},
	ingredient.CategorySeasonings: {Calories: 5, Protein: 0, Fat: 0, Carbs: 1},
}

var fallbackNutrition = nutrition.Nutrition{Calories: 50, Protein: 2, Fat: 1, Carbs: 8}

// CategoryNutrition 分類的近似營養值，未知分類使用預設值
func CategoryNutrition(c ingredient.Category) nutrition.Nutrition {
	if n, ok := categoryNutrition[c]; ok {
		return n
	}
	return fallbackNutrition
}

// Suggestion 食譜建議，建立後不再修改
type Suggestion struct {
	TemplateID        TemplateID                        `json:"template_id"`
	Name              string                            `json:"name"`
	MealType          common.MealType                   `json:"meal_type"`
	Cuisine           string                            `json:"cuisine"`
	Description       string                            `json:"description"`
	CookingTime       string                            `json:"cooking_time"`
	Instructions      []string                          `json:"instructions"`
	Ingredients       []ingredient.RecognizedIngredient `json:"ingredients"`
	Nutrition         nutrition.Nutrition               `json:"nutrition"`
	MatchesPreference bool                              `json:"matches_preference"`
	Score             int                               `json:"score"`
}

// Generator 依模板產生食譜建議，無共享可變狀態
type Generator struct {
	catalog *Catalog
}

// NewGenerator 創建產生器
func NewGenerator(catalog *Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Catalog 使用中的模板目錄
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

// Generate 產生並排序建議，最多 MaxSuggestions 筆。
// cuisine 目前不參與篩選或排序。沒有可行模板時回傳空清單。
func (g *Generator) Generate(recognized []ingredient.RecognizedIngredient, mealPref common.MealType, cuisine string) []Suggestion {
	_ = cuisine

	if len(recognized) == 0 {
		return []Suggestion{}
	}

	present := make(map[ingredient.Category]bool, len(recognized))
	for _, r := range recognized {
		present[r.Category] = true
	}

	suggestions := make([]Suggestion, 0, len(g.catalog.templates))
	for _, t := range g.catalog.templates {
		if s, ok := buildSuggestion(t, recognized, present, mealPref); ok {
			suggestions = append(suggestions, s)
		}
	}

	// 同分時保留模板宣告順序
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

func buildSuggestion(t Template, recognized []ingredient.RecognizedIngredient, present map[ingredient.Category]bool, mealPref common.MealType) (Suggestion, bool) {
	for _, c := range t.Required {
		if !present[c] {
			return Suggestion{}, false
		}
	}

	selected := make([]ingredient.RecognizedIngredient, 0, len(recognized))
	for _, r := range recognized {
		if t.Accepts(r.Category) {
			selected = append(selected, r)
		}
	}
	if len(selected) < minSelectedIngredients {
		return Suggestion{}, false
	}

	names := make([]string, len(selected))
	items := make([]nutrition.Item, len(selected))
	for i, s := range selected {
		names[i] = s.DisplayName
		items[i] = nutrition.Item{PerUnit: CategoryNutrition(s.Category), Quantity: 1}
	}

	mealType := t.MealType
	if mealPref.Valid() {
		mealType = mealPref
	}
	matches := mealPref == common.MealTypeAny || mealPref == t.MealType

	score := len(selected)
	if matches {
		score += mealTypeMatchBonus
	}

	return Suggestion{
		TemplateID:        t.ID,
		Name:              capitalize(selected[0].DisplayName) + " & " + capitalize(selected[1].DisplayName) + " " + t.NameSuffix,
		MealType:          mealType,
		Cuisine:           t.Cuisine,
		Description:       t.Describe(strings.Join(names, ", ")),
		CookingTime:       t.CookingTime,
		Instructions:      append([]string(nil), t.Instructions...),
		Ingredients:       selected,
		Nutrition:         nutrition.Sum(items).Round(),
		MatchesPreference: matches,
		Score:             score,
	}, true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
