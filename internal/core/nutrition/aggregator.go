// Package nutrition 提供熱量與三大營養素的加總與目標計算，
// 每日紀錄與食譜建議共用同一套加總邏輯。
package nutrition

import "math"

// 每克熱量
const (
	CaloriesPerGramProtein = 4
	CaloriesPerGramCarbs   = 4
	CaloriesPerGramFat     = 9
)

// Nutrition 熱量與三大營養素
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Item 單位營養值與份量
type Item struct {
	PerUnit  Nutrition
	Quantity float64
}

// EffectiveQuantity 份量未提供（<= 0）時視為 1
func (i Item) EffectiveQuantity() float64 {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// Total 單一項目的總營養值
func (i Item) Total() Nutrition {
	return i.PerUnit.Scale(i.EffectiveQuantity())
}

// Add 相加
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fat:      n.Fat + o.Fat,
		Carbs:    n.Carbs + o.Carbs,
	}
}

// Scale 依份量縮放
func (n Nutrition) Scale(q float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * q,
		Protein:  n.Protein * q,
		Fat:      n.Fat * q,
		Carbs:    n.Carbs * q,
	}
}

// Round 四捨五入至整數
func (n Nutrition) Round() Nutrition {
	return Nutrition{
		Calories: math.Round(n.Calories),
		Protein:  math.Round(n.Protein),
		Fat:      math.Round(n.Fat),
		Carbs:    math.Round(n.Carbs),
	}
}

// MacroCalories 各營養素換算的熱量
func (n Nutrition) MacroCalories() (protein, fat, carbs float64) {
	return n.Protein * CaloriesPerGramProtein, n.Fat * CaloriesPerGramFat, n.Carbs * CaloriesPerGramCarbs
}

// Sum 加總所有項目（單位值 × 份量）。不會夾住負值，呼叫端須先驗證輸入。
func Sum(items []Item) Nutrition {
	var total Nutrition
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}
