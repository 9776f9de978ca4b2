package nutrition

import "math"

// MacroGrams 三大營養素目標克數
type MacroGrams struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// MacroTargets 由熱量目標與百分比換算目標克數
func MacroTargets(calorieTarget, proteinPct, fatPct, carbPct float64) MacroGrams {
	return MacroGrams{
		Protein: calorieTarget * proteinPct / 100 / CaloriesPerGramProtein,
		Fat:     calorieTarget * fatPct / 100 / CaloriesPerGramFat,
		Carbs:   calorieTarget * carbPct / 100 / CaloriesPerGramCarbs,
	}
}

// Progress 達成百分比，上限 100；目標 <= 0 時為 0
func Progress(amount, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, amount/target*100)
}

// Remaining 剩餘熱量，不小於 0
func Remaining(target, consumed float64) float64 {
	return math.Max(0, target-consumed)
}

// Split 實際熱量來源比例（百分比）；總和為 0 時全為 0
func Split(n Nutrition) (proteinPct, fatPct, carbPct float64) {
	p, f, c := n.MacroCalories()
	total := p + f + c
	if total == 0 {
		return 0, 0, 0
	}
	return p / total * 100, f / total * 100, c / total * 100
}
