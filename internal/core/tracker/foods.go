package tracker

import "strings"

// SampleFood 快速新增用的常見食物，營養值為單份
type SampleFood struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

var sampleFoods = []SampleFood{
	{"Grilled Chicken Breast", 165, 31, 3.6, 0},
	{"Brown Rice (1 cup)", 216, 5, 1.8, 45},
	{"Broccoli (1 cup)", 25, 3, 0.3, 5},
	{"Banana", 105, 1.3, 0.4, 27},
	{"Almonds (1 oz)", 164, 6, 14, 6},
	{"Greek Yogurt (1 cup)", 130, 23, 0, 9},
	{"Oatmeal (1 cup)", 154, 6, 3, 28},
	{"Eggs (2 large)", 140, 12, 10, 1},
	{"Apple", 95, 0.5, 0.3, 25},
	{"Salmon (4 oz)", 206, 28, 9, 0},
}

// SampleFoods 回傳常見食物，query 不為空時以名稱子字串過濾（不分大小寫）
func SampleFoods(query string) []SampleFood {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]SampleFood, 0, len(sampleFoods))
	for _, f := range sampleFoods {
		if q == "" || strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

// Input 轉為紀錄輸入
func (f SampleFood) Input(meal MealSlot, quantity float64) FoodEntryInput {
	return FoodEntryInput{
		Meal:     meal,
		Name:     f.Name,
		Calories: f.Calories,
		Protein:  f.Protein,
		Fat:      f.Fat,
		Carbs:    f.Carbs,
		Quantity: quantity,
		Source:   SourceSample,
	}
}
